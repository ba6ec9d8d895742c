// Package metadata fills gaps in the backend's video metadata from the
// YouTube Data API.
package metadata

import (
	"context"
	"fmt"
	"os"

	"vidbrief/config"
	"vidbrief/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Enricher completes a processing result before it is returned and recorded
type Enricher interface {
	Enrich(ctx context.Context, res *types.ProcessingResult) error
}

// Noop leaves results untouched
type Noop struct{}

func (Noop) Enrich(context.Context, *types.ProcessingResult) error { return nil }

// YouTube reads snippet and statistics for a video id
type YouTube struct {
	service *youtube.Service
}

// NewYouTube authenticates with a service account file when one is set,
// otherwise with the API key. Extra options are appended last.
func NewYouTube(ctx context.Context, cfg config.YouTubeConfig, opts ...option.ClientOption) (*YouTube, error) {
	var auth []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account file: %w", err)
		}
		jwt, err := google.JWTConfigFromJSON(data, youtube.YoutubeReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account: %w", err)
		}
		auth = append(auth, option.WithHTTPClient(jwt.Client(ctx)))
	case cfg.APIKey != "":
		auth = append(auth, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, fmt.Errorf("youtube: no API key or credentials file configured")
	}

	service, err := youtube.NewService(ctx, append(auth, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}
	return &YouTube{service: service}, nil
}

// Open returns a YouTube enricher when cfg has credentials, Noop otherwise
func Open(ctx context.Context, cfg config.YouTubeConfig) Enricher {
	if !cfg.Enabled() {
		return Noop{}
	}
	y, err := NewYouTube(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Warn("YouTube metadata disabled")
		return Noop{}
	}
	logrus.Info("YouTube metadata enrichment enabled")
	return y
}

// Enrich fills empty metadata fields. Values sent by the backend win.
func (y *YouTube) Enrich(ctx context.Context, res *types.ProcessingResult) error {
	id := res.ID()
	if id == "" {
		return nil
	}
	resp, err := y.service.Videos.List([]string{"snippet", "statistics"}).Id(id).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("youtube: list video %s: %w", id, err)
	}
	if len(resp.Items) == 0 {
		logrus.WithField("video_id", id).Debug("YouTube has no such video")
		return nil
	}
	fill(&res.Metadata, resp.Items[0])
	return nil
}

func fill(md *types.Metadata, v *youtube.Video) {
	if sn := v.Snippet; sn != nil {
		setIfEmpty(&md.Title, sn.Title)
		setIfEmpty(&md.Author, sn.ChannelTitle)
		setIfEmpty(&md.Description, sn.Description)
		if len(sn.PublishedAt) >= len("2006-01-02") {
			setIfEmpty(&md.PublishDate, sn.PublishedAt[:len("2006-01-02")])
		}
		setIfEmpty(&md.Thumbnail, bestThumbnail(sn.Thumbnails))
	}
	if st := v.Statistics; st != nil && md.Views == 0 {
		md.Views = types.Count(st.ViewCount)
	}
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
