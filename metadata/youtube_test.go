package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"vidbrief/config"
	"vidbrief/types"

	"google.golang.org/api/option"
)

const videoList = `{
	"items": [{
		"id": "abcdefghijk",
		"snippet": {
			"title": "From YouTube",
			"channelTitle": "Gopher Channel",
			"description": "Long description",
			"publishedAt": "2024-03-01T10:00:00Z",
			"thumbnails": {"default": {"url": "d.jpg"}, "high": {"url": "h.jpg"}}
		},
		"statistics": {"viewCount": "4321"}
	}]
}`

func newTestYouTube(t *testing.T, body string, gotQuery *string) *YouTube {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotQuery != nil {
			*gotQuery = r.URL.RawQuery
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	y, err := NewYouTube(context.Background(), config.YouTubeConfig{APIKey: "key"}, option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatal(err)
	}
	return y
}

func TestEnrichFillsMissingFields(t *testing.T) {
	var query string
	y := newTestYouTube(t, videoList, &query)
	res := &types.ProcessingResult{
		Metadata:   types.Metadata{Title: "Backend title"},
		PlayerData: types.PlayerData{VideoID: "abcdefghijk"},
	}

	if err := y.Enrich(context.Background(), res); err != nil {
		t.Fatalf("Enrich error: %v", err)
	}
	md := res.Metadata
	if md.Title != "Backend title" {
		t.Errorf("backend title should win, got %q", md.Title)
	}
	if md.Author != "Gopher Channel" || md.PublishDate != "2024-03-01" || md.Views != 4321 {
		t.Errorf("unexpected metadata %+v", md)
	}
	if md.Thumbnail != "h.jpg" {
		t.Errorf("expected the largest thumbnail, got %q", md.Thumbnail)
	}
	if query == "" {
		t.Error("expected a videos.list request")
	}
}

func TestEnrichUnknownVideo(t *testing.T) {
	y := newTestYouTube(t, `{"items": []}`, nil)
	res := &types.ProcessingResult{PlayerData: types.PlayerData{VideoID: "zzzzzzzzzzz"}}
	if err := y.Enrich(context.Background(), res); err != nil {
		t.Fatalf("Enrich error: %v", err)
	}
	if res.Metadata != (types.Metadata{}) {
		t.Errorf("metadata should be untouched, got %+v", res.Metadata)
	}
}

func TestOpenWithoutCredentials(t *testing.T) {
	if _, ok := Open(context.Background(), config.YouTubeConfig{}).(Noop); !ok {
		t.Error("expected Noop without credentials")
	}
	if _, err := NewYouTube(context.Background(), config.YouTubeConfig{CredentialsFile: t.TempDir() + "/missing.json"}); err == nil {
		t.Error("expected an error for a missing credentials file")
	}
}
