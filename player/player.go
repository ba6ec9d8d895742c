// Package player provides the media players behind the subtitle seek and
// audio controls: mpv over IPC, or a link-only fallback.
package player

import (
	"errors"

	"vidbrief/config"
	"vidbrief/view"

	"github.com/sirupsen/logrus"
)

// ErrNoAudioPlayer is returned by NewAudio when no player can play audio
var ErrNoAudioPlayer = errors.New("no audio player available")

// Progress is the playback position of an audio file, in seconds
type Progress struct {
	Position float64
	Duration float64
}

// Fraction returns the played share in [0,1], or 0 when the duration is unknown
func (p Progress) Fraction() float64 {
	if p.Duration <= 0 {
		return 0
	}
	return min(max(p.Position/p.Duration, 0), 1)
}

// Audio is a play/pause control for an exported audio file
type Audio interface {
	TogglePause() (playing bool, err error)
	Progress() (Progress, error)
	Destroy() error
}

// Linker is implemented by players that can describe themselves as a URL
type Linker interface {
	URL() string
}

// NewFactory returns the video player factory selected by cfg.Player.
// mpv failures fall back to a link player so seeking still reports a position.
func NewFactory(cfg *config.Config) view.PlayerFactory {
	return func(videoID string) (view.Player, error) {
		watch := config.WatchURLPrefix + videoID
		if cfg.Player != "mpv" {
			return NewLink(watch), nil
		}
		p, err := StartMPV(cfg.MPVPath, watch, false)
		if err != nil {
			logrus.WithError(err).WithField("video_id", videoID).Warn("Falling back to link player")
			return NewLink(watch), nil
		}
		return p, nil
	}
}

// NewAudio starts an audio-only mpv on url. Without mpv it returns
// ErrNoAudioPlayer and the caller offers the link instead.
func NewAudio(cfg *config.Config, url string) (Audio, error) {
	if cfg.Player != "mpv" {
		return nil, ErrNoAudioPlayer
	}
	p, err := StartMPV(cfg.MPVPath, url, true)
	if err != nil {
		logrus.WithError(err).WithField("url", url).Warn("Audio player unavailable")
		return nil, errors.Join(ErrNoAudioPlayer, err)
	}
	return p, nil
}
