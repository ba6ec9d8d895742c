package client

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"vidbrief/config"
)

// ErrInvalidURL is returned for input that is not a video URL or id
var ErrInvalidURL = errors.New("please enter a valid YouTube URL")

var (
	videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	allowedHosts   = map[string]bool{
		"youtube.com":       true,
		"www.youtube.com":   true,
		"m.youtube.com":     true,
		"music.youtube.com": true,
		"youtu.be":          true,
	}
)

// NormalizeVideoURL trims input and returns a submittable URL.
// A bare 11-character video id is expanded to a watch URL.
func NormalizeVideoURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}
	if videoIDPattern.MatchString(raw) {
		return config.WatchURLPrefix + raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}
	if !allowedHosts[strings.ToLower(u.Hostname())] {
		return "", ErrInvalidURL
	}
	return u.String(), nil
}
