package player

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// Link is the fallback player used when no media player is available.
// It tracks the requested position so the UI can offer a timestamped link.
type Link struct {
	mu        sync.Mutex
	base      string
	position  float64
	playing   bool
	destroyed bool
}

// NewLink creates a link player for base, a watch or file URL
func NewLink(base string) *Link {
	return &Link{base: base}
}

// SeekTo records the position
func (l *Link) SeekTo(seconds float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.destroyed {
		return fmt.Errorf("link player destroyed")
	}
	l.position = math.Max(0, seconds)
	return nil
}

// Play marks the link as playing
func (l *Link) Play() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.destroyed {
		return fmt.Errorf("link player destroyed")
	}
	l.playing = true
	return nil
}

// Playing reports whether Play was called and the link not destroyed
func (l *Link) Playing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.playing
}

// Destroy disables the player
func (l *Link) Destroy() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.destroyed = true
	l.playing = false
	return nil
}

// Position returns the last requested position in seconds
func (l *Link) Position() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

// URL returns base with a t= offset when a position was requested
func (l *Link) URL() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	secs := int64(l.position)
	if secs <= 0 {
		return l.base
	}
	sep := "?"
	if strings.Contains(l.base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%st=%ds", l.base, sep, secs)
}
