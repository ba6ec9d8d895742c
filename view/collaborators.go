package view

import (
	"context"

	"vidbrief/theme"
	"vidbrief/types"
)

// Player is the embedded media player for one video
type Player interface {
	SeekTo(seconds float64) error
	Play() error
	Destroy() error
}

// PlayerFactory creates a player bound to videoID
type PlayerFactory func(videoID string) (Player, error)

// Chart is a rendered word-frequency chart
type Chart interface {
	ApplyTheme(t theme.Theme)
	Destroy()
}

// ChartFactory builds a new chart for entries in the given theme
type ChartFactory func(entries []types.WordCount, t theme.Theme) Chart

// Recorder persists the recent list
type Recorder interface {
	Record(ctx context.Context, entry types.RecentEntry) ([]types.RecentEntry, error)
}

// ThemeSource reports the active theme
type ThemeSource interface {
	Current() theme.Theme
}
