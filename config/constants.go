package config

import "time"

// Recent videos constants
const (
	// MaxRecentVideos caps the most-recently-used list
	MaxRecentVideos = 6

	// RecentVideosKey is the persistence key for the recent list (JSON array)
	RecentVideosKey = "recentVideos"

	// RecentScrollStep is how many items one scroll control press moves the strip
	RecentScrollStep = 1
)

// Theme constants
const (
	// ThemeKey is the persistence key for the theme preference (string literal)
	ThemeKey = "theme"
)

// View constants
const (
	// ChartMaxEntries is how many word-frequency entries the chart shows
	ChartMaxEntries = 20

	// DescriptionLimitNarrow is the truncation length on narrow viewports
	DescriptionLimitNarrow = 150

	// DescriptionLimitWide is the truncation length on wide viewports
	DescriptionLimitWide = 300

	// NarrowWidth is the widest viewport (in columns) still treated as narrow
	NarrowWidth = 80

	// MaxExportBaseLength bounds the sanitized title used in export filenames
	MaxExportBaseLength = 80

	// CopyNotificationDuration is how long the "Copied" notice stays visible
	CopyNotificationDuration = 2 * time.Second

	// ResizeDebounce delays description recomputation after a resize burst
	ResizeDebounce = 250 * time.Millisecond

	// AudioProgressInterval is how often the audio position is read while playing
	AudioProgressInterval = time.Second

	// AudioDurationTimeout bounds reading the audio duration
	AudioDurationTimeout = 15 * time.Second
)

// Backend constants
const (
	// DefaultBackendURL is used when VIDBRIEF_BACKEND_URL is unset
	DefaultBackendURL = "http://localhost:5000"

	// WatchURLPrefix builds a watch URL from a video id
	WatchURLPrefix = "https://www.youtube.com/watch?v="
)

// SummaryModes lists the summary_mode values offered by the selector.
// The empty mode lets the backend pick its default.
var SummaryModes = []string{"", "brief", "detailed", "bullet"}
