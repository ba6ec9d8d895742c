package tui

import (
	"vidbrief/player"
	"vidbrief/types"
	"vidbrief/view"
)

// Messages for the tea program

// ProcessedMsg is sent when a /process request finishes
type ProcessedMsg struct {
	Seq    int
	Result *types.ProcessingResult
	Err    error
}

// RecentLoadedMsg carries the persisted recent list at startup
type RecentLoadedMsg struct {
	Entries []types.RecentEntry
	Err     error
}

// SavedMsg is sent when an export or download has been written
type SavedMsg struct {
	What     string
	Location string
	Err      error
}

// CopiedMsg is sent after the transcript was sent to the clipboard
type CopiedMsg struct {
	Err error
}

// ClearNotificationMsg hides a transient notification
type ClearNotificationMsg struct {
	ID int
}

// ResizeSettledMsg fires once the window has stopped resizing
type ResizeSettledMsg struct {
	ID    int
	Width int
}

// PlayerReadyMsg carries the video player opened for result generation Gen
type PlayerReadyMsg struct {
	Gen    int
	Player view.Player
	Err    error
}

// SeekedMsg is sent once the player moved to a subtitle row
type SeekedMsg struct {
	Seek view.Seek
	Err  error
}

// AudioOpenedMsg carries the audio player started for URL
type AudioOpenedMsg struct {
	URL   string
	Audio player.Audio
	Err   error
}

// AudioToggledMsg reports the playback state after play/pause
type AudioToggledMsg struct {
	Playing bool
	Err     error
}

// AudioTickMsg schedules the next progress read while audio plays
type AudioTickMsg struct {
	ID int
}

// AudioProgressMsg carries the position read on tick ID
type AudioProgressMsg struct {
	ID       int
	Progress player.Progress
	Err      error
}

// AudioDurationMsg carries the duration read for URL
type AudioDurationMsg struct {
	URL      string
	Duration float64
	Err      error
}
