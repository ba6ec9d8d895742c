package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"vidbrief/client"
	"vidbrief/config"
	"vidbrief/downloads"
	"vidbrief/player"
	"vidbrief/recent"
	"vidbrief/view"

	"github.com/aymanbagabas/go-osc52/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// processVideo creates a command that submits one video
func processVideo(ctx context.Context, c *client.Client, seq int, videoURL, mode string) tea.Cmd {
	return func() tea.Msg {
		result, err := c.Process(ctx, videoURL, mode)
		return ProcessedMsg{Seq: seq, Result: result, Err: err}
	}
}

// loadRecent creates a command that reads the persisted recent list
func loadRecent(store *recent.Store) tea.Cmd {
	return func() tea.Msg {
		entries, err := store.List(context.Background())
		return RecentLoadedMsg{Entries: entries, Err: err}
	}
}

// exportSummary renders the summary on the backend and saves it as filename
func exportSummary(c *client.Client, sink downloads.Sink, content, format, title, filename string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		blob, err := c.ExportSummary(ctx, content, format, title)
		if err != nil {
			return SavedMsg{What: "summary", Err: err}
		}
		loc, err := sink.Save(ctx, filename, blob.Data, blob.ContentType)
		return SavedMsg{What: "summary", Location: loc, Err: err}
	}
}

// downloadExport fetches a backend artifact and saves it under its own name
func downloadExport(c *client.Client, sink downloads.Sink, what, filename string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		blob, err := c.FetchExport(ctx, filename)
		if err != nil {
			return SavedMsg{What: what, Err: err}
		}
		loc, err := sink.Save(ctx, filename, blob.Data, blob.ContentType)
		return SavedMsg{What: what, Location: loc, Err: err}
	}
}

// destroyer is anything holding an external player process
type destroyer interface {
	Destroy() error
}

// destroyPlayer releases p off the event loop
func destroyPlayer(p destroyer) tea.Cmd {
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		if err := p.Destroy(); err != nil {
			logrus.WithError(err).Warn("Failed to destroy player")
		}
		return nil
	}
}

// openPlayer runs a synchronizer player loader
func openPlayer(gen int, load func() (view.Player, error)) tea.Cmd {
	return func() tea.Msg {
		p, err := load()
		return PlayerReadyMsg{Gen: gen, Player: p, Err: err}
	}
}

// runSeek moves the player to a subtitle row
func runSeek(seek view.Seek) tea.Cmd {
	return func() tea.Msg {
		return SeekedMsg{Seek: seek, Err: seek.Do()}
	}
}

// openAudio starts the audio player for url
func openAudio(newAudio func(url string) (player.Audio, error), url string) tea.Cmd {
	return func() tea.Msg {
		a, err := newAudio(url)
		return AudioOpenedMsg{URL: url, Audio: a, Err: err}
	}
}

// toggleAudio flips play/pause
func toggleAudio(a player.Audio) tea.Cmd {
	return func() tea.Msg {
		playing, err := a.TogglePause()
		return AudioToggledMsg{Playing: playing, Err: err}
	}
}

// audioTick fires the next progress read
func audioTick(id int) tea.Cmd {
	return tea.Tick(config.AudioProgressInterval, func(_ time.Time) tea.Msg {
		return AudioTickMsg{ID: id}
	})
}

// readAudioProgress asks the audio player for its position
func readAudioProgress(a player.Audio, id int) tea.Cmd {
	return func() tea.Msg {
		p, err := a.Progress()
		return AudioProgressMsg{ID: id, Progress: p, Err: err}
	}
}

// fetchAudioDuration reads the duration of the exported audio file
func fetchAudioDuration(read func(url string) (float64, error), url string) tea.Cmd {
	return func() tea.Msg {
		d, err := read(url)
		return AudioDurationMsg{URL: url, Duration: d, Err: err}
	}
}

// copyToClipboard writes an OSC52 sequence so the terminal sets the clipboard.
// w is the program's output, which serializes it with rendered frames.
func copyToClipboard(w io.Writer, text string) tea.Cmd {
	return func() tea.Msg {
		seq := osc52.New(text)
		if os.Getenv("TMUX") != "" {
			seq = seq.Tmux()
		} else if os.Getenv("STY") != "" {
			seq = seq.Screen()
		}
		if _, err := seq.WriteTo(w); err != nil {
			return CopiedMsg{Err: fmt.Errorf("failed to copy: %w", err)}
		}
		return CopiedMsg{}
	}
}

// clearNotificationAfter hides notification id after the copy notice duration
func clearNotificationAfter(id int) tea.Cmd {
	return tea.Tick(config.CopyNotificationDuration, func(_ time.Time) tea.Msg {
		return ClearNotificationMsg{ID: id}
	})
}

// settleResize reports the width once resizing has paused
func settleResize(id, width int) tea.Cmd {
	return tea.Tick(config.ResizeDebounce, func(_ time.Time) tea.Msg {
		return ResizeSettledMsg{ID: id, Width: width}
	})
}
