package tui

import (
	"context"
	"errors"
	"fmt"

	"vidbrief/client"
	"vidbrief/config"
	"vidbrief/player"
	"vidbrief/view"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case ResizeSettledMsg:
		return m.handleResizeSettled(msg)
	case ProcessedMsg:
		return m.handleProcessed(msg)
	case RecentLoadedMsg:
		return m.handleRecentLoaded(msg)
	case SavedMsg:
		return m.handleSaved(msg)
	case CopiedMsg:
		return m.handleCopied(msg)
	case PlayerReadyMsg:
		return m.handlePlayerReady(msg)
	case SeekedMsg:
		return m.handleSeeked(msg)
	case AudioOpenedMsg:
		return m.handleAudioOpened(msg)
	case AudioToggledMsg:
		return m.handleAudioToggled(msg)
	case AudioTickMsg:
		if msg.ID != m.audioTickID || m.audio == nil || !m.audioPlaying {
			return m, nil
		}
		return m, readAudioProgress(m.audio, msg.ID)
	case AudioProgressMsg:
		return m.handleAudioProgress(msg)
	case AudioDurationMsg:
		return m.handleAudioDuration(msg)
	case ClearNotificationMsg:
		if msg.ID == m.notifyID {
			m.notification = ""
		}
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m.forwardToInputs(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.shutdown()
		return m, tea.Quit
	}

	// any key dismisses the error banner
	if m.errBanner != "" {
		m.errBanner = ""
		return m, nil
	}

	if m.showHelp {
		if key == "?" || key == "esc" || key == "q" {
			m.showHelp = false
		}
		return m, nil
	}

	switch key {
	case "ctrl+s":
		return m.submit()
	case "ctrl+f":
		m.tab = TabTranscript
		m = m.setFocus(FocusSearch)
		return m.refreshContent(), nil
	case "tab":
		m = m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab":
		m = m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	}

	switch m.focus {
	case FocusURL:
		return m.handleURLKey(msg)
	case FocusSearch:
		return m.handleSearchKey(msg)
	case FocusMode:
		return m.handleModeKey(msg)
	case FocusRecent:
		return m.handleRecentKey(msg)
	default:
		return m.handleContentKey(msg)
	}
}

func (m Model) handleURLKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submit()
	case "esc":
		return m.setFocus(FocusContent), nil
	}
	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		return m.setFocus(FocusContent), nil
	}
	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		m.sync.Search(after)
		m = m.refreshContent()
	}
	return m, cmd
}

func (m Model) handleModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(config.SummaryModes)
	switch msg.String() {
	case "left", "h":
		m.modeIdx = (m.modeIdx + n - 1) % n
	case "right", "l", " ":
		m.modeIdx = (m.modeIdx + 1) % n
	case "enter":
		return m.submit()
	case "esc":
		return m.setFocus(FocusContent), nil
	default:
		return m.handleContentKey(msg)
	}
	return m, nil
}

func (m Model) handleRecentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.strip.MoveFocus(-1)
	case "right", "l":
		m.strip.MoveFocus(1)
	case "enter":
		return m.selectRecent(m.strip.Focus())
	case "esc":
		return m.setFocus(FocusContent), nil
	default:
		return m.handleContentKey(msg)
	}
	return m, nil
}

// handleContentKey runs the single-key shortcuts available when no input is focused
func (m Model) handleContentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.sync.State()

	switch key := msg.String(); key {
	case "q":
		m.shutdown()
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "1", "2", "3", "4":
		m.tab = Tab(key[0] - '1')
		m.subtitleCursor = 0
		m.viewport.GotoTop()
		return m.refreshContent(), nil
	case "t":
		m.themes.Toggle(context.Background())
		return m.refreshContent(), nil
	case "/":
		m.tab = TabTranscript
		m = m.setFocus(FocusSearch)
		return m.refreshContent(), nil
	case "u":
		return m.setFocus(FocusURL), nil
	case "[":
		m.strip.ScrollLeft()
		return m, nil
	case "]":
		m.strip.ScrollRight()
		return m, nil
	}

	if !st.HasResult() {
		return m, nil
	}

	switch msg.String() {
	case "c":
		return m, copyToClipboard(m.clipboard, st.Transcript.Text)
	case "e":
		m.sync.ToggleDescription()
		return m, nil
	case "p":
		return m.exportSummary(view.FormatPDF)
	case "x":
		return m.exportSummary(view.FormatTXT)
	case "s":
		if !st.Exports.HasSRT() {
			m.errBanner = "No subtitles available for download"
			return m, nil
		}
		return m, downloadExport(m.client, m.sink, "subtitles", st.Exports.SRTFilename)
	case "a":
		return m.toggleAudio()
	case "d":
		if !st.Exports.HasAudio() {
			m.errBanner = "No audio available for download"
			return m, nil
		}
		return m, downloadExport(m.client, m.sink, "audio", st.Exports.AudioFilename)
	case "up", "k":
		if m.tab == TabSubtitles {
			if m.subtitleCursor > 0 {
				m.subtitleCursor--
			}
			return m.refreshContent(), nil
		}
	case "down", "j":
		if m.tab == TabSubtitles {
			if m.subtitleCursor < len(st.Subtitles.Rows)-1 {
				m.subtitleCursor++
			}
			return m.refreshContent(), nil
		}
	case "enter":
		if m.tab == TabSubtitles {
			return m.seekSubtitle(m.subtitleCursor)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// submit validates the URL and issues one sequenced request, cancelling
// whatever submission was still in flight
func (m Model) submit() (tea.Model, tea.Cmd) {
	videoURL, err := client.NormalizeVideoURL(m.urlInput.Value())
	if err != nil {
		m.errBanner = err.Error()
		return m, nil
	}

	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.seq++

	m.showResult = false
	m.loading = true
	m.errBanner = ""

	logrus.WithFields(logrus.Fields{
		"seq":  m.seq,
		"url":  videoURL,
		"mode": m.SummaryMode(),
	}).Info("Submitting video")

	return m, tea.Batch(
		m.spinner.Tick,
		processVideo(ctx, m.client, m.seq, videoURL, m.SummaryMode()),
	)
}

// selectRecent refills the URL field with entry i and resubmits
func (m Model) selectRecent(i int) (tea.Model, tea.Cmd) {
	entries := m.sync.State().Recent
	if i < 0 || i >= len(entries) {
		return m, nil
	}
	m.urlInput.SetValue(entries[i].WatchURL())
	return m.submit()
}

// handleProcessed applies the current submission's result and drops stale ones
func (m Model) handleProcessed(msg ProcessedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.seq {
		logrus.WithFields(logrus.Fields{"seq": msg.Seq, "current": m.seq}).Debug("Discarding stale response")
		return m, nil
	}

	m.loading = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if msg.Err == nil && msg.Result == nil {
		msg.Err = fmt.Errorf("invalid response from server")
	}
	// a failed submission leaves the result area hidden
	if msg.Err != nil {
		logrus.WithError(msg.Err).WithField("seq", msg.Seq).Warn("Processing failed")
		m.errBanner = "Error processing video: " + errorMessage(msg.Err)
		return m, nil
	}

	retired, err := m.sync.Apply(context.Background(), msg.Result)
	if err != nil {
		m.errBanner = "Error processing video: " + err.Error()
		return m, nil
	}

	cmds := []tea.Cmd{destroyPlayer(retired)}
	if gen, load := m.sync.PlayerLoader(); load != nil {
		cmds = append(cmds, openPlayer(gen, load))
	}
	m, cmd := m.resetAudio()
	cmds = append(cmds, cmd)
	if url := m.audioURL(); url != "" && m.audioLength != nil {
		cmds = append(cmds, fetchAudioDuration(m.audioLength, url))
	}

	m.showResult = true
	m.subtitleCursor = 0
	m.searchInput.SetValue("")
	m.viewport.GotoTop()
	m = m.refreshStrip()
	return m.refreshContent(), tea.Batch(cmds...)
}

func (m Model) handlePlayerReady(msg PlayerReadyMsg) (tea.Model, tea.Cmd) {
	if !m.sync.AttachPlayer(msg.Gen, msg.Player, msg.Err) {
		return m, destroyPlayer(msg.Player)
	}
	return m, nil
}

func (m Model) handleSeeked(msg SeekedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errBanner = msg.Err.Error()
		return m, nil
	}
	m.viewport.GotoTop()
	return m.notify("▶ Playing from " + msg.Seek.Label)
}

func (m Model) handleRecentLoaded(msg RecentLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		logrus.WithError(msg.Err).Warn("Failed to load recent videos")
		return m, nil
	}
	m.sync.SetRecent(msg.Entries)
	return m.refreshStrip(), nil
}

func (m Model) handleSaved(msg SavedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		logrus.WithError(msg.Err).WithField("what", msg.What).Warn("Download failed")
		switch msg.What {
		case "summary":
			m.errBanner = "Export failed"
		case "subtitles":
			m.errBanner = "Failed to download SRT file. Please try again."
		default:
			m.errBanner = fmt.Sprintf("Failed to download %s: %s", msg.What, errorMessage(msg.Err))
		}
		return m, nil
	}
	logrus.WithFields(logrus.Fields{"what": msg.What, "location": msg.Location}).Info("Saved download")
	return m.notify("Saved " + msg.Location)
}

func (m Model) handleCopied(msg CopiedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errBanner = msg.Err.Error()
		return m, nil
	}
	return m.notify("Copied to clipboard!")
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	m.viewport.Width = m.contentWidth()
	m.viewport.Height = max(msg.Height-22, 6)
	m.urlInput.Width = max(msg.Width-40, 20)
	m.searchInput.Width = max(msg.Width-10, 20)
	m.strip.SetViewport(m.contentWidth())

	if m.sync.Width() == 0 {
		m.sync.Resize(msg.Width)
		return m.refreshContent(), nil
	}
	m.resizeID++
	return m.refreshContent(), settleResize(m.resizeID, msg.Width)
}

func (m Model) handleResizeSettled(msg ResizeSettledMsg) (tea.Model, tea.Cmd) {
	if msg.ID != m.resizeID {
		return m, nil
	}
	m.sync.Resize(msg.Width)
	return m.refreshContent(), nil
}

func (m Model) exportSummary(format string) (tea.Model, tea.Cmd) {
	st := m.sync.State()
	return m, exportSummary(
		m.client,
		m.sink,
		st.Summary.Content(),
		format,
		st.Metadata.Title,
		st.Exports.SummaryFilename(format),
	)
}

func (m Model) seekSubtitle(i int) (tea.Model, tea.Cmd) {
	seek, err := m.sync.SeekRow(i)
	if err != nil {
		if errors.Is(err, view.ErrNoPlayer) {
			if m.sync.State().PlayerPending {
				return m.notify("Player is starting, try again in a moment")
			}
			return m.notify("No media player available")
		}
		m.errBanner = err.Error()
		return m, nil
	}
	return m, runSeek(seek)
}

// noAudioPlayer is shown when audio can only be opened through its link
const noAudioPlayer = "No audio player available, open the audio link"

func (m Model) toggleAudio() (tea.Model, tea.Cmd) {
	url := m.audioURL()
	if url == "" {
		return m.notify("No audio available")
	}
	if m.audio != nil {
		return m, toggleAudio(m.audio)
	}
	if m.audioOpening {
		return m, nil
	}
	if m.newAudio == nil || m.audioUnavailable {
		return m.notify(noAudioPlayer)
	}
	m.audioOpening = true
	return m, openAudio(m.newAudio, url)
}

func (m Model) handleAudioOpened(msg AudioOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.URL != m.audioURL() || !m.audioOpening {
		// the result changed while the player started
		return m, destroyPlayer(msg.Audio)
	}
	m.audioOpening = false
	if msg.Err != nil {
		if errors.Is(msg.Err, player.ErrNoAudioPlayer) {
			m.audioUnavailable = true
			return m.notify(noAudioPlayer)
		}
		m.errBanner = "Audio playback failed: " + msg.Err.Error()
		return m, nil
	}
	m.audio = msg.Audio
	return m, toggleAudio(m.audio)
}

func (m Model) handleAudioToggled(msg AudioToggledMsg) (tea.Model, tea.Cmd) {
	if m.audio == nil {
		// released by a newer result
		return m, nil
	}
	if msg.Err != nil {
		m.errBanner = "Audio playback failed: " + msg.Err.Error()
		return m, nil
	}
	m.audioPlaying = msg.Playing
	m.audioTickID++
	if !msg.Playing {
		return m.notify("⏸ Audio paused")
	}
	m, cmd := m.notify("▶ Audio playing")
	return m, tea.Batch(cmd, readAudioProgress(m.audio, m.audioTickID))
}

func (m Model) handleAudioProgress(msg AudioProgressMsg) (tea.Model, tea.Cmd) {
	if msg.ID != m.audioTickID {
		return m, nil
	}
	if msg.Err != nil {
		logrus.WithError(msg.Err).Debug("Failed to read audio progress")
	} else {
		m.audioProgress.Position = msg.Progress.Position
		if msg.Progress.Duration > 0 {
			m.audioProgress.Duration = msg.Progress.Duration
		}
	}
	if !m.audioPlaying {
		return m, nil
	}
	return m, audioTick(msg.ID)
}

func (m Model) handleAudioDuration(msg AudioDurationMsg) (tea.Model, tea.Cmd) {
	if msg.URL != m.audioURL() {
		return m, nil
	}
	if msg.Err != nil {
		logrus.WithError(msg.Err).WithField("url", msg.URL).Debug("Failed to read audio duration")
		return m, nil
	}
	if m.audioProgress.Duration == 0 {
		m.audioProgress.Duration = msg.Duration
	}
	return m, nil
}

// forwardToInputs passes non-key messages (cursor blink) to the focused input
func (m Model) forwardToInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusURL:
		m.urlInput, cmd = m.urlInput.Update(msg)
	case FocusSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

// errorMessage prefers the backend's message over the wrapped chain
func errorMessage(err error) string {
	var ce *client.Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}
