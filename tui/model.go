package tui

import (
	"context"
	"io"
	"os"

	"vidbrief/client"
	"vidbrief/config"
	"vidbrief/downloads"
	"vidbrief/player"
	"vidbrief/recent"
	"vidbrief/theme"
	"vidbrief/view"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab is one of the result panels
type Tab int

const (
	TabSummary Tab = iota
	TabTranscript
	TabSubtitles
	TabAnalytics
)

var tabNames = []string{"Summary", "Transcript", "Subtitles", "Analytics"}

func (t Tab) String() string { return tabNames[t] }

// Focus is the element receiving key input
type Focus int

const (
	FocusURL Focus = iota
	FocusMode
	FocusSearch
	FocusRecent
	FocusContent
)

const focusCount = 5

// Deps are the collaborators the model drives
type Deps struct {
	Client   *client.Client
	Sync     *view.Synchronizer
	Recent   *recent.Store
	Themes   *theme.Manager
	Sink     downloads.Sink
	NewAudio func(url string) (player.Audio, error)
	// AudioDuration reports the duration of an audio URL in seconds
	AudioDuration func(url string) (float64, error)
	// Clipboard receives OSC52 sequences; pass the program's Output
	Clipboard io.Writer
}

// Model represents the TUI client state
type Model struct {
	client      *client.Client
	sync        *view.Synchronizer
	recent      *recent.Store
	themes      *theme.Manager
	sink        downloads.Sink
	newAudio    func(url string) (player.Audio, error)
	audioLength func(url string) (float64, error)
	clipboard   io.Writer

	urlInput    textinput.Model
	searchInput textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model
	strip       *recent.Strip

	focus    Focus
	tab      Tab
	modeIdx  int
	showHelp bool

	// Submission state
	loading    bool
	showResult bool
	seq        int
	cancel     context.CancelFunc

	errBanner    string
	notification string
	notifyID     int

	subtitleCursor int

	// Audio state for the current result
	audio            player.Audio
	audioOpening     bool
	audioUnavailable bool
	audioPlaying     bool
	audioProgress    player.Progress
	audioTickID      int

	width    int
	height   int
	resizeID int
}

// NewModel creates a new TUI model
func NewModel(d Deps) Model {
	urlInput := textinput.New()
	urlInput.Placeholder = "Paste a YouTube URL or video id"
	urlInput.Prompt = "URL ▸ "
	urlInput.CharLimit = 2048
	urlInput.Focus()

	search := textinput.New()
	search.Placeholder = "Search transcript"
	search.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	clip := d.Clipboard
	if clip == nil {
		clip = os.Stderr
	}

	return Model{
		client:      d.Client,
		sync:        d.Sync,
		recent:      d.Recent,
		themes:      d.Themes,
		sink:        d.Sink,
		newAudio:    d.NewAudio,
		audioLength: d.AudioDuration,
		clipboard:   clip,
		urlInput:    urlInput,
		searchInput: search,
		spinner:     sp,
		viewport:    viewport.New(80, 12),
		strip:       recent.NewStrip(1, config.RecentScrollStep),
		focus:       FocusURL,
		tab:         TabSummary,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		loadRecent(m.recent),
	)
}

// SummaryMode returns the selected summary mode ("" is the backend default)
func (m Model) SummaryMode() string {
	return config.SummaryModes[m.modeIdx]
}

// Loading reports whether a submission is in flight
func (m Model) Loading() bool { return m.loading }

// ResultVisible reports whether the result area is shown
func (m Model) ResultVisible() bool { return m.showResult }

// ErrorBanner returns the visible error message, if any
func (m Model) ErrorBanner() string { return m.errBanner }

// ActiveTab returns the selected panel
func (m Model) ActiveTab() Tab { return m.tab }

// FocusedOn returns the focused element
func (m Model) FocusedOn() Focus { return m.focus }

// Seq returns the current submission sequence number
func (m Model) Seq() int { return m.seq }

// URLValue returns the URL input text
func (m Model) URLValue() string { return m.urlInput.Value() }

// Notification returns the transient notification text
func (m Model) Notification() string { return m.notification }

// HelpVisible reports whether the shortcuts modal is open
func (m Model) HelpVisible() bool { return m.showHelp }

// AudioPlaying reports whether the audio player is playing
func (m Model) AudioPlaying() bool { return m.audioPlaying }

// AudioProgress returns the last known audio position and duration
func (m Model) AudioProgress() player.Progress { return m.audioProgress }

// audioURL is where the current result's audio export is served
func (m Model) audioURL() string {
	st := m.sync.State()
	if !st.Exports.HasAudio() {
		return ""
	}
	return m.client.ExportURL(st.Exports.AudioFilename)
}

// resetAudio detaches the audio player of the previous result and returns
// the command that destroys it
func (m Model) resetAudio() (Model, tea.Cmd) {
	cmd := destroyPlayer(m.audio)
	m.audio = nil
	m.audioOpening = false
	m.audioUnavailable = false
	m.audioPlaying = false
	m.audioProgress = player.Progress{}
	m.audioTickID++
	return m, cmd
}

// progressBar renders the audio position in the palette's bar color
func (m Model) progressBar() string {
	bar := progress.New(
		progress.WithWidth(24),
		progress.WithoutPercentage(),
		progress.WithSolidFill(string(m.themes.Palette().Bar)),
	)
	return bar.ViewAs(m.audioProgress.Fraction())
}

// setFocus moves keyboard focus, blurring inputs that lose it
func (m Model) setFocus(f Focus) Model {
	m.focus = f
	m.urlInput.Blur()
	m.searchInput.Blur()
	switch f {
	case FocusURL:
		m.urlInput.Focus()
	case FocusSearch:
		m.searchInput.Focus()
	}
	return m
}

// inputFocused is true while a text input owns the keyboard
func (m Model) inputFocused() bool {
	return m.focus == FocusURL || m.focus == FocusSearch
}

// notify shows a transient notification and schedules its removal
func (m Model) notify(text string) (Model, tea.Cmd) {
	m.notifyID++
	m.notification = text
	return m, clearNotificationAfter(m.notifyID)
}

// refreshStrip recomputes recent card widths from the synchronizer state
func (m Model) refreshStrip() Model {
	entries := m.sync.State().Recent
	widths := make([]int, len(entries))
	st := m.styles()
	for i, e := range entries {
		widths[i] = lipgloss.Width(st.Card.Render(cardLabel(e.Title)))
	}
	m.strip.SetItems(widths)
	m.strip.SetViewport(m.contentWidth())
	return m
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width - 2
}

func (m Model) styles() Styles {
	return newStyles(m.themes.Palette())
}

// shutdown releases the in-flight request and external players
func (m Model) shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.audio != nil {
		_ = m.audio.Destroy()
	}
	m.sync.Close()
}
