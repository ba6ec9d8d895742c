// Package view maps one processing result onto the state of every panel.
package view

import (
	"context"
	"errors"
	"fmt"

	"vidbrief/config"
	"vidbrief/theme"
	"vidbrief/types"

	"github.com/sirupsen/logrus"
)

// NoWordFrequency is shown instead of a chart when there is no frequency data
const NoWordFrequency = "No word frequency data available."

// ErrNoPlayer is returned by SeekRow when no media player is attached
var ErrNoPlayer = errors.New("no media player available")

// State is everything the panels render. It is replaced field by field on
// every Apply and never merged with a previous result.
type State struct {
	Result      *types.ProcessingResult
	Metadata    Metadata
	Description Description
	Transcript  Transcript
	Subtitles   Subtitles
	Summary     Summary
	ChartData   []types.WordCount
	ChartEmpty  string
	Exports     Exports
	Recent      []types.RecentEntry
	PlayerErr   error

	// PlayerPending is set while the player for Result is being opened
	PlayerPending bool
}

// HasResult reports whether a result has been applied
func (s *State) HasResult() bool { return s.Result != nil }

// Seek is a subtitle seek resolved against the attached player
type Seek struct {
	Row     int
	Seconds float64
	Label   string
	player  Player
}

// Do moves the player to the row and starts playback. It talks to the
// player and may block, so callers run it off the UI loop.
func (sk Seek) Do() error {
	if sk.player == nil {
		return ErrNoPlayer
	}
	if err := sk.player.SeekTo(sk.Seconds); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	if err := sk.player.Play(); err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}
	return nil
}

// Synchronizer owns the view state and the player and chart it created
type Synchronizer struct {
	state     State
	width     int
	newPlayer PlayerFactory
	newChart  ChartFactory
	recent    Recorder
	theme     ThemeSource
	player    Player
	playerGen int
	chart     Chart
}

// Options wires the synchronizer to its collaborators. Nil factories disable that panel.
type Options struct {
	NewPlayer PlayerFactory
	NewChart  ChartFactory
	Recent    Recorder
	Theme     ThemeSource
	Width     int
}

// NewSynchronizer creates an empty synchronizer
func NewSynchronizer(opts Options) *Synchronizer {
	return &Synchronizer{
		width:     opts.Width,
		newPlayer: opts.NewPlayer,
		newChart:  opts.NewChart,
		recent:    opts.Recent,
		theme:     opts.Theme,
	}
}

// State returns the current view state
func (s *Synchronizer) State() *State { return &s.state }

// Chart returns the live chart, if any
func (s *Synchronizer) Chart() Chart { return s.chart }

// Player returns the live player, if any
func (s *Synchronizer) Player() Player { return s.player }

// SetRecent replaces the recent list shown alongside results
func (s *Synchronizer) SetRecent(list []types.RecentEntry) {
	s.state.Recent = list
}

func (s *Synchronizer) currentTheme() theme.Theme {
	if s.theme == nil {
		return theme.Dark
	}
	return s.theme.Current()
}

// Apply replaces every panel with the content of result and records it in
// the recent list. A nil result is rejected without touching the state.
//
// The previous player is detached and returned for the caller to destroy.
// The player for result is opened with PlayerLoader and installed with
// AttachPlayer, so neither blocks the caller.
func (s *Synchronizer) Apply(ctx context.Context, result *types.ProcessingResult) (Player, error) {
	if result == nil {
		return nil, fmt.Errorf("apply: nil result")
	}
	th := s.currentTheme()

	retired := s.player
	s.player = nil
	s.playerGen++
	s.state.PlayerErr = nil
	s.state.PlayerPending = s.newPlayer != nil

	s.state.Result = result
	s.state.Metadata = NewMetadata(result.Metadata)
	s.state.Description = newDescription(result.Metadata.Description, s.width, th)
	s.state.Transcript = newTranscript(result.Transcription)
	s.state.Subtitles = newSubtitles(result.Subtitles)
	s.state.Summary = newSummary(result.Summary)
	s.state.Exports = newExports(result)
	s.rebuildChart(result.WordFrequency, th)

	logrus.WithFields(logrus.Fields{
		"video_id":  result.ID(),
		"subtitles": len(result.Subtitles),
		"words":     len(result.WordFrequency),
	}).Info("Applied processing result")

	if s.recent != nil {
		list, err := s.recent.Record(ctx, result.RecentEntry())
		if err != nil {
			logrus.WithError(err).WithField("video_id", result.ID()).Warn("Failed to record recent video")
		} else {
			s.state.Recent = list
		}
	}
	return retired, nil
}

// PlayerLoader returns the generation of the current result and a function
// that opens its player. load is nil when there is nothing to open. load
// does not touch the synchronizer and may block.
func (s *Synchronizer) PlayerLoader() (gen int, load func() (Player, error)) {
	if s.newPlayer == nil || !s.state.HasResult() {
		return s.playerGen, nil
	}
	factory, videoID := s.newPlayer, s.state.Result.ID()
	return s.playerGen, func() (Player, error) {
		return factory(videoID)
	}
}

// AttachPlayer installs the outcome of a PlayerLoader call. It returns
// false when a newer result was applied in the meantime; the caller then
// owns p and must destroy it.
func (s *Synchronizer) AttachPlayer(gen int, p Player, err error) bool {
	if gen != s.playerGen || s.player != nil {
		return false
	}
	s.state.PlayerPending = false
	if err != nil {
		logrus.WithError(err).Warn("Failed to create player")
		s.state.PlayerErr = err
		return true
	}
	s.player = p
	return true
}

func (s *Synchronizer) rebuildChart(wf types.WordFrequency, th theme.Theme) {
	if s.chart != nil {
		s.chart.Destroy()
		s.chart = nil
	}

	s.state.ChartData = TopWords(wf, config.ChartMaxEntries)
	if len(s.state.ChartData) == 0 {
		s.state.ChartEmpty = NoWordFrequency
		return
	}
	s.state.ChartEmpty = ""
	if s.newChart != nil {
		s.chart = s.newChart(s.state.ChartData, th)
	}
}

// TopWords returns the first n entries in original order
func TopWords(wf types.WordFrequency, n int) []types.WordCount {
	if len(wf) > n {
		wf = wf[:n]
	}
	out := make([]types.WordCount, len(wf))
	copy(out, wf)
	return out
}

// Resize recomputes the description limit and collapses it
func (s *Synchronizer) Resize(width int) {
	s.width = width
	if !s.state.HasResult() {
		return
	}
	s.state.Description = newDescription(s.state.Description.Text, width, s.currentTheme())
}

// Width returns the last known viewport width
func (s *Synchronizer) Width() int { return s.width }

// ToggleDescription expands or collapses the description
func (s *Synchronizer) ToggleDescription() {
	s.state.Description.Toggle()
}

// Search updates the transcript highlight
func (s *Synchronizer) Search(query string) {
	s.state.Transcript.Search(query)
}

// SeekRow resolves subtitle row i against the attached player. The seek
// itself happens in Seek.Do.
func (s *Synchronizer) SeekRow(i int) (Seek, error) {
	rows := s.state.Subtitles.Rows
	if i < 0 || i >= len(rows) {
		return Seek{}, fmt.Errorf("subtitle row %d out of range", i)
	}
	if s.player == nil {
		return Seek{}, ErrNoPlayer
	}
	row := rows[i]
	return Seek{Row: i, Seconds: row.Start, Label: FormatTimestamp(row.Start), player: s.player}, nil
}

// ApplyTheme restyles the live chart and the description button
func (s *Synchronizer) ApplyTheme(t theme.Theme) {
	if s.chart != nil {
		s.chart.ApplyTheme(t)
	}
	s.state.Description.ButtonColor = theme.PaletteFor(t).ExpandButton
}

// Close releases the player and chart
func (s *Synchronizer) Close() {
	if s.player != nil {
		_ = s.player.Destroy()
		s.player = nil
	}
	if s.chart != nil {
		s.chart.Destroy()
		s.chart = nil
	}
}
