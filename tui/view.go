package tui

import (
	"fmt"
	"strings"

	"vidbrief/config"
	"vidbrief/player"
	"vidbrief/view"

	"github.com/charmbracelet/lipgloss"
)

const cardLabelWidth = 24

// shortcuts are listed in the help modal
var shortcuts = [][2]string{
	{"ctrl+s", "Submit URL"},
	{"ctrl+f", "Search transcript"},
	{"tab / shift+tab", "Cycle focus"},
	{"1-4", "Switch tab"},
	{"t", "Toggle theme"},
	{"c", "Copy transcript"},
	{"e", "Expand description"},
	{"p / x", "Export summary as PDF / TXT"},
	{"s / d", "Download subtitles / audio"},
	{"a", "Play or pause audio"},
	{"↑ ↓ enter", "Select subtitle and seek"},
	{"[ ]", "Scroll recent videos"},
	{"?", "Toggle this help"},
	{"q / ctrl+c", "Quit"},
}

// View implements tea.Model interface
func (m Model) View() string {
	st := m.styles()

	if m.showHelp {
		return m.renderHelp(st)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(st))
	b.WriteString("\n\n")
	b.WriteString(m.renderForm(st))
	b.WriteString("\n")

	if m.errBanner != "" {
		b.WriteString(st.ErrorBanner.Render(m.errBanner))
		b.WriteString("\n")
	}

	if strip := m.renderStrip(st); strip != "" {
		b.WriteString("\n")
		b.WriteString(strip)
		b.WriteString("\n")
	}

	if m.loading {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(st.Info.Render(" Processing video..."))
		b.WriteString("\n")
	} else if m.showResult && m.sync.State().HasResult() {
		b.WriteString("\n")
		b.WriteString(m.renderResult(st))
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter(st))
	return b.String()
}

func (m Model) renderHeader(st Styles) string {
	title := st.Title.Render("▶ vidbrief")
	icon := st.Accent.Render(m.themes.Current().Icon())
	gap := m.contentWidth() - lipgloss.Width(title) - lipgloss.Width(icon)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + icon
}

func (m Model) renderForm(st Styles) string {
	var modes []string
	for i, mode := range config.SummaryModes {
		label := mode
		if label == "" {
			label = "default"
		}
		if i == m.modeIdx {
			if m.focus == FocusMode {
				modes = append(modes, st.TabActive.Render(label))
			} else {
				modes = append(modes, st.Accent.Render(label))
			}
			continue
		}
		modes = append(modes, st.TabInactive.Render(label))
	}
	return m.urlInput.View() + "\n" +
		st.Info.Render("Summary: ") + strings.Join(modes, " ")
}

// renderStrip draws the visible recent cards with scroll arrows
func (m Model) renderStrip(st Styles) string {
	entries := m.sync.State().Recent
	if m.strip.Hidden() || len(entries) == 0 {
		return ""
	}

	start, end := m.strip.Visible()
	var cards []string
	for i := start; i < end && i < len(entries); i++ {
		style := st.Card
		if m.focus == FocusRecent && i == m.strip.Focus() {
			style = st.CardFocused
		}
		cards = append(cards, style.Render(cardLabel(entries[i].Title)))
	}

	left, right := " ", " "
	if m.strip.CanScrollLeft() {
		left = "‹"
	}
	if m.strip.CanScrollRight() {
		right = "›"
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, cards...)
	return st.Info.Render("Recent videos") + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Center, st.Accent.Render(left), row, st.Accent.Render(right))
}

func (m Model) renderResult(st Styles) string {
	s := m.sync.State()
	var b strings.Builder

	b.WriteString(st.Subtitle.Render(s.Metadata.Title))
	b.WriteString("\n")
	var meta []string
	for _, part := range []string{s.Metadata.Author, s.Metadata.Views, s.Metadata.Date} {
		if part != "" {
			meta = append(meta, part)
		}
	}
	b.WriteString(st.Info.Render(strings.Join(meta, " • ")))
	b.WriteString("\n")

	if s.Description.Text != "" {
		b.WriteString(st.Text.Render(s.Description.Display()))
		if s.Description.FadeVisible() {
			b.WriteString(st.Fade.Render(" ░░"))
		}
		b.WriteString("\n")
		if label := s.Description.ButtonLabel(); label != "" {
			button := lipgloss.NewStyle().Foreground(s.Description.ButtonColor).Bold(true)
			b.WriteString(button.Render("[e] " + label))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.renderPlayer(st))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs(st))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	return b.String()
}

func (m Model) renderPlayer(st Styles) string {
	s := m.sync.State()
	var video string
	switch p := m.sync.Player().(type) {
	case nil:
		video = "No player"
		if s.PlayerPending {
			video = "Starting player…"
		} else if s.PlayerErr != nil {
			video = "Player unavailable: " + s.PlayerErr.Error()
		}
		video = st.Info.Render(video)
	case player.Linker:
		video = st.Info.Render("Watch: ") + st.Accent.Render(p.URL())
	default:
		video = st.Accent.Render("▶ mpv attached")
	}

	url := m.audioURL()
	if url == "" {
		return video
	}
	return video + "\n" + m.renderAudio(st, url)
}

// renderAudio shows the audio control, or the link when no player can play it
func (m Model) renderAudio(st Styles, url string) string {
	switch {
	case m.audioOpening:
		return st.Info.Render("Starting audio…")
	case m.audio == nil:
		label := "[a] Audio: "
		if m.audioUnavailable || m.newAudio == nil {
			label = "Audio: "
		}
		return st.Key.Render(label) + st.Accent.Render(url)
	}

	state := "[a] ▶ Play audio"
	if m.audioPlaying {
		state = "[a] ⏸ Pause audio"
	}
	line := st.Key.Render(state)
	if p := m.audioProgress; p.Duration > 0 {
		line += "  " + m.progressBar() + "  " +
			st.Time.Render(view.FormatTimestamp(p.Position)+" / "+view.FormatTimestamp(p.Duration))
	}
	return line
}

func (m Model) renderTabs(st Styles) string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if Tab(i) == m.tab {
			tabs[i] = st.TabActive.Render(label)
		} else {
			tabs[i] = st.TabInactive.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// refreshContent re-renders the active tab into the viewport
func (m Model) refreshContent() Model {
	if !m.sync.State().HasResult() {
		m.viewport.SetContent("")
		return m
	}
	st := m.styles()
	var content string
	switch m.tab {
	case TabSummary:
		content = m.renderSummary(st)
	case TabTranscript:
		content = m.renderTranscript(st)
	case TabSubtitles:
		content = m.renderSubtitles(st)
	case TabAnalytics:
		content = m.renderAnalytics(st)
	}
	m.viewport.SetContent(content)
	return m
}

func (m Model) renderSummary(st Styles) string {
	sum := m.sync.State().Summary
	if sum.Placeholder {
		return st.Info.Render(view.NoSummary)
	}
	width := m.contentWidth()
	blocks := make([]string, len(sum.Blocks))
	for i, block := range sum.Blocks {
		blocks[i] = st.Block.Width(width).Render(block)
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (m Model) renderTranscript(st Styles) string {
	tr := m.sync.State().Transcript
	var b strings.Builder
	b.WriteString(m.searchInput.View())
	if tr.Query != "" {
		b.WriteString(st.Info.Render(fmt.Sprintf("  %d matches", tr.Matches)))
	}
	b.WriteString("\n\n")

	var body strings.Builder
	for _, seg := range tr.Segments {
		if seg.Highlight {
			body.WriteString(st.Match.Render(seg.Text))
		} else {
			body.WriteString(st.Text.Render(seg.Text))
		}
	}
	b.WriteString(lipgloss.NewStyle().Width(m.contentWidth()).Render(body.String()))
	return b.String()
}

func (m Model) renderSubtitles(st Styles) string {
	subs := m.sync.State().Subtitles
	if len(subs.Rows) == 0 {
		return st.Info.Render(subs.Placeholder)
	}
	lines := make([]string, len(subs.Rows))
	for i, row := range subs.Rows {
		style := st.Row
		marker := "  "
		if i == m.subtitleCursor {
			style = st.RowSelected
			marker = "▸ "
		}
		lines[i] = marker + st.Time.Render(row.Label) + "  " + style.Render(row.Text)
	}
	return strings.Join(lines, "\n")
}

// renderer is implemented by charts that draw into the terminal
type renderer interface {
	Render(width int) string
}

func (m Model) renderAnalytics(st Styles) string {
	s := m.sync.State()
	if len(s.ChartData) == 0 {
		return st.Info.Render(s.ChartEmpty)
	}
	if r, ok := m.sync.Chart().(renderer); ok {
		return r.Render(m.contentWidth())
	}
	lines := make([]string, len(s.ChartData))
	for i, wc := range s.ChartData {
		lines[i] = fmt.Sprintf("%-16s %d", wc.Word, wc.Count)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter(st Styles) string {
	if m.notification != "" {
		return st.Success.Render(m.notification)
	}
	hint := "? help • tab focus • ctrl+s submit • q quit"
	if m.inputFocused() {
		hint = "? help • tab focus • esc leave input • ctrl+c quit"
	}
	return st.Info.Render(hint)
}

func (m Model) renderHelp(st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")
	for _, sc := range shortcuts {
		b.WriteString(st.Key.Render(fmt.Sprintf("%-18s", sc[0])))
		b.WriteString(st.Text.Render(sc[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(st.Info.Render("Press ? or esc to close"))
	return st.Modal.Render(b.String())
}

// cardLabel shortens a recent title to fit one card
func cardLabel(title string) string {
	if title == "" {
		title = "Untitled"
	}
	r := []rune(title)
	if len(r) <= cardLabelWidth {
		return title
	}
	return string(r[:cardLabelWidth-1]) + "…"
}
