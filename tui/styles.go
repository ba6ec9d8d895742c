package tui

import (
	"vidbrief/theme"

	"github.com/charmbracelet/lipgloss"
)

// Colors that do not follow the theme
const (
	colorError      = "#FF0000"
	colorErrorText  = "#FAFAFA"
	colorSuccess    = "#04B575"
	colorHighlightF = "#0f172a"
)

// Styles for the TUI application, derived from the active palette
type Styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Info        lipgloss.Style
	Text        lipgloss.Style
	Accent      lipgloss.Style
	ErrorBanner lipgloss.Style
	Success     lipgloss.Style
	Box         lipgloss.Style
	Match       lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Card        lipgloss.Style
	CardFocused lipgloss.Style
	Row         lipgloss.Style
	RowSelected lipgloss.Style
	Time        lipgloss.Style
	Block       lipgloss.Style
	Fade        lipgloss.Style
	Modal       lipgloss.Style
	Key         lipgloss.Style
}

func newStyles(p theme.Palette) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text),

		Info: lipgloss.NewStyle().
			Foreground(p.Muted),

		Text: lipgloss.NewStyle().
			Foreground(p.Text),

		Accent: lipgloss.NewStyle().
			Foreground(p.Accent),

		ErrorBanner: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorErrorText)).
			Background(lipgloss.Color(colorError)).
			Padding(0, 1),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess)),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Grid).
			Padding(0, 1),

		Match: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorHighlightF)).
			Background(p.Highlight),

		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			Underline(true).
			Padding(0, 1),

		TabInactive: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Grid).
			Foreground(p.Text).
			Padding(0, 1),

		CardFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Foreground(p.Accent).
			Padding(0, 1),

		Row: lipgloss.NewStyle().
			Foreground(p.Text),

		RowSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),

		Time: lipgloss.NewStyle().
			Foreground(p.Muted),

		Block: lipgloss.NewStyle().
			Foreground(p.Text).
			MarginBottom(1),

		Fade: lipgloss.NewStyle().
			Foreground(p.Muted).
			Faint(true),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.Accent).
			Padding(1, 2),

		Key: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
	}
}
