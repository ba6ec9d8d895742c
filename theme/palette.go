package theme

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors that follow the theme
type Palette struct {
	Grid         lipgloss.Color
	Ticks        lipgloss.Color
	Legend       lipgloss.Color
	Bar          lipgloss.Color
	BarBorder    lipgloss.Color
	ExpandButton lipgloss.Color
	Text         lipgloss.Color
	Muted        lipgloss.Color
	Accent       lipgloss.Color
	Highlight    lipgloss.Color
	Error        lipgloss.Color
}

var (
	darkPalette = Palette{
		Grid:         "#334155",
		Ticks:        "#f1f5f9",
		Legend:       "#f1f5f9",
		Bar:          "#60a5fa",
		BarBorder:    "#3b82f6",
		ExpandButton: "#fff",
		Text:         "#f1f5f9",
		Muted:        "#94a3b8",
		Accent:       "#60a5fa",
		Highlight:    "#facc15",
		Error:        "#f87171",
	}

	lightPalette = Palette{
		Grid:         "#e2e8f0",
		Ticks:        "#1e293b",
		Legend:       "#1e293b",
		Bar:          "#2563eb",
		BarBorder:    "#1e40af",
		ExpandButton: "#000",
		Text:         "#1e293b",
		Muted:        "#64748b",
		Accent:       "#2563eb",
		Highlight:    "#fde047",
		Error:        "#dc2626",
	}
)

// PaletteFor returns the palette for t
func PaletteFor(t Theme) Palette {
	if t.IsDark() {
		return darkPalette
	}
	return lightPalette
}
