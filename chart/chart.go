// Package chart draws the word-frequency bar chart for the terminal.
package chart

import (
	"vidbrief/theme"
	"vidbrief/types"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

// Label is the dataset legend
const Label = "Word Frequency"

// BarChart is a horizontal bar chart. A destroyed chart renders nothing.
type BarChart struct {
	entries   []types.WordCount
	palette   theme.Palette
	theme     theme.Theme
	destroyed bool
}

// New builds a chart for entries in theme t
func New(entries []types.WordCount, t theme.Theme) *BarChart {
	c := &BarChart{entries: append([]types.WordCount(nil), entries...)}
	c.ApplyTheme(t)
	return c
}

// ApplyTheme restyles the chart in place
func (c *BarChart) ApplyTheme(t theme.Theme) {
	c.theme = t
	c.palette = theme.PaletteFor(t)
}

// Theme returns the theme the chart is styled with
func (c *BarChart) Theme() theme.Theme { return c.theme }

// Destroy releases the chart
func (c *BarChart) Destroy() {
	c.destroyed = true
	c.entries = nil
}

// Destroyed reports whether Destroy was called
func (c *BarChart) Destroyed() bool { return c.destroyed }

// Entries returns the plotted data
func (c *BarChart) Entries() []types.WordCount { return c.entries }

// Render draws the chart into width columns, one bar per word
func (c *BarChart) Render(width int) string {
	if c.destroyed || len(c.entries) == 0 {
		return ""
	}

	legend := lipgloss.NewStyle().Foreground(c.palette.BarBorder).Render("■") + " " +
		lipgloss.NewStyle().Foreground(c.palette.Legend).Render(Label)

	bc := barchart.New(max(width, 20), 2*len(c.entries),
		barchart.WithDataSet(dataset(c.entries, lipgloss.NewStyle().Foreground(c.palette.Bar))),
		barchart.WithHorizontalBars(),
		barchart.WithBarGap(1),
		barchart.WithStyles(
			lipgloss.NewStyle().Foreground(c.palette.Grid),
			lipgloss.NewStyle().Foreground(c.palette.Ticks),
		),
	)
	bc.Draw()

	return lipgloss.JoinVertical(lipgloss.Left, legend, "", bc.View())
}

// dataset maps word counts onto one single-valued bar each, in input order
func dataset(entries []types.WordCount, style lipgloss.Style) []barchart.BarData {
	data := make([]barchart.BarData, len(entries))
	for i, e := range entries {
		data[i] = barchart.BarData{
			Label: e.Word,
			Values: []barchart.BarValue{{
				Name:  Label,
				Value: float64(e.Count),
				Style: style,
			}},
		}
	}
	return data
}
