package view

import (
	"vidbrief/config"
	"vidbrief/theme"

	"github.com/charmbracelet/lipgloss"
)

// Description is the video description with its show more/less affordance
type Description struct {
	Text        string
	Limit       int
	Truncatable bool
	Expanded    bool
	ButtonColor lipgloss.Color
}

// DescriptionLimit returns the truncation limit for a viewport width
func DescriptionLimit(width int) int {
	if width <= config.NarrowWidth {
		return config.DescriptionLimitNarrow
	}
	return config.DescriptionLimitWide
}

// newDescription builds a collapsed description for the given width
func newDescription(text string, width int, t theme.Theme) Description {
	limit := DescriptionLimit(width)
	return Description{
		Text:        text,
		Limit:       limit,
		Truncatable: len([]rune(text)) > limit,
		ButtonColor: theme.PaletteFor(t).ExpandButton,
	}
}

// Toggle switches between collapsed and expanded; no-op when nothing is truncated
func (d *Description) Toggle() {
	if !d.Truncatable {
		return
	}
	d.Expanded = !d.Expanded
}

// FadeVisible reports whether the collapsed fade is shown
func (d Description) FadeVisible() bool {
	return d.Truncatable && !d.Expanded
}

// ButtonLabel is empty when no button is shown
func (d Description) ButtonLabel() string {
	switch {
	case !d.Truncatable:
		return ""
	case d.Expanded:
		return "Show less"
	default:
		return "Show more"
	}
}

// Display returns the visible text
func (d Description) Display() string {
	if !d.FadeVisible() {
		return d.Text
	}
	runes := []rune(d.Text)
	return string(runes[:d.Limit]) + "…"
}
