package view

import (
	"strings"
	"time"

	"vidbrief/types"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Metadata is the rendered header of a result
type Metadata struct {
	Title  string
	Author string
	Views  string
	Date   string
}

var viewsPrinter = message.NewPrinter(language.English)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"20060102",
}

// NewMetadata formats the raw metadata for display
func NewMetadata(m types.Metadata) Metadata {
	return Metadata{
		Title:  m.Title,
		Author: m.Author,
		Views:  FormatViews(int64(m.Views)),
		Date:   FormatDate(m.PublishDate),
	}
}

// FormatViews renders a grouped count such as "1,234 views"
func FormatViews(n int64) string {
	return viewsPrinter.Sprintf("%d views", n)
}

// FormatDate renders a publish date as "Jan 2, 2006", or returns raw when it cannot be parsed
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return raw
}
