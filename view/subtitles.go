package view

import (
	"fmt"
	"math"

	"vidbrief/types"
)

// NoSubtitles is shown when the result has no subtitle entries
const NoSubtitles = "No subtitles available for this video."

// SubtitleRow is one clickable subtitle line
type SubtitleRow struct {
	Start float64
	End   float64
	Label string
	Text  string
}

// Subtitles is the subtitle panel
type Subtitles struct {
	Rows        []SubtitleRow
	Placeholder string
}

func newSubtitles(subs []types.Subtitle) Subtitles {
	if len(subs) == 0 {
		return Subtitles{Placeholder: NoSubtitles}
	}
	rows := make([]SubtitleRow, len(subs))
	for i, s := range subs {
		text := s.Text
		if text == "" {
			text = "No text"
		}
		rows[i] = SubtitleRow{
			Start: s.Start,
			End:   s.End,
			Label: FormatTimestamp(s.Start) + " → " + FormatTimestamp(s.End),
			Text:  text,
		}
	}
	return Subtitles{Rows: rows}
}

// FormatTimestamp renders seconds as h:mm:ss, or m:ss under an hour.
// Negative and NaN inputs render as 0:00.
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
