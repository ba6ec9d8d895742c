package view

import (
	"regexp"
	"strings"
)

// NoSummary is the single block shown for an empty summary
const NoSummary = "No summary available."

var sentenceBreak = regexp.MustCompile(`\.\s+`)

// Summary is the summary panel
type Summary struct {
	Blocks      []string
	Placeholder bool
}

func newSummary(text string) Summary {
	blocks := SummaryBlocks(text)
	if len(blocks) == 0 {
		return Summary{Blocks: []string{NoSummary}, Placeholder: true}
	}
	return Summary{Blocks: blocks}
}

// SummaryBlocks splits text on a period followed by whitespace, drops empty
// pieces, and ends every block with exactly one period.
func SummaryBlocks(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var blocks []string
	for _, piece := range sentenceBreak.Split(text, -1) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if !strings.HasSuffix(piece, ".") {
			piece += "."
		}
		blocks = append(blocks, piece)
	}
	return blocks
}

// Content returns the text sent to the summary exporter
func (s Summary) Content() string {
	return strings.Join(s.Blocks, "\n\n")
}
