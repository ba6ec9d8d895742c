package view

import "unicode"

// NoTranscript is shown when the result carries no transcript
const NoTranscript = "No transcript available."

// Segment is a run of transcript text, highlighted when it matches the search
type Segment struct {
	Text      string
	Highlight bool
}

// Transcript is the searchable transcript panel
type Transcript struct {
	Text     string
	Query    string
	Segments []Segment
	Matches  int
}

func newTranscript(text string) Transcript {
	if text == "" {
		text = NoTranscript
	}
	t := Transcript{Text: text}
	t.Search("")
	return t
}

// Search recomputes highlights for a case-insensitive literal match of query.
// An empty query yields the original text as a single plain segment.
func (t *Transcript) Search(query string) {
	t.Query = query
	t.Segments, t.Matches = Highlight(t.Text, query)
}

// Highlight splits text into plain and matching segments
func Highlight(text, query string) ([]Segment, int) {
	if query == "" {
		return []Segment{{Text: text}}, 0
	}

	src := []rune(text)
	folded := foldRunes(src)
	needle := foldRunes([]rune(query))

	var (
		segments []Segment
		matches  int
		start    int
	)
	for i := 0; i+len(needle) <= len(folded); {
		if !runesEqual(folded[i:i+len(needle)], needle) {
			i++
			continue
		}
		if i > start {
			segments = append(segments, Segment{Text: string(src[start:i])})
		}
		segments = append(segments, Segment{Text: string(src[i : i+len(needle)]), Highlight: true})
		matches++
		i += len(needle)
		start = i
	}
	if start < len(src) {
		segments = append(segments, Segment{Text: string(src[start:])})
	}
	if len(segments) == 0 {
		segments = []Segment{{Text: text}}
	}
	return segments, matches
}

// Plain joins segments back into text
func Plain(segments []Segment) string {
	n := 0
	for _, s := range segments {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range segments {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

func foldRunes(r []rune) []rune {
	out := make([]rune, len(r))
	for i, c := range r {
		out[i] = unicode.ToLower(c)
	}
	return out
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
