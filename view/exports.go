package view

import (
	"regexp"
	"strings"

	"vidbrief/config"
	"vidbrief/types"
)

// Summary export formats
const (
	FormatPDF = "pdf"
	FormatTXT = "txt"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Exports lists the download affordances for a result
type Exports struct {
	BaseName      string
	SRTFilename   string
	AudioFilename string
}

func newExports(r *types.ProcessingResult) Exports {
	return Exports{
		BaseName:      SanitizeFilename(r.Metadata.Title),
		SRTFilename:   r.SRTFilename,
		AudioFilename: r.AudioFilename,
	}
}

// HasSRT reports whether a subtitle file can be downloaded
func (e Exports) HasSRT() bool { return e.SRTFilename != "" }

// HasAudio reports whether the audio control is shown
func (e Exports) HasAudio() bool { return e.AudioFilename != "" }

// SummaryFilename returns "<base>_summary.<format>"
func (e Exports) SummaryFilename(format string) string {
	return e.BaseName + "_summary." + format
}

// SanitizeFilename reduces a title to [A-Za-z0-9_-], collapsing other runs
// to "_", trimming, and capping the length. An empty result becomes "video".
func SanitizeFilename(title string) string {
	name := unsafeFilenameChars.ReplaceAllString(title, "_")
	name = strings.Trim(name, "_-")
	if len(name) > config.MaxExportBaseLength {
		name = strings.TrimRight(name[:config.MaxExportBaseLength], "_-")
	}
	if name == "" {
		return "video"
	}
	return name
}
