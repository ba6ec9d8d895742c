package player

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// formatReport is the part of ffmpeg's JSON report we read
type formatReport struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Duration  string `json:"duration"`
	} `json:"streams"`
}

// MediaDuration runs ffmpeg on a local file or URL and returns its length in seconds
func MediaDuration(target string, timeout time.Duration) (float64, error) {
	out, err := ffmpeg.ProbeWithTimeout(target, timeout, ffmpeg.KwArgs{})
	if err != nil {
		return 0, fmt.Errorf("ffmpeg %s: %w", target, err)
	}
	return parseDurationReport(out)
}

// parseDurationReport prefers the container duration and falls back to the
// first audio stream
func parseDurationReport(report string) (float64, error) {
	var p formatReport
	if err := json.Unmarshal([]byte(report), &p); err != nil {
		return 0, fmt.Errorf("decode ffmpeg output: %w", err)
	}

	candidates := []string{p.Format.Duration}
	for _, s := range p.Streams {
		if s.CodecType == "audio" {
			candidates = append(candidates, s.Duration)
		}
	}
	for _, c := range candidates {
		if c == "" || c == "N/A" {
			continue
		}
		d, err := strconv.ParseFloat(c, 64)
		if err == nil && d > 0 {
			return d, nil
		}
	}
	return 0, fmt.Errorf("ffmpeg reported no duration")
}
