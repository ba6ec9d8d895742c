package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingMetadata is returned when a payload decodes but carries no metadata block
var ErrMissingMetadata = errors.New("invalid response from server: missing metadata")

// ErrMissingVideoID is returned when a payload has no player_data.video_id
var ErrMissingVideoID = errors.New("invalid response from server: missing video id")

// ProcessRequest is the body sent to POST /process
type ProcessRequest struct {
	URL         string `json:"url"`
	SummaryMode string `json:"summary_mode,omitempty"`
}

// ExportRequest is the body sent to POST /export-summary
type ExportRequest struct {
	Content string `json:"content"`
	Format  string `json:"format"`
	Title   string `json:"title"`
}

// Metadata describes the processed video
type Metadata struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Views       Count  `json:"views"`
	PublishDate string `json:"publish_date"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// PlayerData identifies the video for the embedded player
type PlayerData struct {
	VideoID string `json:"video_id"`
}

// ProcessingResult is the decoded backend response for one submitted video.
// It is replaced wholesale on each submission. Only the gateway fills gaps
// in its metadata, before the result is shared.
type ProcessingResult struct {
	Metadata            Metadata      `json:"metadata"`
	PlayerData          PlayerData    `json:"player_data"`
	Transcription       string        `json:"transcription"`
	TranscriptionSource string        `json:"transcription_source,omitempty"`
	Summary             string        `json:"summary"`
	Subtitles           []Subtitle    `json:"subtitles"`
	WordFrequency       WordFrequency `json:"word_frequency"`
	AudioFilename       string        `json:"audio_filename,omitempty"`
	SRTFilename         string        `json:"srt_filename,omitempty"`
}

// ID returns the video identifier
func (r *ProcessingResult) ID() string {
	return r.PlayerData.VideoID
}

// RecentEntry builds the MRU record for this result
func (r *ProcessingResult) RecentEntry() RecentEntry {
	return RecentEntry{
		ID:        r.PlayerData.VideoID,
		Title:     r.Metadata.Title,
		Thumbnail: r.Metadata.Thumbnail,
	}
}

// DecodeProcessingResult decodes a /process payload.
// A payload without metadata or a video id is rejected as a whole.
func DecodeProcessingResult(data []byte) (*ProcessingResult, error) {
	var shape struct {
		Metadata   json.RawMessage `json:"metadata"`
		PlayerData *PlayerData     `json:"player_data"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(shape.Metadata) == 0 || bytes.Equal(bytes.TrimSpace(shape.Metadata), []byte("null")) {
		return nil, ErrMissingMetadata
	}
	if shape.PlayerData == nil || shape.PlayerData.VideoID == "" {
		return nil, ErrMissingVideoID
	}

	var result ProcessingResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// Subtitle is one timed caption in canonical form (seconds)
type Subtitle struct {
	Start float64 `json:"start_seconds"`
	End   float64 `json:"end_seconds"`
	Text  string  `json:"text"`
}

// UnmarshalJSON accepts start_seconds|start|startSeconds and the matching end
// keys, keeping the first non-zero value in that order.
func (s *Subtitle) UnmarshalJSON(data []byte) error {
	var raw struct {
		StartSeconds json.RawMessage `json:"start_seconds"`
		Start        json.RawMessage `json:"start"`
		StartCamel   json.RawMessage `json:"startSeconds"`
		EndSeconds   json.RawMessage `json:"end_seconds"`
		End          json.RawMessage `json:"end"`
		EndCamel     json.RawMessage `json:"endSeconds"`
		Text         string          `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Start = firstSeconds(raw.StartSeconds, raw.Start, raw.StartCamel)
	s.End = firstSeconds(raw.EndSeconds, raw.End, raw.EndCamel)
	s.Text = raw.Text
	return nil
}

func firstSeconds(candidates ...json.RawMessage) float64 {
	for _, c := range candidates {
		if v, ok := parseSeconds(c); ok && v != 0 {
			return v
		}
	}
	return 0
}

func parseSeconds(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Count is a view count that tolerates numeric strings on the wire
type Count int64

// UnmarshalJSON accepts 1234, 1234.0, "1234" and null
func (c *Count) UnmarshalJSON(data []byte) error {
	v, ok := parseSeconds(data)
	if !ok {
		*c = 0
		return nil
	}
	*c = Count(v)
	return nil
}

// WordCount is one word-frequency entry
type WordCount struct {
	Word  string
	Count int
}

// WordFrequency keeps the backend's key order, which decides what the chart shows
type WordFrequency []WordCount

// UnmarshalJSON walks the object token by token so entry order survives
func (w *WordFrequency) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*w = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("word_frequency: expected object, got %v", tok)
	}

	var out WordFrequency
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("word_frequency: expected string key, got %v", keyTok)
		}

		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("word_frequency[%s]: %w", key, err)
		}
		f, err := n.Float64()
		if err != nil {
			return fmt.Errorf("word_frequency[%s]: %w", key, err)
		}
		out = append(out, WordCount{Word: key, Count: int(f)})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*w = out
	return nil
}

// MarshalJSON writes the entries back as an object in the same order
func (w WordFrequency) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, wc := range w {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(wc.Word)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(wc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
