package types

import (
	"encoding/json"
	"errors"
	"testing"
)

const samplePayload = `{
	"metadata": {"title": "Go Talk", "author": "Gopher", "views": 1234, "publish_date": "2024-03-01", "description": "d", "thumbnail": "http://img/1.jpg"},
	"player_data": {"video_id": "abc123"},
	"transcription": "hello world",
	"summary": "One. Two.",
	"subtitles": [
		{"start_seconds": 1.5, "end_seconds": 3, "text": "a"},
		{"start": 4, "end": "6.5", "text": "b"},
		{"startSeconds": 7, "endSeconds": 9, "text": "c"},
		{"start_seconds": 0, "start": 10, "end_seconds": 12, "text": "d"}
	],
	"word_frequency": {"zeta": 9, "alpha": 7, "mid": 3},
	"srt_filename": "abc.srt"
}`

func TestDecodeProcessingResult(t *testing.T) {
	res, err := DecodeProcessingResult([]byte(samplePayload))
	if err != nil {
		t.Fatalf("DecodeProcessingResult error: %v", err)
	}

	if res.ID() != "abc123" {
		t.Errorf("expected id abc123, got %s", res.ID())
	}
	if res.Metadata.Views != 1234 {
		t.Errorf("expected 1234 views, got %d", res.Metadata.Views)
	}
	if res.AudioFilename != "" || res.SRTFilename != "abc.srt" {
		t.Errorf("unexpected artifacts: audio=%q srt=%q", res.AudioFilename, res.SRTFilename)
	}

	wantSubs := []Subtitle{
		{Start: 1.5, End: 3, Text: "a"},
		{Start: 4, End: 6.5, Text: "b"},
		{Start: 7, End: 9, Text: "c"},
		{Start: 10, End: 12, Text: "d"},
	}
	if len(res.Subtitles) != len(wantSubs) {
		t.Fatalf("expected %d subtitles, got %d", len(wantSubs), len(res.Subtitles))
	}
	for i, want := range wantSubs {
		if res.Subtitles[i] != want {
			t.Errorf("subtitle %d = %+v; want %+v", i, res.Subtitles[i], want)
		}
	}

	wantWords := []string{"zeta", "alpha", "mid"}
	for i, w := range wantWords {
		if res.WordFrequency[i].Word != w {
			t.Errorf("word %d = %s; want %s (order must be preserved)", i, res.WordFrequency[i].Word, w)
		}
	}

	entry := res.RecentEntry()
	if entry.ID != "abc123" || entry.Title != "Go Talk" || entry.Thumbnail != "http://img/1.jpg" {
		t.Errorf("unexpected recent entry %+v", entry)
	}
}

func TestDecodeProcessingResultRejects(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    error
	}{
		{"no metadata", `{"player_data": {"video_id": "x"}}`, ErrMissingMetadata},
		{"null metadata", `{"metadata": null, "player_data": {"video_id": "x"}}`, ErrMissingMetadata},
		{"no video id", `{"metadata": {"title": "t"}}`, ErrMissingVideoID},
		{"empty video id", `{"metadata": {"title": "t"}, "player_data": {"video_id": ""}}`, ErrMissingVideoID},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := DecodeProcessingResult([]byte(c.payload))
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}

	if _, err := DecodeProcessingResult([]byte("<html>")); err == nil {
		t.Fatalf("expected error for non-JSON body")
	}
}

func TestWordFrequencyMarshalKeepsOrder(t *testing.T) {
	wf := WordFrequency{{Word: "b", Count: 2}, {Word: "a", Count: 1}}
	data, err := json.Marshal(wf)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if string(data) != `{"b":2,"a":1}` {
		t.Fatalf("unexpected encoding %s", data)
	}

	var empty WordFrequency
	if err := json.Unmarshal([]byte(`{}`), &empty); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no entries, got %d", len(empty))
	}

	if err := json.Unmarshal([]byte(`[1,2]`), &empty); err == nil {
		t.Fatalf("expected error for array input")
	}
}
