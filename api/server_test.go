package api

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vidbrief/client"
	"vidbrief/config"
	"vidbrief/events"
	"vidbrief/recent"
	"vidbrief/store"
	"vidbrief/theme"
	"vidbrief/types"

	"github.com/gin-gonic/gin"
)

const backendResult = `{
	"metadata": {"title": "Talk", "author": "Gopher", "views": "42", "thumbnail": "t.jpg"},
	"player_data": {"video_id": "abcdefghijk"},
	"summary": "One. Two",
	"subtitles": [{"start": 1, "end": 2, "text": "hi"}]
}`

type capturePublisher struct {
	events []events.VideoProcessed
}

func (p *capturePublisher) Publish(_ context.Context, ev events.VideoProcessed) error {
	p.events = append(p.events, ev)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

type fixture struct {
	server *Server
	router *gin.Engine
	recent *recent.Store
	themes *theme.Manager
	pub    *capturePublisher
}

func newFixture(t *testing.T, backend http.HandlerFunc, limits config.RateLimitConfig) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	kv := store.NewMemory()
	f := &fixture{
		recent: recent.NewStore(kv),
		themes: theme.NewManager(context.Background(), kv, func() bool { return false }),
		pub:    &capturePublisher{},
	}
	f.server = NewServer(client.New(srv.URL, 5*time.Second), f.recent, f.themes, f.pub)
	f.router = NewRouter(f.server, limits)
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

var generous = config.RateLimitConfig{RequestsPerMinute: 600, Burst: 10}

func okBackend(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/process":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(backendResult))
	case r.URL.Path == "/export-summary":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="Talk_summary.pdf"`)
		_, _ = w.Write([]byte("%PDF"))
	case strings.HasPrefix(r.URL.Path, "/exports/"):
		if r.URL.Path == "/exports/missing.srt" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/x-subrip")
		_, _ = w.Write([]byte("1\n00:00:01,000 --> 00:00:02,000\nhi\n"))
	default:
		http.NotFound(w, r)
	}
}

func TestProcessRecordsAndPublishes(t *testing.T) {
	f := newFixture(t, okBackend, generous)

	w := f.do(http.MethodPost, "/process", `{"url":"https://youtu.be/abcdefghijk","summary_mode":"brief"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("expected a request id header")
	}

	var got struct {
		Subtitles []struct {
			Start float64 `json:"start_seconds"`
		} `json:"subtitles"`
		Metadata struct {
			Views int64 `json:"views"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Subtitles) != 1 || got.Subtitles[0].Start != 1 {
		t.Errorf("subtitles should be normalized, got %+v", got.Subtitles)
	}
	if got.Metadata.Views != 42 {
		t.Errorf("expected 42 views, got %d", got.Metadata.Views)
	}

	list, _ := f.recent.List(context.Background())
	if len(list) != 1 || list[0].ID != "abcdefghijk" || list[0].Thumbnail != "t.jpg" {
		t.Errorf("unexpected recent list %+v", list)
	}
	if len(f.pub.events) != 1 || f.pub.events[0].SummaryMode != "brief" {
		t.Errorf("unexpected events %+v", f.pub.events)
	}
}

// fillEnricher sets the description and fails when asked to
type fillEnricher struct {
	err error
}

func (e fillEnricher) Enrich(_ context.Context, res *types.ProcessingResult) error {
	if e.err != nil {
		return e.err
	}
	res.Metadata.Description = "from youtube"
	res.Metadata.Title = "Enriched " + res.Metadata.Title
	return nil
}

func TestProcessEnrichesMetadata(t *testing.T) {
	f := newFixture(t, okBackend, generous)
	f.server.UseEnricher(fillEnricher{})

	w := f.do(http.MethodPost, "/process", `{"url":"abcdefghijk"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "from youtube") {
		t.Errorf("response should carry enriched metadata: %s", w.Body.String())
	}
	list, _ := f.recent.List(context.Background())
	if len(list) != 1 || list[0].Title != "Enriched Talk" {
		t.Errorf("recent entry should use enriched metadata, got %+v", list)
	}

	// a failing lookup still returns the backend result
	f.server.UseEnricher(fillEnricher{err: context.DeadlineExceeded})
	if w := f.do(http.MethodPost, "/process", `{"url":"abcdefghijk"}`); w.Code != http.StatusOK {
		t.Errorf("enrichment failure should not fail the request, got %d", w.Code)
	}
}

func TestProcessValidation(t *testing.T) {
	f := newFixture(t, okBackend, generous)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"invalid url", `{"url":"https://example.com/watch?v=x"}`, http.StatusBadRequest},
		{"empty url", `{"url":""}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := f.do(http.MethodPost, "/process", tt.body); w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
	if len(f.pub.events) != 0 {
		t.Error("rejected requests must not publish")
	}
}

func TestProcessBackendErrorStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    int
		message string
	}{
		{"json error", http.StatusUnprocessableEntity, `{"error":"no captions"}`, http.StatusUnprocessableEntity, "no captions"},
		{"server error", http.StatusInternalServerError, "", http.StatusInternalServerError, "request failed: Internal Server Error"},
		{"malformed body", http.StatusOK, `{"summary":"x"}`, http.StatusBadGateway, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, generous)

			w := f.do(http.MethodPost, "/process", `{"url":"abcdefghijk"}`)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
			var body map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if tt.message != "" && body["error"] != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, body["error"])
			}
		})
	}
}

func TestProcessRateLimited(t *testing.T) {
	f := newFixture(t, okBackend, config.RateLimitConfig{RequestsPerMinute: 1, Burst: 1})

	if w := f.do(http.MethodPost, "/process", `{"url":"abcdefghijk"}`); w.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", w.Code)
	}
	if w := f.do(http.MethodPost, "/process", `{"url":"abcdefghijk"}`); w.Code != http.StatusTooManyRequests {
		t.Errorf("second request should be limited, got %d", w.Code)
	}
	if w := f.do(http.MethodGet, "/api/health", ""); w.Code != http.StatusOK {
		t.Errorf("health must not be limited, got %d", w.Code)
	}
}

func TestExportsStreamThrough(t *testing.T) {
	f := newFixture(t, okBackend, generous)

	w := f.do(http.MethodPost, "/export-summary", `{"content":"One.","format":"pdf","title":"Talk"}`)
	if w.Code != http.StatusOK || w.Body.String() != "%PDF" {
		t.Fatalf("unexpected export response %d %q", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "Talk_summary.pdf") {
		t.Errorf("unexpected disposition %q", cd)
	}

	if w := f.do(http.MethodPost, "/export-summary", `{"content":"x"}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing format should be rejected, got %d", w.Code)
	}

	w = f.do(http.MethodGet, "/exports/talk.srt", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "hi") {
		t.Errorf("unexpected srt response %d %q", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "talk.srt") {
		t.Errorf("expected filename fallback, got %q", cd)
	}

	if w := f.do(http.MethodGet, "/exports/missing.srt", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestExportFilenameIsQuoted(t *testing.T) {
	f := newFixture(t, okBackend, generous)

	w := f.do(http.MethodGet, "/exports/talk%22%3B%20x.srt", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("unparseable disposition %q: %v", w.Header().Get("Content-Disposition"), err)
	}
	if disposition != "attachment" || params["filename"] != `talk"; x.srt` {
		t.Errorf("unexpected disposition %q %v", disposition, params)
	}
}

func TestRecentEndpoints(t *testing.T) {
	f := newFixture(t, okBackend, generous)

	w := f.do(http.MethodGet, "/api/recent", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"recent":[]`) {
		t.Fatalf("unexpected empty list %d %s", w.Code, w.Body.String())
	}

	for i := 0; i < config.MaxRecentVideos+2; i++ {
		body := `{"id":"id` + string(rune('a'+i)) + `","title":"T"}`
		if w := f.do(http.MethodPost, "/api/recent", body); w.Code != http.StatusOK {
			t.Fatalf("record %d failed: %d", i, w.Code)
		}
	}
	if w := f.do(http.MethodPost, "/api/recent", `{"title":"no id"}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing id should be rejected, got %d", w.Code)
	}

	var got struct {
		Recent []struct {
			ID string `json:"id"`
		} `json:"recent"`
	}
	w = f.do(http.MethodGet, "/api/recent", "")
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Recent) != config.MaxRecentVideos {
		t.Fatalf("expected %d entries, got %d", config.MaxRecentVideos, len(got.Recent))
	}
	if got.Recent[0].ID != "idh" {
		t.Errorf("newest entry should come first, got %s", got.Recent[0].ID)
	}
}

func TestThemeEndpoints(t *testing.T) {
	f := newFixture(t, okBackend, generous)

	w := f.do(http.MethodGet, "/api/theme", "")
	if !strings.Contains(w.Body.String(), `"theme":"light"`) {
		t.Fatalf("detector said light, got %s", w.Body.String())
	}

	w = f.do(http.MethodPut, "/api/theme", `{"theme":"dark"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"class":"dark-theme"`) {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
	if f.themes.Current() != theme.Dark {
		t.Error("manager should be dark")
	}

	w = f.do(http.MethodPut, "/api/theme", `{"theme":"sepia"}`)
	if !strings.Contains(w.Body.String(), `"theme":"light"`) {
		t.Errorf("unknown values map to light, got %s", w.Body.String())
	}

	if w := f.do(http.MethodPut, "/api/theme", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing theme should be rejected, got %d", w.Code)
	}
}
