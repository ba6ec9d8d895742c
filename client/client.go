package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vidbrief/types"
)

// Blob is a downloaded binary artifact
type Blob struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Client is a thin HTTP client for the video processing backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new backend client. A zero timeout leaves requests bounded
// only by their context.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewWithHTTPClient lets callers supply their own transport
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the backend root
func (c *Client) BaseURL() string { return c.baseURL }

// ExportURL returns the absolute URL of an exported artifact
func (c *Client) ExportURL(filename string) string {
	return c.baseURL + "/exports/" + url.PathEscape(filename)
}

// Process submits a video URL and decodes the result
func (c *Client) Process(ctx context.Context, videoURL, summaryMode string) (*types.ProcessingResult, error) {
	body, err := c.doJSONRequest(ctx, http.MethodPost, "/process", types.ProcessRequest{
		URL:         videoURL,
		SummaryMode: summaryMode,
	})
	if err != nil {
		return nil, err
	}

	result, err := types.DecodeProcessingResult(body.Data)
	if err != nil {
		return nil, malformedError(err)
	}
	return result, nil
}

// ExportSummary renders the summary server-side and returns the file
func (c *Client) ExportSummary(ctx context.Context, content, format, title string) (*Blob, error) {
	return c.doJSONRequest(ctx, http.MethodPost, "/export-summary", types.ExportRequest{
		Content: content,
		Format:  format,
		Title:   title,
	})
}

// FetchExport downloads an audio or subtitle artifact
func (c *Client) FetchExport(ctx context.Context, filename string) (*Blob, error) {
	if filename == "" {
		return nil, &Error{Kind: KindNotFound, Message: "no file to download"}
	}

	blob, err := c.doJSONRequest(ctx, http.MethodGet, "/exports/"+url.PathEscape(filename), nil)
	if err != nil {
		return nil, err
	}
	if blob.Filename == "" {
		blob.Filename = filename
	}
	return blob, nil
}

// doJSONRequest sends an optional JSON payload and returns the raw body.
// Non-2xx answers become a *Error of kind status or not_found.
func (c *Client) doJSONRequest(ctx context.Context, method, path string, payload interface{}) (*Blob, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, transportError("failed to create request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError("failed to send request", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError("failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, data)
	}

	return &Blob{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    filenameFromDisposition(resp.Header.Get("Content-Disposition")),
	}, nil
}

func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
