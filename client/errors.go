package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a backend failure
type Kind string

const (
	KindTransport Kind = "transport"
	KindStatus    Kind = "status"
	KindMalformed Kind = "malformed"
	KindNotFound  Kind = "not_found"
)

// Sentinels for errors.Is
var (
	ErrTransport = errors.New("transport error")
	ErrStatus    = errors.New("backend returned an error status")
	ErrMalformed = errors.New("malformed response")
	ErrNotFound  = errors.New("not found")
)

// Error is returned by every Client method
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrStatus:
		return e.Kind == KindStatus || e.Kind == KindNotFound
	case ErrMalformed:
		return e.Kind == KindMalformed
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// HTTPStatus maps the error onto the status a gateway should answer with
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindStatus:
		if e.Status >= 400 {
			return e.Status
		}
		return http.StatusBadGateway
	case KindMalformed:
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}

func transportError(op string, err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Message: fmt.Sprintf("%s: %v", op, err),
		Err:     err,
	}
}

func malformedError(err error) *Error {
	return &Error{
		Kind:    KindMalformed,
		Message: fmt.Sprintf("invalid response from server: %v", err),
		Err:     err,
	}
}

// statusError builds an error from a non-2xx response body. A JSON
// {"error": ...} message wins over a plain-text body, which wins over
// the status text.
func statusError(status int, body []byte) *Error {
	kind := KindStatus
	if status == http.StatusNotFound {
		kind = KindNotFound
	}

	return &Error{
		Kind:    kind,
		Status:  status,
		Message: messageFromBody(status, body),
	}
}

func messageFromBody(status int, body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}

	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}

	if statusText := http.StatusText(status); statusText != "" {
		return "request failed: " + statusText
	}
	return "request failed"
}
