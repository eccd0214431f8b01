package bookcrew

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Envelope is the response shape every backend endpoint uses.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Meta    *Meta           `json:"meta,omitempty"`
}

// Meta carries pagination metadata on list responses.
type Meta struct {
	TotalPage  int `json:"totalPage"`
	TotalCount int `json:"totalCount"`
}

// ErrUnreachable marks failures where no response was received at all
// (connection refused, DNS, context deadline). The UI maps these to the
// "check your connection" toast.
var ErrUnreachable = errors.New("bookcrew: backend unreachable")

// APIError is a backend-reported failure: a non-2xx status, or success:false
// delivered over HTTP 200. Message, when present, is the server's own text
// and is shown to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("bookcrew: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("bookcrew: status %d", e.Status)
}

// IsUnreachable reports whether err means no response was received.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// StatusOf returns the HTTP status of a backend failure, or 0 when the
// error carries none (network failures, decode errors).
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsForbidden reports whether err is a 403 from the backend.
func IsForbidden(err error) bool { return StatusOf(err) == http.StatusForbidden }

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

// Message returns the server-supplied message for err verbatim, or fallback
// when the error carries none.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
