package backend

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoBaseURL is returned when the client is built without a
	// backend URL.
	ErrNoBaseURL = errors.New("backend: base URL required")
)

// APIError represents a non-success HTTP response from the analysis
// service. It is a transport-level failure: the caller surfaces it to
// the feedback surface and moves on, each subsequent frame being an
// independent attempt.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the response body, truncated for display.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend: API error %d", e.StatusCode)
}

// IsServerError returns true for server-side errors (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// UserMessage returns a short human-readable description suitable for
// the feedback surface.
func (e *APIError) UserMessage() string {
	return fmt.Sprintf("Server error (%d)", e.StatusCode)
}
