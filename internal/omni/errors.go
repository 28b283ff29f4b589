package omni

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrMissingAPIKey is returned by New when no API key is configured.
	ErrMissingAPIKey = errors.New("omni API key is not configured")
	// ErrMissingBaseURL is returned by New when no base URL is configured.
	ErrMissingBaseURL = errors.New("omni base URL is not configured")
	// ErrAPI matches any non-success response.
	ErrAPI = errors.New("omni API error")
	// ErrTransport matches failures to reach the API at all.
	ErrTransport = errors.New("omni API unreachable")
	// ErrMissingModelID is returned when a model fetch names no model.
	ErrMissingModelID = errors.New("model id is required")
	// ErrModelNotFound is returned when a model name matches no record.
	ErrModelNotFound = errors.New("model not found")
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("omni API %s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("omni API %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Unwrap lets errors.Is(err, ErrAPI) match.
func (e *APIError) Unwrap() error {
	return ErrAPI
}
