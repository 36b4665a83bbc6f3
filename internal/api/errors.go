package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned when the backend has no admin session
	ErrUnauthorized = errors.New("authentication required")
	// ErrNotFound is returned for 404 responses
	ErrNotFound = errors.New("not found")
	// ErrValidation marks input rejected before any request is sent
	ErrValidation = errors.New("invalid input")
	// ErrInFlight is returned when the same action is already running
	ErrInFlight = errors.New("request already in flight")
)

// APIError is a failure reported by the backend, either as an HTTP error
// status or as a {"success": false, "error": ...} envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.Status, http.StatusText(e.Status))
	}
	if e.Status == 0 || e.Status == http.StatusOK {
		return e.Message
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// Is lets errors.Is match the sentinels by status
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// retryable reports whether a failed attempt may be repeated
func (e *APIError) retryable() bool {
	switch e.Status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return e.Status >= 500 && e.Status != http.StatusNotImplemented
}

func validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
