// Package apperrors defines the failure taxonomy surfaced by the API. Services
// wrap these sentinels with context; handlers map them to HTTP statuses in one
// place so no internal detail leaks in a 500 body.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	// ErrFetch marks an upstream page that answered with a non-success status
	// during metadata extraction.
	ErrFetch = errors.New("failed to fetch URL")
)

// Status maps an error to its HTTP status code. Anything outside the taxonomy
// is an internal error.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrFetch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the body text for an error. Internal errors get a generic
// message; taxonomy errors keep their own wording.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "an unexpected error occurred"
	}
	return err.Error()
}
