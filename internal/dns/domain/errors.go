package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for provider error classification. Providers wrap these so
// callers can handle error categories without knowing the provider.
//
//	return fmt.Errorf("failed to create record: %w", domain.ErrConflict)
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates missing, invalid or under-scoped credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrConflict indicates a uniqueness conflict such as a duplicate record.
	ErrConflict = errors.New("conflict")
)

// APIError is a provider rejection that carried a structured error list.
type APIError struct {
	StatusCode int
	Messages   []string

	// Kind is one of the sentinels above, or nil when unclassified.
	Kind error
}

func (e *APIError) Error() string {
	msg := "unknown error"
	if len(e.Messages) > 0 {
		msg = strings.Join(e.Messages, "; ")
	}
	if e.Kind != nil {
		return fmt.Sprintf("%v: %s", e.Kind, msg)
	}
	return fmt.Sprintf("provider error (HTTP %d): %s", e.StatusCode, msg)
}

func (e *APIError) Unwrap() error { return e.Kind }

// FailureReason extracts the operator-facing reason from err: the provider's
// own error messages when present, otherwise the error text.
func FailureReason(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && len(apiErr.Messages) > 0 {
		return strings.Join(apiErr.Messages, "; ")
	}
	return err.Error()
}
