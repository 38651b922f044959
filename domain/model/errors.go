package model

import (
	"errors"
	"fmt"

	"ytcollector/domain/schema"
)

// NotFoundError is returned when a lookup by ID yields no resource.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// RemoteServiceError wraps any failure surfaced by the remote API or the
// network under it: quota exhausted, permission denied, comments disabled,
// connection reset, malformed body.
type RemoteServiceError struct {
	Op string
	// Status is the HTTP status code, 0 when no response was received.
	Status int
	// Reason is the API's machine-readable reason, e.g. "quotaExceeded".
	Reason string
	Err    error
}

func (e *RemoteServiceError) Error() string {
	msg := fmt.Sprintf("remote service: %s", e.Op)
	if e.Status != 0 {
		msg += fmt.Sprintf(": status %d", e.Status)
	}
	if e.Reason != "" {
		msg += fmt.Sprintf(" (%s)", e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

// InvalidInputError is returned for input the collector cannot interpret,
// such as a URL with no recognizable video ID.
type InvalidInputError struct {
	Input  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// IsVideoScoped reports whether err only spoils the video being processed.
// Any other error, storage failures in particular, ends the run.
func IsVideoScoped(err error) bool {
	var (
		notFound   *NotFoundError
		remote     *RemoteServiceError
		validation *schema.ValidationError
		invalid    *InvalidInputError
	)
	return errors.As(err, &notFound) ||
		errors.As(err, &remote) ||
		errors.As(err, &validation) ||
		errors.As(err, &invalid)
}
