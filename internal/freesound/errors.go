package freesound

import "fmt"

// ErrAuthRequired indicates no usable API key was supplied or the
// service rejected the one given.
type ErrAuthRequired struct{}

func (e *ErrAuthRequired) Error() string { return "freesound: API key not configured or rejected" }

// ErrNotFound indicates the requested resource does not exist.
type ErrNotFound struct {
	URL string
}

func (e *ErrNotFound) Error() string { return fmt.Sprintf("freesound: %s not found", e.URL) }

// ErrUnavailable indicates a transient failure (rate limited,
// timeout, server error).
type ErrUnavailable struct {
	Cause error
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("freesound: service unavailable: %v", e.Cause)
}

func (e *ErrUnavailable) Unwrap() error { return e.Cause }

// ErrNoPreview indicates the sound exposes no preview rendition.
type ErrNoPreview struct {
	ID int64
}

func (e *ErrNoPreview) Error() string { return fmt.Sprintf("freesound: sound %d has no preview", e.ID) }
