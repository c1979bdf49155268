package core

import "errors"

// Common errors.
var (
	// ErrPersistenceUnavailable wraps failures reading or writing the notes record.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	// ErrRecordNotFound is returned by a Repository that has never been saved to.
	ErrRecordNotFound = errors.New("notes record not found")
	// ErrCapabilityUnavailable means the host exposes no speech transcription.
	ErrCapabilityUnavailable = errors.New("speech transcription is not available")
	// ErrRecognitionStream marks a transient provider error during an active session.
	ErrRecognitionStream = errors.New("recognition stream error")
	ErrReadOnly          = errors.New("repository is in read-only mode")
	ErrEmptyContent      = errors.New("note content is empty")
	ErrInvalidTransition = errors.New("invalid capture transition")
)
