package training

import "errors"

var (
	// ErrSessionNotFound indicates the training session doesn't exist.
	ErrSessionNotFound = errors.New("training session not found")
	// ErrMissingID indicates a delete was requested without a session id.
	ErrMissingID = errors.New("invalid session id for deletion")
	// ErrInvalidInput indicates invalid training session input.
	ErrInvalidInput = errors.New("invalid training session input")
)
