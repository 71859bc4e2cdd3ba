package form

import "errors"

var (
	// ErrSubmitInFlight is returned when the form is already validating or submitting.
	ErrSubmitInFlight = errors.New("submission already in progress")
	// ErrInvalidTransition indicates an illegal submission state change.
	ErrInvalidTransition = errors.New("invalid form state transition")
	// ErrClosed is returned by a form that has been closed.
	ErrClosed = errors.New("form closed")
)
