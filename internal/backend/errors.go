package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingID is returned when an operation needs a record id and none was given.
	ErrMissingID = errors.New("missing record id")
	// ErrMissingBaseURL indicates the backend base URL is not configured.
	ErrMissingBaseURL = errors.New("missing backend base url")
	// ErrInvalidBaseURL indicates the backend base URL is not absolute.
	ErrInvalidBaseURL = errors.New("invalid backend base url")
)

// DefaultErrorMessage is used when a failed response carries no message.
const DefaultErrorMessage = "Something went wrong"

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Message returns the user-facing message carried by err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}

// errorMessage pulls `message` out of an error body.
func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return payload.Message
	}
	return fallback
}
