package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hiyaw/hiyaw-admin/internal/admin"
	"github.com/hiyaw/hiyaw-admin/internal/backend"
	"github.com/hiyaw/hiyaw-admin/internal/form"
	"github.com/hiyaw/hiyaw-admin/internal/media"
	"github.com/hiyaw/hiyaw-admin/internal/notify"
	"github.com/hiyaw/hiyaw-admin/internal/preview"
	"github.com/hiyaw/hiyaw-admin/internal/validation"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string          `json:"code"`
	Message      string          `json:"message"`
	Details      any             `json:"details,omitempty"`
	RecoveryHint string          `json:"recovery_hint,omitempty"`
	Notices      []notify.Notice `json:"notices,omitempty"`
}

// Error renders the error as JSON so clients see the code and details in the
// tool result text.
func (e *APIError) Error() string {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(data)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to
// INTERNAL with the error text.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		return &APIError{Code: "VALIDATION_FAILED", Message: "form has invalid fields", Details: verr.Errors, RecoveryHint: "Fix the listed fields and submit again"}
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return &APIError{Code: "BACKEND_ERROR", Message: apiErr.Message, Details: map[string]int{"status": apiErr.StatusCode}}
	}

	switch {
	case errors.Is(err, admin.ErrFormNotFound):
		return &APIError{Code: "FORM_NOT_FOUND", Message: "form not found", RecoveryHint: "Open a new form"}
	case errors.Is(err, admin.ErrWrongFormKind):
		return &APIError{Code: "WRONG_FORM_KIND", Message: err.Error(), RecoveryHint: "Use the tool matching the form kind"}
	case errors.Is(err, admin.ErrRecordNotFound):
		return &APIError{Code: "RECORD_NOT_FOUND", Message: "record not found", RecoveryHint: "List the collection to find valid IDs"}
	case errors.Is(err, admin.ErrConfirmationRequired):
		return &APIError{Code: "CONFIRMATION_REQUIRED", Message: "delete not confirmed", RecoveryHint: "Ask the user, then call again with confirm=true"}
	case errors.Is(err, admin.ErrMissingID):
		return &APIError{Code: "MISSING_ID", Message: "record id is required"}
	case errors.Is(err, admin.ErrNoFiles), errors.Is(err, admin.ErrInvalidFileSource):
		return &APIError{Code: "INVALID_FILES", Message: err.Error(), RecoveryHint: "Pass name plus content_base64 per file; paths must lie inside the server media root"}
	case errors.Is(err, form.ErrSubmitInFlight):
		return &APIError{Code: "SUBMIT_IN_FLIGHT", Message: "a submission is in progress", RecoveryHint: "Wait for submit_form to return"}
	case errors.Is(err, form.ErrClosed), errors.Is(err, media.ErrClosed):
		return &APIError{Code: "FORM_CLOSED", Message: "form is closed", RecoveryHint: "Open a new form"}
	case errors.Is(err, media.ErrIndexOutOfRange):
		return &APIError{Code: "INDEX_OUT_OF_RANGE", Message: "no preview at that index", RecoveryHint: "Call describe_form for the current previews"}
	case errors.Is(err, media.ErrPersistedPreview):
		return &APIError{Code: "PERSISTED_PREVIEW", Message: "stored media cannot be removed here", RecoveryHint: "Stage replacement files instead"}
	case errors.Is(err, preview.ErrTooManyPreviews):
		return &APIError{Code: "TOO_MANY_PREVIEWS", Message: "too many staged files", RecoveryHint: "Close unused forms or clear staged media"}
	default:
		return &APIError{Code: "INTERNAL", Message: err.Error()}
	}
}
