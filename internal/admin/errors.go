package admin

import (
	"errors"

	"github.com/hiyaw/hiyaw-admin/internal/notify"
)

var (
	// ErrFormNotFound indicates no open form has the given ID.
	ErrFormNotFound = errors.New("form not found")
	// ErrWrongFormKind indicates an operation for one kind of form was sent to another.
	ErrWrongFormKind = errors.New("form kind mismatch")
	// ErrRecordNotFound indicates the record to edit is not in the collection.
	ErrRecordNotFound = errors.New("record not found")
	// ErrConfirmationRequired indicates a delete was not confirmed.
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	// ErrMissingID indicates a delete without a record ID.
	ErrMissingID = errors.New("missing record id")
	// ErrNoFiles indicates a staging request without files.
	ErrNoFiles = errors.New("no files to stage")
	// ErrInvalidFileSource indicates a file source that cannot be loaded: no
	// path or content, or a path that is not allowed.
	ErrInvalidFileSource = errors.New("invalid file source")
)

// NoticeError is a failure that raised user-facing notices.
type NoticeError struct {
	Err     error
	Notices []notify.Notice
}

func (e *NoticeError) Error() string {
	return e.Err.Error()
}

func (e *NoticeError) Unwrap() error {
	return e.Err
}

// Notices returns the notices carried by err, if any.
func Notices(err error) []notify.Notice {
	var nerr *NoticeError
	if errors.As(err, &nerr) {
		return nerr.Notices
	}
	return nil
}
