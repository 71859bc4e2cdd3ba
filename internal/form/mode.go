package form

// Mode is fixed when a form is built: either a new record or an edit of an
// existing one.
type Mode[R any] struct {
	existing *R
}

// New returns the create mode.
func New[R any]() Mode[R] {
	return Mode[R]{}
}

// Editing returns the edit mode for rec.
func Editing[R any](rec R) Mode[R] {
	return Mode[R]{existing: &rec}
}

// Existing returns the record under edit.
func (m Mode[R]) Existing() (R, bool) {
	if m.existing == nil {
		var zero R
		return zero, false
	}
	return *m.existing, true
}

// IsEditing reports whether the mode edits an existing record.
func (m Mode[R]) IsEditing() bool {
	return m.existing != nil
}
