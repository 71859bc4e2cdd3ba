package form

// State is the submission state of a form.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
)

// ValidateTransition checks a state change against the submission workflow:
// idle -> validating -> (idle | submitting), submitting -> idle.
func ValidateTransition(from, to State) error {
	valid := false
	switch from {
	case StateIdle:
		valid = to == StateValidating
	case StateValidating:
		valid = to == StateIdle || to == StateSubmitting
	case StateSubmitting:
		valid = to == StateIdle
	}
	if !valid {
		return ErrInvalidTransition
	}
	return nil
}
