package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError maps a form field name to the message of its first violated rule.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("field '%s': %s", field, e.Errors[field]))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validator wraps go-playground/validator with the content rules registered.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator. It panics if a custom rule cannot be registered,
// which only happens on programmer error.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomRules(v)

	return &Validator{validate: v}
}

// ValidateTraining checks a training session submission.
func (v *Validator) ValidateTraining(in TrainingInput) error {
	return v.Validate(in)
}

// ValidateProject checks a project submission.
func (v *Validator) ValidateProject(in ProjectInput) error {
	return v.Validate(in)
}

// Validate checks any registered input struct. Every field is evaluated; each
// failing field gets exactly one message. It returns nil or *ValidationError.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	type pick struct {
		rank    int
		message string
	}
	picked := make(map[string]pick)
	for _, fe := range validationErrors {
		structName, field := topLevelField(fe)
		rank, message := lookupMessage(structName, field, fe.Tag())
		if prev, ok := picked[field]; ok && prev.rank <= rank {
			continue
		}
		picked[field] = pick{rank: rank, message: message}
	}

	out := make(map[string]string, len(picked))
	for field, p := range picked {
		out[field] = p.message
	}
	return &ValidationError{Errors: out}
}

// topLevelField reduces "TrainingInput.images[1].size" to ("TrainingInput", "images").
func topLevelField(fe validator.FieldError) (string, string) {
	parts := strings.SplitN(fe.Namespace(), ".", 3)
	if len(parts) < 2 {
		return "", fe.Field()
	}
	field := parts[1]
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	return parts[0], field
}
