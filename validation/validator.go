package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kbukum/authkit/errors"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors in the order they were recorded.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Fields returns the names of the failing fields in order.
func (v *Validator) Fields() []string {
	out := make([]string, len(v.errors))
	for i, e := range v.errors {
		out[i] = e.Field
	}
	return out
}

// Validate returns an AppError if there are validation errors, nil otherwise.
// Every recorded failure is listed under Details["fields"].
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}

	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = fmt.Sprintf("%s %s", e.Field, e.Message)
	}

	return errors.Validation(strings.Join(messages, "; ")).
		WithDetail("fields", v.errors)
}

// Required checks if a string is non-empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// Present checks a decoded JSON value. nil, empty and whitespace-only strings
// count as missing. Non-string scalars count as present.
func (v *Validator) Present(field string, value any) *Validator {
	switch val := value.(type) {
	case nil:
		v.AddError(field, "is required")
	case string:
		v.Required(field, val)
	case map[string]any, []any:
		v.AddError(field, "must be a scalar value")
	}
	return v
}

// MaxLength checks if a string is within max length in bytes.
func (v *Validator) MaxLength(field, value string, maxLen int) *Validator {
	if len(value) > maxLen {
		v.AddError(field, fmt.Sprintf("must be %d bytes or less", maxLen))
	}
	return v
}

// Pattern checks if a string matches a compiled pattern. Empty values are skipped.
func (v *Validator) Pattern(field, value string, re *regexp.Regexp) *Validator {
	if value == "" {
		return v
	}
	if !re.MatchString(value) {
		v.AddError(field, "does not match required format")
	}
	return v
}

// Custom applies a custom validation condition.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}
