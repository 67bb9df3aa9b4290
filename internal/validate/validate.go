// Package validate holds the field and record rules every write must pass
// before it reaches the store. Validators are pure: they normalize their
// input and report every failing field at once.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a ValidationError: the input was rejected and nothing was stored.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field failed validation.
func (e *Error) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *Error) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *Error) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Field returns a single-field validation error.
func Field(field, message string) error {
	return &Error{Fields: []FieldError{{Field: field, Message: message}}}
}

// Merge combines validation errors into one *Error. Nil entries are skipped.
// If any entry is not a validation error it is returned as is.
func Merge(errs ...error) error {
	merged := &Error{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ve *Error
		if !errors.As(err, &ve) {
			return err
		}
		merged.Fields = append(merged.Fields, ve.Fields...)
	}
	return merged.orNil()
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// text trims s and checks its length in characters. It records a failure
// under field and returns the trimmed value.
func text(e *Error, field, s string, min, max int) string {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	switch {
	case n == 0 && min > 0:
		e.add(field, "%s is required", field)
	case n < min:
		e.add(field, "%s must be at least %d characters", field, min)
	case max > 0 && n > max:
		e.add(field, "%s must be at most %d characters", field, max)
	}
	return s
}

func oneOf[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
