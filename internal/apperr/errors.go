package apperr

import "fmt"

// ValidationError is a client input problem, rendered as 400.
// Field names the offending parameter when there is a single one.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// NewFieldValidation reports a problem with one parameter. The message is
// prefixed with the field name.
func NewFieldValidation(field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: field + " " + fmt.Sprintf(format, args...),
	}
}
