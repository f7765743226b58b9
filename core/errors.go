package core

import "github.com/pkg/errors"

// FieldError pins a validation failure to a single input field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries an optional top-level message plus per-field errors.
// The API error handler renders Fields as a field-to-message map when present.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, fields ...FieldError) error {
	return &ValidationError{Err: err, Fields: fields}
}

func (e ValidationError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// shutdownError flags data-integrity faults that should take the service down.
type shutdownError struct {
	msg string
}

func NewShutdownError(msg string) error { return &shutdownError{msg: msg} }

func (e shutdownError) Error() string { return e.msg }

// IsShutdown reports whether err or its cause demands a graceful shutdown.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdownError)
	return ok
}
