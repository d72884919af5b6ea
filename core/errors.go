package core

import "github.com/pkg/errors"

// FieldError ties a validation failure to the offending input field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a request-level validation failure. Fields carries the
// per-field breakdown when one exists; Err alone covers whole-request
// failures (duplicate username, bad date string).
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

// FieldMap flattens Fields for API responses; nil when there is no
// per-field breakdown.
func (err ValidationError) FieldMap() map[string]string {
	if len(err.Fields) == 0 {
		return nil
	}
	m := make(map[string]string, len(err.Fields))
	for _, fld := range err.Fields {
		m[fld.Field] = fld.Error
	}
	return m
}

type shutdown struct {
	message string
}

// NewShutdownError flags an integrity problem the running process cannot
// recover from; the server error handler triggers a graceful shutdown on it.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
