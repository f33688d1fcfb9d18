package task

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is wrapped by ValidationError when a required field is blank.
	ErrEmpty = errors.New("must not be empty")
	// ErrUnknownStatus is wrapped by ValidationError for an unrecognized lane.
	ErrUnknownStatus = errors.New("unknown status")
)

// ValidationError represents rejected user input.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an identifier that is not in the collection.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %d not found", e.ID)
}

// DecodeError reports a persisted value that could not be decoded.
type DecodeError struct {
	Path string // dot-notation path to the offending value, if known
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("decode tasks: %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("decode tasks: %s", e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
