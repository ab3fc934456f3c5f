package signer

import "fmt"

// InputError names the caller supplied value that was rejected.
type InputError struct {
	Field  string
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// NewInputError creates a new InputError.
func NewInputError(field, reason string, err error) *InputError {
	return &InputError{
		Field:  field,
		Reason: reason,
		Err:    err,
	}
}
