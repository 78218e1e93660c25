package serialization

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedType indicates a payload value did not match the requested type.
	ErrUnexpectedType = errors.New("serialization: unexpected value type")
	// ErrNilFactory indicates an object value was requested without a factory.
	ErrNilFactory = errors.New("serialization: factory must not be nil")
)

// FieldError attributes a deserialization failure to a property key.
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("serialization: field %q: %v", e.Key, e.Err)
}

func (e *FieldError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TypeError builds an ErrUnexpectedType error describing the mismatch.
func TypeError(want string, got any) error {
	return fmt.Errorf("%w: want %s, got %T", ErrUnexpectedType, want, got)
}
