package backing

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyKey indicates a property key was empty.
	ErrEmptyKey = errors.New("backing: key must not be empty")
	// ErrEmptySubscriptionID indicates Subscribe received an empty id.
	ErrEmptySubscriptionID = errors.New("backing: subscription id must not be empty")
	// ErrNilSubscriber indicates Subscribe received a nil callback.
	ErrNilSubscriber = errors.New("backing: subscriber must not be nil")
	// ErrFactorySealed indicates a Registry was overridden after it already
	// produced stores.
	ErrFactorySealed = errors.New("backing: factory already in use")
	// ErrNilFactory indicates Override received a nil factory.
	ErrNilFactory = errors.New("backing: factory must not be nil")
)

// StoreError captures the store operation and key alongside the originating
// error.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("backing: %s %s: %v", e.Op, describeKey(e.Key), e.Err)
}

func (e *StoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeKey(key string) string {
	if key == "" {
		return "key=<empty>"
	}
	return fmt.Sprintf("key=%q", key)
}

func storeError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var existing *StoreError
	if errors.As(err, &existing) {
		if existing.Op == "" {
			existing.Op = op
		}
		if existing.Key == "" {
			existing.Key = key
		}
		return existing
	}
	return &StoreError{Op: op, Key: key, Err: err}
}
