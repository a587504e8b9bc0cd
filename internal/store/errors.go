package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a keyed record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable marks failures of the underlying database. Callers
	// may retry these.
	ErrUnavailable = errors.New("progress store unavailable")
)

// OpError describes a failed store operation. It matches both
// ErrUnavailable and the driver error through errors.Is.
type OpError struct {
	Op  string // e.g. "put mode progress"
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}

func unavailable(op string, err error) error {
	return &OpError{Op: op, Err: err}
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
