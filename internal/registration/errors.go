package registration

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClosed is returned for every submission while registrations are closed.
	ErrClosed = errors.New("registrations are closed")
	// ErrDuplicate is returned by the reject-on-duplicate policy on a match.
	ErrDuplicate = errors.New("duplicate registration")
)

// ValidationError lists the required fields that were empty.
type ValidationError struct {
	Missing []Field
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return "missing required fields: " + strings.Join(names, ", ")
}

// PersistenceError wraps a failed lookup or write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s registration: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
