package experiments

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no saved experiment matches the requested ID.
var ErrNotFound = errors.New("experiment not found")

// ErrAmbiguousID reports that an ID prefix matches more than one experiment.
var ErrAmbiguousID = errors.New("experiment id prefix is ambiguous")

// NotFoundError carries the ID that failed to resolve. It matches ErrNotFound
// under errors.Is.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("experiment %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ErrorKind classifies the failure for CLI exit handling.
func (e *NotFoundError) ErrorKind() string {
	return "not_found"
}
