package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a claim or notification id does not exist
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the actor lacks the role or ownership
	// required for an action
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned when a concurrent transition on the same claim
	// won the race. Safe to retry once with fresh state.
	ErrConflict = errors.New("concurrent modification conflict")
)

// ValidationError reports input that falls outside the declared claim bounds.
// It collects every failed field so a caller can surface all problems at once.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Problems, "; "))
}

// Add records one failed check.
func (e *ValidationError) Add(format string, args ...interface{}) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// HasProblems reports whether any check failed.
func (e *ValidationError) HasProblems() bool {
	return len(e.Problems) > 0
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
