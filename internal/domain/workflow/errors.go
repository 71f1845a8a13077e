package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when no transition row matches the
	// requested action from the claim's current state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a state is not a valid claim status
	ErrInvalidState = errors.New("invalid state")
)
