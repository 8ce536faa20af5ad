package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a state transition is not allowed
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when an invoice carries an unknown status
	ErrInvalidState = errors.New("invalid state")

	// ErrGuardFailed is returned when no guard of the trigger passes
	ErrGuardFailed = errors.New("guard condition failed")
)
