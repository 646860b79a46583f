package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a trigger is not configured for the current state
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrGuardFailed is returned when every transition for a trigger is guarded off
	ErrGuardFailed = errors.New("transition not allowed")
)
