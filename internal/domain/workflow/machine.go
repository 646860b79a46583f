package workflow

import "context"

// StateMachine tracks the current state of one application and validates transitions
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire reports whether trigger is configured in the current state and one of its guards passes
	CanFire(ctx context.Context, trigger Trigger) bool

	// Fire executes trigger, moving to the target of the first transition whose guard passes
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns the triggers CanFire accepts, in a stable order
	PermittedTriggers(ctx context.Context) []Trigger
}
