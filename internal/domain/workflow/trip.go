package workflow

import (
	"context"
	"time"
)

// TripLifecycle is the transition table of business trip and expense applications.
//
//	pending  --approve--> approved
//	pending  --reject---> rejected
//	pending  --cancel---> cancelled
//	approved --cancel---> cancelled   (before the trip starts, or by an administrator)
//
// Expense applications carry no start date, so only an administrator cancels an
// approved one.
type TripLifecycle struct {
	builder StateMachineBuilder
}

// NewTripLifecycle configures the lifecycle. now is consulted by the cancellation guard.
func NewTripLifecycle(now func() time.Time) *TripLifecycle {
	if now == nil {
		now = time.Now
	}

	b := NewBuilder()
	b.Configure(StatePending).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerReject, StateRejected).
		Permit(TriggerCancel, StateCancelled)
	b.Configure(StateApproved).
		PermitIf(TriggerCancel, StateCancelled, func(ctx context.Context) bool {
			if HasAdminOverride(ctx) {
				return true
			}
			start, ok := TripStartFromContext(ctx)
			if !ok {
				return false
			}
			return now().Before(start)
		})

	return &TripLifecycle{builder: b}
}

// Machine returns a state machine positioned at the application's current status.
func (l *TripLifecycle) Machine(current State) StateMachine {
	return l.builder.Build(current)
}

type (
	tripStartKey     struct{}
	adminOverrideKey struct{}
)

// WithTripStart attaches the trip's start date for the cancellation guard.
func WithTripStart(ctx context.Context, start time.Time) context.Context {
	return context.WithValue(ctx, tripStartKey{}, start)
}

// TripStartFromContext returns the start date set by WithTripStart.
func TripStartFromContext(ctx context.Context) (time.Time, bool) {
	start, ok := ctx.Value(tripStartKey{}).(time.Time)
	return start, ok
}

// WithAdminOverride lifts the start-date restriction on cancelling approved applications.
func WithAdminOverride(ctx context.Context) context.Context {
	return context.WithValue(ctx, adminOverrideKey{}, true)
}

// HasAdminOverride reports whether WithAdminOverride was applied to ctx.
func HasAdminOverride(ctx context.Context) bool {
	override, _ := ctx.Value(adminOverrideKey{}).(bool)
	return override
}
