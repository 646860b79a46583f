package service

import (
	"context"
	"time"

	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/workflow"
)

// guardContext carries what the lifecycle guards need to know about a transition
// requested by actor. start is zero for applications without a start date.
func guardContext(ctx context.Context, actor *entity.User, start time.Time) context.Context {
	if !start.IsZero() {
		ctx = workflow.WithTripStart(ctx, start)
	}
	if actor.IsAdmin() {
		ctx = workflow.WithAdminOverride(ctx)
	}
	return ctx
}

// actorMayFire reports whether actor's role permits trigger on an application owned
// by ownerID. The lifecycle still decides whether the transition is possible.
func actorMayFire(actor *entity.User, ownerID int64, trigger workflow.Trigger) bool {
	switch trigger {
	case workflow.TriggerApprove, workflow.TriggerReject:
		return actor.CanApprove()
	case workflow.TriggerCancel:
		return actor.ID == ownerID || actor.IsAdmin()
	default:
		return false
	}
}

// allowedActions lists the triggers actor can fire on an application right now
func allowedActions(ctx context.Context, lifecycle *workflow.TripLifecycle, actor *entity.User, ownerID int64, status string, start time.Time) []workflow.Trigger {
	machine := lifecycle.Machine(workflow.State(status))
	permitted := machine.PermittedTriggers(guardContext(ctx, actor, start))

	actions := make([]workflow.Trigger, 0, len(permitted))
	for _, trigger := range permitted {
		if actorMayFire(actor, ownerID, trigger) {
			actions = append(actions, trigger)
		}
	}
	return actions
}
