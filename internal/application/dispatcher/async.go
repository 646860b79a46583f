package dispatcher

import (
	"context"

	"github.com/garyjia/travel-expense/internal/domain/event"
)

type asyncDispatcher struct {
	Dispatcher
}

// Async wraps d so that Dispatch hands events to DispatchAsync and returns at once.
// Handler failures are logged by d instead of being returned. Close still waits for
// running handlers.
func Async(d Dispatcher) Dispatcher {
	return asyncDispatcher{Dispatcher: d}
}

func (a asyncDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	a.DispatchAsync(ctx, evt)
	return nil
}
