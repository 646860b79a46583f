package dispatcher

import (
	"context"

	"github.com/garyjia/travel-expense/internal/domain/event"
)

// Handler processes domain events
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo describes a registered handler
type HandlerInfo struct {
	Name      string
	EventType event.Type
	Handler   Handler
}
