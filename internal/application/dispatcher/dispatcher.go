package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/garyjia/travel-expense/internal/domain/event"
)

// ErrClosed is returned by Dispatch after Close
var ErrClosed = errors.New("dispatcher is closed")

// Dispatcher routes trip events to registered handlers
type Dispatcher interface {
	// Subscribe registers a handler under an auto-generated name
	Subscribe(eventType event.Type, handler Handler)

	// SubscribeNamed registers a handler; names are used by Unsubscribe and in logs
	SubscribeNamed(eventType event.Type, name string, handler Handler)

	// Unsubscribe removes every handler registered under name
	Unsubscribe(eventType event.Type, name string)

	// Dispatch runs all handlers in registration order and joins their errors
	Dispatch(ctx context.Context, evt *event.Event) error

	// DispatchAsync runs the handlers in the background. They are not cancelled when ctx is.
	DispatchAsync(ctx context.Context, evt *event.Event)

	// ListHandlers returns the registered handlers without their functions
	ListHandlers(eventType event.Type) []HandlerInfo

	// Close rejects new events and waits for running async handlers
	Close() error
}

// Logger is the logging dependency of the dispatcher
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type eventDispatcher struct {
	mu       sync.RWMutex
	handlers map[event.Type][]HandlerInfo
	seq      int
	logger   Logger

	wg     sync.WaitGroup
	closed atomic.Bool
}

// Option configures the dispatcher
type Option func(*eventDispatcher)

// WithLogger sets a logger for the dispatcher
func WithLogger(logger Logger) Option {
	return func(d *eventDispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates an in-process event dispatcher
func NewDispatcher(opts ...Option) Dispatcher {
	d := &eventDispatcher{
		handlers: make(map[event.Type][]HandlerInfo),
		logger:   nopLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *eventDispatcher) Subscribe(eventType event.Type, handler Handler) {
	d.mu.Lock()
	d.seq++
	name := fmt.Sprintf("handler-%d", d.seq)
	d.mu.Unlock()

	d.SubscribeNamed(eventType, name, handler)
}

func (d *eventDispatcher) SubscribeNamed(eventType event.Type, name string, handler Handler) {
	d.mu.Lock()
	d.handlers[eventType] = append(d.handlers[eventType], HandlerInfo{
		Name:      name,
		EventType: eventType,
		Handler:   handler,
	})
	d.mu.Unlock()

	d.logger.Info("Handler registered", "event_type", eventType, "handler_name", name)
}

func (d *eventDispatcher) Unsubscribe(eventType event.Type, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	kept := d.handlers[eventType][:0:0]
	for _, h := range d.handlers[eventType] {
		if h.Name != name {
			kept = append(kept, h)
		}
	}
	d.handlers[eventType] = kept
}

func (d *eventDispatcher) snapshot(eventType event.Type) []HandlerInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]HandlerInfo(nil), d.handlers[eventType]...)
}

func (d *eventDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	if d.closed.Load() {
		return ErrClosed
	}

	var errs []error
	for _, h := range d.snapshot(evt.Type) {
		if err := d.safeExecute(ctx, evt, h); err != nil {
			d.logger.Error("Handler failed",
				"event_type", evt.Type,
				"event_id", evt.ID,
				"handler_name", h.Name,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("handler %s: %w", h.Name, err))
		}
	}

	return errors.Join(errs...)
}

func (d *eventDispatcher) DispatchAsync(ctx context.Context, evt *event.Event) {
	if d.closed.Load() {
		d.logger.Error("Dropping event, dispatcher is closed", "event_type", evt.Type, "event_id", evt.ID)
		return
	}

	ctx = context.WithoutCancel(ctx)
	for _, h := range d.snapshot(evt.Type) {
		d.wg.Add(1)
		go func(h HandlerInfo) {
			defer d.wg.Done()
			if err := d.safeExecute(ctx, evt, h); err != nil {
				d.logger.Error("Async handler failed",
					"event_type", evt.Type,
					"event_id", evt.ID,
					"handler_name", h.Name,
					"error", err,
				)
			}
		}(h)
	}
}

func (d *eventDispatcher) ListHandlers(eventType event.Type) []HandlerInfo {
	handlers := d.snapshot(eventType)
	for i := range handlers {
		handlers[i].Handler = nil
	}
	return handlers
}

func (d *eventDispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	d.wg.Wait()
	d.logger.Info("Dispatcher closed")
	return nil
}

// safeExecute turns a handler panic into an error
func (d *eventDispatcher) safeExecute(ctx context.Context, evt *event.Event, h HandlerInfo) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handler(ctx, evt)
}
