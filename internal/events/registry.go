package events

import (
	"context"
	"sync"

	"github.com/dumu-tech/boomerang/internal/core"
)

// Handler handles one event. A nil Reply sends nothing back.
type Handler func(ctx context.Context, event core.Event) (core.Reply, error)

// Registry maps event types to their handlers, kept in registration order
type Registry struct {
	handlers map[core.EventType][]Handler
	mu       sync.RWMutex
}

// NewRegistry creates an empty handler registry
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[core.EventType][]Handler),
	}
}

// Register appends h to the handlers of eventType
func (r *Registry) Register(eventType core.EventType, h Handler) {
	if h == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[eventType] = append(r.handlers[eventType], h)
}

// Handle returns a registration function for eventType, so handlers can be
// declared next to the bot:
//
//	registry.Handle(core.EventMessageReceived)(onMessage)
func (r *Registry) Handle(eventType core.EventType) func(Handler) {
	return func(h Handler) {
		r.Register(eventType, h)
	}
}

// Handlers returns a snapshot of the handlers for eventType
func (r *Registry) Handlers(eventType core.EventType) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hs := r.handlers[eventType]
	if len(hs) == 0 {
		return nil
	}
	out := make([]Handler, len(hs))
	copy(out, hs)
	return out
}

// Len returns the number of handlers registered for eventType
func (r *Registry) Len(eventType core.EventType) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handlers[eventType])
}
