package events

import (
	"context"
	"sync"

	"alcyxob/coaching-app/internal/domain"
)

// Handler consumes one published event.
type Handler func(ctx context.Context, event domain.Event)

// Bus is the publish/subscribe port the services depend on. Events are
// advisory: publication happens after persistence and is not
// transactional with it, so subscribers must tolerate lost or
// duplicated events and never treat them as the source of truth.
type Bus interface {
	Publish(ctx context.Context, event domain.Event) error
	Subscribe(eventType domain.EventType, handler Handler)
}

// InProcessBus dispatches events synchronously to subscribers in the
// same process.
type InProcessBus struct {
	mu       sync.RWMutex
	handlers map[domain.EventType][]Handler
}

func NewInProcessBus() *InProcessBus {
	return &InProcessBus{
		handlers: make(map[domain.EventType][]Handler),
	}
}

func (b *InProcessBus) Publish(ctx context.Context, event domain.Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, event)
	}
	return nil
}

func (b *InProcessBus) Subscribe(eventType domain.EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
