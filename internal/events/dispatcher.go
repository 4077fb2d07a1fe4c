package events

import (
	"context"
	"sort"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Subscription identifies a registered handler so it can be torn down.
type Subscription interface {
	Cancel()
}

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler) Subscription
}

// inMemoryDispatcher is a simple synchronous dispatcher.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[EventType]map[int]EventHandler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[EventType]map[int]EventHandler),
	}
}

// Publish synchronously invokes handlers for the given event in
// registration order.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	ids := make([]int, 0, len(d.listeners[event.Type]))
	for id := range d.listeners[event.Type] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]EventHandler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, d.listeners[event.Type][id])
	}
	d.mu.RUnlock()

	for _, handler := range handlers {
		// a failing handler never blocks the rest
		_ = handler(ctx, event)
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.listeners[eventType] == nil {
		d.listeners[eventType] = make(map[int]EventHandler)
	}
	id := d.nextID
	d.nextID++
	d.listeners[eventType][id] = handler

	return &subscription{dispatcher: d, eventType: eventType, id: id}
}

type subscription struct {
	dispatcher *inMemoryDispatcher
	eventType  EventType
	id         int
	once       sync.Once
}

func (s *subscription) Cancel() {
	s.once.Do(func() {
		s.dispatcher.mu.Lock()
		defer s.dispatcher.mu.Unlock()
		delete(s.dispatcher.listeners[s.eventType], s.id)
	})
}
