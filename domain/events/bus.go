package events

import (
	"context"
	"slices"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Handler receives one published event
type Handler func(ctx context.Context, event Event)

// Bus fans domain events out to subscribers. Every subscriber runs on its
// own goroutine, so Emit returns before any of them finish.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Handler
	inflight    sync.WaitGroup
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[EventType][]Handler)}
}

// Subscribe registers handler for eventType
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
	count := len(b.subscribers[eventType])
	b.mu.Unlock()

	log.WithFields(log.Fields{
		"eventType":   eventType,
		"subscribers": count,
	}).Debug("Event subscriber registered")
}

// SubscribeAll registers handler for each of types
func (b *Bus) SubscribeAll(handler Handler, types ...EventType) {
	for _, eventType := range types {
		b.Subscribe(eventType, handler)
	}
}

// Publish satisfies interfaces.EventPublisher. It always returns nil.
func (b *Bus) Publish(event Event) error {
	b.Emit(context.Background(), event)
	return nil
}

// Emit starts every subscriber of the event's type
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	subscribers := slices.Clone(b.subscribers[event.Type()])
	b.mu.RUnlock()

	if len(subscribers) == 0 {
		log.WithField("eventType", event.Type()).Debug("Event has no subscribers")
		return
	}

	b.inflight.Add(len(subscribers))
	for _, handler := range subscribers {
		go b.deliver(ctx, handler, event)
	}
}

// deliver runs one subscriber; a panic is logged and swallowed
func (b *Bus) deliver(ctx context.Context, handler Handler, event Event) {
	defer b.inflight.Done()
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"panic":     r,
			}).Error("Event subscriber panicked")
		}
	}()

	handler(ctx, event)
}

// Wait blocks until every subscriber started so far has returned
func (b *Bus) Wait() {
	b.inflight.Wait()
}
