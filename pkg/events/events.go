// Package events is a synchronous in-process event bus.
package events

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Type identifies an event.
type Type string

const (
	CategoryCreated    Type = "category.created"
	TransactionCreated Type = "transaction.created"
)

// Category is the payload of CategoryCreated.
type Category struct {
	ID uuid.UUID
}

// Transaction is the payload of TransactionCreated.
type Transaction struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
}

// Event is the generic envelope used by the bus.
type Event struct {
	Type      Type
	Timestamp time.Time
	Data      any
}

// New creates an Event with the current time.
func New(t Type, data any) Event {
	return Event{
		Type:      t,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// EventT is a typed envelope used by typed handlers.
type EventT[T any] struct {
	Type      Type
	Timestamp time.Time
	Data      T
}

type handler func(Event) error

// Bus dispatches events to handlers synchronously. It is safe for concurrent use.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[Type]map[uint64]handler
	nextID      uint64
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[Type]map[uint64]handler),
	}
}

// Subscribe registers a handler for the event type. The returned function
// removes the handler and may be called any number of times.
func (b *Bus) Subscribe(t Type, h func(Event) error) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID

	if b.subscribers[t] == nil {
		b.subscribers[t] = make(map[uint64]handler)
	}
	b.subscribers[t][id] = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if handlers := b.subscribers[t]; handlers != nil {
			delete(handlers, id)
			if len(handlers) == 0 {
				delete(b.subscribers, t)
			}
		}
	}
}

// SubscribeTyped registers a handler that only receives events whose payload is a T.
//
// It is a function and not a method since methods cannot have type parameters.
func SubscribeTyped[T any](b *Bus, t Type, h func(EventT[T]) error) (unsubscribe func()) {
	return b.Subscribe(t, func(e Event) error {
		payload, ok := e.Data.(T)
		if !ok {
			log.Debug().Str("event", string(t)).Msgf("payload type mismatch: expected %T, got %T", *new(T), e.Data)
			return nil
		}

		return h(EventT[T]{
			Type:      e.Type,
			Timestamp: e.Timestamp,
			Data:      payload,
		})
	})
}

// Publish calls every handler registered for the event type, in the order of
// registration, before it returns. Handler errors and panics do not stop
// the remaining handlers, they are joined into the returned error.
func (b *Bus) Publish(e Event) error {
	b.mu.RLock()
	ids := make([]uint64, 0, len(b.subscribers[e.Type]))
	handlers := make(map[uint64]handler, len(b.subscribers[e.Type]))
	for id, h := range b.subscribers[e.Type] {
		ids = append(ids, id)
		handlers[id] = h
	}
	b.mu.RUnlock()

	// IDs are handed out in increasing order
	slices.Sort(ids)

	var errs []error
	for _, id := range ids {
		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("handler panic (ID %d) for event %s: %v", id, e.Type, r)
				}
			}()
			return handlers[id](e)
		}()
		if err != nil {
			log.Error().Err(err).Uint64("handler", id).Str("event", string(e.Type)).Msg("event handler failed")
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
