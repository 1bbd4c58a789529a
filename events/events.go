package events

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeDayCommitted  EventType = "day_committed"
	EventTypeSessionOpened EventType = "session_opened"
	EventTypeFineRecorded  EventType = "fine_recorded"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// DayCommittedEvent fires after a collection day batch was persisted.
// Subscribers use it to refresh the roster for the committed session.
type DayCommittedEvent struct {
	LeadID       int64
	Day          time.Time
	DayRecordID  int64
	Created      bool
	PaymentCount int
	Total        decimal.Decimal
}

func (e DayCommittedEvent) Type() EventType {
	return EventTypeDayCommitted
}

// SessionOpenedEvent fires when a (lead, day) session loads its roster.
type SessionOpenedEvent struct {
	LeadID    int64
	Day       time.Time
	LoanCount int
}

func (e SessionOpenedEvent) Type() EventType {
	return EventTypeSessionOpened
}

// FineRecordedEvent fires after a fine was debited from a route's cash account.
type FineRecordedEvent struct {
	LeadID    int64
	AccountID int64
	Amount    decimal.Decimal
}

func (e FineRecordedEvent) Type() EventType {
	return EventTypeFineRecorded
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make([]Handler, 0)
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events from transactional bus")

	// Use background context for event emission to avoid issues with
	// transaction context expiration; events are processed independently
	// of the transaction lifecycle.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
