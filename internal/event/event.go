package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/CrashRound_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}

	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}

	return nil
}

// Round lifecycle and settlement event types
const (
	RoundStarted         Type = domain.EventTypeRoundStarted
	RoundCrashed         Type = domain.EventTypeRoundCrashed
	BetPlaced            Type = domain.EventTypeBetPlaced
	BetSettled           Type = domain.EventTypeBetSettled
	PersistenceFailed    Type = domain.EventTypePersistenceFailed
	PersistenceRecovered Type = domain.EventTypePersistenceRecovered
)

// Type-safe event constructors

// NewRoundStartedEvent creates a round.started event
func NewRoundStartedEvent(roundID, seedHash string, startTime time.Time, betCount int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RoundStarted,
		Payload: domain.RoundStartedPayload{
			RoundID:        roundID,
			ServerSeedHash: seedHash,
			StartTime:      startTime,
			BetCount:       betCount,
		},
		Metadata: map[string]interface{}{
			"round_id": roundID,
		},
	}
}

// NewRoundCrashedEvent creates a round.crashed event
func NewRoundCrashedEvent(payload domain.RoundCrashedPayload) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RoundCrashed,
		Payload: payload,
		Metadata: map[string]interface{}{
			"round_id": payload.RoundID,
		},
	}
}

// NewBetPlacedEvent creates a bet.placed event
func NewBetPlacedEvent(betID, participantID string, stake int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BetPlaced,
		Payload: domain.BetPlacedPayload{
			BetID:         betID,
			ParticipantID: participantID,
			Stake:         stake,
		},
		Metadata: nil,
	}
}

// NewBetSettledEvent creates a bet.settled event
func NewBetSettledEvent(payload domain.BetSettledPayload) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BetSettled,
		Payload: payload,
		Metadata: map[string]interface{}{
			"round_id": payload.RoundID,
			"reason":   payload.Reason,
		},
	}
}

// NewPersistenceFailedEvent creates a persistence.failed event
func NewPersistenceFailedEvent(kind, key string, attempts int, err error) Event {
	payload := domain.PersistenceFailedPayload{
		JobKind:  kind,
		JobKey:   key,
		Attempts: attempts,
	}
	if err != nil {
		payload.Error = err.Error()
	}
	return Event{
		Version:  EventSchemaVersion,
		Type:     PersistenceFailed,
		Payload:  payload,
		Metadata: nil,
	}
}

// NewPersistenceRecoveredEvent creates a persistence.recovered event
func NewPersistenceRecoveredEvent(kind, key string, attempts int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PersistenceRecovered,
		Payload: domain.PersistenceFailedPayload{
			JobKind:  kind,
			JobKey:   key,
			Attempts: attempts,
		},
		Metadata: nil,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously
// in subscription order.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
