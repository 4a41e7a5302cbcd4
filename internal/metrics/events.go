package metrics

import (
	"context"

	"github.com/osse101/CrashRound_Go/internal/domain"
	"github.com/osse101/CrashRound_Go/internal/event"
	"github.com/osse101/CrashRound_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.RoundStarted,
		event.RoundCrashed,
		event.BetPlaced,
		event.BetSettled,
		event.PersistenceFailed,
		event.PersistenceRecovered,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.RoundStarted:
		RoundsStarted.Inc()

	case event.RoundCrashed:
		payload, err := event.DecodePayload[domain.RoundCrashedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
			return nil
		}
		RoundsCrashed.Inc()
		CrashPoints.Observe(payload.CrashPoint)

	case event.BetPlaced:
		payload, err := event.DecodePayload[domain.BetPlacedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
			return nil
		}
		BetsPlaced.Inc()
		StakeTotal.Add(float64(payload.Stake))

	case event.BetSettled:
		payload, err := event.DecodePayload[domain.BetSettledPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
			return nil
		}
		BetsSettled.WithLabelValues(payload.Reason).Inc()
		PayoutTotal.Add(float64(payload.Payout))

	case event.PersistenceFailed, event.PersistenceRecovered:
		payload, err := event.DecodePayload[domain.PersistenceFailedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
			return nil
		}
		if evt.Type == event.PersistenceFailed {
			PersistenceDeadLetters.WithLabelValues(payload.JobKind).Inc()
		} else {
			PersistenceRecovered.WithLabelValues(payload.JobKind).Inc()
		}
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
