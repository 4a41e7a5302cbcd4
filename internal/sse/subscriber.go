package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/CrashRound_Go/internal/domain"
	"github.com/osse101/CrashRound_Go/internal/event"
)

// Subscriber bridges the internal event bus to the stream hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new stream subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers handlers for all relevant event types
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.RoundCrashed, s.handleRoundCrashed)
	s.bus.Subscribe(event.BetSettled, s.handleBetSettled)

	slog.Info(LogMsgSubscriberReady,
		"types", []string{
			string(event.RoundCrashed),
			string(event.BetSettled),
		})
}

func (s *Subscriber) handleRoundCrashed(_ context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[domain.RoundCrashedPayload](evt.Payload)
	if err != nil {
		slog.Warn("Invalid round crashed event payload", "error", err)
		return nil
	}

	s.hub.Broadcast(EventTypeRoundCrashed, payload)

	slog.Debug(LogMsgEventBroadcast,
		"event_type", EventTypeRoundCrashed,
		"round_id", payload.RoundID,
		"crash_point", payload.CrashPoint)
	return nil
}

func (s *Subscriber) handleBetSettled(_ context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[domain.BetSettledPayload](evt.Payload)
	if err != nil {
		slog.Warn("Invalid bet settled event payload", "error", err)
		return nil
	}

	s.hub.Broadcast(EventTypeBetSettled, payload)
	return nil
}
