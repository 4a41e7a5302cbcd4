package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/CrashRound_Go/internal/event"
	"github.com/osse101/CrashRound_Go/internal/metrics"
	"github.com/osse101/CrashRound_Go/internal/sse"
)

// InitializeEventSystem creates the event bus and attaches its consumers:
// the metrics collector and the stream bridge that forwards crash and
// settlement events to connected clients.
func InitializeEventSystem(hub *sse.Hub) (event.Bus, error) {
	bus := event.NewMemoryBus()

	if err := metrics.NewEventMetricsCollector().Register(bus); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRegisterMetrics, err)
	}

	sse.NewSubscriber(hub, bus).Subscribe()

	slog.Info(LogMsgEventSystemInitialized)
	return bus, nil
}
