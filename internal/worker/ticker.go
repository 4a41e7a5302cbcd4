package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/CrashRound_Go/internal/logger"
	"github.com/osse101/CrashRound_Go/internal/metrics"
)

// Ticker is advanced by the round ticker
type Ticker interface {
	Tick(ctx context.Context, now time.Time)
}

// RoundTicker drives the round engine from a single time.Ticker, so ticks
// never overlap.
type RoundTicker struct {
	engine   Ticker
	interval time.Duration
	now      func() time.Time

	once     sync.Once
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewRoundTicker creates a ticker firing every interval
func NewRoundTicker(engine Ticker, interval time.Duration) *RoundTicker {
	return &RoundTicker{
		engine:   engine,
		interval: interval,
		now:      time.Now,
		shutdown: make(chan struct{}),
	}
}

// Start begins ticking in a background goroutine
func (w *RoundTicker) Start() {
	log := logger.FromContext(context.Background())
	log.Info(LogMsgRoundTickerStarted, "interval", w.interval)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		ctx := context.Background()
		w.engine.Tick(ctx, w.now())

		for {
			select {
			case scheduled := <-ticker.C:
				now := w.now()
				metrics.TickLag.Observe(now.Sub(scheduled).Seconds())
				w.engine.Tick(ctx, now)
			case <-w.shutdown:
				return
			}
		}
	}()
}

// Shutdown stops ticking and waits for an in-flight tick
func (w *RoundTicker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	w.once.Do(func() { close(w.shutdown) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgRoundTickerStopped)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgRoundTickerTimeout)
		return ctx.Err()
	}
}
