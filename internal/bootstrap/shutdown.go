package bootstrap

import (
	"context"

	"github.com/osse101/CrashRound_Go/internal/logger"
	"github.com/osse101/CrashRound_Go/internal/round"
	"github.com/osse101/CrashRound_Go/internal/scheduler"
	"github.com/osse101/CrashRound_Go/internal/server"
	"github.com/osse101/CrashRound_Go/internal/settlement"
	"github.com/osse101/CrashRound_Go/internal/sse"
	"github.com/osse101/CrashRound_Go/internal/worker"
)

// ShutdownComponents holds everything that needs an orderly stop. Nil
// members are skipped.
type ShutdownComponents struct {
	Server      *server.Server
	Ticker      *worker.RoundTicker
	Scheduler   *scheduler.Scheduler
	Engine      round.Service
	Hub         *sse.Hub
	Workers     *worker.Pool
	DeadLetters *settlement.DeadLetterStore
	Repos       *Repositories
}

// GracefulShutdown stops components in order:
//  1. HTTP server, which also disconnects stream clients
//  2. round clock and scheduled jobs
//  3. round engine, which refunds bets of an unfinished round
//  4. worker pool, draining queued settlement writes
//  5. dead-letter file and database pool
//
// Errors are logged and the sequence continues.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgShuttingDown)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			log.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Ticker != nil {
		if err := c.Ticker.Shutdown(ctx); err != nil {
			log.Error(LogMsgTickerShutdownFailed, "error", err)
		}
	}
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}

	if c.Engine != nil {
		if err := c.Engine.Shutdown(ctx); err != nil {
			log.Error(LogMsgEngineShutdownFailed, "error", err)
		}
	}
	if c.Hub != nil {
		c.Hub.Stop()
	}

	if c.Workers != nil {
		if err := c.Workers.Stop(ctx); err != nil {
			log.Error(LogMsgWorkerPoolStopFailed, "error", err)
		}
	}

	if c.DeadLetters != nil {
		if err := c.DeadLetters.Close(); err != nil {
			log.Error(LogMsgDeadLetterCloseFailed, "error", err)
		}
	}
	if c.Repos != nil {
		c.Repos.Close()
	}

	log.Info(LogMsgShutdownComplete)
}
