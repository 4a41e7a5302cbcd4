package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/osse101/CrashRound_Go/internal/config"
	"github.com/osse101/CrashRound_Go/internal/crash"
	"github.com/osse101/CrashRound_Go/internal/event"
	"github.com/osse101/CrashRound_Go/internal/history"
	"github.com/osse101/CrashRound_Go/internal/logger"
	"github.com/osse101/CrashRound_Go/internal/round"
	"github.com/osse101/CrashRound_Go/internal/scheduler"
	"github.com/osse101/CrashRound_Go/internal/server"
	"github.com/osse101/CrashRound_Go/internal/settlement"
	"github.com/osse101/CrashRound_Go/internal/sse"
	"github.com/osse101/CrashRound_Go/internal/worker"
)

// Application is the assembled service
type Application struct {
	Repos       *Repositories
	Bus         event.Bus
	Hub         *sse.Hub
	Engine      round.Service
	History     history.Service
	Workers     *worker.Pool
	DeadLetters *settlement.DeadLetterStore
	Ticker      *worker.RoundTicker
	Scheduler   *scheduler.Scheduler
	Server      *server.Server

	replay         *settlement.ReplayJob
	replayInterval time.Duration
}

// Build wires every component from cfg. Nothing runs until Start.
func Build(ctx context.Context, cfg *config.Config) (*Application, error) {
	repos, err := InitializeRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app, err := assemble(cfg, repos)
	if err != nil {
		repos.Close()
		return nil, err
	}
	return app, nil
}

func assemble(cfg *config.Config, repos *Repositories) (*Application, error) {
	curve, err := crash.NewCurve(cfg.GrowthRatePerMs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBuildCurve, err)
	}
	gen, err := crash.NewGenerator(cfg.HouseEdge, cfg.MaxMultiplier)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBuildGenerator, err)
	}
	source := crash.NewFairSource(gen)

	// The hub reads the engine's snapshot once the engine exists
	hub := sse.NewHub(nil, cfg.StreamClientBuffer)
	bus, err := InitializeEventSystem(hub)
	if err != nil {
		return nil, err
	}

	historySvc := history.NewService(repos.History, source, cfg.HistoryCacheSize, cfg.HistoryCacheTTL)

	if err := os.MkdirAll(filepath.Dir(cfg.DeadLetterPath), DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateDeadLetterDir, err)
	}
	deadLetters := settlement.NewDeadLetterStore(cfg.DeadLetterPath)

	workers := worker.NewPool(cfg.SettlementWorkers, cfg.SettlementQueueSize)
	// Round records go through the history service so its cache sees them
	pipeline := settlement.NewPipeline(workers, historySvc, repos.Balance, deadLetters, bus, settlement.RetryPolicy{
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		MaxAttempts:     cfg.RetryMaxAttempts,
	})

	engine, err := round.NewService(round.Config{
		MinBet:               cfg.MinBet,
		MaxBet:               cfg.MaxBet,
		MaxMultiplier:        cfg.MaxMultiplier,
		WaitingDuration:      cfg.WaitingDuration,
		CrashDisplayDuration: cfg.DisplayDuration,
		MinCashoutMultiplier: cfg.MinCashoutMultiplier,
	}, curve, source, repos.Balance, pipeline, hub, bus, round.SystemClock{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBuildEngine, err)
	}
	hub.SetSource(engine)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		AllowedOrigins: cfg.AllowedOrigins,
	}, repos.DBPool(), engine, historySvc, hub)

	return &Application{
		Repos:          repos,
		Bus:            bus,
		Hub:            hub,
		Engine:         engine,
		History:        historySvc,
		Workers:        workers,
		DeadLetters:    deadLetters,
		Ticker:         worker.NewRoundTicker(engine, cfg.TickInterval),
		Scheduler:      scheduler.New(workers),
		Server:         srv,
		replay:         settlement.NewReplayJob(pipeline),
		replayInterval: cfg.DeadLetterReplayInterval,
	}, nil
}

// Start launches the background workers and the round clock. The HTTP
// server is started separately by the caller.
func (a *Application) Start() {
	a.Workers.Start()
	a.Scheduler.Schedule(a.replayInterval, a.replay)
	a.Ticker.Start()
	logger.Info(LogMsgApplicationStarted, "replay_interval", a.replayInterval)
}

// Shutdown stops the application in dependency order
func (a *Application) Shutdown(ctx context.Context) {
	GracefulShutdown(ctx, ShutdownComponents{
		Server:      a.Server,
		Ticker:      a.Ticker,
		Scheduler:   a.Scheduler,
		Engine:      a.Engine,
		Hub:         a.Hub,
		Workers:     a.Workers,
		DeadLetters: a.DeadLetters,
		Repos:       a.Repos,
	})
}
