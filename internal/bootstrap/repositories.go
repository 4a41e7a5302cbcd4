package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CrashRound_Go/internal/config"
	"github.com/osse101/CrashRound_Go/internal/database"
	"github.com/osse101/CrashRound_Go/internal/database/memory"
	"github.com/osse101/CrashRound_Go/internal/database/postgres"
	"github.com/osse101/CrashRound_Go/internal/repository"
)

// Repositories holds the storage collaborators of the round engine. Pool is
// nil for the in-memory backend.
type Repositories struct {
	History repository.History
	Balance repository.Balance
	Pool    *pgxpool.Pool
}

// Close releases the database pool, if any
func (r *Repositories) Close() {
	if r.Pool != nil {
		r.Pool.Close()
	}
}

// DBPool returns the pool as a readiness probe target, or nil
func (r *Repositories) DBPool() database.Pool {
	if r.Pool == nil {
		return nil
	}
	return r.Pool
}

// InitializeRepositories opens the configured storage backend and applies
// the configured starting balances
func InitializeRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendMemory:
		slog.Info(LogMsgStorageInitialized, "backend", cfg.StorageBackend, "seeded", len(cfg.SeedBalances))
		return &Repositories{
			History: memory.NewHistoryRepository(),
			Balance: memory.NewBalanceRepository(cfg.SeedBalances),
		}, nil

	case config.StorageBackendPostgres:
		return initializePostgres(ctx, cfg)

	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownBackend, cfg.StorageBackend)
	}
}

func initializePostgres(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgConnectDatabase, err)
	}

	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgMigrateDatabase, err)
	}

	txManager, err := manager.New(trmpgx.NewDefaultFactory(pool))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateTxManager, err)
	}

	repos := &Repositories{
		History: postgres.NewHistoryRepository(pool),
		Balance: postgres.NewBalanceRepository(pool, txManager),
		Pool:    pool,
	}

	if err := seedBalances(ctx, repos.Balance, cfg.SeedBalances); err != nil {
		pool.Close()
		return nil, err
	}

	slog.Info(LogMsgStorageInitialized, "backend", cfg.StorageBackend, "host", cfg.DBHost, "db", cfg.DBName)
	return repos, nil
}

// seedBalances credits each configured balance once. The per-participant
// key makes restarts a no-op.
func seedBalances(ctx context.Context, balance repository.Balance, seeds map[string]int64) error {
	for participantID, amount := range seeds {
		if amount <= 0 {
			continue
		}
		if err := balance.Credit(ctx, participantID, amount, fmt.Sprintf(SeedKeyFormat, participantID)); err != nil {
			return fmt.Errorf("%s %q: %w", ErrMsgSeedBalance, participantID, err)
		}
	}
	if len(seeds) > 0 {
		slog.Info(LogMsgBalancesSeeded, "count", len(seeds))
	}
	return nil
}
