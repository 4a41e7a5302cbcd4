package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CrashRound_Go/internal/domain"
	"github.com/osse101/CrashRound_Go/internal/repository"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var historyColumns = []string{colID, colRoundID, colGameType, colResult, colServerSeed, colServerSeedHash, colCrashedAt}

// HistoryRepository stores completed rounds in PostgreSQL
type HistoryRepository struct {
	db *pgxpool.Pool
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *pgxpool.Pool) repository.History {
	return &HistoryRepository{db: db}
}

// Append inserts the round. A round that is already stored is left untouched.
func (r *HistoryRepository) Append(ctx context.Context, record domain.RoundRecord) error {
	id := record.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := psql.Insert(tableHistory).
		Columns(historyColumns...).
		Values(id, record.RoundID, string(record.GameType), record.Result, record.ServerSeed, record.ServerSeedHash, record.CrashedAt).
		Suffix("ON CONFLICT (" + colRoundID + ") DO NOTHING")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBuildQuery, err)
	}

	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgAppendHistory, err)
	}
	return nil
}

// Recent returns up to limit rounds, newest first
func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]domain.RoundRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	query := psql.Select(historyColumns...).
		From(tableHistory).
		OrderBy(colCrashedAt+" DESC", colCreatedAtTiebreak).
		Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBuildQuery, err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryHistory, err)
	}
	defer rows.Close()

	records := make([]domain.RoundRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryHistory, err)
	}
	return records, nil
}

// Get returns a single round
func (r *HistoryRepository) Get(ctx context.Context, roundID uuid.UUID) (*domain.RoundRecord, error) {
	query := psql.Select(historyColumns...).
		From(tableHistory).
		Where(sq.Eq{colRoundID: roundID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBuildQuery, err)
	}

	rec, err := scanRecord(r.db.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRoundNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanRecord(row pgx.Row) (domain.RoundRecord, error) {
	var rec domain.RoundRecord
	var gameType string
	err := row.Scan(&rec.ID, &rec.RoundID, &gameType, &rec.Result, &rec.ServerSeed, &rec.ServerSeedHash, &rec.CrashedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("%s: %w", ErrMsgScanHistory, err)
	}
	rec.GameType = domain.GameType(gameType)
	return rec, nil
}
