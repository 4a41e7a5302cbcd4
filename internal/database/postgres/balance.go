package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CrashRound_Go/internal/domain"
	"github.com/osse101/CrashRound_Go/internal/repository"
)

// BalanceRepository keeps participant balances and the idempotency ledger.
// Each mutation runs in one transaction: the ledger row is claimed first, so
// a concurrent retry of the same key waits and then observes the recorded
// outcome.
type BalanceRepository struct {
	db        *pgxpool.Pool
	txManager trm.Manager
	getter    *trmpgx.CtxGetter
}

// NewBalanceRepository creates a new BalanceRepository
func NewBalanceRepository(db *pgxpool.Pool, txManager trm.Manager) repository.Balance {
	return &BalanceRepository{
		db:        db,
		txManager: txManager,
		getter:    trmpgx.DefaultCtxGetter,
	}
}

// Debit removes amount from the participant's balance. A refused debit is
// recorded too, so replaying its key returns the same error.
func (r *BalanceRepository) Debit(ctx context.Context, participantID string, amount int64, key string) error {
	var refused error

	err := r.txManager.Do(ctx, func(ctx context.Context) error {
		claimed, err := r.claim(ctx, key, participantID, -amount)
		if err != nil {
			return err
		}
		if !claimed {
			outcome, err := r.priorOutcome(ctx, key)
			if err != nil {
				return err
			}
			refused, err = outcomeError(outcome)
			return err
		}

		current, err := r.lockBalance(ctx, participantID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			refused = domain.ErrParticipantNotFound
			return r.markOutcome(ctx, key, OutcomeNotFound)
		case err != nil:
			return err
		case current < amount:
			refused = domain.ErrInsufficientBalance
			return r.markOutcome(ctx, key, OutcomeInsufficientBalance)
		}

		query := psql.Update(tableBalance).
			Set(colBalance, sq.Expr(colBalance+" - ?", amount)).
			Set(colUpdatedAt, sq.Expr("NOW()")).
			Where(sq.Eq{colParticipantID: participantID})
		return r.exec(ctx, query)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgDebit, err)
	}
	return refused
}

// Credit adds amount to the participant's balance, creating it if needed
func (r *BalanceRepository) Credit(ctx context.Context, participantID string, amount int64, key string) error {
	err := r.txManager.Do(ctx, func(ctx context.Context) error {
		claimed, err := r.claim(ctx, key, participantID, amount)
		if err != nil || !claimed {
			return err
		}

		query := psql.Insert(tableBalance).
			Columns(colParticipantID, colBalance).
			Values(participantID, amount).
			Suffix("ON CONFLICT (" + colParticipantID + ") DO UPDATE SET " +
				colBalance + " = " + tableBalance + "." + colBalance + " + EXCLUDED." + colBalance + ", " +
				colUpdatedAt + " = NOW()")
		return r.exec(ctx, query)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCredit, err)
	}
	return nil
}

// Get returns the participant's balance
func (r *BalanceRepository) Get(ctx context.Context, participantID string) (int64, error) {
	query := psql.Select(colBalance).
		From(tableBalance).
		Where(sq.Eq{colParticipantID: participantID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgBuildQuery, err)
	}

	var balance int64
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrParticipantNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgGetBalance, err)
	}
	return balance, nil
}

// claim inserts the ledger row for key. It reports false when the key was
// already used.
func (r *BalanceRepository) claim(ctx context.Context, key, participantID string, delta int64) (bool, error) {
	query := psql.Insert(tableLedger).
		Columns(colIdempotencyKey, colParticipantID, colDelta, colOutcome).
		Values(key, participantID, delta, OutcomeApplied).
		Suffix("ON CONFLICT (" + colIdempotencyKey + ") DO NOTHING RETURNING " + colIdempotencyKey)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgBuildQuery, err)
	}

	var claimed string
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&claimed)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *BalanceRepository) priorOutcome(ctx context.Context, key string) (string, error) {
	query := psql.Select(colOutcome).
		From(tableLedger).
		Where(sq.Eq{colIdempotencyKey: key})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrMsgBuildQuery, err)
	}

	var outcome string
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&outcome)
	return outcome, err
}

// outcomeError maps a recorded ledger outcome back to the refusal it produced.
// The second return is set only for outcomes this version does not know.
func outcomeError(outcome string) (refusal error, err error) {
	switch outcome {
	case OutcomeApplied:
		return nil, nil
	case OutcomeInsufficientBalance:
		return domain.ErrInsufficientBalance, nil
	case OutcomeNotFound:
		return domain.ErrParticipantNotFound, nil
	default:
		return nil, fmt.Errorf("%s: %s", ErrMsgUnknownOutcome, outcome)
	}
}

func (r *BalanceRepository) lockBalance(ctx context.Context, participantID string) (int64, error) {
	query := psql.Select(colBalance).
		From(tableBalance).
		Where(sq.Eq{colParticipantID: participantID}).
		Suffix("FOR UPDATE")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgBuildQuery, err)
	}

	var balance int64
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&balance)
	return balance, err
}

func (r *BalanceRepository) markOutcome(ctx context.Context, key, outcome string) error {
	query := psql.Update(tableLedger).
		Set(colOutcome, outcome).
		Set(colDelta, 0).
		Where(sq.Eq{colIdempotencyKey: key})
	return r.exec(ctx, query)
}

func (r *BalanceRepository) exec(ctx context.Context, query sq.Sqlizer) error {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBuildQuery, err)
	}
	_, err = r.getter.DefaultTrOrDB(ctx, r.db).Exec(ctx, sqlStr, args...)
	return err
}
