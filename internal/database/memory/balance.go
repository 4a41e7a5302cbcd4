package memory

import (
	"context"
	"sync"

	"github.com/osse101/CrashRound_Go/internal/domain"
)

type ledgerOutcome struct {
	err error
}

// BalanceRepository keeps balances in process memory. Idempotency keys are
// remembered for the life of the process.
type BalanceRepository struct {
	mu       sync.Mutex
	balances map[string]int64
	applied  map[string]ledgerOutcome
}

// NewBalanceRepository creates a store seeded with the given balances
func NewBalanceRepository(seed map[string]int64) *BalanceRepository {
	balances := make(map[string]int64, len(seed))
	for id, amount := range seed {
		balances[id] = amount
	}
	return &BalanceRepository{
		balances: balances,
		applied:  make(map[string]ledgerOutcome),
	}
}

// Debit removes amount from the participant's balance
func (r *BalanceRepository) Debit(_ context.Context, participantID string, amount int64, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prior, ok := r.applied[key]; ok {
		return prior.err
	}

	var err error
	current, ok := r.balances[participantID]
	switch {
	case !ok:
		err = domain.ErrParticipantNotFound
	case current < amount:
		err = domain.ErrInsufficientBalance
	default:
		r.balances[participantID] = current - amount
	}

	r.applied[key] = ledgerOutcome{err: err}
	return err
}

// Credit adds amount to the participant's balance
func (r *BalanceRepository) Credit(_ context.Context, participantID string, amount int64, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.applied[key]; ok {
		return nil
	}
	r.balances[participantID] += amount
	r.applied[key] = ledgerOutcome{}
	return nil
}

// Get returns the participant's balance
func (r *BalanceRepository) Get(_ context.Context, participantID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.balances[participantID]
	if !ok {
		return 0, domain.ErrParticipantNotFound
	}
	return current, nil
}
