package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/osse101/CrashRound_Go/internal/domain"
)

// HistoryRepository keeps round history in process memory
type HistoryRepository struct {
	mu      sync.RWMutex
	records []domain.RoundRecord
	byRound map[uuid.UUID]int
}

// NewHistoryRepository creates an empty history store
func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{
		byRound: make(map[uuid.UUID]int),
	}
}

// Append stores a record once per round ID
func (r *HistoryRepository) Append(_ context.Context, record domain.RoundRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byRound[record.RoundID]; ok {
		return nil
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	r.byRound[record.RoundID] = len(r.records)
	r.records = append(r.records, record)
	return nil
}

// Recent returns up to limit records, newest first
func (r *HistoryRepository) Recent(_ context.Context, limit int) ([]domain.RoundRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.records) {
		limit = len(r.records)
	}
	out := make([]domain.RoundRecord, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}

// Get returns the record for a round
func (r *HistoryRepository) Get(_ context.Context, roundID uuid.UUID) (*domain.RoundRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byRound[roundID]
	if !ok {
		return nil, domain.ErrRoundNotFound
	}
	rec := r.records[idx]
	return &rec, nil
}

// Len returns the number of stored rounds
func (r *HistoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
