package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CrashRound_Go/internal/domain"
	"github.com/osse101/CrashRound_Go/internal/logger"
	"github.com/osse101/CrashRound_Go/internal/repository"
)

// Verifier recomputes a recorded round's crash point from its revealed seed
type Verifier interface {
	Verify(record domain.RoundRecord) (domain.Verification, error)
}

// Service reads completed rounds and proves their outcomes. It also
// implements repository.History so the settlement pipeline can write through
// it and keep the cache current.
type Service interface {
	repository.History
	Verify(ctx context.Context, roundID uuid.UUID) (domain.Verification, error)
}

type service struct {
	repo     repository.History
	verifier Verifier
	cache    *recordCache
}

// NewService creates a history service with an LRU read cache
func NewService(repo repository.History, verifier Verifier, cacheSize int, cacheTTL time.Duration) Service {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &service{
		repo:     repo,
		verifier: verifier,
		cache:    newRecordCache(cacheSize, cacheTTL),
	}
}

// Append stores the round and drops cached pages
func (s *service) Append(ctx context.Context, record domain.RoundRecord) error {
	if err := s.repo.Append(ctx, record); err != nil {
		return err
	}
	s.cache.invalidatePages()
	logger.FromContext(ctx).Debug(LogMsgHistoryAppended, "round_id", record.RoundID, "result", record.Result)
	return nil
}

// Recent returns up to limit rounds, newest first. limit is clamped to
// [1, MaxRecentLimit]; zero or negative means DefaultRecentLimit.
func (s *service) Recent(ctx context.Context, limit int) ([]domain.RoundRecord, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}

	if records, ok := s.cache.getPage(limit); ok {
		logger.FromContext(ctx).Debug(LogMsgHistoryCacheHit, "limit", limit)
		return records, nil
	}

	generation := s.cache.pageGeneration()
	records, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.cache.setPage(limit, records, generation)
	return records, nil
}

// Get returns a single completed round
func (s *service) Get(ctx context.Context, roundID uuid.UUID) (*domain.RoundRecord, error) {
	if rec, ok := s.cache.getRound(roundID); ok {
		return rec, nil
	}

	rec, err := s.repo.Get(ctx, roundID)
	if err != nil {
		return nil, err
	}
	s.cache.setRound(*rec)
	return rec, nil
}

// Verify recomputes the crash point of a stored round
func (s *service) Verify(ctx context.Context, roundID uuid.UUID) (domain.Verification, error) {
	rec, err := s.Get(ctx, roundID)
	if err != nil {
		return domain.Verification{}, err
	}

	v, err := s.verifier.Verify(*rec)
	if err != nil {
		return domain.Verification{}, err
	}

	log := logger.FromContext(ctx)
	if !v.Valid {
		log.Warn(LogMsgVerifyMismatch, "round_id", roundID, "recorded", v.Recorded, "computed", v.Computed)
	} else {
		log.Debug(LogMsgVerifyCompleted, "round_id", roundID)
	}
	return v, nil
}
