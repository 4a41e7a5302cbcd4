package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/CrashRound_Go/internal/domain"
)

// History defines the interface for round history storage
type History interface {
	// Append stores a completed round. Appending the same round ID twice is a
	// no-op, so retries are safe.
	Append(ctx context.Context, record domain.RoundRecord) error

	// Recent returns up to limit records, newest first
	Recent(ctx context.Context, limit int) ([]domain.RoundRecord, error)

	// Get returns domain.ErrRoundNotFound for unknown rounds
	Get(ctx context.Context, roundID uuid.UUID) (*domain.RoundRecord, error)
}
