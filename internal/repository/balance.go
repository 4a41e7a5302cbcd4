package repository

import "context"

// Balance defines the interface for participant balances. Every mutation
// carries an idempotency key; replaying a key returns the original outcome
// without moving funds again.
type Balance interface {
	// Debit returns domain.ErrInsufficientBalance when the balance is too low
	// and domain.ErrParticipantNotFound for unknown participants.
	Debit(ctx context.Context, participantID string, amount int64, key string) error

	// Credit creates the participant's balance if it does not exist
	Credit(ctx context.Context, participantID string, amount int64, key string) error

	Get(ctx context.Context, participantID string) (int64, error)
}
