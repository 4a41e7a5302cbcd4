package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bet is one participant's wager in a round
type Bet struct {
	ID                    uuid.UUID
	RoundID               uuid.UUID // zero until the round starts
	ParticipantID         string
	Stake                 int64
	AutoCashoutMultiplier *float64
	Settled               bool
	Payout                *int64
	CashoutMultiplier     *float64
	PlacedAt              time.Time
	SettledAt             time.Time
}

// Settle marks the bet settled. It returns ErrAlreadySettled if the bet was
// settled before; the first caller wins.
func (b *Bet) Settle(multiplier float64, payout int64, at time.Time) error {
	if b.Settled {
		return ErrAlreadySettled
	}
	b.Settled = true
	b.Payout = &payout
	b.CashoutMultiplier = &multiplier
	b.SettledAt = at
	return nil
}

// Forfeit settles the bet as a loss
func (b *Bet) Forfeit(at time.Time) error {
	if b.Settled {
		return ErrAlreadySettled
	}
	var zero int64
	b.Settled = true
	b.Payout = &zero
	b.SettledAt = at
	return nil
}

// Won reports whether the bet settled with a payout
func (b *Bet) Won() bool {
	return b.Settled && b.Payout != nil && *b.Payout > 0
}

// View returns a copy safe to hand to other goroutines
func (b *Bet) View() BetView {
	v := BetView{
		ID:                    b.ID.String(),
		ParticipantID:         b.ParticipantID,
		Stake:                 b.Stake,
		AutoCashoutMultiplier: copyFloat(b.AutoCashoutMultiplier),
		Settled:               b.Settled,
		CashoutMultiplier:     copyFloat(b.CashoutMultiplier),
	}
	if b.Payout != nil {
		p := *b.Payout
		v.Payout = &p
	}
	return v
}

// BetView is the serialized form of a bet
type BetView struct {
	ID                    string   `json:"bet_id"`
	ParticipantID         string   `json:"participant_id"`
	Stake                 int64    `json:"stake"`
	AutoCashoutMultiplier *float64 `json:"auto_cashout_multiplier,omitempty"`
	Settled               bool     `json:"settled"`
	Payout                *int64   `json:"payout,omitempty"`
	CashoutMultiplier     *float64 `json:"cashout_multiplier,omitempty"`
}

// CashoutResult is returned to a participant who cashed out
type CashoutResult struct {
	BetID      string  `json:"bet_id"`
	RoundID    string  `json:"round_id"`
	Multiplier float64 `json:"multiplier"`
	Payout     int64   `json:"payout"`
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Credit is a balance credit owed to a participant. Key makes the credit
// idempotent across retries.
type Credit struct {
	Key           string `json:"key"`
	ParticipantID string `json:"participant_id"`
	Amount        int64  `json:"amount"`
	Reason        string `json:"reason"`
}
