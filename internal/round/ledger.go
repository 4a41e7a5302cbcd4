package round

import (
	"sort"

	"github.com/osse101/CrashRound_Go/internal/domain"
)

// Ledger holds the bets of the current round. It has no locking of its own;
// the engine mutex guards every call.
type Ledger struct {
	bets          []*domain.Bet
	byParticipant map[string]*domain.Bet
	reserved      map[string]struct{}
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		byParticipant: make(map[string]*domain.Bet),
		reserved:      make(map[string]struct{}),
	}
}

// Reserve holds the participant's slot while the stake is debited
func (l *Ledger) Reserve(participantID string) error {
	if _, ok := l.byParticipant[participantID]; ok {
		return domain.ErrAlreadyPlaced
	}
	if _, ok := l.reserved[participantID]; ok {
		return domain.ErrAlreadyPlaced
	}
	l.reserved[participantID] = struct{}{}
	return nil
}

// Release drops a reservation
func (l *Ledger) Release(participantID string) {
	delete(l.reserved, participantID)
}

// Add records an accepted bet
func (l *Ledger) Add(bet *domain.Bet) {
	delete(l.reserved, bet.ParticipantID)
	l.bets = append(l.bets, bet)
	l.byParticipant[bet.ParticipantID] = bet
}

// Get returns the participant's bet or nil
func (l *Ledger) Get(participantID string) *domain.Bet {
	return l.byParticipant[participantID]
}

// Bets returns bets in placement order
func (l *Ledger) Bets() []*domain.Bet {
	return l.bets
}

// Len returns the number of accepted bets
func (l *Ledger) Len() int {
	return len(l.bets)
}

// Unsettled returns bets that have not settled yet
func (l *Ledger) Unsettled() []*domain.Bet {
	var out []*domain.Bet
	for _, b := range l.bets {
		if !b.Settled {
			out = append(out, b)
		}
	}
	return out
}

// DueAutoCashouts returns unsettled bets whose threshold is at or below
// multiplier, lowest threshold first.
func (l *Ledger) DueAutoCashouts(multiplier float64) []*domain.Bet {
	var due []*domain.Bet
	for _, b := range l.bets {
		if b.Settled || b.AutoCashoutMultiplier == nil {
			continue
		}
		if *b.AutoCashoutMultiplier <= multiplier {
			due = append(due, b)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return *due[i].AutoCashoutMultiplier < *due[j].AutoCashoutMultiplier
	})
	return due
}

// Totals sums stakes and payouts
func (l *Ledger) Totals() (stake, paid int64, winners int) {
	for _, b := range l.bets {
		stake += b.Stake
		if b.Won() {
			paid += *b.Payout
			winners++
		}
	}
	return stake, paid, winners
}

// Clear empties the ledger for a new round
func (l *Ledger) Clear() {
	l.bets = nil
	l.byParticipant = make(map[string]*domain.Bet)
	l.reserved = make(map[string]struct{})
}
