package round

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CrashRound_Go/internal/domain"
)

func newBet(participant string, stake int64, auto *float64) *domain.Bet {
	return &domain.Bet{ID: uuid.New(), ParticipantID: participant, Stake: stake, AutoCashoutMultiplier: auto}
}

func TestLedger_ReserveAndAdd(t *testing.T) {
	l := NewLedger()

	require.NoError(t, l.Reserve("alice"))
	assert.ErrorIs(t, l.Reserve("alice"), domain.ErrAlreadyPlaced)

	l.Add(newBet("alice", 100, nil))
	assert.ErrorIs(t, l.Reserve("alice"), domain.ErrAlreadyPlaced)
	assert.NotNil(t, l.Get("alice"))
	assert.Nil(t, l.Get("bob"))

	require.NoError(t, l.Reserve("bob"))
	l.Release("bob")
	require.NoError(t, l.Reserve("bob"))

	l.Clear()
	assert.Equal(t, 0, l.Len())
	require.NoError(t, l.Reserve("alice"))
}

func TestLedger_DueAutoCashoutsOrdered(t *testing.T) {
	l := NewLedger()
	high := newBet("high", 100, ptr(3.0))
	low := newBet("low", 100, ptr(1.2))
	mid := newBet("mid", 100, ptr(2.0))
	manual := newBet("manual", 100, nil)
	for _, b := range []*domain.Bet{high, low, mid, manual} {
		l.Add(b)
	}

	due := l.DueAutoCashouts(2.0)
	require.Len(t, due, 2)
	assert.Equal(t, "low", due[0].ParticipantID)
	assert.Equal(t, "mid", due[1].ParticipantID)

	require.NoError(t, low.Settle(1.2, 120, time.Now()))
	due = l.DueAutoCashouts(2.0)
	require.Len(t, due, 1)
	assert.Equal(t, "mid", due[0].ParticipantID)
}

func TestLedger_Totals(t *testing.T) {
	l := NewLedger()
	won := newBet("a", 100, nil)
	lost := newBet("b", 300, nil)
	l.Add(won)
	l.Add(lost)

	require.NoError(t, won.Settle(2, 200, time.Now()))
	require.NoError(t, lost.Forfeit(time.Now()))
	assert.Len(t, l.Unsettled(), 0)

	stake, paid, winners := l.Totals()
	assert.Equal(t, int64(400), stake)
	assert.Equal(t, int64(200), paid)
	assert.Equal(t, 1, winners)
}
