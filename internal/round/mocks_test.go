package round

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/CrashRound_Go/internal/domain"
)

// MockBalance
type MockBalance struct {
	mock.Mock
}

func (m *MockBalance) Debit(ctx context.Context, participantID string, amount int64, key string) error {
	args := m.Called(ctx, participantID, amount, key)
	return args.Error(0)
}

func (m *MockBalance) Credit(ctx context.Context, participantID string, amount int64, key string) error {
	args := m.Called(ctx, participantID, amount, key)
	return args.Error(0)
}

func (m *MockBalance) Get(ctx context.Context, participantID string) (int64, error) {
	args := m.Called(ctx, participantID)
	return args.Get(0).(int64), args.Error(1)
}

// recordingSettler captures hand-offs to the settlement pipeline
type recordingSettler struct {
	mu      sync.Mutex
	records []domain.RoundRecord
	credits []domain.Credit
}

func (s *recordingSettler) RecordRound(_ context.Context, record domain.RoundRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
}

func (s *recordingSettler) Credit(_ context.Context, credit domain.Credit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credits = append(s.credits, credit)
}

func (s *recordingSettler) Records() []domain.RoundRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.RoundRecord(nil), s.records...)
}

func (s *recordingSettler) CreditsFor(participantID string) []domain.Credit {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Credit
	for _, c := range s.credits {
		if c.ParticipantID == participantID {
			out = append(out, c)
		}
	}
	return out
}

// recordingBroadcaster keeps every published snapshot
type recordingBroadcaster struct {
	mu    sync.Mutex
	snaps []domain.RoundSnapshot
}

func (b *recordingBroadcaster) Publish(snapshot domain.RoundSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snaps = append(b.snaps, snapshot)
}

func (b *recordingBroadcaster) Last() domain.RoundSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snaps[len(b.snaps)-1]
}

func (b *recordingBroadcaster) All() []domain.RoundSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.RoundSnapshot(nil), b.snaps...)
}

// manualClock only moves when told to
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(start time.Time) *manualClock {
	return &manualClock{now: start}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
