package settlement

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/CrashRound_Go/internal/domain"
	"github.com/osse101/CrashRound_Go/internal/event"
	"github.com/osse101/CrashRound_Go/internal/worker"
)

// MockHistory
type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Append(ctx context.Context, record domain.RoundRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistory) Recent(ctx context.Context, limit int) ([]domain.RoundRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RoundRecord), args.Error(1)
}

func (m *MockHistory) Get(ctx context.Context, roundID uuid.UUID) (*domain.RoundRecord, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoundRecord), args.Error(1)
}

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

// inlineEnqueuer runs jobs on the caller's goroutine
type inlineEnqueuer struct {
	err error
}

func (e *inlineEnqueuer) Enqueue(job worker.Job) error {
	if e.err != nil {
		return e.err
	}
	return job.Process(context.Background())
}

// eventRecorder collects events published on a bus
type eventRecorder struct {
	mu     sync.Mutex
	events []event.Event
}

func newEventRecorder(bus *event.MemoryBus, types ...event.Type) *eventRecorder {
	r := &eventRecorder{}
	for _, t := range types {
		bus.Subscribe(t, func(_ context.Context, evt event.Event) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, evt)
			return nil
		})
	}
	return r
}

func (r *eventRecorder) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.events...)
}
