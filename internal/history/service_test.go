package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CrashRound_Go/internal/crash"
	"github.com/osse101/CrashRound_Go/internal/database/memory"
	"github.com/osse101/CrashRound_Go/internal/domain"
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

func newFairSource(t *testing.T) *crash.FairSource {
	t.Helper()
	gen, err := crash.NewGenerator(0.95, 1000)
	require.NoError(t, err)
	return crash.NewFairSource(gen)
}

func TestRecent_CachesUntilAppend(t *testing.T) {
	repo := &MockHistory{}
	svc := NewService(repo, nil, 16, time.Minute)
	ctx := context.Background()

	page := []domain.RoundRecord{{RoundID: uuid.New(), Result: 2.0}}
	repo.On("Recent", mock.Anything, 5).Return(page, nil).Twice()

	got, err := svc.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, page, got)

	_, err = svc.Recent(ctx, 5)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Recent", 1)

	rec := domain.RoundRecord{RoundID: uuid.New(), Result: 3.1}
	repo.On("Append", mock.Anything, rec).Return(nil).Once()
	require.NoError(t, svc.Append(ctx, rec))

	_, err = svc.Recent(ctx, 5)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Recent", 2)
}

func TestRecent_AppendDuringReadIsNotMaskedByCache(t *testing.T) {
	repo := &MockHistory{}
	svc := NewService(repo, nil, 16, time.Minute)
	ctx := context.Background()

	stale := []domain.RoundRecord{{RoundID: uuid.New(), Result: 2.0}}
	rec := domain.RoundRecord{RoundID: uuid.New(), Result: 3.1}
	fresh := append([]domain.RoundRecord{rec}, stale...)

	repo.On("Append", mock.Anything, rec).Return(nil).Once()
	repo.On("Recent", mock.Anything, 5).Run(func(mock.Arguments) {
		// A round lands while the page is being read
		require.NoError(t, svc.Append(ctx, rec))
	}).Return(stale, nil).Once()
	repo.On("Recent", mock.Anything, 5).Return(fresh, nil).Once()

	got, err := svc.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, stale, got)

	got, err = svc.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
	repo.AssertExpectations(t)
}

func TestRecent_ClampsLimit(t *testing.T) {
	repo := &MockHistory{}
	svc := NewService(repo, nil, 16, time.Minute)

	repo.On("Recent", mock.Anything, DefaultRecentLimit).Return([]domain.RoundRecord{}, nil).Once()
	repo.On("Recent", mock.Anything, MaxRecentLimit).Return([]domain.RoundRecord{}, nil).Once()

	_, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	_, err = svc.Recent(context.Background(), 10_000)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestAppend_ErrorKeepsCache(t *testing.T) {
	repo := &MockHistory{}
	svc := NewService(repo, nil, 16, time.Minute)
	ctx := context.Background()

	repo.On("Recent", mock.Anything, 3).Return([]domain.RoundRecord{}, nil).Once()
	_, err := svc.Recent(ctx, 3)
	require.NoError(t, err)

	rec := domain.RoundRecord{RoundID: uuid.New()}
	repo.On("Append", mock.Anything, rec).Return(domain.ErrDatabaseError).Once()
	assert.ErrorIs(t, svc.Append(ctx, rec), domain.ErrDatabaseError)

	_, err = svc.Recent(ctx, 3)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Recent", 1)
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(memory.NewHistoryRepository(), nil, 16, time.Minute)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrRoundNotFound)
}

func TestVerify_RoundTrip(t *testing.T) {
	src := newFairSource(t)
	svc := NewService(memory.NewHistoryRepository(), src, 16, time.Minute)
	ctx := context.Background()

	roundID := uuid.New()
	draw, err := src.Next(roundID)
	require.NoError(t, err)

	require.NoError(t, svc.Append(ctx, domain.RoundRecord{
		RoundID:        roundID,
		GameType:       domain.GameTypeCrash,
		Result:         draw.CrashPoint,
		ServerSeed:     draw.ServerSeed,
		ServerSeedHash: draw.ServerSeedHash,
		CrashedAt:      time.Now(),
	}))

	v, err := svc.Verify(ctx, roundID)
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, draw.CrashPoint, v.Computed)
	assert.Equal(t, roundID.String(), v.RoundID)
}

func TestVerify_DetectsTamperedResult(t *testing.T) {
	src := newFairSource(t)
	repo := memory.NewHistoryRepository()
	svc := NewService(repo, src, 16, time.Minute)
	ctx := context.Background()

	roundID := uuid.New()
	draw, err := src.Next(roundID)
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, domain.RoundRecord{
		RoundID:    roundID,
		Result:     draw.CrashPoint + 0.5,
		ServerSeed: draw.ServerSeed,
	}))

	v, err := svc.Verify(ctx, roundID)
	require.NoError(t, err)
	assert.False(t, v.Valid)
}

func TestVerify_UnknownRound(t *testing.T) {
	svc := NewService(memory.NewHistoryRepository(), newFairSource(t), 16, time.Minute)
	_, err := svc.Verify(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrRoundNotFound)
}
