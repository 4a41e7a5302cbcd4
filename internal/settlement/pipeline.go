package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/osse101/CrashRound_Go/internal/domain"
	"github.com/osse101/CrashRound_Go/internal/event"
	"github.com/osse101/CrashRound_Go/internal/logger"
	"github.com/osse101/CrashRound_Go/internal/metrics"
	"github.com/osse101/CrashRound_Go/internal/repository"
	"github.com/osse101/CrashRound_Go/internal/worker"
)

// Enqueuer accepts jobs for asynchronous execution
type Enqueuer interface {
	Enqueue(job worker.Job) error
}

// RetryPolicy bounds how hard a job is retried before it is dead-lettered
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxAttempts     int
}

// DefaultRetryPolicy returns the default bounded backoff
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialInterval: DefaultInitialInterval,
		MaxInterval:     DefaultMaxInterval,
		MaxAttempts:     DefaultMaxAttempts,
	}
}

func (p RetryPolicy) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = 0

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}

// Pipeline persists round history and payouts off the round's hot path.
// Failed writes are retried with bounded exponential backoff. A job that still
// fails is logged, written to the dead-letter store and announced with a
// persistence.failed event; it never blocks or rolls back the round.
type Pipeline struct {
	pool    Enqueuer
	history repository.History
	balance repository.Balance
	dead    *DeadLetterStore
	bus     event.Bus
	policy  RetryPolicy
}

// NewPipeline creates a settlement pipeline. dead and bus may be nil.
func NewPipeline(pool Enqueuer, history repository.History, balance repository.Balance, dead *DeadLetterStore, bus event.Bus, policy RetryPolicy) *Pipeline {
	return &Pipeline{
		pool:    pool,
		history: history,
		balance: balance,
		dead:    dead,
		bus:     bus,
		policy:  policy,
	}
}

// RecordRound schedules the round record for storage
func (p *Pipeline) RecordRound(ctx context.Context, record domain.RoundRecord) {
	p.submit(ctx, &job{pipeline: p, kind: KindHistory, key: record.RoundID.String(), record: &record})
}

// Credit schedules a balance credit
func (p *Pipeline) Credit(ctx context.Context, credit domain.Credit) {
	p.submit(ctx, &job{pipeline: p, kind: KindCredit, key: credit.Key, credit: &credit})
}

func (p *Pipeline) submit(ctx context.Context, j *job) {
	if err := p.pool.Enqueue(j); err != nil {
		logger.FromContext(ctx).Error(LogMsgEnqueueFailed, "kind", j.kind, "key", j.key, "error", err)
		p.escalate(ctx, j, 0, err)
	}
}

// apply performs a single write attempt
func (p *Pipeline) apply(ctx context.Context, j *job) error {
	switch {
	case j.kind == KindHistory && j.record != nil:
		return p.history.Append(ctx, *j.record)
	case j.kind == KindCredit && j.credit != nil:
		return p.balance.Credit(ctx, j.credit.ParticipantID, j.credit.Amount, j.credit.Key)
	default:
		return backoff.Permanent(fmt.Errorf("%s: %s", ErrMsgUnknownKind, j.kind))
	}
}

// execute runs j under the retry policy and reports the attempt count
func (p *Pipeline) execute(ctx context.Context, j *job, b backoff.BackOff) (int, error) {
	log := logger.FromContext(ctx)
	attempts := 0

	op := func() error {
		attempts++
		err := p.apply(ctx, j)
		if err == nil {
			metrics.PersistenceAttempts.WithLabelValues(j.kind, metrics.OutcomeSuccess).Inc()
			return nil
		}
		metrics.PersistenceAttempts.WithLabelValues(j.kind, metrics.OutcomeFailure).Inc()
		if domain.IsClientError(err) {
			return backoff.Permanent(err)
		}
		log.Warn(LogMsgPersistRetrying, "kind", j.kind, "key", j.key, "attempt", attempts, "error", err)
		return err
	}

	err := backoff.Retry(op, b)
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}
	return attempts, err
}

// escalate records a job that could not be persisted
func (p *Pipeline) escalate(ctx context.Context, j *job, attempts int, cause error) {
	log := logger.FromContext(ctx)

	if p.dead != nil {
		entry := DeadLetterEntry{
			Kind:     j.kind,
			Key:      j.key,
			Record:   j.record,
			Credit:   j.credit,
			Attempts: attempts,
		}
		if cause != nil {
			entry.LastError = cause.Error()
		}
		if err := p.dead.Write(entry); err != nil {
			log.Error(LogMsgDeadLetterFailed, "kind", j.kind, "key", j.key, "error", err)
		}
	}

	p.publish(ctx, event.NewPersistenceFailedEvent(j.kind, j.key, attempts, cause))
}

func (p *Pipeline) publish(ctx context.Context, evt event.Event) {
	if p.bus == nil {
		return
	}
	if err := p.bus.Publish(ctx, evt); err != nil {
		slog.Default().Warn(LogMsgEventPublishFailed, "type", evt.Type, "error", err)
	}
}

// job is one persistence write handed to the worker pool
type job struct {
	pipeline *Pipeline
	kind     string
	key      string
	record   *domain.RoundRecord
	credit   *domain.Credit
}

// Process implements worker.Job
func (j *job) Process(ctx context.Context) error {
	p := j.pipeline
	attempts, err := p.execute(ctx, j, p.policy.backoff(ctx))
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Error(LogMsgPersistExhausted,
		"kind", j.kind,
		"key", j.key,
		"attempts", attempts,
		"error", err)
	p.escalate(ctx, j, attempts, err)
	return nil
}
