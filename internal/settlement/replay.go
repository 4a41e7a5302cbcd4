package settlement

import (
	"context"

	"github.com/cenkalti/backoff/v4"

	"github.com/osse101/CrashRound_Go/internal/event"
	"github.com/osse101/CrashRound_Go/internal/logger"
)

// ReplayJob retries every dead-lettered job once. Entries that fail again are
// written back for the next run.
type ReplayJob struct {
	pipeline *Pipeline
}

// NewReplayJob creates a replay job for the pipeline's dead-letter store
func NewReplayJob(p *Pipeline) *ReplayJob {
	return &ReplayJob{pipeline: p}
}

// Process implements worker.Job
func (r *ReplayJob) Process(ctx context.Context) error {
	p := r.pipeline
	if p.dead == nil {
		return nil
	}

	entries, err := p.dead.Drain()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)
	log.Info(LogMsgReplayStarted, "count", len(entries))

	for _, entry := range entries {
		j := &job{
			pipeline: p,
			kind:     entry.Kind,
			key:      entry.Key,
			record:   entry.Record,
			credit:   entry.Credit,
		}
		attempts := entry.Attempts + 1

		if _, err := p.execute(ctx, j, &backoff.StopBackOff{}); err != nil {
			log.Warn(LogMsgReplayFailed, "kind", entry.Kind, "key", entry.Key, "attempts", attempts, "error", err)
			entry.Attempts = attempts
			entry.LastError = err.Error()
			if werr := p.dead.Write(entry); werr != nil {
				log.Error(LogMsgDeadLetterFailed, "kind", entry.Kind, "key", entry.Key, "error", werr)
			}
			continue
		}

		log.Info(LogMsgReplayRecovered, "kind", entry.Kind, "key", entry.Key, "attempts", attempts)
		p.publish(ctx, event.NewPersistenceRecoveredEvent(entry.Kind, entry.Key, attempts))
	}
	return nil
}
