package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/osse101/CrashRound_Go/internal/logger"
	"github.com/osse101/CrashRound_Go/internal/worker"
)

// LogMsgJobSkipped is logged when a tick finds the worker queue unavailable
const LogMsgJobSkipped = "Scheduled job skipped"

// Enqueuer accepts jobs without blocking
type Enqueuer interface {
	Enqueue(job worker.Job) error
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	workerPool Enqueuer
	quit       chan struct{}
	once       sync.Once
	wg         sync.WaitGroup
}

// New creates a new scheduler
func New(pool Enqueuer) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		quit:       make(chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval. The first run happens
// one interval after scheduling. A tick that finds the queue full is skipped;
// the next tick tries again.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.workerPool.Enqueue(job); err != nil {
					logger.FromContext(context.Background()).Warn(LogMsgJobSkipped, "error", err)
					if errors.Is(err, worker.ErrPoolStopped) {
						return
					}
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.quit) })
	s.wg.Wait()
}
