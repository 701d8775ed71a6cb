package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Runner executes background work (summary generation, conversation
// persistence) on a bounded worker pool. Requests return to the client
// before these complete; failures are logged with the task name so they are
// observable instead of silently dropped.
type Runner struct {
	jobs    chan job
	wg      sync.WaitGroup
	log     *zap.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

type job struct {
	name string
	fn   func(ctx context.Context) error
}

// NewRunner starts workers goroutines draining the queue. Each task gets its
// own context bounded by timeout so a stuck task cannot wedge a worker
// forever.
func NewRunner(workers, queueSize int, timeout time.Duration, log *zap.Logger) *Runner {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	r := &Runner{
		jobs:    make(chan job, queueSize),
		log:     log,
		timeout: timeout,
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return r
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for j := range r.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		start := time.Now()
		if err := j.fn(ctx); err != nil {
			r.log.Error("background task failed",
				zap.String("task", j.name),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
		} else {
			r.log.Debug("background task complete",
				zap.String("task", j.name),
				zap.Duration("elapsed", time.Since(start)))
		}
		cancel()
	}
}

// Submit enqueues a task. When the queue is full or the runner has been
// closed the task is dropped with a warning; background work is best-effort
// and must never block a request handler.
func (r *Runner) Submit(name string, fn func(ctx context.Context) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.log.Warn("background task dropped, runner closed", zap.String("task", name))
		return
	}
	select {
	case r.jobs <- job{name: name, fn: fn}:
	default:
		r.log.Warn("background task dropped, queue full", zap.String("task", name))
	}
}

// Close stops accepting work and waits for queued tasks to drain.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.jobs)
	r.mu.Unlock()
	r.wg.Wait()
}
