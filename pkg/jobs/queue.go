// Package jobs runs independent units of work on a fixed pool of workers
// fed by a bounded queue.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/EchoTools/probetools/internal/logging"
)

var (
	ErrNoWorkers        = errors.New("jobs: attempting to create a queue with less than 1 worker")
	ErrNegativeCapacity = errors.New("jobs: attempting to create a queue with a negative capacity")
	ErrQueueClosed      = errors.New("jobs: queue is shut down")
)

// Job is a named unit of work.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

type task struct {
	ctx context.Context
	job Job
}

// Queue is a bounded job queue served by a fixed set of workers.
type Queue struct {
	numWorkers int
	tasks      chan task
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	errMu sync.Mutex
	errs  []error
}

// NewQueue starts workers goroutines reading from a queue that holds up to
// capacity pending jobs.
func NewQueue(workers, capacity int) (*Queue, error) {
	if workers <= 0 {
		return nil, ErrNoWorkers
	}
	if capacity < 0 {
		return nil, ErrNegativeCapacity
	}

	q := &Queue{
		numWorkers: workers,
		tasks:      make(chan task, capacity),
	}
	q.start()
	return q, nil
}

func (q *Queue) start() {
	for i := 0; i < q.numWorkers; i++ {
		q.wg.Add(1)
		go func(worker int) {
			defer q.wg.Done()
			for t := range q.tasks {
				q.run(worker, t)
			}
		}(i)
	}
}

func (q *Queue) run(worker int, t task) {
	if err := t.ctx.Err(); err != nil {
		q.fail(fmt.Errorf("%s: %w", t.job.Name, err))
		return
	}

	start := time.Now()
	err := t.job.Run(t.ctx)
	if err != nil {
		logging.Error("job failed", "job", t.job.Name, "worker", worker, "err", err)
		q.fail(fmt.Errorf("%s: %w", t.job.Name, err))
		return
	}
	logging.Debug("job done", "job", t.job.Name, "worker", worker, "elapsed", time.Since(start))
}

func (q *Queue) fail(err error) {
	q.errMu.Lock()
	q.errs = append(q.errs, err)
	q.errMu.Unlock()
}

// Submit queues a job, blocking while the queue is full. It returns
// ErrQueueClosed after Shutdown, or the context error if ctx ends first.
// The job receives ctx when it runs.
func (q *Queue) Submit(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.tasks <- task{ctx: ctx, job: job}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs, waits for queued jobs to finish and
// returns the joined errors of every failed job.
func (q *Queue) Shutdown() error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()

	q.wg.Wait()

	q.errMu.Lock()
	defer q.errMu.Unlock()
	return errors.Join(q.errs...)
}
