package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sjperalta/agent-portal-api/pkg/logger"
)

// Job represents a background task
type Job func(ctx context.Context) error

// Runner dispatches best-effort side effects such as audit writes.
type Runner interface {
	EnqueueAsync(name string, job Job)
}

// Worker runs fire-and-forget jobs on bounded goroutines and drains them on shutdown.
type Worker struct {
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	asyncSem      chan struct{}
	maxConcurrent int
	stats         WorkerStats
	statsMu       sync.RWMutex
	closed        bool
	closeMu       sync.RWMutex
}

// WorkerStats holds statistics about the worker
type WorkerStats struct {
	ActiveJobs    int   `json:"activeJobs"`
	CompletedJobs int64 `json:"completedJobs"`
	FailedJobs    int64 `json:"failedJobs"`
	MaxConcurrent int   `json:"maxConcurrent"`
}

// NewWorker creates a worker that runs at most maxConcurrent jobs at a time.
func NewWorker(maxConcurrent int) *Worker {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		ctx:           ctx,
		cancel:        cancel,
		asyncSem:      make(chan struct{}, maxConcurrent),
		maxConcurrent: maxConcurrent,
	}
}

// EnqueueAsync runs a job in a new goroutine (fire-and-forget), bounded by semaphore.
// Jobs enqueued after Shutdown run synchronously so nothing is silently dropped.
func (w *Worker) EnqueueAsync(name string, job Job) {
	w.closeMu.RLock()
	defer w.closeMu.RUnlock()
	if w.closed {
		w.run(context.Background(), name, job)
		return
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		// Acquire semaphore to limit concurrency
		w.asyncSem <- struct{}{}
		defer func() { <-w.asyncSem }()

		w.run(w.ctx, name, job)
	}()
}

func (w *Worker) run(ctx context.Context, name string, job Job) {
	w.trackJobStart()
	defer w.trackJobEnd()

	// Recover from panics
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("[Worker] Job %s panic: %v", name, r))
			w.trackJobFailure()
		}
	}()

	start := time.Now()
	if err := job(ctx); err != nil {
		logger.Error(fmt.Sprintf("[Worker] Job %s error: %v", name, err))
		w.trackJobFailure()
		return
	}
	logger.Debug(fmt.Sprintf("[Worker] Job %s completed in %v", name, time.Since(start)))
}

// Shutdown waits for in-flight jobs and then cancels the worker context.
func (w *Worker) Shutdown() {
	w.closeMu.Lock()
	w.closed = true
	w.closeMu.Unlock()

	w.wg.Wait()
	w.cancel()
}

// GetStats returns the current worker statistics
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.MaxConcurrent = w.maxConcurrent
	return stats
}

func (w *Worker) trackJobStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

// CompletedJobs counts finished jobs, failed ones included.
func (w *Worker) trackJobEnd() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.CompletedJobs++
}

func (w *Worker) trackJobFailure() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.FailedJobs++
}

// Inline runs jobs on the caller's goroutine. Tests use it so side effects are
// visible as soon as the operation returns.
type Inline struct{}

func (Inline) EnqueueAsync(name string, job Job) {
	if err := job(context.Background()); err != nil {
		logger.Error(fmt.Sprintf("[Inline] Job %s error: %v", name, err))
	}
}
