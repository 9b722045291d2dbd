// Package worker defines worker contracts for asynchronous run evaluation
// and result appends.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/sitebench/internal/adapters/repository"
	"github.com/okian/sitebench/internal/domain/model"
	"github.com/okian/sitebench/pkg/logger"
	"github.com/okian/sitebench/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// RunRequest is what workers read off the queue.
type RunRequest = model.RunRequest

// Evaluator runs one evaluation and produces its record.
type Evaluator interface {
	Run(ctx context.Context, req RunRequest) (model.EvaluationRecord, error)
}

// Appender persists evaluation records.
type Appender interface {
	Append(ctx context.Context, rec model.EvaluationRecord) error
}

// Queue defines how workers receive run requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan RunRequest
}

// Worker processes run requests and appends results using the provided
// interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing run requests.
type InMemoryWorker struct {
	queue     Queue
	evaluator Evaluator
	appender  Appender
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, evaluator Evaluator, appender Appender, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		evaluator: evaluator,
		appender:  appender,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case req, ok := <-requests:
			if !ok {
				// Channel closed, worker should stop.
				return
			}
			if err := w.processRequest(ctx, req); err != nil {
				w.logger.Error(ctx, "error processing run", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processRequest evaluates a single run and appends its record.
func (w *InMemoryWorker) processRequest(ctx context.Context, req RunRequest) error {
	rec, err := w.evaluator.Run(ctx, req)
	if err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "evaluation failed for run",
			logger.String("run", req.Key()),
			logger.Error(err),
		)
		return fmt.Errorf("evaluate run %s: %w", req.Key(), err)
	}

	if err := w.appender.Append(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Re-submitted run that slipped past the dedupe guard.
			w.logger.Debug(ctx, "duplicate run result dropped",
				logger.String("run", req.Key()),
			)
			return nil
		}
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "result append failed for run",
			logger.String("run", req.Key()),
			logger.Error(err),
		)
		return fmt.Errorf("append run %s: %w", req.Key(), err)
	}

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, evaluator Evaluator, appender Appender) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			evaluator,
			appender,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActive(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop stops all workers without draining the queue.
func (p *Pool) Stop() {
	for _, worker := range p.workers {
		close(worker.shutdown)
	}
	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
	metrics.UpdateWorkerActive(0)
}

// Shutdown gracefully shuts down the entire worker pool. The queue is closed
// first so workers drain remaining requests before stopping.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateWorkerActive(0)
	return nil
}
