// Package service wires the experiment components together: the results
// store, the run queue, the worker pool and the dedupe guard.
package service

import (
	"context"
	"runtime"
	"sync"

	"github.com/google/uuid"
	runqueue "github.com/okian/sitebench/internal/adapters/mq/queue"
	workerpool "github.com/okian/sitebench/internal/adapters/mq/worker"
	"github.com/okian/sitebench/internal/adapters/repository"
	"github.com/okian/sitebench/internal/domain/dedupe"
	"github.com/okian/sitebench/internal/domain/model"
	"github.com/okian/sitebench/pkg/logger"
	"github.com/okian/sitebench/pkg/metrics"
)

// EvalFunc runs one evaluation and produces its record. The heavy lifting
// (loading the split, fitting, predicting) lives behind this boundary so the
// service stays agnostic of how models are trained.
type EvalFunc func(ctx context.Context, req model.RunRequest) (model.EvaluationRecord, error)

// evalAdapter adapts an EvalFunc to the worker.Evaluator interface.
type evalAdapter struct {
	fn EvalFunc
}

func (a *evalAdapter) Run(ctx context.Context, req model.RunRequest) (model.EvaluationRecord, error) {
	return a.fn(ctx, req)
}

// Service owns the lifecycle of the run pipeline.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	deduper  dedupe.Deduper
	runQueue runqueue.Queue
	pool     *workerpool.Pool
	evalFn   EvalFunc

	workerCount  int
	queueSize    int
	dedupeSize   int
	maxIteration int

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the run queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxIteration caps the iteration number accepted by SubmitRun.
func WithMaxIteration(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxIteration = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEvalFunc sets the evaluation boundary used by the workers.
func WithEvalFunc(fn EvalFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.evalFn = fn
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU(),
		queueSize:    10000,
		dedupeSize:   50000,
		maxIteration: 100,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.evalFn == nil {
		return ErrNoEvaluator
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.store = repository.NewMemoryStore()
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.runQueue = runqueue.NewInMemoryQueue(
		runqueue.WithCapacity(s.queueSize),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.runQueue, &evalAdapter{fn: s.evalFn}, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "experiment service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop drains the queue and shuts the pipeline down.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(ctx, "stopping experiment service...")

	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "experiment service stopped")
}

// SubmitRun queues one evaluation run. Duplicate runs (same configuration,
// site, sample size and iteration) are dropped; a rejected enqueue unrecords
// the key so the run can be retried later.
func (s *Service) SubmitRun(ctx context.Context, req model.RunRequest) error {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}

	if req.Iteration < 1 || req.Iteration > s.maxIteration {
		metrics.RecordRejected()
		return ErrIterationRange
	}

	key := req.Key()
	if s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordDuplicate()
		s.logger.Debug(ctx, "duplicate run skipped", logger.String("run", key))
		return ErrDuplicateRun
	}

	runID := uuid.NewString()
	if !s.runQueue.Enqueue(ctx, req) {
		s.deduper.Unrecord(ctx, key)
		metrics.RecordRejected()
		s.logger.Warn(ctx, "run queue full, submission rejected",
			logger.String("runID", runID),
			logger.String("run", key),
		)
		return ErrQueueFull
	}

	s.logger.Debug(ctx, "run submitted",
		logger.String("runID", runID),
		logger.String("run", key),
	)
	return nil
}

// Records returns a snapshot of the accumulated evaluation records.
func (s *Service) Records(ctx context.Context) []model.EvaluationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil
	}
	return s.store.Records(ctx)
}

// Count returns the number of stored records.
func (s *Service) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return 0
	}
	return s.store.Count(ctx)
}

// QueueLen returns the current depth of the run queue.
func (s *Service) QueueLen(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.runQueue == nil {
		return 0
	}
	return s.runQueue.Len(ctx)
}
