package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/sitebench/internal/domain/model"
	"github.com/okian/sitebench/pkg/metrics"
)

// defaultInitialCapacity pre-sizes the record slice for a typical experiment
// (configurations x sites x sample sizes x iterations).
const defaultInitialCapacity = 1024

// MemoryStore implements Store with an in-memory append-only log plus a run
// key index for uniqueness checks.
type MemoryStore struct {
	mu              sync.RWMutex
	records         []model.EvaluationRecord
	keys            map[string]struct{}
	initialCapacity int
}

// NewMemoryStore creates an empty in-memory results store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{initialCapacity: defaultInitialCapacity}
	for _, opt := range opts {
		opt(s)
	}
	s.records = make([]model.EvaluationRecord, 0, s.initialCapacity)
	s.keys = make(map[string]struct{}, s.initialCapacity)
	return s
}

// Append adds a record after validating the run key and metric ranges.
func (s *MemoryStore) Append(_ context.Context, rec model.EvaluationRecord) error {
	for name, v := range rec.Metrics {
		if v < 0 || v > 1 {
			metrics.RecordRejected()
			return fmt.Errorf("%w: metric %q is %v for run %s", ErrMetricRange, name, v, rec.Key())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := rec.Key()
	if _, exists := s.keys[key]; exists {
		metrics.RecordDuplicate()
		return fmt.Errorf("%w: %s", ErrDuplicate, key)
	}

	s.keys[key] = struct{}{}
	s.records = append(s.records, rec.Clone())

	metrics.RecordAppend()
	metrics.UpdateStoreSize(len(s.records))

	return nil
}

// Records returns a deep copy of all records in append order.
func (s *MemoryStore) Records(_ context.Context) []model.EvaluationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.EvaluationRecord, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Clone()
	}
	return out
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
