// Package repository defines the results store interface and errors.
package repository

import (
	"context"

	"github.com/okian/sitebench/internal/domain/model"
)

// Store provides append-only access to experiment evaluation records.
//
// Records are never mutated once appended and there is no deletion path; a
// completed experiment run leaves the store effectively immutable.
type Store interface {
	// Append adds a record. Returns ErrDuplicate when a record with the same
	// run key already exists and ErrMetricRange when a metric value falls
	// outside [0,1].
	Append(ctx context.Context, rec model.EvaluationRecord) error

	// Records returns all records in append order. The returned slice and
	// its records are copies; callers may not observe later appends.
	Records(ctx context.Context) []model.EvaluationRecord

	// Count returns the number of stored records.
	Count(ctx context.Context) int
}
