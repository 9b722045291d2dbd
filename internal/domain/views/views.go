// Package views builds read-only query views over experiment results: subset
// filters and wide-to-long reshapes consumed by the chart adapter.
//
// Conventions:
// - Every operation is a pure function over its inputs; the store is never
//   mutated and outputs are freshly allocated.
// - Melt operations are bijective on (row, metric) pairs.
package views

import (
	"fmt"

	"github.com/okian/sitebench/internal/domain/model"
	"github.com/okian/sitebench/pkg/metrics"
)

// MeltedRow is one long-form row keyed by configuration and site.
type MeltedRow struct {
	Configuration string
	SiteLeftOut   string
	Metric        string
	Value         float64
}

// ScoreRow is one long-form row keyed by configuration only, used by views
// that pool sites together.
type ScoreRow struct {
	Configuration string
	Metric        string
	Score         float64
}

// FilterBySampleSize keeps records matching sampleSize with iteration at or
// below maxIteration. Order is preserved; the input is never modified.
// Filtering an already-filtered subset with the same criteria is a no-op.
func FilterBySampleSize(records []model.EvaluationRecord, sampleSize, maxIteration int) []model.EvaluationRecord {
	out := make([]model.EvaluationRecord, 0, len(records))
	for _, rec := range records {
		if rec.SampleSize == sampleSize && rec.Iteration <= maxIteration {
			out = append(out, rec)
		}
	}
	return out
}

// MeltPair reshapes a subset into long form for exactly two metrics. Each
// source record yields two rows, metricA then metricB, so the output has
// 2x the input rows and each metric keeps the source order.
func MeltPair(subset []model.EvaluationRecord, metricA, metricB string) ([]MeltedRow, error) {
	out := make([]MeltedRow, 0, 2*len(subset))
	for _, rec := range subset {
		for _, name := range []string{metricA, metricB} {
			v, ok := rec.Metric(name)
			if !ok {
				return nil, fmt.Errorf("%w: %q on run %s", ErrSchema, name, rec.Key())
			}
			out = append(out, MeltedRow{
				Configuration: rec.Configuration,
				SiteLeftOut:   rec.SiteLeftOut,
				Metric:        name,
				Value:         v,
			})
		}
	}
	metrics.AddViewRows("melt_pair", len(out))
	return out, nil
}

// MeltMany reshapes a subset into long form for N metrics, nested in
// metricNames order within each source record.
func MeltMany(subset []model.EvaluationRecord, metricNames []string) ([]ScoreRow, error) {
	out := make([]ScoreRow, 0, len(metricNames)*len(subset))
	for _, rec := range subset {
		for _, name := range metricNames {
			v, ok := rec.Metric(name)
			if !ok {
				return nil, fmt.Errorf("%w: %q on run %s", ErrSchema, name, rec.Key())
			}
			out = append(out, ScoreRow{
				Configuration: rec.Configuration,
				Metric:        name,
				Score:         v,
			})
		}
	}
	metrics.AddViewRows("melt_many", len(out))
	return out, nil
}
