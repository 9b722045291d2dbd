// Package model contains domain models passed between layers.
package model

import "fmt"

// EvaluationRecord is one row of experiment results: the scores a model
// configuration achieved on a held-out site at a given training set size
// and repetition.
type EvaluationRecord struct {
	Configuration string             // experiment configuration identifier
	SiteLeftOut   string             // held-out partition identifier
	SampleSize    int                // training set size for this run
	Iteration     int                // repetition index
	Metrics       map[string]float64 // open set of named scores in [0,1]
}

// Key returns the canonical run key. The store enforces uniqueness on it.
func (r EvaluationRecord) Key() string {
	return fmt.Sprintf("%s|%s|%d|%d", r.Configuration, r.SiteLeftOut, r.SampleSize, r.Iteration)
}

// Metric returns the named metric value and whether it is present.
func (r EvaluationRecord) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	return v, ok
}

// MetricNames returns the metric names present on the record, unordered.
func (r EvaluationRecord) MetricNames() []string {
	names := make([]string, 0, len(r.Metrics))
	for name := range r.Metrics {
		names = append(names, name)
	}
	return names
}

// Clone returns a deep copy of the record so stored rows stay immutable.
func (r EvaluationRecord) Clone() EvaluationRecord {
	out := r
	out.Metrics = make(map[string]float64, len(r.Metrics))
	for k, v := range r.Metrics {
		out.Metrics[k] = v
	}
	return out
}

// RunRequest identifies a single evaluation run to perform.
type RunRequest struct {
	Configuration string
	Site          string
	SampleSize    int
	Iteration     int
}

// Key returns the run key matching EvaluationRecord.Key for the same run.
func (r RunRequest) Key() string {
	return fmt.Sprintf("%s|%s|%d|%d", r.Configuration, r.Site, r.SampleSize, r.Iteration)
}
