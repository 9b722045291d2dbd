// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Layer file and environment overrides on top via Load.
// - External errors must be wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// BasePath is the root directory of the per-site dataset splits.
	BasePath string `koanf:"base_path"`

	// ResultsPath points at an existing evaluation results CSV. Empty means
	// synthesize a demo dataset instead.
	ResultsPath string `koanf:"results_path"`

	// RegistryPath points at the YAML model configuration registry.
	RegistryPath string `koanf:"registry_path"`

	// TuningPath points at a raw hyperparameter-tuning results CSV.
	TuningPath string `koanf:"tuning_path"`

	// OutputPath is the directory chart payloads and summaries are written to.
	OutputPath string `koanf:"output_path"`

	// QueueSize bounds the in-memory run queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the run deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxIteration caps the iteration number accepted per run.
	MaxIteration int `koanf:"max_iteration"`

	// JitterFactor scales the horizontal jitter in scatter layouts.
	JitterFactor float64 `koanf:"jitter_factor"`

	// SampleSizes lists the training set sizes covered by the figures.
	SampleSizes []int `koanf:"sample_sizes"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:     "info",
		BasePath:     "data/splits",
		OutputPath:   "artifacts",
		QueueSize:    10_000,
		WorkerCount:  runtime.NumCPU(),
		DedupeSize:   50_000,
		MaxIteration: 100,
		JitterFactor: 0.08,
		SampleSizes:  []int{100, 500, 1000, 5000},
	}
}
