package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if SITEBENCH_CONFIG is set
//  3. env (prefix SITEBENCH_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("SITEBENCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SITEBENCH_BASE_PATH, SITEBENCH_QUEUE_SIZE, ...
	// Map env keys like SITEBENCH_QUEUE_SIZE -> queue_size (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SITEBENCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "sitebench_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the pipeline cannot run with.
func validate(cfg *Config) error {
	if cfg.OutputPath == "" {
		return fmt.Errorf("%w: output_path must not be empty", ErrInvalidConfig)
	}
	if cfg.QueueSize < 1 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if cfg.WorkerCount < 1 {
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	if cfg.MaxIteration < 1 {
		return fmt.Errorf("%w: max_iteration must be positive", ErrInvalidConfig)
	}
	if cfg.JitterFactor < 0 {
		return fmt.Errorf("%w: jitter_factor must not be negative", ErrInvalidConfig)
	}
	if len(cfg.SampleSizes) == 0 {
		return fmt.Errorf("%w: sample_sizes must not be empty", ErrInvalidConfig)
	}
	for _, size := range cfg.SampleSizes {
		if size < 1 {
			return fmt.Errorf("%w: sample size %d must be positive", ErrInvalidConfig, size)
		}
	}
	return nil
}
