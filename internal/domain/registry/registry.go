// Package registry holds the typed experiment-configuration registry and the
// model factory built on top of it.
//
// Conventions:
// - Configurations are validated eagerly when the registry is built, so a
//   missing template or builder fails at load time, not at lookup time.
// - Lookup failures return ErrConfigNotFound with the requested name.
package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ModelBuilder instantiates a model from fixed keyword parameters.
// The returned model is consumed by eval.NewEvaluator.
type ModelBuilder func(params map[string]float64) (any, error)

// Config is one named experiment configuration: a dataset-path template, a
// model builder and its fixed parameters.
type Config struct {
	Name            string
	DatasetTemplate string // format string accepting the sample size, e.g. "train_%d_rev1.csv"
	BuilderName     string
	Params          map[string]float64

	builder ModelBuilder
}

// Registry maps configuration names to validated configurations.
type Registry struct {
	configs map[string]Config
}

// builder table shared by LoadFile and New; populated via RegisterBuilder.
var (
	builders   = make(map[string]ModelBuilder)
	buildersMu sync.RWMutex
)

// RegisterBuilder registers a model builder under a name so configurations
// can reference it. Empty names and nil builders are ignored.
func RegisterBuilder(name string, builder ModelBuilder) {
	if name == "" || builder == nil {
		return
	}
	buildersMu.Lock()
	defer buildersMu.Unlock()
	builders[name] = builder
}

// BuilderNames returns the registered builder names, sorted. Used for
// error messages and validation.
func BuilderNames() []string {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupBuilder(name string) (ModelBuilder, bool) {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	b, ok := builders[name]
	return b, ok
}

// New builds a registry from configurations, validating each eagerly.
func New(configs ...Config) (*Registry, error) {
	r := &Registry{configs: make(map[string]Config, len(configs))}
	for _, cfg := range configs {
		if err := validate(&cfg); err != nil {
			return nil, err
		}
		if _, exists := r.configs[cfg.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate configuration %q", ErrInvalidConfig, cfg.Name)
		}
		r.configs[cfg.Name] = cfg
	}
	return r, nil
}

// validate checks one configuration and resolves its builder.
func validate(cfg *Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("%w: empty configuration name", ErrInvalidConfig)
	}
	if cfg.DatasetTemplate == "" {
		return fmt.Errorf("%w: configuration %q has no dataset template", ErrInvalidConfig, cfg.Name)
	}
	if strings.Count(cfg.DatasetTemplate, "%d") != 1 {
		return fmt.Errorf("%w: configuration %q template %q must contain exactly one %%d verb",
			ErrInvalidConfig, cfg.Name, cfg.DatasetTemplate)
	}
	if cfg.builder == nil {
		if cfg.BuilderName == "" {
			return fmt.Errorf("%w: configuration %q has no model builder", ErrInvalidConfig, cfg.Name)
		}
		b, ok := lookupBuilder(cfg.BuilderName)
		if !ok {
			return fmt.Errorf("%w: %q (registered: %v)", ErrUnknownBuilder, cfg.BuilderName, BuilderNames())
		}
		cfg.builder = b
	}
	return nil
}

// Get returns the configuration for name.
func (r *Registry) Get(name string) (Config, error) {
	cfg, ok := r.configs[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q (known: %v)", ErrConfigNotFound, name, r.Names())
	}
	return cfg, nil
}

// Has reports whether name is a known configuration.
func (r *Registry) Has(name string) bool {
	_, ok := r.configs[name]
	return ok
}

// Names returns all configuration names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of configurations.
func (r *Registry) Len() int {
	return len(r.configs)
}

// Build is the model factory: it looks up the configuration and instantiates
// a fresh model with the configuration's fixed parameters. Construction
// errors from the builder propagate unchanged.
func (r *Registry) Build(_ context.Context, name string) (any, error) {
	cfg, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return cfg.builder(cfg.Params)
}
