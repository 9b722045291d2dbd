// Package dedupe tracks run keys so each (configuration, site, sample size,
// iteration) tuple is evaluated at most once per experiment.
package dedupe

import (
	"context"
	"sync"
)

// defaultMaxSize bounds the in-memory key set.
const defaultMaxSize = 50000

// Deduper records seen run keys to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks whether key was seen and records it if
	// not. Returns true if key was already seen, false if newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord removes a key, allowing the run to be retried. Use it when a
	// run was recorded but never made it into the pipeline (e.g. the queue
	// rejected it).
	Unrecord(ctx context.Context, key string)

	// Size returns the current number of tracked keys.
	Size() int
}

// inMemoryDeduper implements Deduper with a bounded map plus an insertion
// stack. Eviction is LIFO: when full, the most recently added key is dropped
// first, keeping long-lived experiment keys stable.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	stack   []string
	maxSize int // 0 or negative disables the bound
}

// Option applies a configuration option to the deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds the number of tracked keys. Zero or negative means
// unbounded.
func WithMaxSize(n int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = n
	}
}

// NewInMemoryDeduper creates a bounded in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		seen:    make(map[string]struct{}),
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}

	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		// Evict the most recent entry to make room.
		last := d.stack[len(d.stack)-1]
		d.stack = d.stack[:len(d.stack)-1]
		delete(d.seen, last)
	}

	d.seen[key] = struct{}{}
	d.stack = append(d.stack, key)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; !ok {
		return
	}
	delete(d.seen, key)
	for i := len(d.stack) - 1; i >= 0; i-- {
		if d.stack[i] == key {
			d.stack = append(d.stack[:i], d.stack[i+1:]...)
			break
		}
	}
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
