// Package queue defines the contract for enqueuing and consuming evaluation
// run requests.
//
// Implementations may use channels or more advanced structures. The default
// is an in-memory bounded queue.
package queue

import (
	"context"
	"sync"

	"github.com/okian/sitebench/internal/domain/model"
	"github.com/okian/sitebench/pkg/metrics"
)

// defaultCapacity bounds the in-memory queue when no option overrides it.
const defaultCapacity = 10000

// RunRequest is the payload type flowing through the queue.
type RunRequest = model.RunRequest

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a run request to the queue.
	// Returns false if the queue is full or closed and the request was dropped.
	Enqueue(ctx context.Context, req RunRequest) bool

	// Dequeue returns a channel that receives requests as they become
	// available. The channel is closed when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan RunRequest

	// Len returns the current number of queued requests.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new requests can be enqueued.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	requests chan RunRequest
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}

	q.requests = make(chan RunRequest, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)

	return q
}

// Enqueue adds a run request to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, req RunRequest) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.requests <- req:
		q.publishGauges()
		return true
	case <-ctx.Done():
		return false
	default:
		return false // queue is full
	}
}

// Dequeue returns a channel that receives requests as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan RunRequest {
	out := make(chan RunRequest)
	go func() {
		defer close(out)
		for req := range q.requests {
			select {
			case out <- req:
				q.publishGauges()
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued requests.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	q.publishGauges()
	return len(q.requests)
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	close(q.requests)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) publishGauges() {
	size := len(q.requests)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
