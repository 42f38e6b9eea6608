// Package queue provides the bounded mailbox that feeds a session worker.
//
// Enqueue never blocks: a full queue rejects the item so callers can
// report backpressure instead of stalling an HTTP handler.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/floorwatch/pkg/metrics"
)

const (
	defaultCapacity = 16
	defaultName     = "commands"
)

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue[T any] interface {
	// Enqueue adds an item. It returns ErrFull or ErrClosed when the item
	// was not accepted, or the context error if ctx is already done.
	Enqueue(ctx context.Context, item T) error

	// Dequeue returns the channel items are delivered on. It is closed by Close.
	Dequeue() <-chan T

	// Len returns the current number of pending items.
	Len() int

	// Close stops accepting items. Pending items remain readable.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue[T any] struct {
	items chan T
	name  string

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a bounded queue.
func NewInMemoryQueue[T any](opts ...Option) *InMemoryQueue[T] {
	s := settings{capacity: defaultCapacity, name: defaultName}
	for _, opt := range opts {
		opt(&s)
	}
	return &InMemoryQueue[T]{
		items: make(chan T, s.capacity),
		name:  s.name,
	}
}

// Enqueue adds an item without blocking.
func (q *InMemoryQueue[T]) Enqueue(ctx context.Context, item T) error {
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueRejected(q.name, "context_cancelled")
		return fmt.Errorf("enqueue: %w", err)
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueRejected(q.name, "closed")
		return ErrClosed
	}

	select {
	case q.items <- item:
		metrics.RecordQueueEnqueue(q.name)
		return nil
	default:
		metrics.RecordQueueRejected(q.name, "full")
		return ErrFull
	}
}

// Dequeue returns the receive side of the queue.
func (q *InMemoryQueue[T]) Dequeue() <-chan T {
	return q.items
}

// Len returns the current number of pending items.
func (q *InMemoryQueue[T]) Len() int {
	return len(q.items)
}

// Cap returns the configured capacity.
func (q *InMemoryQueue[T]) Cap() int {
	return cap(q.items)
}

// Close stops accepting items and closes the dequeue channel.
func (q *InMemoryQueue[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue[T]) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
