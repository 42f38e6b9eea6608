package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue[string](WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if err := q.Enqueue(ctx, "toggle"); err != nil {
		t.Errorf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	if item := <-q.Dequeue(); item != "toggle" {
		t.Errorf("expected toggle, got %v", item)
	}
	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue[int](WithCapacity(2), WithName("test"))
	ctx := context.Background()

	if q.Cap() != 2 {
		t.Fatalf("expected capacity 2, got %d", q.Cap())
	}
	for i := 0; i < 2; i++ {
		if err := q.Enqueue(ctx, i); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if err := q.Enqueue(ctx, 3); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}

	// Draining one slot makes room again.
	<-q.Dequeue()
	if err := q.Enqueue(ctx, 4); err != nil {
		t.Errorf("expected enqueue after drain to succeed, got %v", err)
	}
}

func TestInMemoryQueue_DefaultCapacity(t *testing.T) {
	q := NewInMemoryQueue[int](WithCapacity(0), WithCapacity(-3))
	if q.Cap() != defaultCapacity {
		t.Errorf("expected default capacity %d, got %d", defaultCapacity, q.Cap())
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if q.Len() != 0 {
		t.Errorf("expected nothing enqueued, got %d", q.Len())
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	const producers, perProducer = 8, 50
	q := NewInMemoryQueue[int](WithCapacity(producers * perProducer))
	ctx := context.Background()

	var wg sync.WaitGroup
	var accepted atomic.Int64
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if q.Enqueue(ctx, i) == nil {
					accepted.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	if accepted.Load() != producers*perProducer {
		t.Errorf("expected %d accepted, got %d", producers*perProducer, accepted.Load())
	}
	if q.Len() != producers*perProducer {
		t.Errorf("expected length %d, got %d", producers*perProducer, q.Len())
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue[string](WithCapacity(4))
	ctx := context.Background()

	_ = q.Enqueue(ctx, "batch")
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if err := q.Enqueue(ctx, "toggle"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// Pending items drain before the channel reports closed.
	item, ok := <-q.Dequeue()
	if !ok || item != "batch" {
		t.Errorf("expected pending batch, got %q ok=%v", item, ok)
	}
	if _, ok := <-q.Dequeue(); ok {
		t.Error("expected dequeue channel to be closed")
	}
}
