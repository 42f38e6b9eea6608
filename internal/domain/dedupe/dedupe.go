// Package dedupe defines the interface for idempotency tracking.
package dedupe

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMaxSize = 10_000

// Deduper records seen idempotency keys so a retried user action (for
// example a double-clicked "new batch") is applied at most once.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so the action can be retried, used when the
	// action was recorded but could not be applied (e.g. backpressure).
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// inMemoryDeduper implements Deduper on a bounded LRU.
type inMemoryDeduper struct {
	maxSize int
	seen    *lru.Cache[string, struct{}]
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}

	cache, err := lru.New[string, struct{}](d.maxSize)
	if err != nil {
		// Only returned for non-positive sizes, which options rule out.
		panic(err)
	}
	d.seen = cache
	return d
}

// SeenAndRecord atomically checks if key was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	seen, _ := d.seen.ContainsOrAdd(key, struct{}{})
	return seen
}

// Unrecord removes key from the seen set.
func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.seen.Remove(key)
}

// Size returns the number of keys currently remembered.
func (d *inMemoryDeduper) Size() int64 {
	return int64(d.seen.Len())
}
