// Package repository keeps the open dashboard sessions.
package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/okian/floorwatch/pkg/logger"
	"github.com/okian/floorwatch/pkg/metrics"
)

const (
	defaultTTL             = 30 * time.Minute
	defaultMaxSessions     = 1_000
	defaultShutdownTimeout = 5 * time.Second
)

// Close reasons reported in metrics and logs.
const (
	ReasonClosed  = "closed"
	ReasonFailed  = "failed"
	ReasonEvicted = "evicted"
)

// Session is what the store needs from an open session.
type Session interface {
	ID() string
	Shutdown(ctx context.Context) error
}

// Store provides access to the open sessions.
type Store interface {
	// Add registers a new session.
	Add(ctx context.Context, s Session) error

	// Get returns the session and restarts its idle timer.
	// Returns ErrSessionNotFound if the id is unknown or expired.
	Get(ctx context.Context, id string) (Session, error)

	// Remove closes and forgets the session.
	Remove(ctx context.Context, id, reason string) error

	// Len returns the number of open sessions.
	Len(ctx context.Context) int

	// Close shuts every session down and waits for them.
	Close(ctx context.Context) error
}

// LRUStore keeps sessions in an expirable LRU cache. Sessions leaving the
// cache for any reason are shut down in the background.
type LRUStore struct {
	ttl             time.Duration
	maxSessions     int
	shutdownTimeout time.Duration
	logger          logger.Logger

	mu     sync.Mutex
	cache  *expirable.LRU[string, Session]
	closed bool

	// reasons is also read from the cache's expiry goroutine.
	reasonsMu sync.Mutex
	reasons   map[string]string

	active   atomic.Int64
	shutdown sync.WaitGroup
}

// NewLRUStore creates a session store.
func NewLRUStore(opts ...Option) *LRUStore {
	s := &LRUStore{
		ttl:             defaultTTL,
		maxSessions:     defaultMaxSessions,
		shutdownTimeout: defaultShutdownTimeout,
		logger:          logger.Discard(),
		reasons:         make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = expirable.NewLRU[string, Session](s.maxSessions, s.onEvict, s.ttl)
	metrics.UpdateSessionsActive(0)
	return s
}

// Add registers a new session.
func (s *LRUStore) Add(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	// Count first: a full cache evicts synchronously inside Add.
	metrics.UpdateSessionsActive(int(s.active.Add(1)))
	s.cache.Add(sess.ID(), sess)
	return nil
}

// Get returns the session and restarts its idle timer.
func (s *LRUStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	// Re-adding an existing key refreshes its expiry without eviction.
	s.cache.Add(id, sess)
	return sess, nil
}

// Remove closes and forgets the session.
func (s *LRUStore) Remove(_ context.Context, id, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cache.Contains(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.setReason(id, reason)
	s.cache.Remove(id)
	return nil
}

// Len returns the number of open sessions.
func (s *LRUStore) Len(_ context.Context) int {
	return s.cache.Len()
}

// Close shuts every session down and waits for them.
func (s *LRUStore) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		for _, id := range s.cache.Keys() {
			s.setReason(id, ReasonClosed)
		}
		s.cache.Purge()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.shutdown.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("session store close: %w", ctx.Err())
	}
}

// onEvict runs with the cache lock held, so the session is shut down on
// its own goroutine.
func (s *LRUStore) onEvict(id string, sess Session) {
	reason := s.takeReason(id)
	metrics.RecordSessionClosed(reason)
	metrics.UpdateSessionsActive(int(s.active.Add(-1)))

	s.shutdown.Add(1)
	go func() {
		defer s.shutdown.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := sess.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "session shutdown failed", logger.String("session", id), logger.Error(err))
			return
		}
		s.logger.Info(ctx, "session closed", logger.String("session", id), logger.String("reason", reason))
	}()
}

func (s *LRUStore) setReason(id, reason string) {
	s.reasonsMu.Lock()
	s.reasons[id] = reason
	s.reasonsMu.Unlock()
}

func (s *LRUStore) takeReason(id string) string {
	s.reasonsMu.Lock()
	defer s.reasonsMu.Unlock()
	reason, ok := s.reasons[id]
	if !ok {
		return ReasonEvicted
	}
	delete(s.reasons, id)
	return reason
}
