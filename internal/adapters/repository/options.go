package repository

import (
	"time"

	"github.com/okian/floorwatch/pkg/logger"
)

// Option applies a configuration option to the LRUStore.
type Option func(*LRUStore)

// WithTTL sets how long a session may stay idle before it is closed.
func WithTTL(ttl time.Duration) Option {
	return func(s *LRUStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxSessions bounds the number of open sessions. The least recently
// used session is closed to make room.
func WithMaxSessions(n int) Option {
	return func(s *LRUStore) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithShutdownTimeout bounds how long closing one session may take.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *LRUStore) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *LRUStore) {
		if l != nil {
			s.logger = l
		}
	}
}
