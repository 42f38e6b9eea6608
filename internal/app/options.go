package service

import (
	"time"

	"github.com/okian/floorwatch/internal/adapters/mq/worker"
	"github.com/okian/floorwatch/internal/domain/dashboard"
	"github.com/okian/floorwatch/internal/domain/sampler"
	"github.com/okian/floorwatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLayout sets the dashboard layout every new session uses.
func WithLayout(l dashboard.Layout) Option {
	return func(s *Service) {
		s.layout = l
	}
}

// WithSource replaces the shared sampler.
func WithSource(src sampler.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithSessionTTL sets how long an idle session is kept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithMaxSessions bounds the number of open sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithQueueSize bounds pending commands per session.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many batch idempotency keys are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for batch timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithWorkerOptions appends options passed to every session worker.
func WithWorkerOptions(opts ...worker.Option) Option {
	return func(s *Service) {
		s.workerOpts = append(s.workerOpts, opts...)
	}
}
