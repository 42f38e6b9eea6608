// Package service runs the dashboard sessions behind the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/okian/floorwatch/internal/adapters/mq/worker"
	"github.com/okian/floorwatch/internal/adapters/repository"
	"github.com/okian/floorwatch/internal/domain/dashboard"
	"github.com/okian/floorwatch/internal/domain/dedupe"
	"github.com/okian/floorwatch/internal/domain/sampler"
	"github.com/okian/floorwatch/internal/platform/i18n"
	"github.com/okian/floorwatch/pkg/logger"
	"github.com/okian/floorwatch/pkg/metrics"
)

const (
	defaultSessionTTL  = 30 * time.Minute
	defaultMaxSessions = 1_000
	defaultQueueSize   = 16
	defaultDedupeSize  = 10_000
)

// Session describes a freshly opened dashboard.
type Session struct {
	ID     string               `json:"id"`
	Layout dashboard.LayoutView `json:"layout"`
	View   dashboard.View       `json:"view"`
}

// BatchResult is the outcome of a new batch press.
type BatchResult struct {
	View      dashboard.View `json:"view"`
	Annotated bool           `json:"annotated"`
	Duplicate bool           `json:"duplicate"`
}

// Service owns the session store and starts one worker per session.
type Service struct {
	mu sync.RWMutex

	layout     dashboard.Layout
	source     sampler.Source
	sessions   repository.Store
	deduper    dedupe.Deduper
	workerOpts []worker.Option

	sessionTTL  time.Duration
	maxSessions int
	queueSize   int
	dedupeSize  int

	started   bool
	startedAt time.Time
	runCtx    context.Context
	cancel    context.CancelFunc

	now    func() time.Time
	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		layout:      dashboard.DefaultLayout(),
		sessionTTL:  defaultSessionTTL,
		maxSessions: defaultMaxSessions,
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates the session store and shared sampler.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if err := s.layout.Validate(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if s.source == nil {
		s.source = sampler.New()
	}

	s.sessions = repository.NewLRUStore(
		repository.WithTTL(s.sessionTTL),
		repository.WithMaxSessions(s.maxSessions),
		repository.WithLogger(s.logger.Named("sessions")),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	// Sessions outlive the request that opened them; Stop ends them.
	s.runCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.startedAt = s.now()
	s.started = true

	s.logger.Info(ctx, "dashboard service started",
		logger.Duration("tickPeriod", s.layout.TickPeriod),
		logger.Duration("sessionTTL", s.sessionTTL),
		logger.Int("maxSessions", s.maxSessions),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop closes every session and waits for their workers.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping dashboard service...")

	err := s.sessions.Close(ctx)
	s.cancel()
	s.started = false
	if err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	s.logger.Info(ctx, "dashboard service stopped")
	return nil
}

// Open starts a new dashboard session and returns its first view.
func (s *Service) Open(ctx context.Context, tag language.Tag) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return Session{}, ErrNotStarted
	}

	id := uuid.NewString()
	opts := append([]worker.Option{
		worker.WithLogger(s.logger.Named("session")),
		worker.WithQueueSize(s.queueSize),
		worker.WithOnStop(s.onWorkerStop),
	}, s.workerOpts...)
	w := worker.NewInMemoryWorker(id, s.layout, s.source, opts...)
	if err := s.sessions.Add(ctx, w); err != nil {
		return Session{}, fmt.Errorf("open session: %w", err)
	}
	go w.Run(s.runCtx)
	metrics.RecordSessionOpened()

	res, err := w.Do(ctx, worker.Command{Kind: worker.KindView, Printer: i18n.Printer(tag)})
	if err != nil {
		return Session{}, fmt.Errorf("open session: %w", err)
	}
	s.logger.Info(ctx, "session opened", logger.String("session", id), logger.String("lang", tag.String()))
	return Session{ID: id, Layout: s.layout.Describe(), View: res.View}, nil
}

// View returns the session state. since is the number of chart points the
// caller already has.
func (s *Service) View(ctx context.Context, id string, since int, tag language.Tag) (dashboard.View, error) {
	res, err := s.do(ctx, id, worker.Command{Kind: worker.KindView, Since: since, Printer: i18n.Printer(tag)})
	return res.View, err
}

// Toggle presses the start/stop control.
func (s *Service) Toggle(ctx context.Context, id string, tag language.Tag) (dashboard.View, error) {
	res, err := s.do(ctx, id, worker.Command{Kind: worker.KindToggle, Printer: i18n.Printer(tag)})
	return res.View, err
}

// NewBatch presses the new batch control. A non-empty key makes the press
// idempotent: replays return the current view without starting another batch.
func (s *Service) NewBatch(ctx context.Context, id, key string, tag language.Tag) (BatchResult, error) {
	var dedupeKey string
	if key != "" {
		if err := s.checkStarted(); err != nil {
			return BatchResult{}, err
		}
		dedupeKey = id + ":" + key
		if s.deduper.SeenAndRecord(ctx, dedupeKey) {
			metrics.RecordBatchDuplicate()
			v, err := s.View(ctx, id, 0, tag)
			return BatchResult{View: v, Duplicate: true}, err
		}
	}

	res, err := s.do(ctx, id, worker.Command{
		Kind:        worker.KindBatch,
		At:          s.now(),
		DatePattern: i18n.DatePattern(tag),
		Printer:     i18n.Printer(tag),
	})
	if err != nil {
		if dedupeKey != "" {
			s.deduper.Unrecord(ctx, dedupeKey)
		}
		return BatchResult{}, err
	}
	return BatchResult{View: res.View, Annotated: res.Annotated}, nil
}

// Close ends a session.
func (s *Service) Close(ctx context.Context, id string) error {
	if err := s.checkStarted(); err != nil {
		return err
	}
	return s.sessions.Remove(ctx, id, repository.ReasonClosed)
}

func (s *Service) do(ctx context.Context, id string, cmd worker.Command) (worker.Result, error) {
	if err := s.checkStarted(); err != nil {
		return worker.Result{}, err
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return worker.Result{}, err
	}
	w, ok := sess.(worker.Worker)
	if !ok {
		return worker.Result{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return w.Do(ctx, cmd)
}

func (s *Service) checkStarted() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// onWorkerStop drops sessions whose loop ended on its own.
func (s *Service) onWorkerStop(id string, err error) {
	if err == nil {
		return
	}
	ctx := context.Background()
	s.logger.Error(ctx, "session failed", logger.String("session", id), logger.Error(err))
	s.mu.RLock()
	sessions := s.sessions
	s.mu.RUnlock()
	if rmErr := sessions.Remove(ctx, id, repository.ReasonFailed); rmErr != nil && !errors.Is(rmErr, repository.ErrSessionNotFound) {
		s.logger.Warn(ctx, "failed to drop session", logger.String("session", id), logger.Error(rmErr))
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"maxSessions": s.maxSessions,
		"sessionTTL":  s.sessionTTL.String(),
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"tickPeriod":  s.layout.TickPeriod.String(),
	}
	if s.started {
		ctx := context.Background()
		open := s.sessions.Len(ctx)
		stats["sessions"] = open
		stats["dedupeEntries"] = humanize.Comma(s.deduper.Size())
		stats["startedAt"] = s.startedAt.UTC().Format(time.RFC3339)
		stats["uptime"] = humanize.RelTime(s.startedAt, s.now(), "", "")
		metrics.UpdateSessionsActive(open)
	}
	return stats
}

// Layout returns the layout sessions are built from.
func (s *Service) Layout() dashboard.Layout {
	return s.layout
}
