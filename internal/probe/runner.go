package probe

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/okian/floorwatch/pkg/logger"
)

// Run drives cfg.Sessions sessions against the service and returns the
// collected statistics. It fails if any session broke an invariant.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Named("probe")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting floorwatch probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("sessions", cfg.Sessions),
		logger.Int("ticks", cfg.Ticks),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.String("lang", cfg.Lang))

	client := NewClient(cfg.BaseURL, cfg.Lang, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i := 0; i < cfg.Sessions; i++ {
		g.Go(func() error {
			res, err := driveSession(gctx, client, cfg.Ticks)
			if res.ID != "" {
				atomic.AddInt64(&stats.SessionsOpened, 1)
			}
			atomic.AddInt64(&stats.PointsObserved, int64(res.Points))
			atomic.AddInt64(&stats.Batches, int64(res.Batches))
			atomic.AddInt64(&stats.Duplicates, int64(res.Duplicates))
			if err != nil {
				atomic.AddInt64(&stats.SessionsFailed, 1)
				if isStatus(err, http.StatusTooManyRequests) {
					atomic.AddInt64(&stats.Backpressured, 1)
				}
				log.Warn(gctx, "session failed", logger.Int("session", i), logger.String("id", res.ID), logger.Error(err))
				return nil
			}
			atomic.AddInt64(&stats.SessionsVerified, 1)
			if cfg.Verbose {
				log.Info(gctx, "session verified", logger.Int("session", i), logger.String("id", res.ID), logger.Int("points", res.Points))
			}
			return nil
		})
	}
	_ = g.Wait()

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if stats.SessionsFailed > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrSessionsFailed, stats.SessionsFailed, cfg.Sessions)
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	log.Info(ctx, "probe completed successfully")
	return stats, nil
}

// displayFinalStats logs the final probe statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var sessionsPerSecond float64
	if stats.Duration > 0 {
		sessionsPerSecond = float64(stats.SessionsOpened) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int64("sessionsOpened", stats.SessionsOpened),
		logger.Int64("sessionsVerified", stats.SessionsVerified),
		logger.Int64("sessionsFailed", stats.SessionsFailed),
		logger.String("pointsObserved", humanize.Comma(stats.PointsObserved)),
		logger.Int64("batches", stats.Batches),
		logger.Int64("duplicates", stats.Duplicates),
		logger.Int64("backpressured", stats.Backpressured),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("sessionsPerSecond", sessionsPerSecond))
}
