// Command floorwatch serves the live factory floor dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/floorwatch/internal/adapters/http/api"
	"github.com/okian/floorwatch/internal/adapters/http/site"
	"github.com/okian/floorwatch/internal/adapters/http/swagger"
	service "github.com/okian/floorwatch/internal/app"
	"github.com/okian/floorwatch/internal/config"
	"github.com/okian/floorwatch/internal/platform/otel"
	"github.com/okian/floorwatch/pkg/logger"
	"github.com/okian/floorwatch/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithJSON(cfg.LogJSON)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "floorwatch stopped with error", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "server stopped")
}

// run wires the service and serves HTTP until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	shutdownTracing, err := otel.Setup(ctx, cfg.OTelEndpoint, cfg.ServiceName)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}

	svc, err := newService(cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		startSystemMetricsUpdater(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(gctx, "shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()

		return errors.Join(
			srv.Shutdown(shutdownCtx),
			svc.Stop(shutdownCtx),
			shutdownTracing(shutdownCtx),
		)
	})
	return g.Wait()
}

// newService builds the dashboard service from configuration.
func newService(cfg *config.Config, log logger.Logger) (*service.Service, error) {
	layout, err := cfg.Layout()
	if err != nil {
		return nil, err
	}
	return service.New(
		service.WithLayout(layout),
		service.WithLogger(log.Named("service")),
		service.WithSessionTTL(cfg.SessionTTL),
		service.WithMaxSessions(cfg.MaxSessions),
		service.WithQueueSize(cfg.CommandQueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
	), nil
}

// newMux registers the API, dashboard page and API docs.
func newMux(cfg *config.Config, svc *service.Service) *http.ServeMux {
	mux := http.NewServeMux()

	api.NewServer(svc, svc).Register(mux)

	var siteOpts []site.Option
	if cfg.Debug {
		siteOpts = append(siteOpts, site.WithDebugAssets(cfg.AssetsDir))
	}
	site.NewRootHandler(svc.Layout(), siteOpts...).Register(mux)

	swagger.Register(mux)
	return mux
}

// startSystemMetricsUpdater refreshes process metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
