package probe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/floorwatch/internal/adapters/http/api"
	service "github.com/okian/floorwatch/internal/app"
	"github.com/okian/floorwatch/internal/domain/dashboard"
	"github.com/okian/floorwatch/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func newDashboardServer(ctx context.Context) (*httptest.Server, func()) {
	layout := dashboard.DefaultLayout()
	layout.TickPeriod = 25 * time.Millisecond

	svc := service.New(service.WithLayout(layout), service.WithLogger(logger.Discard()))
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(mux)
	srv := httptest.NewServer(mux)
	return srv, func() {
		srv.Close()
		_ = svc.Stop(ctx)
	}
}

func TestRun(t *testing.T) {
	Convey("Given a running dashboard service", t, func() {
		ctx := context.Background()
		srv, stop := newDashboardServer(ctx)
		defer stop()

		Convey("When probing several sessions", func() {
			stats, err := Run(ctx, &Config{
				BaseURL:  srv.URL,
				Sessions: 4,
				Ticks:    3,
				Workers:  2,
				Timeout:  5 * time.Second,
				Lang:     "de",
			})

			Convey("Then every session is verified", func() {
				So(err, ShouldBeNil)
				So(stats.SessionsOpened, ShouldEqual, 4)
				So(stats.SessionsVerified, ShouldEqual, 4)
				So(stats.SessionsFailed, ShouldEqual, 0)
				So(stats.Batches, ShouldEqual, 4)
				So(stats.Duplicates, ShouldEqual, 4)
				So(stats.PointsObserved, ShouldBeGreaterThanOrEqualTo, 4*4)
			})
		})
	})
}

func TestRunFailures(t *testing.T) {
	Convey("Given an unhealthy service", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		Convey("Then the probe stops at the health check", func() {
			_, err := Run(context.Background(), &Config{BaseURL: srv.URL, Sessions: 1, Ticks: 1, Timeout: time.Second})
			So(errors.Is(err, ErrUnexpectedStatus), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "health check")
		})
	})

	Convey("Given a service whose sessions open in an inconsistent state", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {})
		mux.HandleFunc("POST /api/sessions", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":"abc","layout":{"tick_period_ms":10},"view":{"running":false,"button_label":"stop"}}`)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("Then the session is reported as failed", func() {
			stats, err := Run(context.Background(), &Config{BaseURL: srv.URL, Sessions: 2, Ticks: 1, Workers: 1, Timeout: time.Second})
			So(errors.Is(err, ErrSessionsFailed), ShouldBeTrue)
			So(stats.SessionsOpened, ShouldEqual, 2)
			So(stats.SessionsFailed, ShouldEqual, 2)
			So(stats.SessionsVerified, ShouldEqual, 0)
		})
	})
}

func TestClient(t *testing.T) {
	Convey("Given a client", t, func() {
		var gotURL, gotKey string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotURL = r.URL.String()
			gotKey = r.Header.Get("Idempotency-Key")
			w.WriteHeader(http.StatusGone)
			_, _ = io.WriteString(w, `{"code":"session_closed"}`)
		}))
		defer srv.Close()
		c := NewClient(srv.URL, "pt-BR", time.Second)

		Convey("Then the locale joins an existing query", func() {
			_, err := c.View(context.Background(), "abc", 3)
			So(gotURL, ShouldEqual, "/api/sessions/abc?since=3&lang=pt-BR")
			So(isStatus(err, http.StatusGone), ShouldBeTrue)
		})

		Convey("And batch presses carry the idempotency key", func() {
			_, err := c.NewBatch(context.Background(), "abc", "k1")
			So(gotURL, ShouldEqual, "/api/sessions/abc/batch?lang=pt-BR")
			So(gotKey, ShouldEqual, "k1")
			So(errors.Is(err, ErrUnexpectedStatus), ShouldBeTrue)
		})
	})
}
