package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/floorwatch/internal/adapters/mq/worker"
	"github.com/okian/floorwatch/internal/domain/dashboard"
	"github.com/okian/floorwatch/internal/domain/model"
	"github.com/okian/floorwatch/internal/domain/sampler"
)

const waitTimeout = 2 * time.Second

// fakeTicker is fired by hand from the test.
type fakeTicker struct {
	c       chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

type tickerFactory struct {
	created chan *fakeTicker
	period  atomic.Int64
}

func newTickerFactory() *tickerFactory {
	return &tickerFactory{created: make(chan *fakeTicker, 8)}
}

func (f *tickerFactory) New(d time.Duration) worker.Ticker {
	f.period.Store(int64(d))
	t := &fakeTicker{c: make(chan time.Time)}
	f.created <- t
	return t
}

func (f *tickerFactory) next() *fakeTicker {
	select {
	case t := <-f.created:
		return t
	case <-time.After(waitTimeout):
		return nil
	}
}

// constantSource always draws b.
type constantSource struct{ b float64 }

func (c constantSource) Sample(names []model.MetricName) model.SampleSet {
	return sampler.Derive(c.b, names)
}

// emptySource never yields readings.
type emptySource struct{}

func (emptySource) Sample([]model.MetricName) model.SampleSet {
	return model.SampleSet{Readings: map[model.MetricName]model.Reading{}}
}

func fire(t *fakeTicker) bool {
	select {
	case t.c <- time.Now():
		return true
	case <-time.After(waitTimeout):
		return false
	}
}

func view(ctx context.Context, w worker.Worker) dashboard.View {
	res, err := w.Do(ctx, worker.Command{Kind: worker.KindView})
	convey.So(err, convey.ShouldBeNil)
	return res.View
}

func TestWorkerLifecycle(t *testing.T) {
	convey.Convey("Given a session worker with a primed, stopped dashboard", t, func() {
		ctx := context.Background()
		factory := newTickerFactory()
		layout := dashboard.DefaultLayout()
		w := worker.NewInMemoryWorker("s-1", layout, constantSource{b: 0.21}, worker.WithTicker(factory.New))
		go w.Run(ctx)
		defer func() { _ = w.Shutdown(ctx) }()

		convey.Convey("Then the first view carries the render-time point and no timer", func() {
			v := view(ctx, w)
			convey.So(v.Running, convey.ShouldBeFalse)
			convey.So(v.ButtonLabel, convey.ShouldEqual, dashboard.LabelStart)
			convey.So(v.Intervals, convey.ShouldEqual, 0)
			convey.So(v.Chart.Total, convey.ShouldEqual, 1)
			convey.So(v.Chart.X[0], convey.ShouldEqual, 0)
			convey.So(v.Chart.Y[0], convey.ShouldAlmostEqual, 1.0, 1e-9)
			convey.So(len(factory.created), convey.ShouldEqual, 0)
		})

		convey.Convey("When the operator presses start", func() {
			res, err := w.Do(ctx, worker.Command{Kind: worker.KindToggle})
			convey.So(err, convey.ShouldBeNil)
			tk := factory.next()

			convey.Convey("Then the timer runs at the layout period", func() {
				convey.So(res.View.Running, convey.ShouldBeTrue)
				convey.So(res.View.ButtonLabel, convey.ShouldEqual, dashboard.LabelStop)
				convey.So(tk, convey.ShouldNotBeNil)
				convey.So(time.Duration(factory.period.Load()), convey.ShouldEqual, time.Second)
			})

			convey.Convey("And each tick adds one accumulated point at half steps", func() {
				convey.So(fire(tk), convey.ShouldBeTrue)
				convey.So(fire(tk), convey.ShouldBeTrue)
				v := view(ctx, w)
				convey.So(v.Intervals, convey.ShouldEqual, 2)
				convey.So(v.Chart.X, convey.ShouldResemble, []float64{0, 0.5, 1})
				convey.So(v.Chart.Y[2], convey.ShouldAlmostEqual, 3.0, 1e-9)
			})

			convey.Convey("And a new batch is annotated from the next tick on", func() {
				at := time.Date(2026, 10, 19, 14, 5, 9, 0, time.UTC)
				res, err := w.Do(ctx, worker.Command{Kind: worker.KindBatch, At: at, DatePattern: "%D"})
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.Annotated, convey.ShouldBeTrue)
				convey.So(res.View.BatchNumber, convey.ShouldEqual, "124905")
				convey.So(res.View.BatchStarted, convey.ShouldEqual, "Batch started: 14:05:09 10/19/26")
				convey.So(len(res.View.Chart.Annotations), convey.ShouldEqual, 0)

				convey.So(fire(tk), convey.ShouldBeTrue)
				v := view(ctx, w)
				convey.So(len(v.Chart.Annotations), convey.ShouldEqual, 1)
				convey.So(v.Chart.Annotations[0].Text, convey.ShouldEqual, "Batch no. 124905")
				convey.So(v.Chart.Annotations[0].X, convey.ShouldEqual, 0)
			})

			convey.Convey("And pressing stop releases the timer", func() {
				res, err := w.Do(ctx, worker.Command{Kind: worker.KindToggle})
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.View.Running, convey.ShouldBeFalse)
				convey.So(res.View.ButtonLabel, convey.ShouldEqual, dashboard.LabelStart)
				convey.So(tk.stopped.Load(), convey.ShouldBeTrue)

				convey.Convey("And restarting keeps the tick index", func() {
					_, err := w.Do(ctx, worker.Command{Kind: worker.KindToggle})
					convey.So(err, convey.ShouldBeNil)
					tk2 := factory.next()
					convey.So(fire(tk2), convey.ShouldBeTrue)
					v := view(ctx, w)
					convey.So(v.Intervals, convey.ShouldEqual, 1)
					convey.So(v.Chart.Total, convey.ShouldEqual, 2)
				})
			})
		})

		convey.Convey("When the worker is shut down", func() {
			convey.So(w.Shutdown(ctx), convey.ShouldBeNil)

			convey.Convey("Then later commands report ErrStopped", func() {
				_, err := w.Do(ctx, worker.Command{Kind: worker.KindView})
				convey.So(errors.Is(err, worker.ErrStopped), convey.ShouldBeTrue)
				convey.So(w.Err(), convey.ShouldBeNil)
			})
		})
	})
}

func TestWorkerFailures(t *testing.T) {
	convey.Convey("Given a worker whose source yields no readings", t, func() {
		ctx := context.Background()
		stopped := make(chan error, 1)
		w := worker.NewInMemoryWorker("s-2", dashboard.DefaultLayout(), emptySource{},
			worker.WithTicker(newTickerFactory().New),
			worker.WithOnStop(func(id string, err error) { stopped <- err }),
		)
		go w.Run(ctx)

		convey.Convey("Then the priming tick closes the session", func() {
			var err error
			select {
			case err = <-stopped:
			case <-time.After(waitTimeout):
			}
			convey.So(errors.Is(err, model.ErrMissingReading), convey.ShouldBeTrue)

			_, doErr := w.Do(ctx, worker.Command{Kind: worker.KindView})
			convey.So(errors.Is(doErr, worker.ErrStopped), convey.ShouldBeTrue)
			convey.So(errors.Is(doErr, model.ErrMissingReading), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a worker whose loop is not draining commands", t, func() {
		w := worker.NewInMemoryWorker("s-3", dashboard.DefaultLayout(), constantSource{b: 0.5}, worker.WithQueueSize(1))

		convey.Convey("When the mailbox is full", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()
			_, err := w.Do(ctx, worker.Command{Kind: worker.KindToggle})
			convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)

			_, err = w.Do(context.Background(), worker.Command{Kind: worker.KindToggle})

			convey.Convey("Then the next command is rejected as busy", func() {
				convey.So(errors.Is(err, worker.ErrBusy), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a running worker whose context is canceled", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		stopped := make(chan error, 1)
		w := worker.NewInMemoryWorker("s-4", dashboard.DefaultLayout(), constantSource{b: 0.5},
			worker.WithTicker(newTickerFactory().New),
			worker.WithOnStop(func(id string, err error) { stopped <- err }),
		)
		go w.Run(ctx)
		cancel()

		convey.Convey("Then the loop exits cleanly", func() {
			select {
			case <-w.Done():
			case <-time.After(waitTimeout):
			}
			convey.So(w.Err(), convey.ShouldBeNil)
			convey.So(<-stopped, convey.ShouldBeNil)
		})
	})
}

func TestWorkerAutostart(t *testing.T) {
	convey.Convey("Given a layout that autostarts without priming", t, func() {
		ctx := context.Background()
		layout := dashboard.DefaultLayout()
		layout.Autostart = true
		layout.PrimeOnOpen = false
		layout.TickPeriod = 250 * time.Millisecond
		factory := newTickerFactory()
		w := worker.NewInMemoryWorker("s-5", layout, constantSource{b: 0.5}, worker.WithTicker(factory.New))
		go w.Run(ctx)
		defer func() { _ = w.Shutdown(ctx) }()

		convey.Convey("Then the timer starts immediately with an empty chart", func() {
			tk := factory.next()
			convey.So(tk, convey.ShouldNotBeNil)
			convey.So(time.Duration(factory.period.Load()), convey.ShouldEqual, 250*time.Millisecond)
			v := view(ctx, w)
			convey.So(v.Running, convey.ShouldBeTrue)
			convey.So(v.Chart.Total, convey.ShouldEqual, 0)

			convey.So(fire(tk), convey.ShouldBeTrue)
			v = view(ctx, w)
			convey.So(v.Chart.X, convey.ShouldResemble, []float64{0.5})
		})
	})
}
