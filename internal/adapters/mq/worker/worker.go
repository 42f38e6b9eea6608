package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/message"

	"github.com/okian/floorwatch/internal/adapters/mq/queue"
	"github.com/okian/floorwatch/internal/domain/dashboard"
	"github.com/okian/floorwatch/internal/domain/model"
	"github.com/okian/floorwatch/internal/domain/sampler"
	"github.com/okian/floorwatch/pkg/logger"
	"github.com/okian/floorwatch/pkg/metrics"
)

const (
	defaultQueueSize = 16
	tracerName       = "github.com/okian/floorwatch/internal/adapters/mq/worker"
)

// Kind selects what a Command does.
type Kind int

// Command kinds.
const (
	KindView Kind = iota + 1
	KindToggle
	KindBatch
)

func (k Kind) String() string {
	switch k {
	case KindView:
		return "view"
	case KindToggle:
		return "toggle"
	case KindBatch:
		return "batch"
	default:
		return "unknown"
	}
}

// Command is one user action delivered to the session loop.
type Command struct {
	Kind Kind

	// At and DatePattern describe a batch press.
	At          time.Time
	DatePattern string

	// Since and Printer shape the returned view.
	Since   int
	Printer *message.Printer

	reply chan Result
}

// Result is the loop's answer to a Command.
type Result struct {
	View dashboard.View
	// Annotated reports whether a batch press added a chart annotation.
	Annotated bool
}

// Worker owns one session's dashboard state.
type Worker interface {
	// Run drives the session until ctx is canceled or Shutdown is called.
	Run(ctx context.Context)

	// Do submits a command and waits for its result.
	Do(ctx context.Context, cmd Command) (Result, error)

	// Shutdown stops the loop and waits for it to exit.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker serializes ticks and user commands on a single goroutine,
// so the state needs no locking.
type InMemoryWorker struct {
	id     string
	layout dashboard.Layout
	source sampler.Source
	state  *dashboard.State

	queueSize int
	commands  *queue.InMemoryQueue[Command]
	newTicker func(time.Duration) Ticker
	ticker    Ticker

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}
	err          error
	onStop       func(id string, err error)

	logger logger.Logger
	tracer trace.Tracer
}

// NewInMemoryWorker creates the worker for session id. Call Run to start it.
func NewInMemoryWorker(id string, layout dashboard.Layout, source sampler.Source, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		id:        id,
		layout:    layout,
		source:    source,
		state:     dashboard.NewState(layout),
		queueSize: defaultQueueSize,
		newTicker: NewTimeTicker,
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Discard(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.commands = queue.NewInMemoryQueue[Command](queue.WithCapacity(w.queueSize), queue.WithName("commands"))
	return w
}

// ID returns the session id.
func (w *InMemoryWorker) ID() string { return w.id }

// Done is closed once the loop has exited.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

// Run starts the session loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	var runErr error
	defer func() {
		w.err = runErr
		w.stopTicker()
		_ = w.commands.Close()
		close(w.done)
		if w.onStop != nil {
			w.onStop(w.id, runErr)
		}
	}()

	if w.layout.PrimeOnOpen {
		if runErr = w.tick(ctx, true); runErr != nil {
			return
		}
	}
	w.syncTicker()

	commands := w.commands.Dequeue()
	for {
		var tickC <-chan time.Time
		if w.ticker != nil {
			tickC = w.ticker.C()
		}

		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			w.handle(ctx, cmd)
		case <-tickC:
			if runErr = w.tick(ctx, false); runErr != nil {
				return
			}
		}
	}
}

// Do submits cmd and waits for the loop to answer it.
func (w *InMemoryWorker) Do(ctx context.Context, cmd Command) (Result, error) {
	cmd.reply = make(chan Result, 1)
	if err := w.commands.Enqueue(ctx, cmd); err != nil {
		switch {
		case errors.Is(err, queue.ErrFull):
			return Result{}, fmt.Errorf("%w: %s", ErrBusy, w.id)
		case errors.Is(err, queue.ErrClosed):
			// The loop closes the queue on its way out.
			<-w.done
			return Result{}, w.stopped()
		default:
			return Result{}, err
		}
	}

	select {
	case r := <-cmd.reply:
		return r, nil
	case <-w.done:
		select {
		case r := <-cmd.reply:
			return r, nil
		default:
			return Result{}, w.stopped()
		}
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Shutdown stops the loop and waits for it to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out", logger.String("session", w.id))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Err returns the error that ended the loop, if any. Valid after Done.
func (w *InMemoryWorker) Err() error {
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}

func (w *InMemoryWorker) stopped() error {
	if err := w.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStopped, w.id, err)
	}
	return fmt.Errorf("%w: %s", ErrStopped, w.id)
}

func (w *InMemoryWorker) handle(ctx context.Context, cmd Command) {
	_, span := w.tracer.Start(ctx, "session."+cmd.Kind.String(),
		trace.WithAttributes(attribute.String("session.id", w.id)))
	defer span.End()

	var res Result
	switch cmd.Kind {
	case KindToggle:
		w.state.Toggle()
		w.syncTicker()
		metrics.RecordToggle(w.state.Running)
		w.logger.Debug(ctx, "toggled",
			logger.String("session", w.id),
			logger.Bool("running", w.state.Running),
		)
	case KindBatch:
		res.Annotated = w.state.NewBatch(cmd.At, cmd.DatePattern)
		metrics.RecordBatch(res.Annotated)
		span.SetAttributes(
			attribute.Int64("batch.number", w.state.BatchNumber),
			attribute.Bool("batch.annotated", res.Annotated),
		)
		w.logger.Info(ctx, "new batch",
			logger.String("session", w.id),
			logger.Int64("batch", w.state.BatchNumber),
			logger.Bool("annotated", res.Annotated),
		)
	case KindView:
	default:
		span.SetStatus(codes.Error, "unknown command")
		w.logger.Warn(ctx, "unknown command", logger.Int("kind", int(cmd.Kind)))
	}
	res.View = w.state.View(cmd.Since, cmd.Printer)
	cmd.reply <- res
}

// tick samples once and applies it. prime applies tick index 0 without
// advancing the interval counter.
func (w *InMemoryWorker) tick(ctx context.Context, prime bool) error {
	start := time.Now()
	ctx, span := w.tracer.Start(ctx, "session.tick",
		trace.WithAttributes(
			attribute.String("session.id", w.id),
			attribute.Bool("tick.prime", prime),
		))
	defer span.End()

	set := w.source.Sample(w.layout.Metrics)
	var err error
	if prime {
		err = w.state.Prime(set, w.layout.XScale)
	} else {
		err = w.state.Advance(set, w.layout.XScale)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "tick failed")
		metrics.RecordTickError()
		metrics.RecordErrorByComponent("worker", "tick_error")
		w.logger.Error(ctx, "tick failed, closing session",
			logger.String("session", w.id),
			logger.Error(err),
		)
		return err
	}

	span.SetAttributes(attribute.Int("tick.index", w.state.Intervals))
	metrics.RecordTick(float64(time.Since(start).Microseconds()) / 1000)
	recordReadings(set)
	return nil
}

func (w *InMemoryWorker) syncTicker() {
	switch {
	case w.state.Running && w.ticker == nil:
		w.ticker = w.newTicker(w.layout.TickPeriod)
	case !w.state.Running && w.ticker != nil:
		w.stopTicker()
	}
}

func (w *InMemoryWorker) stopTicker() {
	if w.ticker != nil {
		w.ticker.Stop()
		w.ticker = nil
	}
}

func recordReadings(set model.SampleSet) {
	for name, r := range set.Readings {
		if c, ok := r.Color(); ok {
			metrics.RecordSafetyStatus(room(name), string(c))
			continue
		}
		v, _ := r.Float()
		if name == model.ProductionLevels {
			metrics.RecordProduction(v)
		}
		metrics.UpdateReading(name.String(), v)
	}
}

func room(name model.MetricName) string {
	switch name {
	case model.SafetyMaterials:
		return "materials"
	case model.SafetyManufacturing:
		return "manufacturing"
	case model.SafetyPacking:
		return "packing"
	default:
		return name.String()
	}
}
