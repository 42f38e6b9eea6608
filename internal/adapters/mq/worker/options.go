// Package worker runs the per-session tick controller.
package worker

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/okian/floorwatch/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithQueueSize bounds the number of pending commands.
func WithQueueSize(size int) Option {
	return func(w *InMemoryWorker) {
		if size > 0 {
			w.queueSize = size
		}
	}
}

// WithTicker replaces the timer source. Tests use it to drive ticks by hand.
func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(w *InMemoryWorker) {
		if newTicker != nil {
			w.newTicker = newTicker
		}
	}
}

// WithTracer sets the tracer used for tick and command spans.
func WithTracer(t trace.Tracer) Option {
	return func(w *InMemoryWorker) {
		if t != nil {
			w.tracer = t
		}
	}
}

// WithOnStop registers a callback run once when the worker loop exits.
// err is nil for a regular shutdown.
func WithOnStop(fn func(id string, err error)) Option {
	return func(w *InMemoryWorker) {
		w.onStop = fn
	}
}
