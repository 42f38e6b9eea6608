// Package metrics provides Prometheus metrics for the floorwatch dashboard service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the floorwatch service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Sessions
	sessionsActive prometheus.Gauge
	sessionsOpened prometheus.Counter
	sessionsClosed *prometheus.CounterVec

	// Tick controller
	ticks       prometheus.Counter
	tickLatency prometheus.Histogram
	tickErrors  prometheus.Counter
	toggles     *prometheus.CounterVec

	// Batches
	batches         *prometheus.CounterVec
	batchDuplicates prometheus.Counter

	// Readings
	readings         *prometheus.GaugeVec
	safetyStatus     *prometheus.CounterVec
	productionVolume prometheus.Counter

	// Command queues
	queueEnqueued *prometheus.CounterVec
	queueRejected *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "floorwatch",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     buckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.sessionsActive = auto.NewGauge(m.gaugeOpts(
		"sessions_active", "Number of open dashboard sessions"))
	m.sessionsOpened = auto.NewCounter(m.counterOpts(
		"sessions_opened_total", "Total number of dashboard sessions opened"))
	m.sessionsClosed = auto.NewCounterVec(m.counterOpts(
		"sessions_closed_total", "Total number of dashboard sessions closed by reason"),
		[]string{"reason"})

	m.ticks = auto.NewCounter(m.counterOpts(
		"ticks_total", "Total number of polling ticks applied"))
	m.tickLatency = auto.NewHistogram(m.histogramOpts(
		"tick_latency_milliseconds", "Time spent sampling and applying one tick", m.histogramBuckets))
	m.tickErrors = auto.NewCounter(m.counterOpts(
		"tick_errors_total", "Total number of ticks rejected for incomplete readings"))
	m.toggles = auto.NewCounterVec(m.counterOpts(
		"toggles_total", "Total number of start/stop presses by resulting state"),
		[]string{"state"})

	m.batches = auto.NewCounterVec(m.counterOpts(
		"batches_total", "Total number of new batch presses"),
		[]string{"annotated"})
	m.batchDuplicates = auto.NewCounter(m.counterOpts(
		"batch_duplicates_total", "Total number of replayed new batch requests"))

	m.readings = auto.NewGaugeVec(m.gaugeOpts(
		"reading_value", "Most recent numeric reading by metric"),
		[]string{"metric"})
	m.safetyStatus = auto.NewCounterVec(m.counterOpts(
		"safety_status_total", "Safety indicator samples by room and colour"),
		[]string{"room", "color"})
	m.productionVolume = auto.NewCounter(m.counterOpts(
		"production_units_total", "Units added to production charts across sessions"))

	m.queueEnqueued = auto.NewCounterVec(m.counterOpts(
		"queue_enqueue_total", "Total number of commands enqueued"),
		[]string{"queue"})
	m.queueRejected = auto.NewCounterVec(m.counterOpts(
		"queue_rejected_total", "Total number of commands rejected"),
		[]string{"queue", "reason"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})
	m.errorsByComponent = auto.NewCounterVec(m.counterOpts(
		"errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// UpdateSessionsActive sets the number of open sessions.
func UpdateSessionsActive(count int) {
	globalManager.sessionsActive.Set(float64(count))
}

// RecordSessionOpened increments the opened sessions counter.
func RecordSessionOpened() {
	globalManager.sessionsOpened.Inc()
}

// RecordSessionClosed counts a closed session; reason is closed, expired, evicted or failed.
func RecordSessionClosed(reason string) {
	globalManager.sessionsClosed.WithLabelValues(reason).Inc()
}

// RecordTick records one applied tick and how long it took.
func RecordTick(latencyMs float64) {
	globalManager.ticks.Inc()
	globalManager.tickLatency.Observe(latencyMs)
}

// RecordTickError counts a tick that could not be applied.
func RecordTickError() {
	globalManager.tickErrors.Inc()
}

// RecordToggle counts a start/stop press by the state it produced.
func RecordToggle(running bool) {
	state := "stopped"
	if running {
		state = "running"
	}
	globalManager.toggles.WithLabelValues(state).Inc()
}

// RecordBatch counts a new batch press.
func RecordBatch(annotated bool) {
	globalManager.batches.WithLabelValues(strconv.FormatBool(annotated)).Inc()
}

// RecordBatchDuplicate counts a replayed new batch request.
func RecordBatchDuplicate() {
	globalManager.batchDuplicates.Inc()
}

// UpdateReading stores the most recent numeric reading for metric.
func UpdateReading(metric string, value float64) {
	globalManager.readings.WithLabelValues(metric).Set(value)
}

// RecordSafetyStatus counts one safety indicator sample.
func RecordSafetyStatus(room, color string) {
	globalManager.safetyStatus.WithLabelValues(room, color).Inc()
}

// RecordProduction adds units to the production counter. Non-positive values are ignored.
func RecordProduction(units float64) {
	if units > 0 {
		globalManager.productionVolume.Add(units)
	}
}

// RecordQueueEnqueue counts an accepted command.
func RecordQueueEnqueue(queue string) {
	globalManager.queueEnqueued.WithLabelValues(queue).Inc()
}

// RecordQueueRejected counts a rejected command; reason is closed, full or context_cancelled.
func RecordQueueRejected(queue, reason string) {
	globalManager.queueRejected.WithLabelValues(queue, reason).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
