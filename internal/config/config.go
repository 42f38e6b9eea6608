// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New() returns a Config populated with defaults.
//   - Load(ctx) layers defaults, an optional YAML file and FLOORWATCH_* env vars.
//   - Validation errors wrap ErrInvalidConfig.
package config

import (
	"time"

	"github.com/okian/floorwatch/internal/domain/model"
)

// RangeConfig is a min/max pair.
type RangeConfig struct {
	Min float64 `koanf:"min"`
	Max float64 `koanf:"max"`
}

// CycleGaugeConfig describes the banded cycle-time gauge: green up to
// GreenUntil, yellow up to YellowUntil, red up to Max.
type CycleGaugeConfig struct {
	Min         float64 `koanf:"min"`
	Max         float64 `koanf:"max"`
	GreenUntil  float64 `koanf:"green_until"`
	YellowUntil float64 `koanf:"yellow_until"`
}

// BarConfig describes the graduated substance bars.
type BarConfig struct {
	Min  float64 `koanf:"min"`
	Max  float64 `koanf:"max"`
	Step float64 `koanf:"step"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":8050".
	Addr string `koanf:"addr"`

	// Debug enables debug logging and serves page assets from AssetsDir
	// without caching, so edits show up on reload.
	Debug bool `koanf:"debug"`

	// AssetsDir is the on-disk copy of the embedded page assets used in debug mode.
	AssetsDir string `koanf:"assets_dir"`

	// SessionTTL is how long an idle dashboard session is kept.
	SessionTTL time.Duration `koanf:"session_ttl"`

	// MaxSessions bounds concurrently open sessions; the least recently used is closed first.
	MaxSessions int `koanf:"max_sessions"`

	// CommandQueueSize bounds pending user actions per session.
	CommandQueueSize int `koanf:"command_queue_size"`

	// DedupeSize sets how many batch idempotency keys are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// Autostart starts polling as soon as a session opens.
	Autostart bool `koanf:"autostart"`

	// PrimeOnOpen samples once when a session opens, before the first timer tick.
	PrimeOnOpen bool `koanf:"prime_on_open"`

	// TickPeriodMS is the polling period.
	TickPeriodMS int `koanf:"tick_period_ms"`

	// XScale maps the tick index onto the chart x axis.
	XScale float64 `koanf:"x_scale"`

	// Metrics lists the tracked metric names; all ten must be present.
	Metrics []string `koanf:"metrics"`

	// BatchStart is the first batch number shown.
	BatchStart string `koanf:"batch_start"`

	// Temperature is the manufacturing room thermometer reading.
	Temperature float64 `koanf:"temperature"`

	// ChartHeight is the production chart height in pixels.
	ChartHeight int `koanf:"chart_height"`

	CycleGauge      CycleGaugeConfig `koanf:"cycle_gauge"`
	CompletionGauge RangeConfig      `koanf:"completion_gauge"`
	Bars            BarConfig        `koanf:"bars"`
	Thermometer     RangeConfig      `koanf:"thermometer"`

	// OTelEndpoint enables OTLP/HTTP trace export when set.
	OTelEndpoint string `koanf:"otel_endpoint"`

	// ServiceName is reported on traces.
	ServiceName string `koanf:"service_name"`
}

// New creates a Config with defaults.
func New() *Config {
	metrics := make([]string, 0, len(model.AllMetrics()))
	for _, m := range model.AllMetrics() {
		metrics = append(metrics, m.String())
	}
	return &Config{
		LogLevel:         "info",
		Addr:             ":8050",
		AssetsDir:        "internal/adapters/http/site/static",
		SessionTTL:       30 * time.Minute,
		MaxSessions:      1_000,
		CommandQueueSize: 16,
		DedupeSize:       10_000,
		PrimeOnOpen:      true,
		TickPeriodMS:     1_000,
		XScale:           0.5,
		Metrics:          metrics,
		BatchStart:       "124904",
		Temperature:      70,
		ChartHeight:      505,
		CycleGauge:       CycleGaugeConfig{Min: 0, Max: 10, GreenUntil: 6, YellowUntil: 8},
		CompletionGauge:  RangeConfig{Min: 0, Max: 10},
		Bars:             BarConfig{Min: 0, Max: 100, Step: 5},
		Thermometer:      RangeConfig{Min: 50, Max: 90},
		ServiceName:      "floorwatch",
	}
}

// TickPeriod returns the polling period as a duration.
func (c *Config) TickPeriod() time.Duration {
	return time.Duration(c.TickPeriodMS) * time.Millisecond
}
