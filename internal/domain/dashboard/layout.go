// Package dashboard holds the per-session presentation state of the factory
// floor dashboard and the reducers that mutate it: one function per event
// (tick, stop/start, new batch), so every change is explicit and testable
// without a browser.
package dashboard

import (
	"fmt"
	"time"

	"github.com/okian/floorwatch/internal/domain/model"
)

// Default layout constants.
const (
	DefaultTickPeriod  = time.Second
	DefaultXScale      = 0.5
	DefaultBatchStart  = 124904
	DefaultChartHeight = 505
	DefaultTemperature = 70
)

// Band colours a gauge segment.
type Band struct {
	Color model.Color `json:"color"`
	From  float64     `json:"from"`
	To    float64     `json:"to"`
}

// Gauge describes a dial widget.
type Gauge struct {
	Title string      `json:"title"`
	Min   float64     `json:"min"`
	Max   float64     `json:"max"`
	Color model.Color `json:"color,omitempty"`
	Bands []Band      `json:"bands,omitempty"`
}

// Bar describes the graduated substance bars.
type Bar struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Thermometer describes the manufacturing room thermometer.
type Thermometer struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Value float64 `json:"value"`
}

// Layout is the static configuration every session is built from. It is
// constructed once at startup and handed to the components that need it.
type Layout struct {
	Metrics        []model.MetricName
	TickPeriod     time.Duration
	XScale         float64
	Autostart      bool
	PrimeOnOpen    bool
	BatchStart     int64
	ChartHeight    int
	CycleTime      Gauge
	TimeToComplete Gauge
	Levels         Bar
	Thermometer    Thermometer
}

// DefaultLayout mirrors the factory floor reference dashboard.
func DefaultLayout() Layout {
	return Layout{
		Metrics:     model.AllMetrics(),
		TickPeriod:  DefaultTickPeriod,
		XScale:      DefaultXScale,
		PrimeOnOpen: true,
		BatchStart:  DefaultBatchStart,
		ChartHeight: DefaultChartHeight,
		CycleTime: Gauge{
			Title: "Cycle time (hours)",
			Min:   0,
			Max:   10,
			Bands: []Band{
				{Color: model.Green, From: 0, To: 6},
				{Color: model.Yellow, From: 6, To: 8},
				{Color: model.Red, From: 8, To: 10},
			},
		},
		TimeToComplete: Gauge{
			Title: "Time to completion (hours)",
			Min:   0,
			Max:   10,
			Color: model.Blue,
		},
		Levels:      Bar{Min: 0, Max: 100, Step: 5},
		Thermometer: Thermometer{Min: 50, Max: 90, Value: DefaultTemperature},
	}
}

// Validate checks the layout can drive a session.
func (l Layout) Validate() error {
	seen := make(map[model.MetricName]bool, len(l.Metrics))
	for _, m := range l.Metrics {
		if _, err := model.ParseMetricName(string(m)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidLayout, err)
		}
		seen[m] = true
	}
	for _, m := range model.AllMetrics() {
		if !seen[m] {
			return fmt.Errorf("%w: metric %s is not tracked", ErrInvalidLayout, m)
		}
	}
	switch {
	case l.TickPeriod <= 0:
		return fmt.Errorf("%w: tick period must be positive", ErrInvalidLayout)
	case l.XScale <= 0:
		return fmt.Errorf("%w: x scale must be positive", ErrInvalidLayout)
	case l.BatchStart < 0:
		return fmt.Errorf("%w: batch start must not be negative", ErrInvalidLayout)
	case l.CycleTime.Min >= l.CycleTime.Max, l.TimeToComplete.Min >= l.TimeToComplete.Max:
		return fmt.Errorf("%w: gauge min must be below max", ErrInvalidLayout)
	case l.Levels.Min >= l.Levels.Max || l.Levels.Step <= 0:
		return fmt.Errorf("%w: invalid level bar range", ErrInvalidLayout)
	case l.Thermometer.Min >= l.Thermometer.Max:
		return fmt.Errorf("%w: thermometer min must be below max", ErrInvalidLayout)
	}
	return nil
}
