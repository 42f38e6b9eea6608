package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/floorwatch/internal/domain/dashboard"
	"github.com/okian/floorwatch/internal/domain/model"
)

// Validate checks the configuration and the dashboard layout derived from it.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SessionTTL <= 0:
		return fmt.Errorf("%w: session_ttl must be positive", ErrInvalidConfig)
	case c.MaxSessions <= 0:
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	case c.CommandQueueSize <= 0:
		return fmt.Errorf("%w: command_queue_size must be positive", ErrInvalidConfig)
	case c.TickPeriodMS <= 0:
		return fmt.Errorf("%w: tick_period_ms must be positive", ErrInvalidConfig)
	}
	if _, err := c.Layout(); err != nil {
		return err
	}
	return nil
}

// Layout builds the dashboard layout described by the configuration.
func (c *Config) Layout() (dashboard.Layout, error) {
	l := dashboard.DefaultLayout()

	metrics := make([]model.MetricName, 0, len(c.Metrics))
	for _, raw := range c.Metrics {
		m, err := model.ParseMetricName(raw)
		if err != nil {
			return dashboard.Layout{}, fmt.Errorf("%w: metrics: %w", ErrInvalidConfig, err)
		}
		metrics = append(metrics, m)
	}
	batch, err := strconv.ParseInt(strings.TrimSpace(c.BatchStart), 10, 64)
	if err != nil {
		return dashboard.Layout{}, fmt.Errorf("%w: batch_start must be an integer: %q", ErrInvalidConfig, c.BatchStart)
	}

	g := c.CycleGauge
	if g.GreenUntil < g.Min || g.YellowUntil < g.GreenUntil || g.Max < g.YellowUntil {
		return dashboard.Layout{}, fmt.Errorf("%w: cycle_gauge bands must be ordered min <= green <= yellow <= max", ErrInvalidConfig)
	}

	l.Metrics = metrics
	l.TickPeriod = c.TickPeriod()
	l.XScale = c.XScale
	l.Autostart = c.Autostart
	l.PrimeOnOpen = c.PrimeOnOpen
	l.BatchStart = batch
	l.ChartHeight = c.ChartHeight
	l.CycleTime.Min, l.CycleTime.Max = g.Min, g.Max
	l.CycleTime.Bands = []dashboard.Band{
		{Color: model.Green, From: g.Min, To: g.GreenUntil},
		{Color: model.Yellow, From: g.GreenUntil, To: g.YellowUntil},
		{Color: model.Red, From: g.YellowUntil, To: g.Max},
	}
	l.TimeToComplete.Min, l.TimeToComplete.Max = c.CompletionGauge.Min, c.CompletionGauge.Max
	l.Levels = dashboard.Bar{Min: c.Bars.Min, Max: c.Bars.Max, Step: c.Bars.Step}
	l.Thermometer = dashboard.Thermometer{Min: c.Thermometer.Min, Max: c.Thermometer.Max, Value: c.Temperature}

	if err := l.Validate(); err != nil {
		return dashboard.Layout{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return l, nil
}
