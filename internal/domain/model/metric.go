// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// MetricName identifies one synthetic factory-floor reading.
type MetricName string

// The closed set of tracked metrics, in display order.
const (
	CycleTime           MetricName = "cycle_time"
	TimeToComplete      MetricName = "time_to_complete"
	SafetyMaterials     MetricName = "safety_materials"
	SafetyManufacturing MetricName = "safety_manufacturing"
	SafetyPacking       MetricName = "safety_packing"
	PrecursorLevel      MetricName = "precursor_level"
	ReagentLevel        MetricName = "reagent_level"
	CatalystLevel       MetricName = "catalyst_level"
	PackagingLevel      MetricName = "packaging_level"
	ProductionLevels    MetricName = "production_levels"
)

var allMetrics = [...]MetricName{
	CycleTime,
	TimeToComplete,
	SafetyMaterials,
	SafetyManufacturing,
	SafetyPacking,
	PrecursorLevel,
	ReagentLevel,
	CatalystLevel,
	PackagingLevel,
	ProductionLevels,
}

// AllMetrics returns every known metric in declaration order.
func AllMetrics() []MetricName {
	out := make([]MetricName, len(allMetrics))
	copy(out, allMetrics[:])
	return out
}

// ParseMetricName validates s against the known set.
func ParseMetricName(s string) (MetricName, error) {
	name := MetricName(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range allMetrics {
		if m == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// IsSafety reports whether the metric yields a colour instead of a number.
func (m MetricName) IsSafety() bool {
	switch m {
	case SafetyMaterials, SafetyManufacturing, SafetyPacking:
		return true
	default:
		return false
	}
}

func (m MetricName) String() string { return string(m) }
