package model

import "fmt"

// Color is a categorical label shown by the safety indicators.
type Color string

// Indicator palette.
const (
	Red    Color = "red"
	Orange Color = "orange"
	Yellow Color = "yellow"
	Green  Color = "green"
	Blue   Color = "blue"
	White  Color = "white"
)

// Reading is a single metric value: numeric for time and level metrics, a
// Color for safety metrics.
type Reading struct {
	value float64
	color Color
}

// Number builds a numeric reading.
func Number(v float64) Reading { return Reading{value: v} }

// Categorical builds a colour reading.
func Categorical(c Color) Reading { return Reading{color: c} }

// Float returns the numeric value; ok is false for colour readings.
func (r Reading) Float() (float64, bool) {
	if r.color != "" {
		return 0, false
	}
	return r.value, true
}

// Color returns the colour label; ok is false for numeric readings.
func (r Reading) Color() (Color, bool) {
	return r.color, r.color != ""
}

func (r Reading) String() string {
	if r.color != "" {
		return string(r.color)
	}
	return fmt.Sprintf("%g", r.value)
}

// SampleSet maps each requested metric to its reading. All readings of one
// set derive from the same uniform draw Base.
type SampleSet struct {
	Base     float64
	Readings map[MetricName]Reading
}

// Require returns the reading for name or ErrMissingReading.
func (s SampleSet) Require(name MetricName) (Reading, error) {
	r, ok := s.Readings[name]
	if !ok {
		return Reading{}, fmt.Errorf("%w: %s", ErrMissingReading, name)
	}
	return r, nil
}

// Float is Require for numeric metrics.
func (s SampleSet) Float(name MetricName) (float64, error) {
	r, err := s.Require(name)
	if err != nil {
		return 0, err
	}
	v, ok := r.Float()
	if !ok {
		return 0, fmt.Errorf("%w: %s is not numeric", ErrReadingKind, name)
	}
	return v, nil
}

// Color is Require for safety metrics.
func (s SampleSet) Color(name MetricName) (Color, error) {
	r, err := s.Require(name)
	if err != nil {
		return "", err
	}
	c, ok := r.Color()
	if !ok {
		return "", fmt.Errorf("%w: %s is not categorical", ErrReadingKind, name)
	}
	return c, nil
}
