package dashboard

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/okian/floorwatch/internal/domain/model"
)

// Button labels of the stop/start control.
const (
	LabelStart = "start"
	LabelStop  = "stop"
)

// DefaultDatePattern is the strftime date layout of the batch label (MM/DD/YY).
const DefaultDatePattern = "%D"

const (
	batchLabelPrefix = "Batch started: "
	annotationPrefix = "Batch no. "
)

// Widgets are the current gauge, indicator and bar values.
type Widgets struct {
	CycleTime           float64
	TimeToComplete      float64
	SafetyMaterials     model.Color
	SafetyManufacturing model.Color
	SafetyPacking       model.Color
	Precursor           float64
	Reagent             float64
	Catalyst            float64
	Packaging           float64
}

// Chart is what the production graph renders.
type Chart struct {
	Series      model.Series
	Annotations []model.Annotation
}

// State is the complete UI state of one dashboard session.
type State struct {
	Running     bool
	ButtonLabel string
	// Intervals counts timer ticks; it keeps counting across stop/start.
	Intervals int
	Widgets   Widgets
	Chart     Chart
	// Annotations is the stored sequence; Tick re-attaches it to Chart.
	Annotations  []model.Annotation
	BatchNumber  int64
	BatchStarted string
	Temperature  float64
}

// NewState builds the initial state for a session.
func NewState(l Layout) *State {
	s := &State{
		ButtonLabel: LabelStart,
		BatchNumber: l.BatchStart,
		Temperature: l.Thermometer.Value,
		Widgets: Widgets{
			SafetyMaterials:     model.Green,
			SafetyManufacturing: model.Orange,
			SafetyPacking:       model.Red,
		},
	}
	if l.Autostart {
		s.Toggle()
	}
	return s
}

// Toggle flips between Running and Stopped and relabels the control.
func (s *State) Toggle() {
	s.Running = !s.Running
	if s.Running {
		s.ButtonLabel = LabelStop
	} else {
		s.ButtonLabel = LabelStart
	}
}

// Prime applies the render-time evaluation with tick index 0.
func (s *State) Prime(set model.SampleSet, xScale float64) error {
	return s.Tick(0, set, xScale)
}

// Advance applies the next timer tick.
func (s *State) Advance(set model.SampleSet, xScale float64) error {
	n := s.Intervals + 1
	if err := s.Tick(n, set, xScale); err != nil {
		return err
	}
	s.Intervals = n
	return nil
}

// Tick updates every widget from set and appends one chart point at
// x = n*xScale. All readings are validated before anything is mutated.
func (s *State) Tick(n int, set model.SampleSet, xScale float64) error {
	var (
		w   Widgets
		err error
	)
	numbers := []struct {
		name model.MetricName
		dst  *float64
	}{
		{model.CycleTime, &w.CycleTime},
		{model.TimeToComplete, &w.TimeToComplete},
		{model.PrecursorLevel, &w.Precursor},
		{model.ReagentLevel, &w.Reagent},
		{model.CatalystLevel, &w.Catalyst},
		{model.PackagingLevel, &w.Packaging},
	}
	for _, f := range numbers {
		if *f.dst, err = set.Float(f.name); err != nil {
			return fmt.Errorf("tick %d: %w", n, err)
		}
	}
	colors := []struct {
		name model.MetricName
		dst  *model.Color
	}{
		{model.SafetyMaterials, &w.SafetyMaterials},
		{model.SafetyManufacturing, &w.SafetyManufacturing},
		{model.SafetyPacking, &w.SafetyPacking},
	}
	for _, f := range colors {
		if *f.dst, err = set.Color(f.name); err != nil {
			return fmt.Errorf("tick %d: %w", n, err)
		}
	}
	production, err := set.Float(model.ProductionLevels)
	if err != nil {
		return fmt.Errorf("tick %d: %w", n, err)
	}

	s.Widgets = w
	s.Chart.Series = s.Chart.Series.Accumulate(float64(n)*xScale, production)
	s.Chart.Annotations = append(s.Chart.Annotations[:0:0], s.Annotations...)
	return nil
}

// NewBatch starts a new batch at time at. With an empty chart only the
// started label changes. Otherwise an annotation is anchored on the last
// point and the batch number is incremented. It reports whether an
// annotation was added.
func (s *State) NewBatch(at time.Time, datePattern string) bool {
	s.BatchStarted = BatchStartedLabel(at, datePattern)

	last, ok := s.Chart.Series.Last()
	if !ok {
		return false
	}
	next := s.BatchNumber + 1
	s.Annotations = append(s.Annotations, model.Annotation{
		X:         last.X,
		Y:         last.Y,
		Text:      annotationPrefix + strconv.FormatInt(next, 10),
		ArrowHead: 0,
		BgColor:   model.Blue,
		FontColor: model.White,
	})
	s.BatchNumber = next
	return true
}

// BatchStartedLabel formats "Batch started: HH:MM:SS <date>".
func BatchStartedLabel(at time.Time, datePattern string) string {
	if datePattern == "" {
		datePattern = DefaultDatePattern
	}
	return batchLabelPrefix + strftime.Format("%H:%M:%S "+datePattern, at)
}
