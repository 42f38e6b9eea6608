package dashboard

import (
	"strconv"

	"golang.org/x/text/message"

	"github.com/okian/floorwatch/internal/domain/model"
)

// Value pairs a number with its localized display text.
type Value struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// SafetyView holds the three room indicator colours.
type SafetyView struct {
	Materials     model.Color `json:"materials"`
	Manufacturing model.Color `json:"manufacturing"`
	Packing       model.Color `json:"packing"`
}

// LevelsView holds the four substance bars.
type LevelsView struct {
	Precursor Value `json:"precursor"`
	Reagent   Value `json:"reagent"`
	Catalyst  Value `json:"catalyst"`
	Packaging Value `json:"packaging"`
}

// ChartView carries the series points after Offset plus all annotations.
type ChartView struct {
	Offset      int                `json:"offset"`
	Total       int                `json:"total"`
	X           []float64          `json:"x"`
	Y           []float64          `json:"y"`
	Annotations []model.Annotation `json:"annotations"`
}

// View is the JSON shape the dashboard page renders.
type View struct {
	Running        bool       `json:"running"`
	ButtonLabel    string     `json:"button_label"`
	Intervals      int        `json:"intervals"`
	BatchNumber    string     `json:"batch_number"`
	BatchStarted   string     `json:"batch_started"`
	CycleTime      Value      `json:"cycle_time"`
	TimeToComplete Value      `json:"time_to_complete"`
	Safety         SafetyView `json:"safety"`
	Levels         LevelsView `json:"levels"`
	Temperature    Value      `json:"temperature"`
	Chart          ChartView  `json:"chart"`
}

// View renders the state. since is the number of series points the caller
// already holds; p localizes the display strings.
func (s *State) View(since int, p *message.Printer) View {
	if since < 0 {
		since = 0
	}
	points := s.Chart.Series.Since(since)
	chart := ChartView{
		Offset:      len(s.Chart.Series) - len(points),
		Total:       len(s.Chart.Series),
		X:           make([]float64, len(points)),
		Y:           make([]float64, len(points)),
		Annotations: make([]model.Annotation, len(s.Chart.Annotations)),
	}
	for i, pt := range points {
		chart.X[i] = pt.X
		chart.Y[i] = pt.Y
	}
	copy(chart.Annotations, s.Chart.Annotations)

	value := func(v float64) Value {
		return Value{Value: v, Display: display(p, v)}
	}
	return View{
		Running:        s.Running,
		ButtonLabel:    s.ButtonLabel,
		Intervals:      s.Intervals,
		BatchNumber:    strconv.FormatInt(s.BatchNumber, 10),
		BatchStarted:   s.BatchStarted,
		CycleTime:      value(s.Widgets.CycleTime),
		TimeToComplete: value(s.Widgets.TimeToComplete),
		Safety: SafetyView{
			Materials:     s.Widgets.SafetyMaterials,
			Manufacturing: s.Widgets.SafetyManufacturing,
			Packing:       s.Widgets.SafetyPacking,
		},
		Levels: LevelsView{
			Precursor: value(s.Widgets.Precursor),
			Reagent:   value(s.Widgets.Reagent),
			Catalyst:  value(s.Widgets.Catalyst),
			Packaging: value(s.Widgets.Packaging),
		},
		Temperature: value(s.Temperature),
		Chart:       chart,
	}
}

func display(p *message.Printer, v float64) string {
	if p == nil {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return p.Sprintf("%.2f", v)
}

// LayoutView is the static part of the page a client needs to draw the widgets.
type LayoutView struct {
	TickPeriodMS   int64       `json:"tick_period_ms"`
	ChartHeight    int         `json:"chart_height"`
	CycleTime      Gauge       `json:"cycle_time"`
	TimeToComplete Gauge       `json:"time_to_complete"`
	Levels         Bar         `json:"levels"`
	Thermometer    Thermometer `json:"thermometer"`
}

// Describe returns the client-facing description of the layout.
func (l Layout) Describe() LayoutView {
	return LayoutView{
		TickPeriodMS:   l.TickPeriod.Milliseconds(),
		ChartHeight:    l.ChartHeight,
		CycleTime:      l.CycleTime,
		TimeToComplete: l.TimeToComplete,
		Levels:         l.Levels,
		Thermometer:    l.Thermometer,
	}
}
