package model

// SeriesPoint is one (x, y) sample of the cumulative production chart.
type SeriesPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series is the ordered, append-only chart data of a session.
type Series []SeriesPoint

// Last returns the most recent point; ok is false when the series is empty.
func (s Series) Last() (SeriesPoint, bool) {
	if len(s) == 0 {
		return SeriesPoint{}, false
	}
	return s[len(s)-1], true
}

// Accumulate appends a point whose y is the previous y plus delta.
func (s Series) Accumulate(x, delta float64) Series {
	y := delta
	if last, ok := s.Last(); ok {
		y = last.Y + delta
	}
	return append(s, SeriesPoint{X: x, Y: y})
}

// Since returns the points after index n (0-based count of already known points).
func (s Series) Since(n int) Series {
	if n <= 0 {
		return s
	}
	if n >= len(s) {
		return Series{}
	}
	return s[n:]
}

// Annotation is a labelled marker anchored on a SeriesPoint.
type Annotation struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Text      string  `json:"text"`
	ArrowHead int     `json:"arrowhead"`
	BgColor   Color   `json:"bgcolor"`
	FontColor Color   `json:"font_color"`
}
