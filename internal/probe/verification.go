package probe

import (
	"fmt"
	"math"
	"strconv"

	"github.com/okian/floorwatch/internal/domain/dashboard"
)

// checkStopped verifies a view of a stopped feed.
func checkStopped(v dashboard.View) error {
	if v.Running || v.ButtonLabel != labelStart {
		return fmt.Errorf("%w: stopped feed shows running=%t label=%q", ErrInvariant, v.Running, v.ButtonLabel)
	}
	return nil
}

// checkRunning verifies a view of a running feed.
func checkRunning(v dashboard.View) error {
	if !v.Running || v.ButtonLabel != labelStop {
		return fmt.Errorf("%w: running feed shows running=%t label=%q", ErrInvariant, v.Running, v.ButtonLabel)
	}
	return nil
}

// checkSeries verifies a full chart: matching lengths, non-negative x and
// even spacing.
func checkSeries(c dashboard.ChartView) error {
	if c.Offset != 0 {
		return fmt.Errorf("%w: expected a full chart, got offset %d", ErrInvariant, c.Offset)
	}
	if len(c.X) != len(c.Y) || len(c.X) != c.Total {
		return fmt.Errorf("%w: chart has %d x, %d y, total %d", ErrInvariant, len(c.X), len(c.Y), c.Total)
	}
	if len(c.X) == 0 {
		return nil
	}
	if c.X[0] < 0 {
		return fmt.Errorf("%w: first point at x=%g", ErrInvariant, c.X[0])
	}
	if len(c.X) < 2 {
		return nil
	}
	step := c.X[1] - c.X[0]
	if step <= 0 {
		return fmt.Errorf("%w: x step %g is not positive", ErrInvariant, step)
	}
	for i := 2; i < len(c.X); i++ {
		if d := c.X[i] - c.X[i-1]; math.Abs(d-step) > stepTolerance {
			return fmt.Errorf("%w: x step %g at point %d, want %g", ErrInvariant, d, i, step)
		}
	}
	return nil
}

// checkAnnotation verifies that batch is annotated on a chart point.
func checkAnnotation(c dashboard.ChartView, batch string) error {
	want := annotationPrefix + batch
	for _, a := range c.Annotations {
		if a.Text != want {
			continue
		}
		for i, x := range c.X {
			if x == a.X && c.Y[i] == a.Y {
				return nil
			}
		}
		return fmt.Errorf("%w: annotation %q at (%g, %g) is not on the series", ErrInvariant, want, a.X, a.Y)
	}
	return fmt.Errorf("%w: no annotation %q among %d", ErrInvariant, want, len(c.Annotations))
}

// checkNextBatch verifies that got follows prev.
func checkNextBatch(prev, got string) error {
	p, err := strconv.ParseInt(prev, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: batch number %q: %w", ErrInvariant, prev, err)
	}
	g, err := strconv.ParseInt(got, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: batch number %q: %w", ErrInvariant, got, err)
	}
	if g != p+1 {
		return fmt.Errorf("%w: batch number went from %d to %d", ErrInvariant, p, g)
	}
	return nil
}
