package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/okian/floorwatch/internal/domain/dashboard"
)

// sessionResult summarizes one driven session.
type sessionResult struct {
	ID         string
	Points     int
	Batches    int
	Duplicates int
}

// driveSession runs the full scenario against one session: start the feed,
// wait for points, press new batch twice under one key, check the
// annotation, stop, check the series stays put, close.
func driveSession(ctx context.Context, c *Client, ticks int) (sessionResult, error) {
	var res sessionResult

	sess, err := c.Open(ctx)
	if err != nil {
		return res, fmt.Errorf("open: %w", err)
	}
	res.ID = sess.ID
	period := time.Duration(sess.Layout.TickPeriodMS) * time.Millisecond

	v := sess.View
	if !v.Running {
		if err := checkStopped(v); err != nil {
			return res, err
		}
		if v, err = c.Toggle(ctx, sess.ID); err != nil {
			return res, fmt.Errorf("start: %w", err)
		}
	}
	if err := checkRunning(v); err != nil {
		return res, err
	}

	if v, err = waitPoints(ctx, c, sess.ID, ticks, period); err != nil {
		return res, err
	}
	if err := checkSeries(v.Chart); err != nil {
		return res, err
	}

	key := uuid.NewString()
	first, err := c.NewBatch(ctx, sess.ID, key)
	if err != nil {
		return res, fmt.Errorf("new batch: %w", err)
	}
	res.Batches++
	if err := checkNextBatch(v.BatchNumber, first.View.BatchNumber); err != nil {
		return res, err
	}
	if !first.Annotated || first.Duplicate {
		return res, fmt.Errorf("%w: batch press on a non-empty chart gave annotated=%t duplicate=%t", ErrInvariant, first.Annotated, first.Duplicate)
	}

	replay, err := c.NewBatch(ctx, sess.ID, key)
	if err != nil {
		return res, fmt.Errorf("replay batch: %w", err)
	}
	if !replay.Duplicate || replay.View.BatchNumber != first.View.BatchNumber {
		return res, fmt.Errorf("%w: replayed key gave duplicate=%t batch %s", ErrInvariant, replay.Duplicate, replay.View.BatchNumber)
	}
	res.Duplicates++

	if v, err = waitPoints(ctx, c, sess.ID, first.View.Chart.Total+1, period); err != nil {
		return res, err
	}
	if err := checkAnnotation(v.Chart, first.View.BatchNumber); err != nil {
		return res, err
	}

	if v, err = c.Toggle(ctx, sess.ID); err != nil {
		return res, fmt.Errorf("stop: %w", err)
	}
	if err := checkStopped(v); err != nil {
		return res, err
	}
	stoppedAt := v.Chart.Total

	if err := sleep(ctx, 2*period); err != nil {
		return res, err
	}
	if v, err = c.View(ctx, sess.ID, 0); err != nil {
		return res, fmt.Errorf("view: %w", err)
	}
	if v.Chart.Total != stoppedAt {
		return res, fmt.Errorf("%w: stopped feed grew from %d to %d points", ErrInvariant, stoppedAt, v.Chart.Total)
	}
	if err := checkSeries(v.Chart); err != nil {
		return res, err
	}
	res.Points = v.Chart.Total

	if err := c.Close(ctx, sess.ID); err != nil {
		return res, fmt.Errorf("close: %w", err)
	}
	if _, err := c.View(ctx, sess.ID, 0); !isStatus(err, http.StatusNotFound) {
		return res, fmt.Errorf("%w: closed session answered with %v", ErrInvariant, err)
	}
	return res, nil
}

// waitPoints polls the session until its chart holds at least n points.
func waitPoints(ctx context.Context, c *Client, id string, n int, period time.Duration) (dashboard.View, error) {
	deadline := time.Duration(n+tickSlack) * period
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(max(period/pollsPerTick, time.Millisecond))
	defer ticker.Stop()

	for {
		v, err := c.View(ctx, id, 0)
		switch {
		case err == nil && v.Chart.Total >= n:
			return v, nil
		case err != nil && !isStatus(err, http.StatusTooManyRequests):
			if ctx.Err() != nil {
				return v, fmt.Errorf("%w: want %d points: %w", ErrTimeout, n, err)
			}
			return v, fmt.Errorf("view: %w", err)
		}
		select {
		case <-ctx.Done():
			return v, fmt.Errorf("%w: want %d points, have %d", ErrTimeout, n, v.Chart.Total)
		case <-ticker.C:
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}
