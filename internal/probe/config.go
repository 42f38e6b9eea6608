// Package probe drives a running dashboard over HTTP: it opens sessions,
// starts and stops the feed, presses new batch and checks every view it
// receives for consistency.
package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Sessions int           // Number of sessions to drive
	Ticks    int           // Chart points to wait for per session
	Workers  int           // Sessions driven concurrently
	Timeout  time.Duration // HTTP request timeout
	Lang     string        // Locale requested for every call
	LogFile  string        // Log file for probe output
	Verbose  bool          // Log every session outcome
}

// Stats holds probe statistics.
type Stats struct {
	SessionsOpened   int64
	SessionsVerified int64
	SessionsFailed   int64
	PointsObserved   int64
	Batches          int64
	Duplicates       int64
	Backpressured    int64
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
