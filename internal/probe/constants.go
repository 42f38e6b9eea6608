package probe

import "time"

// Probe defaults.
const (
	DefaultSessions = 8
	DefaultTicks    = 5
	DefaultTimeout  = 10 * time.Second
	DefaultLang     = "en-US"

	// pollsPerTick sets how often a session is polled while waiting.
	pollsPerTick = 4
	// tickSlack bounds the wait for Ticks points, in tick periods.
	tickSlack = 10
	// stepTolerance absorbs float error when comparing x spacing.
	stepTolerance = 1e-9

	idempotencyKeyHeader = "Idempotency-Key"
	annotationPrefix     = "Batch no. "
	labelStart           = "start"
	labelStop            = "stop"
)
