package worker

import "errors"

// Sentinel kinds for worker errors.
var (
	ErrStopped = errors.New("worker stopped")
	ErrBusy    = errors.New("worker busy")
)
