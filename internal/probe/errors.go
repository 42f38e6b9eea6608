package probe

import "errors"

// Error constants.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrInvariant        = errors.New("invariant violated")
	ErrTimeout          = errors.New("timed out waiting for chart points")
	ErrSessionsFailed   = errors.New("sessions failed")
)
