package dashboard

import "errors"

// Sentinel kinds for dashboard errors.
var (
	ErrInvalidLayout = errors.New("invalid dashboard layout")
)
