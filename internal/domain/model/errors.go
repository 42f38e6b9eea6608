package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrUnknownMetric  = errors.New("unknown metric")
	ErrMissingReading = errors.New("missing reading")
	ErrReadingKind    = errors.New("unexpected reading kind")
)
