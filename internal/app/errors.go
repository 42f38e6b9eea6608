package service

import (
	"errors"

	"github.com/okian/floorwatch/internal/adapters/mq/worker"
	"github.com/okian/floorwatch/internal/adapters/repository"
)

// Sentinel kinds returned by the service. Adapters match on these instead
// of importing the session internals.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrSessionNotFound = repository.ErrSessionNotFound
	ErrSessionClosed   = worker.ErrStopped
	ErrBusy            = worker.ErrBusy
)
