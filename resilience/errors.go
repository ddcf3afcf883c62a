package resilience

import "errors"

// Sentinel errors for resilience policies.
var (
	// ErrSpawnGuardOpen is returned when the spawn guard is open and no
	// new worker threads may be created.
	ErrSpawnGuardOpen = errors.New("resilience: spawn guard is open")

	// ErrSubscriberLimit is returned when the subscriber limit is at
	// capacity.
	ErrSubscriberLimit = errors.New("resilience: subscriber limit reached")
)
