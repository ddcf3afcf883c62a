package resilience

import "time"

// Default restart policy values, applied by DefaultRestartPolicy.
const (
	DefaultMaxRestarts  = 3
	DefaultInitialDelay = 100 * time.Millisecond
	DefaultMultiplier   = 2.0
	DefaultMaxDelay     = 5 * time.Second
)

// RestartPolicy configures how often, and with what pacing, a reactor may
// replace a broken worker. It is read-only for the life of one worker-loop
// invocation; a Factory supplies it once per spawn.
//
// Zero values are meaningful rather than defaulted: a zero InitialDelay
// means restarts happen without sleeping, a zero Multiplier means the delay
// stays constant, and a zero MaxDelay leaves the backoff uncapped. Use
// DefaultRestartPolicy for the conventional configuration. Deliberately no
// jitter: restart cadence must be deterministic so exhaustion timing can be
// reasoned about and tested.
type RestartPolicy struct {
	// MaxRestarts is the number of worker replacements allowed before the
	// reactor gives up and shuts down.
	MaxRestarts int

	// InitialDelay is the sleep before the first restart.
	InitialDelay time.Duration

	// Multiplier grows the delay after each restart when > 0.
	Multiplier float64

	// MaxDelay caps the grown delay when > 0.
	MaxDelay time.Duration
}

// DefaultRestartPolicy returns the policy used when a Factory does not
// override it: 3 restarts, 100ms initial delay, doubling, capped at 5s.
func DefaultRestartPolicy() RestartPolicy {
	return RestartPolicy{
		MaxRestarts:  DefaultMaxRestarts,
		InitialDelay: DefaultInitialDelay,
		Multiplier:   DefaultMultiplier,
		MaxDelay:     DefaultMaxDelay,
	}
}

// ShouldRetry reports whether another restart is allowed after the given
// number of completed restarts.
func (p RestartPolicy) ShouldRetry(restarts int) bool {
	return restarts < p.MaxRestarts
}

// NextDelay computes the delay to use after the given one has been slept.
// With no Multiplier the delay stays at InitialDelay; otherwise it is
// multiplied and capped at MaxDelay when one is set.
func (p RestartPolicy) NextDelay(current time.Duration) time.Duration {
	if p.Multiplier <= 0 {
		return p.InitialDelay
	}
	next := time.Duration(float64(current) * p.Multiplier)
	if p.MaxDelay > 0 && next > p.MaxDelay {
		next = p.MaxDelay
	}
	return next
}
