package reactor

import (
	"context"

	"github.com/jonwraymond/rrt/health"
)

// Checker returns a health checker reporting the reactor's liveness and
// lifecycle counters, suitable for registration with a health.Aggregator.
// An empty name uses the reactor name.
func (r *Reactor[E]) Checker(name string) health.Checker {
	if name == "" {
		name = r.name
	}

	return health.NewCheckerFunc(name, func(ctx context.Context) health.Result {
		select {
		case <-ctx.Done():
			return health.Unhealthy("context cancelled", ctx.Err())
		default:
		}

		stats := r.Stats()
		r.mu.Lock()
		closed := r.closed
		r.mu.Unlock()

		details := map[string]any{
			"generation":  stats.Generation,
			"alive":       stats.Alive,
			"subscribers": stats.Subscribers,
			"spawns":      stats.Spawns,
			"restarts":    stats.Restarts,
			"panics":      stats.Panics,
			"events":      stats.Events,
		}

		switch {
		case closed:
			return health.Unhealthy("reactor closed", ErrClosed).WithDetails(details)
		case stats.Alive:
			return health.Healthy("worker running").WithDetails(details)
		default:
			// Idle is a normal state: the goroutine spawns on demand.
			return health.Healthy("idle").WithDetails(details)
		}
	})
}
