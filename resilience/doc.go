// Package resilience provides the self-healing policies for reactor threads.
//
// This package implements the policies a reactor consults when its worker
// fails or when callers compete for its capacity. The policies are plain
// values and small state machines with no dependency on the reactor itself,
// so they can be tested and tuned in isolation.
//
// # Policies
//
// The package provides the following policies:
//
//   - RestartPolicy: Bounded, backoff-driven worker restarts. Pure
//     functions decide whether another restart is allowed and how long to
//     sleep before it.
//
//   - SpawnGuard: Circuit-breaker-style protection against spawn storms.
//     Consecutive worker-creation failures open the guard; after a cooling
//     period a single probe spawn is allowed through.
//
//   - SubscriberLimit: Non-blocking admission control capping the number
//     of concurrent subscribers on one reactor.
//
// # Usage
//
// A Factory returns its RestartPolicy once per worker-loop invocation:
//
//	func (f *ttyFactory) RestartPolicy() resilience.RestartPolicy {
//	    return resilience.RestartPolicy{
//	        MaxRestarts:  5,
//	        InitialDelay: 50 * time.Millisecond,
//	        Multiplier:   2.0,
//	        MaxDelay:     time.Second,
//	    }
//	}
//
// Guards and limits are constructed by the embedding application and handed
// to the reactor:
//
//	guard := resilience.NewSpawnGuard(resilience.SpawnGuardConfig{
//	    MaxFailures:  3,
//	    ResetTimeout: time.Minute,
//	})
//	limit := resilience.NewSubscriberLimit(resilience.SubscriberLimitConfig{
//	    MaxSubscribers: 128,
//	})
package resilience
