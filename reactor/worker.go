package reactor

import (
	"github.com/jonwraymond/rrt/resilience"
)

// Continuation is the sole signal a Worker sends upward per poll.
type Continuation int

const (
	// Continue means the worker should be polled again.
	Continue Continuation = iota

	// Stop means the worker is authoritatively done (for example: zero
	// subscribers remain, or end-of-input). Stop is honored immediately
	// and never overridden.
	Stop

	// Restart means the worker's underlying OS resource is believed
	// corrupted but a fresh Factory.Create might succeed. The reactor,
	// not the worker, owns the retry/backoff/exhaustion decision.
	Restart
)

// String returns the string representation of the continuation.
func (c Continuation) String() string {
	switch c {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	case Restart:
		return "restart"
	default:
		return "unknown"
	}
}

// Sink is where a Worker pushes decoded domain events. Every event is
// fanned out to all live subscribers; ReceiverCount lets a worker decide
// whether anyone is still listening.
//
// Contract:
// - Concurrency: safe for use from the reactor's dedicated goroutine.
// - Errors: Send is best-effort and never blocks; a lagging subscriber
//   loses oldest events rather than stalling the worker.
type Sink[E any] interface {
	// Send fans one domain event out to all live subscribers.
	Send(event E)

	// ReceiverCount reports the number of live subscribers.
	ReceiverCount() int
}

// Worker is the domain-specific pluggable poller invoked once per loop
// iteration on the reactor's dedicated goroutine.
//
// Contract:
// - PollOnce may block in an OS-level wait; the paired Waker must be able
//   to interrupt that wait so the worker re-evaluates subscriber and
//   liveness state promptly.
// - PollOnce may push zero or more events into the sink before returning.
// - A Worker that also implements io.Closer is closed when it is replaced
//   during a restart and when the loop exits.
type Worker[E any] interface {
	PollOnce(sink Sink[E]) Continuation
}

// Waker is a cross-goroutine signal capable of interrupting the worker's
// blocking wait inside PollOnce.
//
// Contract:
// - Wake must be safely callable from any goroutine at any time, including
//   after the target has already exited, as a guaranteed no-op in that case.
type Waker interface {
	Wake()
}

// Factory constructs fresh (Worker, Waker) pairs and supplies the restart
// policy. Create allocates whatever OS resources the worker needs and may
// fail; the reactor calls it on first subscribe and on every restart.
type Factory[E any] interface {
	Create() (Worker[E], Waker, error)

	// RestartPolicy returns the backoff configuration governing retries
	// after a Restart continuation. Return
	// resilience.DefaultRestartPolicy() when in doubt.
	RestartPolicy() resilience.RestartPolicy
}

// WorkerFunc adapts a plain function to the Worker interface.
type WorkerFunc[E any] func(sink Sink[E]) Continuation

// PollOnce calls f.
func (f WorkerFunc[E]) PollOnce(sink Sink[E]) Continuation {
	return f(sink)
}

// WakerFunc adapts a plain function to the Waker interface.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() {
	f()
}
