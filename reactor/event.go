package reactor

import "fmt"

// EventKind discriminates the two tiers of the event envelope.
type EventKind int

const (
	// KindWorker marks an event carrying domain data from the worker.
	KindWorker EventKind = iota
	// KindShutdown marks a framework signal that the dedicated goroutine
	// has exited.
	KindShutdown
)

// String returns the string representation of the kind.
func (k EventKind) String() string {
	switch k {
	case KindWorker:
		return "worker"
	case KindShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// ShutdownCause identifies why the reactor, rather than its caller, ended
// the dedicated goroutine.
type ShutdownCause int

const (
	// CauseStopped means the worker returned Stop.
	CauseStopped ShutdownCause = iota
	// CauseRestartsExhausted means the restart policy ran out of attempts.
	CauseRestartsExhausted
	// CausePanic means PollOnce panicked; panics signal a logic defect and
	// are reported once, never retried.
	CausePanic
)

// String returns the string representation of the cause.
func (c ShutdownCause) String() string {
	switch c {
	case CauseStopped:
		return "stopped"
	case CauseRestartsExhausted:
		return "restarts exhausted"
	case CausePanic:
		return "panic"
	default:
		return "unknown"
	}
}

// ShutdownReason describes a terminal exit of the dedicated goroutine.
type ShutdownReason struct {
	// Cause classifies the exit.
	Cause ShutdownCause

	// Attempts is the restart attempt count at exhaustion. It counts the
	// attempt that was denied or failed, so a policy with MaxRestarts 2
	// reports 3.
	Attempts int

	// Err is the worker-creation failure that ended a restart, when any.
	Err error

	// PanicValue is the recovered value when Cause is CausePanic.
	PanicValue any

	// Stack is the goroutine stack captured at the panic site.
	Stack []byte
}

// String returns a one-line description of the reason.
func (r ShutdownReason) String() string {
	switch r.Cause {
	case CauseRestartsExhausted:
		if r.Err != nil {
			return fmt.Sprintf("restarts exhausted after %d attempts: %v", r.Attempts, r.Err)
		}
		return fmt.Sprintf("restarts exhausted after %d attempts", r.Attempts)
	case CausePanic:
		return fmt.Sprintf("panic: %v", r.PanicValue)
	default:
		return r.Cause.String()
	}
}

// Event is the two-tier envelope delivered to subscribers: either one
// domain event from the worker or a framework shutdown signal. The tiers
// are never collapsed; check Kind before reading Data or Shutdown.
type Event[E any] struct {
	// Kind discriminates the envelope.
	Kind EventKind

	// Data is the domain event when Kind is KindWorker.
	Data E

	// Shutdown is the exit description when Kind is KindShutdown.
	Shutdown ShutdownReason
}
