package reactor

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/jonwraymond/rrt/observe"
)

// run is the entry point of the dedicated goroutine. Cleanup is layered so
// that a panic in the loop is recovered first, the finalizer then
// broadcasts the shutdown and clears the waker and alive flag, and the
// done channel closes last.
func (r *Reactor[E]) run(w Worker[E], gen uint64, done chan struct{}) {
	exit := &ShutdownReason{Cause: CauseStopped}

	defer close(done)
	defer func() { r.finalize(*exit, gen) }()
	defer func() {
		if p := recover(); p != nil {
			exit.Cause = CausePanic
			exit.PanicValue = p
			exit.Stack = debug.Stack()
			r.panics.Add(1)

			r.logger.Error(context.Background(), "worker panicked",
				observe.Field{Key: "reactor", Value: r.name},
				observe.Field{Key: "generation", Value: gen},
				observe.Field{Key: "panic", Value: fmt.Sprint(p)},
			)
		}
	}()

	if r.lockThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	r.loop(w, gen, exit)
}

// loop applies the worker's Continuation verdicts until a terminal exit.
// Restart replaces the worker session in place; Stop and exhaustion leave
// the loop, and the caller's finalizer takes it from there.
func (r *Reactor[E]) loop(w Worker[E], gen uint64, exit *ShutdownReason) {
	policy := r.factory.RestartPolicy()
	sink := reactorSink[E]{r: r}
	restarts := 0
	delay := policy.InitialDelay
	cur := w

	defer func() { closeWorker(cur) }()

	for {
		switch c := r.poll(cur, sink); c {
		case Continue:
			continue

		case Stop:
			exit.Cause = CauseStopped
			return

		case Restart:
			if !policy.ShouldRetry(restarts) {
				exit.Cause = CauseRestartsExhausted
				exit.Attempts = restarts + 1
				return
			}
			if delay > 0 {
				time.Sleep(delay)
			}
			restarts++
			delay = policy.NextDelay(delay)

			next, waker, err := r.factory.Create()
			if err != nil {
				exit.Cause = CauseRestartsExhausted
				exit.Attempts = restarts
				exit.Err = fmt.Errorf("reactor: replace worker: %w", err)
				return
			}
			closeWorker(cur)
			cur = next
			r.replaceWaker(waker, gen)
			r.restarts.Add(1)
			r.metrics.recordRestart(r.name)

			r.logger.Warn(context.Background(), "worker restarted",
				observe.Field{Key: "reactor", Value: r.name},
				observe.Field{Key: "generation", Value: gen},
				observe.Field{Key: "restarts", Value: restarts},
			)
		}
	}
}

// poll runs one PollOnce call, wrapped in the observability middleware
// when one is configured.
func (r *Reactor[E]) poll(w Worker[E], sink Sink[E]) Continuation {
	if r.pollMW == nil {
		return w.PollOnce(sink)
	}

	var c Continuation
	wrapped := r.pollMW.Wrap(func(ctx context.Context, meta observe.WorkerMeta) (string, error) {
		c = w.PollOnce(sink)
		return c.String(), nil
	})
	_, _ = wrapped(context.Background(), r.meta)
	return c
}

// finalize runs once per goroutine, on every exit path. The shutdown
// broadcast happens under the same mutex Subscribe holds, immediately
// before the waker slot and alive flag are cleared: a racing subscriber
// therefore either registers in time to receive the Shutdown event, or
// observes a dead reactor and triggers a fresh spawn. On a plain Stop the
// event is sent only when receivers are still attached; the normal drain
// path has none and nothing is sent.
func (r *Reactor[E]) finalize(exit ShutdownReason, gen uint64) {
	r.mu.Lock()

	if r.bcast != nil {
		notify := exit.Cause != CauseStopped || r.bcast.ReceiverCount() > 0
		if notify {
			r.bcast.Send(Event[E]{Kind: KindShutdown, Shutdown: exit})
		}
	}

	// Cleared unconditionally last, on every exit path.
	r.waker = nil
	r.alive = false
	r.mu.Unlock()

	r.metrics.recordShutdown(r.name, exit.Cause)
	r.logger.Info(context.Background(), "worker exited",
		observe.Field{Key: "reactor", Value: r.name},
		observe.Field{Key: "generation", Value: gen},
		observe.Field{Key: "cause", Value: exit.Cause.String()},
	)
}

// replaceWaker installs the waker of a replacement worker session.
func (r *Reactor[E]) replaceWaker(w Waker, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.alive && r.generation == gen {
		r.waker = w
	}
}

// closeWorker releases a retired worker's resources when it opts in via
// io.Closer.
func closeWorker[E any](w Worker[E]) {
	if c, ok := w.(io.Closer); ok {
		_ = c.Close()
	}
}
