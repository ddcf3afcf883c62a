package reactor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/rrt/broadcast"
	"github.com/jonwraymond/rrt/observe"
	"github.com/jonwraymond/rrt/resilience"
)

// Reactor controls exactly one dedicated goroutine running a pluggable
// Worker, and fans the worker's events out to any number of subscribers.
// The broadcast channel is created lazily on the first Subscribe and lives
// for the reactor's whole lifetime; the goroutine is spawned on demand and
// respawned when subscribers return after an exit.
//
// Contract:
// - Concurrency: all methods are safe for concurrent use.
// - At any moment at most one dedicated goroutine exists per Reactor.
// - Closing the returned Subscription is the only unsubscribe mechanism.
type Reactor[E any] struct {
	factory    Factory[E]
	name       string
	logger     observe.Logger
	capacity   int
	lockThread bool
	guard      *resilience.SpawnGuard
	limit      *resilience.SubscriberLimit
	observer   observe.Observer
	pollMW     *observe.Middleware
	meta       observe.WorkerMeta
	metrics    *lifecycleMetrics

	mu         sync.Mutex
	bcast      *broadcast.Broadcaster[Event[E]]
	waker      Waker
	alive      bool
	closed     bool
	generation uint64
	done       chan struct{}

	spawns   atomic.Uint64
	restarts atomic.Uint64
	panics   atomic.Uint64
	events   atomic.Uint64
}

// Option configures a Reactor.
type Option[E any] func(*Reactor[E])

// WithName sets the reactor name used in logs, telemetry, and health
// checks. Default: "reactor".
func WithName[E any](name string) Option[E] {
	return func(r *Reactor[E]) {
		if name != "" {
			r.name = name
		}
	}
}

// WithLogger sets the structured logger. Default: a no-op logger.
func WithLogger[E any](logger observe.Logger) Option[E] {
	return func(r *Reactor[E]) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver instruments every worker poll with the observer's tracer,
// meter, and logger.
func WithObserver[E any](obs observe.Observer) Option[E] {
	return func(r *Reactor[E]) {
		r.observer = obs
	}
}

// WithMeter records reactor lifecycle metrics (spawns, restarts,
// shutdowns) on the given meter.
func WithMeter[E any](m metric.Meter) Option[E] {
	return func(r *Reactor[E]) {
		if m != nil {
			r.metrics = &lifecycleMetrics{meter: m}
		}
	}
}

// WithBufferCapacity sets the per-subscriber event buffer capacity.
// Default: broadcast.DefaultCapacity.
func WithBufferCapacity[E any](n int) Option[E] {
	return func(r *Reactor[E]) {
		r.capacity = n
	}
}

// WithOSThread controls whether the dedicated goroutine is pinned to an
// OS thread. Default: true, since workers typically sit in blocking
// OS-level waits.
func WithOSThread[E any](enabled bool) Option[E] {
	return func(r *Reactor[E]) {
		r.lockThread = enabled
	}
}

// WithSpawnGuard protects the factory against spawn storms: when Create
// keeps failing, the guard opens and Subscribe fails fast with
// resilience.ErrSpawnGuardOpen instead of hammering the broken resource.
func WithSpawnGuard[E any](g *resilience.SpawnGuard) Option[E] {
	return func(r *Reactor[E]) {
		r.guard = g
	}
}

// WithSubscriberLimit caps concurrent subscribers; Subscribe fails with
// resilience.ErrSubscriberLimit at capacity.
func WithSubscriberLimit[E any](l *resilience.SubscriberLimit) Option[E] {
	return func(r *Reactor[E]) {
		r.limit = l
	}
}

// New creates a Reactor driving workers built by factory. No goroutine is
// spawned until the first Subscribe.
func New[E any](factory Factory[E], opts ...Option[E]) (*Reactor[E], error) {
	if factory == nil {
		return nil, ErrNilFactory
	}

	r := &Reactor[E]{
		factory:    factory,
		name:       "reactor",
		logger:     observe.NopLogger(),
		lockThread: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.meta = observe.WorkerMeta{Reactor: r.name}

	if r.observer != nil {
		mw, err := observe.MiddlewareFromObserver(r.observer)
		if err != nil {
			return nil, err
		}
		r.pollMW = mw
		if r.metrics == nil {
			r.metrics = &lifecycleMetrics{meter: r.observer.Meter()}
		}
	}
	if r.metrics != nil {
		if err := r.metrics.init(); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Name returns the reactor name.
func (r *Reactor[E]) Name() string {
	return r.name
}

// Subscribe registers a new subscriber, spawning the dedicated goroutine
// first if none is alive. A Create failure is returned synchronously and
// changes no reactor state.
//
// A Subscribe racing the goroutine's exit has exactly two outcomes, both
// valid: it attaches to the still-running goroutine (same generation), or
// the exit completes first and a fresh goroutine is spawned with a bumped
// generation. A subscriber attaching in the narrow window where the
// goroutine has decided to stop still receives the Shutdown event, so no
// subscription is ever stranded on a dead goroutine.
func (r *Reactor[E]) Subscribe() (*Subscription[E], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}

	if r.limit != nil {
		if err := r.limit.Acquire(); err != nil {
			return nil, err
		}
	}

	spawn := !r.alive
	var worker Worker[E]
	var waker Waker
	if spawn {
		if r.guard != nil {
			if err := r.guard.Allow(); err != nil {
				r.releaseLimit()
				return nil, err
			}
		}

		var err error
		worker, waker, err = r.factory.Create()
		if err != nil {
			if r.guard != nil {
				r.guard.RecordFailure()
			}
			r.releaseLimit()
			return nil, fmt.Errorf("reactor: create worker: %w", err)
		}
		if r.guard != nil {
			r.guard.RecordSuccess()
		}
	}

	// Created at most once per reactor, never torn down until Close.
	if r.bcast == nil {
		r.bcast = broadcast.New[Event[E]](r.capacity)
	}

	// The receiver registers before the goroutine starts so the spawning
	// subscriber can never miss the worker's first events.
	sub := r.bcast.Subscribe()

	if spawn {
		r.generation++
		r.waker = waker
		r.alive = true
		r.done = make(chan struct{})
		r.spawns.Add(1)

		r.logger.Info(context.Background(), "worker spawned",
			observe.Field{Key: "reactor", Value: r.name},
			observe.Field{Key: "generation", Value: r.generation},
		)
		r.metrics.recordSpawn(r.name)

		go r.run(worker, r.generation, r.done)
	}

	return &Subscription[E]{r: r, sub: sub}, nil
}

// Close shuts the reactor down: the broadcaster closes (subscribers see
// broadcast.ErrClosed once drained), the worker is woken, and Close waits
// for the dedicated goroutine to exit or ctx to expire. Further Subscribe
// calls fail with ErrClosed. Close is idempotent.
//
// Shutdown is cooperative: a worker that ignores its waker and its
// receiver count keeps the goroutine alive past ctx, in which case Close
// returns ctx.Err() and the goroutine leaks until the worker yields.
func (r *Reactor[E]) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		done := r.done
		alive := r.alive
		r.mu.Unlock()
		if alive && done != nil {
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
	r.closed = true
	if r.bcast != nil {
		r.bcast.Close()
	}
	waker := r.waker
	done := r.done
	alive := r.alive
	r.mu.Unlock()

	if waker != nil {
		waker.Wake()
	}
	if alive && done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	r.logger.Info(ctx, "reactor closed",
		observe.Field{Key: "reactor", Value: r.name},
	)
	return nil
}

// Stats is a point-in-time snapshot of reactor counters.
type Stats struct {
	// Generation counts physical goroutine spawns; it never moves when an
	// in-loop restart replaces the worker within the same goroutine.
	Generation uint64

	// Spawns, Restarts and Panics count lifecycle transitions.
	Spawns   uint64
	Restarts uint64
	Panics   uint64

	// Events counts worker events fanned out.
	Events uint64

	// Subscribers is the current live subscriber count.
	Subscribers int

	// Alive reports whether the dedicated goroutine is running.
	Alive bool
}

// Stats returns current reactor statistics.
func (r *Reactor[E]) Stats() Stats {
	r.mu.Lock()
	generation := r.generation
	alive := r.alive
	var subscribers int
	if r.bcast != nil {
		subscribers = r.bcast.ReceiverCount()
	}
	r.mu.Unlock()

	return Stats{
		Generation:  generation,
		Spawns:      r.spawns.Load(),
		Restarts:    r.restarts.Load(),
		Panics:      r.panics.Load(),
		Events:      r.events.Load(),
		Subscribers: subscribers,
		Alive:       alive,
	}
}

// wake nudges the worker out of its blocking wait, if one is running.
func (r *Reactor[E]) wake() {
	r.mu.Lock()
	waker := r.waker
	r.mu.Unlock()

	if waker != nil {
		waker.Wake()
	}
}

func (r *Reactor[E]) releaseLimit() {
	if r.limit != nil {
		r.limit.Release()
	}
}

// reactorSink is the Sink handed to workers. The broadcaster pointer is
// written once, before the first goroutine spawn, so unlocked reads here
// are safe.
type reactorSink[E any] struct {
	r *Reactor[E]
}

func (s reactorSink[E]) Send(event E) {
	s.r.events.Add(1)
	s.r.bcast.Send(Event[E]{Kind: KindWorker, Data: event})
}

func (s reactorSink[E]) ReceiverCount() int {
	return s.r.bcast.ReceiverCount()
}
