package observe

import (
	"context"
	"time"
)

// PollFunc is the signature for a single instrumented worker poll. It
// returns the continuation outcome ("continue", "stop", "restart") and an
// error when the poll failed.
type PollFunc func(ctx context.Context, meta WorkerMeta) (string, error)

// Middleware wraps worker polls with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe PollFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from the wrapped poll are recorded and propagated unchanged.
//   - Panics: Panics are not intercepted; containment belongs to the reactor.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps a PollFunc with tracing, metrics, and logging.
//
// Successful polls log at debug level: a healthy reactor polls in a tight
// loop and anything louder would swamp the log.
func (m *Middleware) Wrap(fn PollFunc) PollFunc {
	return func(ctx context.Context, meta WorkerMeta) (string, error) {
		ctx, span := m.tracer.StartPoll(ctx, meta)

		start := time.Now()
		outcome, err := fn(ctx, meta)
		duration := time.Since(start)

		m.tracer.EndPoll(span, outcome, err)
		m.metrics.RecordPoll(ctx, meta, duration, outcome, err)

		workerLogger := m.logger.WithWorker(meta)
		fields := []Field{
			{Key: "outcome", Value: outcome},
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			workerLogger.Error(ctx, "worker poll failed", fields...)
		} else {
			workerLogger.Debug(ctx, "worker poll completed", fields...)
		}

		return outcome, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}
