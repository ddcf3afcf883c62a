package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records poll metrics for reactor workers.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordPoll records one worker poll with its duration, the
	// continuation outcome it produced, and error status.
	RecordPoll(ctx context.Context, meta WorkerMeta, duration time.Duration, outcome string, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"reactor.poll.total",
		metric.WithDescription("Total number of worker polls"),
		metric.WithUnit("{poll}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"reactor.poll.errors",
		metric.WithDescription("Total number of worker poll errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"reactor.poll.duration_ms",
		metric.WithDescription("Worker poll duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
	}, nil
}

// RecordPoll records metrics for one worker poll.
func (m *metricsImpl) RecordPoll(ctx context.Context, meta WorkerMeta, duration time.Duration, outcome string, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("reactor.worker.id", meta.WorkerID()),
		attribute.String("reactor.name", meta.Reactor),
	}

	if outcome != "" {
		attrs = append(attrs, attribute.String("reactor.poll.outcome", outcome))
	}

	opt := metric.WithAttributes(attrs...)

	// Always increment total counter
	m.totalCount.Add(ctx, 1, opt)

	// Increment error counter on failure
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}

	// Record duration in milliseconds
	durationMs := float64(duration.Milliseconds())
	m.durationHist.Record(ctx, durationMs, opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordPoll(ctx context.Context, meta WorkerMeta, duration time.Duration, outcome string, err error) {
}
