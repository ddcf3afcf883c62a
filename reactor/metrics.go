package reactor

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// lifecycleMetrics records reactor lifecycle transitions on an
// OpenTelemetry meter. All record methods are nil-safe so call sites do
// not branch on whether metrics were configured.
type lifecycleMetrics struct {
	meter     metric.Meter
	spawns    metric.Int64Counter
	restarts  metric.Int64Counter
	shutdowns metric.Int64Counter
}

func (m *lifecycleMetrics) init() error {
	var err error

	m.spawns, err = m.meter.Int64Counter(
		"reactor.spawns",
		metric.WithDescription("Dedicated goroutine spawns"),
		metric.WithUnit("{spawn}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create spawn counter: %w", err)
	}

	m.restarts, err = m.meter.Int64Counter(
		"reactor.restarts",
		metric.WithDescription("In-loop worker replacements"),
		metric.WithUnit("{restart}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create restart counter: %w", err)
	}

	m.shutdowns, err = m.meter.Int64Counter(
		"reactor.shutdowns",
		metric.WithDescription("Terminal goroutine exits by cause"),
		metric.WithUnit("{shutdown}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create shutdown counter: %w", err)
	}

	return nil
}

func (m *lifecycleMetrics) recordSpawn(name string) {
	if m == nil {
		return
	}
	m.spawns.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("reactor.name", name)),
	)
}

func (m *lifecycleMetrics) recordRestart(name string) {
	if m == nil {
		return
	}
	m.restarts.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("reactor.name", name)),
	)
}

func (m *lifecycleMetrics) recordShutdown(name string, cause ShutdownCause) {
	if m == nil {
		return
	}
	m.shutdowns.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("reactor.name", name),
			attribute.String("reactor.shutdown.cause", cause.String()),
		),
	)
}
