package observe

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"
)

// BenchmarkLogger_Info measures logging throughput.
func BenchmarkLogger_Info(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "benchmark message", Field{Key: "iteration", Value: i})
	}
}

// BenchmarkLogger_Info_MultipleFields measures logging with multiple fields.
func BenchmarkLogger_Info_MultipleFields(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()
	fields := []Field{
		{Key: "field1", Value: "value1"},
		{Key: "field2", Value: 42},
		{Key: "field3", Value: true},
		{Key: "field4", Value: 3.14},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "benchmark message", fields...)
	}
}

// BenchmarkLogger_WithWorker measures creating worker-scoped loggers.
func BenchmarkLogger_WithWorker(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	meta := WorkerMeta{
		Reactor:  "bench-reactor",
		Resource: "tty",
		Version:  "1.0.0",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = logger.WithWorker(meta)
	}
}

// BenchmarkLogger_WithWorker_ThenLog measures the full pattern of creating
// a worker logger and logging.
func BenchmarkLogger_WithWorker_ThenLog(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()
	meta := WorkerMeta{
		Reactor:  "bench-reactor",
		Resource: "tty",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		workerLogger := logger.WithWorker(meta)
		workerLogger.Info(ctx, "worker poll", Field{Key: "iteration", Value: i})
	}
}

// BenchmarkLogger_LevelFiltering measures overhead of level filtering.
func BenchmarkLogger_LevelFiltering(b *testing.B) {
	logger := NewLoggerWithWriter("error", io.Discard) // Only error level
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// These should be filtered out (no actual logging)
		logger.Debug(ctx, "filtered debug")
		logger.Info(ctx, "filtered info")
		logger.Warn(ctx, "filtered warn")
	}
}

// BenchmarkWorkerMeta_SpanName measures span name generation.
func BenchmarkWorkerMeta_SpanName(b *testing.B) {
	meta := WorkerMeta{
		Reactor:  "pty-reader",
		Resource: "tty",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = meta.SpanName()
	}
}

// BenchmarkWorkerMeta_WorkerID measures worker ID generation.
func BenchmarkWorkerMeta_WorkerID(b *testing.B) {
	meta := WorkerMeta{
		Reactor:  "pty-reader",
		Resource: "tty",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = meta.WorkerID()
	}
}

// BenchmarkWorkerMeta_WorkerID_NoResource measures worker ID without a resource.
func BenchmarkWorkerMeta_WorkerID_NoResource(b *testing.B) {
	meta := WorkerMeta{
		Reactor: "heartbeat",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = meta.WorkerID()
	}
}

// BenchmarkTracer_StartEndPoll measures tracer span lifecycle (noop).
func BenchmarkTracer_StartEndPoll(b *testing.B) {
	tracer := newNoopTracer()
	ctx := context.Background()
	meta := WorkerMeta{
		Reactor:  "bench-reactor",
		Resource: "tty",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx, span := tracer.StartPoll(ctx, meta)
		tracer.EndPoll(span, "continue", nil)
		_ = ctx
	}
}

// BenchmarkMetrics_RecordPoll measures metrics recording.
func BenchmarkMetrics_RecordPoll(b *testing.B) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "bench",
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		b.Fatalf("failed to create observer: %v", err)
	}
	defer obs.Shutdown(ctx)

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		b.Fatalf("failed to create metrics: %v", err)
	}

	meta := WorkerMeta{Reactor: "bench-reactor", Resource: "tty"}
	duration := 100 * time.Millisecond

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		metrics.RecordPoll(ctx, meta, duration, "continue", nil)
	}
}

// BenchmarkMetrics_RecordPoll_WithError measures metrics with error.
func BenchmarkMetrics_RecordPoll_WithError(b *testing.B) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "bench",
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		b.Fatalf("failed to create observer: %v", err)
	}
	defer obs.Shutdown(ctx)

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		b.Fatalf("failed to create metrics: %v", err)
	}

	meta := WorkerMeta{Reactor: "bench-reactor", Resource: "tty"}
	duration := 100 * time.Millisecond
	pollErr := fmt.Errorf("benchmark error")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		metrics.RecordPoll(ctx, meta, duration, "restart", pollErr)
	}
}

// BenchmarkMiddleware_Wrap measures full middleware wrapping.
func BenchmarkMiddleware_Wrap(b *testing.B) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "bench",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: false},
	})
	if err != nil {
		b.Fatalf("failed to create observer: %v", err)
	}
	defer obs.Shutdown(ctx)

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		b.Fatalf("failed to create middleware: %v", err)
	}

	pollFn := func(ctx context.Context, meta WorkerMeta) (string, error) {
		return "continue", nil
	}
	wrapped := mw.Wrap(pollFn)
	meta := WorkerMeta{Reactor: "bench-reactor", Resource: "tty"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = wrapped(ctx, meta)
	}
}

// BenchmarkMiddleware_Wrap_WithLogging measures middleware with logging enabled.
func BenchmarkMiddleware_Wrap_WithLogging(b *testing.B) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "bench",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	})
	if err != nil {
		b.Fatalf("failed to create observer: %v", err)
	}
	defer obs.Shutdown(ctx)

	// Replace logger with discard writer
	obsImpl := obs.(*observer)
	obsImpl.logger = NewLoggerWithWriter("info", io.Discard)

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		b.Fatalf("failed to create middleware: %v", err)
	}

	pollFn := func(ctx context.Context, meta WorkerMeta) (string, error) {
		return "continue", nil
	}
	wrapped := mw.Wrap(pollFn)
	meta := WorkerMeta{Reactor: "bench-reactor", Resource: "tty"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = wrapped(ctx, meta)
	}
}

// BenchmarkConcurrent_Logger measures concurrent logging.
func BenchmarkConcurrent_Logger(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			logger.Info(ctx, "concurrent message", Field{Key: "iteration", Value: i})
			i++
		}
	})
}

// BenchmarkConcurrent_Middleware measures concurrent middleware execution.
func BenchmarkConcurrent_Middleware(b *testing.B) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "bench",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: false},
	})
	if err != nil {
		b.Fatalf("failed to create observer: %v", err)
	}
	defer obs.Shutdown(ctx)

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		b.Fatalf("failed to create middleware: %v", err)
	}

	pollFn := func(ctx context.Context, meta WorkerMeta) (string, error) {
		return "continue", nil
	}
	wrapped := mw.Wrap(pollFn)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			meta := WorkerMeta{
				Reactor:  fmt.Sprintf("reactor_%d", i%100),
				Resource: fmt.Sprintf("res_%d", i%10),
			}
			_, _ = wrapped(ctx, meta)
			i++
		}
	})
}

// BenchmarkConfig_Validate measures configuration validation.
func BenchmarkConfig_Validate(b *testing.B) {
	cfg := Config{
		ServiceName: "bench-service",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 0.5},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cfg.Validate()
	}
}
