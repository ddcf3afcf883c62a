package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestMiddleware_SuccessPath verifies a clean poll records telemetry.
func TestMiddleware_SuccessPath(t *testing.T) {
	spanRecorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder))
	tracer := &tracerImpl{tracer: tp.Tracer("test")}

	metricReader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))
	metrics, _ := newMetrics(mp.Meter("test"))

	mw := NewMiddleware(tracer, metrics, &noopLogger{})

	meta := WorkerMeta{Reactor: "terminal-input"}

	inner := func(ctx context.Context, m WorkerMeta) (string, error) {
		return "continue", nil
	}

	wrapped := mw.Wrap(inner)
	outcome, err := wrapped(context.Background(), meta)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if outcome != "continue" {
		t.Errorf("outcome = %q, want %q", outcome, "continue")
	}

	spans := spanRecorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "reactor.poll.terminal-input" {
		t.Errorf("span name = %q, want %q", spans[0].Name(), "reactor.poll.terminal-input")
	}

	var rm metricdata.ResourceMetrics
	if err := metricReader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	if findMetric(rm, "reactor.poll.total") == nil {
		t.Error("reactor.poll.total metric not found")
	}
}

// TestMiddleware_ErrorPath verifies a failed poll records error telemetry.
func TestMiddleware_ErrorPath(t *testing.T) {
	spanRecorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder))
	tracer := &tracerImpl{tracer: tp.Tracer("test")}

	metricReader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))
	metrics, _ := newMetrics(mp.Meter("test"))

	mw := NewMiddleware(tracer, metrics, &noopLogger{})

	pollErr := errors.New("poll failed")
	inner := func(ctx context.Context, m WorkerMeta) (string, error) {
		return "restart", pollErr
	}

	wrapped := mw.Wrap(inner)
	outcome, err := wrapped(context.Background(), WorkerMeta{Reactor: "failing"})

	if !errors.Is(err, pollErr) {
		t.Errorf("expected error %v, got %v", pollErr, err)
	}
	if outcome != "restart" {
		t.Errorf("outcome = %q, want %q", outcome, "restart")
	}

	spans := spanRecorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	var gotOutcome string
	for _, attr := range spans[0].Attributes() {
		if string(attr.Key) == "reactor.poll.outcome" {
			gotOutcome = attr.Value.AsString()
		}
	}
	if gotOutcome != "restart" {
		t.Errorf("span outcome attribute = %q, want restart", gotOutcome)
	}

	var rm metricdata.ResourceMetrics
	if err := metricReader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	errMetric := findMetric(rm, "reactor.poll.errors")
	if errMetric == nil {
		t.Error("reactor.poll.errors metric not found")
	} else {
		sum, ok := errMetric.Data.(metricdata.Sum[int64])
		if ok && len(sum.DataPoints) > 0 && sum.DataPoints[0].Value != 1 {
			t.Errorf("expected errors count 1, got %d", sum.DataPoints[0].Value)
		}
	}
}

// TestMiddleware_PropagatesContext verifies context flows into the poll.
func TestMiddleware_PropagatesContext(t *testing.T) {
	mw := NewMiddleware(newNoopTracer(), &noopMetrics{}, &noopLogger{})

	type ctxKey string
	testKey := ctxKey("test")
	testValue := "test_value"

	var receivedValue any
	inner := func(ctx context.Context, m WorkerMeta) (string, error) {
		receivedValue = ctx.Value(testKey)
		return "continue", nil
	}

	wrapped := mw.Wrap(inner)
	ctx := context.WithValue(context.Background(), testKey, testValue)
	if _, err := wrapped(ctx, WorkerMeta{Reactor: "ctx"}); err != nil {
		t.Fatalf("wrapped() error = %v", err)
	}

	if receivedValue != testValue {
		t.Errorf("expected context value %q, got %v", testValue, receivedValue)
	}
}

// TestMiddleware_MeasuresDuration verifies poll duration is recorded.
func TestMiddleware_MeasuresDuration(t *testing.T) {
	metricReader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))
	metrics, _ := newMetrics(mp.Meter("test"))

	mw := NewMiddleware(newNoopTracer(), metrics, &noopLogger{})

	inner := func(ctx context.Context, m WorkerMeta) (string, error) {
		time.Sleep(100 * time.Millisecond)
		return "continue", nil
	}

	wrapped := mw.Wrap(inner)
	if _, err := wrapped(context.Background(), WorkerMeta{Reactor: "timed"}); err != nil {
		t.Fatalf("wrapped() error = %v", err)
	}

	var rm metricdata.ResourceMetrics
	if err := metricReader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	durationMetric := findMetric(rm, "reactor.poll.duration_ms")
	if durationMetric == nil {
		t.Fatal("reactor.poll.duration_ms metric not found")
	}

	hist, ok := durationMetric.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("expected Histogram, got %T", durationMetric.Data)
	}
	if len(hist.DataPoints) == 0 {
		t.Fatal("no histogram data points")
	}
	if hist.DataPoints[0].Sum < 90 {
		t.Errorf("expected duration >= 90ms, got %f", hist.DataPoints[0].Sum)
	}
}

// TestMiddleware_DisabledNoop verifies noop middleware still executes the poll.
func TestMiddleware_DisabledNoop(t *testing.T) {
	mw := NewMiddleware(newNoopTracer(), &noopMetrics{}, &noopLogger{})

	inner := func(ctx context.Context, m WorkerMeta) (string, error) {
		return "stop", nil
	}

	wrapped := mw.Wrap(inner)
	outcome, err := wrapped(context.Background(), WorkerMeta{Reactor: "noop"})

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if outcome != "stop" {
		t.Errorf("outcome = %q, want %q", outcome, "stop")
	}
}

// TestMiddlewareFromObserver verifies the convenience constructor.
func TestMiddlewareFromObserver(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "test"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver() error = %v", err)
	}
	if mw == nil {
		t.Fatal("expected non-nil middleware")
	}

	if _, err := MiddlewareFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Errorf("MiddlewareFromObserver(nil) error = %v, want ErrNilObserver", err)
	}
}
