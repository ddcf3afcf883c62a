package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// WorkerMeta contains metadata about a reactor worker for telemetry purposes.
type WorkerMeta struct {
	Reactor  string   // Reactor name (required)
	Resource string   // The resource the worker polls, e.g. "tty" (optional)
	Version  string   // Worker implementation version (optional)
	Tags     []string // Tags for discovery (optional)
}

// SpanName returns the deterministic span name for one worker poll.
// Format: reactor.poll.<reactor>
func (m WorkerMeta) SpanName() string {
	return "reactor.poll." + m.Reactor
}

// Validate checks that the required metadata fields are present.
func (m WorkerMeta) Validate() error {
	if m.Reactor == "" {
		return ErrMissingReactorName
	}
	return nil
}

// WorkerID returns the fully qualified worker identifier.
// Format: <reactor>/<resource> or just <reactor>.
func (m WorkerMeta) WorkerID() string {
	if m.Resource != "" {
		return m.Reactor + "/" + m.Resource
	}
	return m.Reactor
}

// Tracer wraps OpenTelemetry tracing with worker-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartPoll must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndPoll must be best-effort and must not panic.
type Tracer interface {
	// StartPoll starts a new span for one worker poll.
	StartPoll(ctx context.Context, meta WorkerMeta) (context.Context, trace.Span)

	// EndPoll ends the span, recording the poll outcome and any error.
	EndPoll(span trace.Span, outcome string, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartPoll starts a new span with worker metadata as attributes.
func (t *tracerImpl) StartPoll(ctx context.Context, meta WorkerMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("reactor.worker.id", meta.WorkerID()),
		attribute.String("reactor.name", meta.Reactor),
	}

	if meta.Resource != "" {
		attrs = append(attrs, attribute.String("reactor.resource", meta.Resource))
	}
	if meta.Version != "" {
		attrs = append(attrs, attribute.String("reactor.worker.version", meta.Version))
	}
	if len(meta.Tags) > 0 {
		attrs = append(attrs, attribute.StringSlice("reactor.worker.tags", meta.Tags))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndPoll ends the span and records the outcome plus error status if present.
func (t *tracerImpl) EndPoll(span trace.Span, outcome string, err error) {
	if outcome != "" {
		span.SetAttributes(attribute.String("reactor.poll.outcome", outcome))
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartPoll(ctx context.Context, meta WorkerMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndPoll(span trace.Span, outcome string, err error) {
	span.End()
}
