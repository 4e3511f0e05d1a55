package cascade

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/zoobzio/cascade"

// Span names, one per emission protocol.
const (
	SpanEmit           = "cascade.emit"
	SpanEmitAsync      = "cascade.emit_async"
	SpanWaterfall      = "cascade.waterfall"
	SpanWaterfallAsync = "cascade.waterfall_async"
)

// Span attribute keys.
const (
	AttrEventName    = "event.name"
	AttrEventID      = "event.id"
	AttrHandlerCount = "handler.count"
	AttrLifecycle    = "lifecycle"
	AttrResultCount  = "result.count"
)

// EventPhaseCompleted is recorded on the emission span after each lifecycle.
const EventPhaseCompleted = "lifecycle.completed"

func (em *Emitter) startSpan(ctx context.Context, name string, e *Event, phases [][]*Listener) (context.Context, trace.Span) {
	count := 0
	for _, p := range phases {
		count += len(p)
	}
	return em.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(AttrEventName, e.Name),
			attribute.String(AttrEventID, e.ID.String()),
			attribute.Int(AttrHandlerCount, count),
		),
	)
}

func phaseCompleted(span trace.Span, lifecycle string, results int) {
	if lifecycle == "" {
		return
	}
	span.AddEvent(EventPhaseCompleted, trace.WithAttributes(
		attribute.String(AttrLifecycle, lifecycle),
		attribute.Int(AttrResultCount, results),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
