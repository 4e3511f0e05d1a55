package cascade

import (
	"context"
	"runtime/debug"

	"go.opentelemetry.io/otel/trace"
)

// Emit calls every handler matching name, one at a time, and returns their
// results. With lifecycles, phases run in order and a phase's results become
// visible through Event.Lifecycle once it has completed.
//
// The first handler error aborts the emission and is returned wrapped in a
// *HandlerError (or *PanicError); no partial results are returned.
func (em *Emitter) Emit(ctx context.Context, name string, args ...any) (Results, error) {
	phases := em.resolve(name)
	e := newEvent(name)

	ctx, span := em.startSpan(ctx, SpanEmit, e, phases)
	results, err := em.emitSequential(ctx, span, e, phases, args)
	endSpan(span, err)
	return results, err
}

func (em *Emitter) emitSequential(ctx context.Context, span trace.Span, e *Event, phases [][]*Listener, args []any) (Results, error) {
	results := em.newResults(len(phases))
	for i, listeners := range phases {
		lifecycle := em.lifecycleName(i)
		values := make([]any, 0, len(listeners))
		for _, l := range listeners {
			if l.Closed() {
				continue
			}
			v, err := em.invoke(ctx, l, e, args)
			if err != nil {
				return Results{}, err
			}
			values = append(values, resultValue(v))
		}
		results.groups[i] = values
		e.record(lifecycle, values)
		phaseCompleted(span, lifecycle, len(values))
	}
	return results, nil
}

// EmitWaterfall calls the handlers matching name in order, lifecycle by
// lifecycle, feeding each handler's result to the next. It returns the last
// value a handler produced.
//
// A handler returning nil leaves the running value and the next arguments
// unchanged. Returning e.ContinueEmpty() calls the next handler with no
// arguments; e.ReturnEmpty() stops with a nil result. A handler that calls
// e.PreventDefault() has its own result folded in and then stops the chain.
func (em *Emitter) EmitWaterfall(ctx context.Context, name string, args ...any) (any, error) {
	phases := em.resolve(name)
	e := newEvent(name)

	ctx, span := em.startSpan(ctx, SpanWaterfall, e, phases)
	result, err := em.waterfall(ctx, e, phases, args)
	endSpan(span, err)
	return result, err
}

// waterfall runs the flattened handler chain.
func (em *Emitter) waterfall(ctx context.Context, e *Event, phases [][]*Listener, args []any) (any, error) {
	var result any
	input := args

	for _, listeners := range phases {
		for _, l := range listeners {
			if l.Closed() {
				continue
			}
			v, err := em.invoke(ctx, l, e, input)
			if err != nil {
				return nil, err
			}

			out := outcomeOf(v)
			switch out.kind {
			case outcomeReturnEmpty:
				return nil, nil
			case outcomeContinueEmpty:
				input = nil
			case outcomeContinue:
				result = out.value
				input = []any{out.value}
			}

			if e.DefaultPrevented() {
				return result, nil
			}
		}
	}
	return result, nil
}

// invoke calls one handler, converting errors and panics into the package's
// error types.
func (em *Emitter) invoke(ctx context.Context, l *Listener, e *Event, args []any) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if em.panicHandler != nil {
				em.panicHandler(e.Name, l.pattern, r)
			}
			err = &PanicError{
				Event:   e.Name,
				Pattern: l.pattern,
				Value:   r,
				Stack:   string(debug.Stack()),
			}
			v = nil
			em.logger.Error().Err(err).Str("event", e.Name).Str("pattern", l.pattern).Msg("handler panicked")
		}
	}()

	v, err = l.handler(ctx, e, args...)
	if err != nil {
		err = &HandlerError{
			Event:     e.Name,
			Pattern:   l.pattern,
			Lifecycle: l.Lifecycle(),
			Err:       err,
		}
		em.logger.Error().Err(err).Str("event", e.Name).Str("pattern", l.pattern).Msg("handler failed")
		return nil, err
	}
	return v, nil
}

func (em *Emitter) newResults(phases int) Results {
	groups := make([][]any, phases)
	for i := range groups {
		groups[i] = []any{}
	}
	return Results{lifecycles: em.Lifecycles(), groups: groups}
}
