package cascade

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Pending is the eventual result of an asynchronous emission.
type Pending[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Done is closed once the emission has completed.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the emission completes and returns its outcome.
func (p *Pending[T]) Wait() (T, error) {
	<-p.done
	return p.value, p.err
}

// Await is Wait bounded by ctx. If ctx ends first its error is returned;
// the emission itself keeps running, since handlers cannot be aborted.
func (p *Pending[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// spawn runs fn in its own goroutine, tracked by the emitter until it completes.
func spawn[T any](em *Emitter, fn func() (T, error)) *Pending[T] {
	p := &Pending[T]{done: make(chan struct{})}
	em.takeoff()
	go func() {
		defer em.land()
		defer close(p.done)
		p.value, p.err = fn()
	}()
	return p
}

func (em *Emitter) takeoff() {
	em.flightMu.Lock()
	em.inflight++
	em.flightMu.Unlock()
}

func (em *Emitter) land() {
	em.flightMu.Lock()
	em.inflight--
	if em.inflight == 0 {
		em.landed.Broadcast()
	}
	em.flightMu.Unlock()
}

// EmitAsync calls every handler matching name and returns immediately. The
// handlers of one lifecycle run concurrently; the next lifecycle starts once
// they have all returned. Results keep resolution order regardless of which
// handler finishes first.
//
// Handlers are resolved when EmitAsync is called. If a handler fails, its
// phase still runs to completion, no later phase starts, and the Pending
// reports the first error.
func (em *Emitter) EmitAsync(ctx context.Context, name string, args ...any) *Pending[Results] {
	phases := em.resolve(name)
	e := newEvent(name)

	return spawn(em, func() (Results, error) {
		ctx, span := em.startSpan(ctx, SpanEmitAsync, e, phases)
		results, err := em.emitConcurrent(ctx, span, e, phases, args)
		endSpan(span, err)
		return results, err
	})
}

func (em *Emitter) emitConcurrent(ctx context.Context, span trace.Span, e *Event, phases [][]*Listener, args []any) (Results, error) {
	results := em.newResults(len(phases))
	for i, listeners := range phases {
		lifecycle := em.lifecycleName(i)
		values := make([]any, len(listeners))
		ran := make([]bool, len(listeners))

		g, gctx := errgroup.WithContext(ctx)
		for j, l := range listeners {
			if l.Closed() {
				continue
			}
			g.Go(func() error {
				v, err := em.invoke(gctx, l, e, args)
				if err != nil {
					return err
				}
				values[j] = resultValue(v)
				ran[j] = true
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Results{}, err
		}

		collated := make([]any, 0, len(listeners))
		for j := range listeners {
			if ran[j] {
				collated = append(collated, values[j])
			}
		}
		results.groups[i] = collated
		e.record(lifecycle, collated)
		phaseCompleted(span, lifecycle, len(collated))
	}
	return results, nil
}

// EmitWaterfallAsync runs EmitWaterfall in the background. The chain stays
// strictly sequential: each handler's input depends on the previous result.
func (em *Emitter) EmitWaterfallAsync(ctx context.Context, name string, args ...any) *Pending[any] {
	phases := em.resolve(name)
	e := newEvent(name)

	return spawn(em, func() (any, error) {
		ctx, span := em.startSpan(ctx, SpanWaterfallAsync, e, phases)
		result, err := em.waterfall(ctx, e, phases, args)
		endSpan(span, err)
		return result, err
	})
}
