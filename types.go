// Package cascade provides an in-process, pattern-matched event emitter with
// ordered lifecycles and waterfall data threading.
//
// Handlers are registered against dot-delimited patterns with On. Emitting a
// name calls every handler whose pattern matches it. Matching is exact by
// default; wildcards ("data.*") and list options ("{get,set}.data") are opt-in.
//
// Lifecycles split one logical event into ordered phases. With
// WithDefaultLifecycles the phases are early, before, default, after and late;
// a pattern such as "before:save" or "after:save:10" selects a phase and a sort
// order within it, and an un-prefixed pattern lands in "default".
//
// Four emission protocols are available:
//
//   - Emit calls handlers one at a time and collects their results.
//   - EmitAsync runs the handlers of each phase concurrently.
//   - EmitWaterfall threads one value through the handlers in order.
//   - EmitWaterfallAsync is EmitWaterfall completed in the background.
//
// Quick example:
//
//	em := cascade.New(cascade.WithWildcards(), cascade.WithDefaultLifecycles())
//
//	em.On("before:order.*", func(ctx context.Context, e *cascade.Event, args ...any) (any, error) {
//	    return validate(args[0])
//	})
//	em.On("order.created", func(ctx context.Context, e *cascade.Event, args ...any) (any, error) {
//	    return store(args[0])
//	})
//
//	results, err := em.Emit(ctx, "order.created", order)
//
// Waterfall handlers steer the chain through their return value: nil leaves the
// running value unchanged, e.ContinueEmpty() continues with no arguments,
// e.ReturnEmpty() stops with a nil result, and e.PreventDefault() stops after
// the current handler.
package cascade

import "context"

// Handler is invoked for every emission whose name matches the pattern it was
// registered under. The Event is shared by all handlers of one emission and
// must not be retained past the call.
type Handler func(ctx context.Context, e *Event, args ...any) (any, error)

// Results holds the values returned by the handlers of a parallel emission,
// grouped by lifecycle in resolution order.
type Results struct {
	lifecycles []string
	groups     [][]any
}

// Phases returns one group per configured lifecycle, in lifecycle order.
// Without lifecycles there is a single group. Phases without handlers are
// empty groups, never omitted.
func (r Results) Phases() [][]any {
	return r.groups
}

// Phase returns the values of the named lifecycle, or nil if it is unknown.
func (r Results) Phase(name string) []any {
	for i, lc := range r.lifecycles {
		if lc == name {
			return r.groups[i]
		}
	}
	return nil
}

// Values returns every result flattened in invocation order.
func (r Results) Values() []any {
	all := make([]any, 0, r.Len())
	for _, g := range r.groups {
		all = append(all, g...)
	}
	return all
}

// Len returns the total number of results.
func (r Results) Len() int {
	n := 0
	for _, g := range r.groups {
		n += len(g)
	}
	return n
}

// Stats provides a snapshot of an Emitter's registry.
type Stats struct {
	// Patterns is the number of distinct pattern keys known to the registry.
	// A key stays known after all of its listeners are removed.
	Patterns int

	// ListenerCounts maps each pattern key to the number of listeners across all lifecycles.
	ListenerCounts map[string]int

	// Lifecycles is the configured phase order, empty when lifecycles are disabled.
	Lifecycles []string

	// CachedResolutions is the number of emitted names whose matching keys are memoized.
	CachedResolutions int

	// InFlight is the number of asynchronous emissions that have not completed.
	InFlight int
}
