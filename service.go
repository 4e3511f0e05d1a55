package cascade

import (
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Emitter is a pattern-matched event emitter.
//
// Registration and emission are safe for concurrent use. Resolution takes a
// snapshot of the registry, so handlers may call On and Off while running;
// such changes apply to later emissions, except that removed listeners are
// skipped by emissions still in progress.
type Emitter struct {
	wildcards   bool
	listOptions bool
	lifecycles  []string
	cacheSize   int

	registry *registry
	resolver *resolver
	mu       sync.RWMutex

	logger       zerolog.Logger
	tracer       trace.Tracer
	panicHandler PanicHandler

	flightMu sync.Mutex
	landed   *sync.Cond // signalled when inflight drops to zero
	inflight int        // async emissions in progress
}

// New creates an Emitter. Without options it matches names exactly and has
// no lifecycles.
func New(opts ...Option) *Emitter {
	em := &Emitter{
		cacheSize: defaultCacheSize,
		logger:    zerolog.Nop(),
		tracer:    noop.NewTracerProvider().Tracer(tracerName),
	}
	em.landed = sync.NewCond(&em.flightMu)
	for _, opt := range opts {
		opt(em)
	}

	if len(em.lifecycles) > 0 {
		kept, dropped := normalizeLifecycles(em.lifecycles)
		if len(dropped) > 0 {
			em.logger.Warn().Strs("dropped", dropped).Strs("lifecycles", kept).Msg("ignoring invalid or duplicate lifecycle names")
		}
		em.lifecycles = kept
	}

	em.registry = newRegistry(len(em.lifecycles))
	em.resolver = newResolver(filterFor(em.wildcards, em.listOptions), em.usesLifecycles(), em.cacheSize)
	return em
}

func (em *Emitter) usesLifecycles() bool {
	return len(em.lifecycles) > 0
}

// Lifecycles returns the configured phase order, empty when disabled.
func (em *Emitter) Lifecycles() []string {
	return append([]string(nil), em.lifecycles...)
}

// On registers handler for every event matching pattern. With lifecycles the
// pattern has the form [lifecycle:]name[:sortOrder]; without them it is used
// verbatim and ":" has no special meaning.
//
// Registering the same handler twice makes it run twice per emission.
func (em *Emitter) On(pattern string, handler Handler) (*Listener, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	l := &Listener{
		pattern: pattern,
		name:    pattern,
		handler: handler,
		emitter: em,
	}
	if em.usesLifecycles() {
		key, err := parseEventKey(pattern, em.lifecycles, false)
		if err != nil {
			em.logger.Debug().Err(err).Str("pattern", pattern).Msg("registration rejected")
			return nil, err
		}
		l.name = key.Name
		l.phase = key.Phase
		l.order = key.Order
	}

	em.mu.Lock()
	if em.registry.add(l) {
		em.resolver.invalidate()
	}
	em.mu.Unlock()

	em.logger.Debug().
		Str("pattern", pattern).
		Str("event", l.name).
		Str("lifecycle", l.Lifecycle()).
		Int("order", l.order).
		Msg("handler registered")
	return l, nil
}

// Off removes handlers registered under pattern. Given listeners, only those
// are removed; otherwise every handler under pattern is. With lifecycles the
// pattern selects one phase, or every phase with the "*" lifecycle token, e.g.
// "*:save". Patterns are compared as keys, not matched.
//
// Off never fails: unknown patterns, absent listeners and malformed keys are
// no-ops.
func (em *Emitter) Off(pattern string, listeners ...*Listener) {
	name, phase := pattern, 0
	if em.usesLifecycles() {
		key, err := parseEventKey(pattern, em.lifecycles, true)
		if err != nil {
			em.logger.Warn().Err(err).Str("pattern", pattern).Msg("ignoring unregistration")
			return
		}
		name, phase = key.Name, key.Phase
	}
	em.unregister(name, phase, listeners...)
}

func (em *Emitter) unregister(name string, phase int, listeners ...*Listener) {
	em.mu.Lock()
	removed := em.registry.remove(name, phase, listeners...)
	em.mu.Unlock()

	if len(removed) > 0 {
		em.logger.Debug().Str("event", name).Int("removed", len(removed)).Msg("handlers unregistered")
	}
}

// resolve snapshots the listeners matching name, one list per phase.
func (em *Emitter) resolve(name string) [][]*Listener {
	em.mu.RLock()
	defer em.mu.RUnlock()
	return em.resolver.resolve(em.registry, name)
}

// lifecycleName returns the name of phase i, empty without lifecycles.
func (em *Emitter) lifecycleName(i int) string {
	if !em.usesLifecycles() {
		return ""
	}
	return em.lifecycles[i]
}

// Stats returns a snapshot of the registry.
func (em *Emitter) Stats() Stats {
	em.mu.RLock()
	defer em.mu.RUnlock()

	em.flightMu.Lock()
	inflight := em.inflight
	em.flightMu.Unlock()

	return Stats{
		Patterns:          len(em.registry.keys),
		ListenerCounts:    em.registry.counts(),
		Lifecycles:        em.Lifecycles(),
		CachedResolutions: em.resolver.cached(),
		InFlight:          inflight,
	}
}

// Drain blocks until no asynchronous emission is in progress. Emissions
// started while Drain waits are waited for too. Safe to call concurrently
// with emits and with other Drain calls.
func (em *Emitter) Drain() {
	em.flightMu.Lock()
	for em.inflight > 0 {
		em.landed.Wait()
	}
	em.flightMu.Unlock()
}
