package cascade

import "sync/atomic"

// Listener is a registered handler. It is returned by On and identifies the
// registration for removal with Off or Close.
type Listener struct {
	pattern string // key as passed to On
	name    string // event name pattern, the registry key
	phase   int
	order   int
	seq     uint64
	handler Handler
	emitter *Emitter
	closed  atomic.Bool
}

// Pattern returns the key the listener was registered with.
func (l *Listener) Pattern() string { return l.pattern }

// Order returns the listener's sort order within its lifecycle.
func (l *Listener) Order() int { return l.order }

// Lifecycle returns the listener's lifecycle, empty when lifecycles are disabled.
func (l *Listener) Lifecycle() string {
	if len(l.emitter.lifecycles) == 0 {
		return ""
	}
	return l.emitter.lifecycles[l.phase]
}

// Closed reports whether the listener has been removed.
func (l *Listener) Closed() bool { return l.closed.Load() }

// Close removes this listener from the registry, preventing future calls.
// Emissions that already resolved the listener skip it from now on.
func (l *Listener) Close() {
	if l.closed.Load() {
		return
	}
	l.emitter.unregister(l.name, l.phase, l)
}
