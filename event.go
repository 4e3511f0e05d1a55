package cascade

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event is the per-emission context passed to every handler.
type Event struct {
	// ID uniquely identifies the emission.
	ID uuid.UUID

	// Name is the emitted event name.
	Name string

	// Timestamp records when the emission started.
	Timestamp time.Time

	prevented atomic.Bool

	mu         sync.RWMutex
	lifecycles map[string][]any
}

func newEvent(name string) *Event {
	return &Event{
		ID:         uuid.New(),
		Name:       name,
		Timestamp:  time.Now(),
		lifecycles: make(map[string][]any),
	}
}

// PreventDefault stops a waterfall after the calling handler's result has
// been folded in. It has no effect on parallel emissions.
func (e *Event) PreventDefault() {
	e.prevented.Store(true)
}

// DefaultPrevented reports whether any handler called PreventDefault.
func (e *Event) DefaultPrevented() bool {
	return e.prevented.Load()
}

// ContinueEmpty returns the outcome that continues a waterfall with no
// arguments for the next handler.
func (e *Event) ContinueEmpty() Outcome { return ContinueEmpty() }

// ReturnEmpty returns the outcome that stops a waterfall with a nil result.
func (e *Event) ReturnEmpty() Outcome { return ReturnEmpty() }

// Lifecycle returns the results of a lifecycle that has already completed
// during this emission. Handlers never see results of their own phase.
func (e *Event) Lifecycle(name string) ([]any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	results, ok := e.lifecycles[name]
	if !ok {
		return nil, false
	}
	out := make([]any, len(results))
	copy(out, results)
	return out, true
}

func (e *Event) record(lifecycle string, results []any) {
	if lifecycle == "" {
		return
	}
	e.mu.Lock()
	e.lifecycles[lifecycle] = results
	e.mu.Unlock()
}

type outcomeKind uint8

const (
	outcomeNoOpinion outcomeKind = iota
	outcomeContinue
	outcomeContinueEmpty
	outcomeReturnEmpty
)

// Outcome tells a waterfall how to proceed after a handler. Handlers may
// return an Outcome directly; any other non-nil value is treated as
// Continue(value) and nil as NoOpinion.
type Outcome struct {
	kind  outcomeKind
	value any
}

// Continue makes v the running result and the sole argument of the next handler.
func Continue(v any) Outcome { return Outcome{kind: outcomeContinue, value: v} }

// ContinueEmpty calls the next handler with no arguments, leaving the running result unchanged.
func ContinueEmpty() Outcome { return Outcome{kind: outcomeContinueEmpty} }

// ReturnEmpty stops the waterfall with a nil result.
func ReturnEmpty() Outcome { return Outcome{kind: outcomeReturnEmpty} }

// NoOpinion leaves the running result and the next arguments unchanged.
func NoOpinion() Outcome { return Outcome{} }

// Value returns the value carried by Continue, nil for every other outcome.
func (o Outcome) Value() any { return o.value }

func (o Outcome) String() string {
	switch o.kind {
	case outcomeContinue:
		return "continue"
	case outcomeContinueEmpty:
		return "continue-empty"
	case outcomeReturnEmpty:
		return "return-empty"
	default:
		return "no-opinion"
	}
}

func outcomeOf(v any) Outcome {
	switch o := v.(type) {
	case nil:
		return NoOpinion()
	case Outcome:
		return o
	case *Outcome:
		if o == nil {
			return NoOpinion()
		}
		return *o
	default:
		return Continue(v)
	}
}

// resultValue is what a parallel emission records for a handler's return value.
func resultValue(v any) any {
	switch v.(type) {
	case Outcome, *Outcome:
		return outcomeOf(v).Value()
	}
	return v
}
