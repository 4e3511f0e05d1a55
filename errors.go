package cascade

import (
	"fmt"

	"github.com/pkg/errors"
)

// Registration errors. They are only ever returned from On.
var (
	// ErrUnknownLifecycle is returned when a pattern names no known lifecycle
	// and there is no "default" lifecycle to fall back to.
	ErrUnknownLifecycle = errors.New("unknown lifecycle")

	// ErrMalformedEventKey is returned when a pattern has more colon-separated
	// parts than [lifecycle:]name[:sortOrder] allows.
	ErrMalformedEventKey = errors.New("malformed event key")

	// ErrInvalidSortOrder is returned when the sort order suffix is not an integer.
	ErrInvalidSortOrder = errors.New("invalid sort order")

	// ErrNilHandler is returned when On is called with a nil handler.
	ErrNilHandler = errors.New("handler cannot be nil")
)

// ErrHandlerPanic matches any *PanicError with errors.Is.
var ErrHandlerPanic = errors.New("handler panicked")

// HandlerError wraps an error returned by a handler.
type HandlerError struct {
	// Event is the emitted name.
	Event string

	// Pattern is the pattern the failing handler was registered under.
	Pattern string

	// Lifecycle is the phase the handler ran in, empty without lifecycles.
	Lifecycle string

	// Err is the error returned by the handler.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	if e.Lifecycle != "" {
		return fmt.Sprintf("handler %q failed in %s of %q: %v", e.Pattern, e.Lifecycle, e.Event, e.Err)
	}
	return fmt.Sprintf("handler %q failed for %q: %v", e.Pattern, e.Event, e.Err)
}

// Unwrap returns the handler's error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking handler.
type PanicError struct {
	// Event is the emitted name.
	Event string

	// Pattern is the pattern the panicking handler was registered under.
	Pattern string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler %q panicked for %q: %v", e.Pattern, e.Event, e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
