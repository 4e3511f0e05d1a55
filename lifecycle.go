package cascade

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultLifecycle receives registrations that carry no lifecycle prefix.
const DefaultLifecycle = "default"

// AllLifecycles is the lifecycle token that makes Off apply to every phase.
const AllLifecycles = "*"

// keySeparator splits a registration key into lifecycle, name and sort order.
const keySeparator = ":"

// DefaultLifecycles returns the phase order selected by WithDefaultLifecycles.
func DefaultLifecycles() []string {
	return []string{"early", "before", DefaultLifecycle, "after", "late"}
}

// EventKey is a parsed registration key of the form
// [lifecycle:]name[:sortOrder].
type EventKey struct {
	// Lifecycle is the phase name, or AllLifecycles when unregistering.
	Lifecycle string

	// Phase is the index of Lifecycle in the configured order, -1 for AllLifecycles.
	Phase int

	// Name is the event name pattern.
	Name string

	// Order sorts handlers within a phase, lowest first. Defaults to 0.
	Order int
}

// ParseEventKey parses a registration key against a lifecycle order.
func ParseEventKey(key string, lifecycles []string) (EventKey, error) {
	return parseEventKey(key, lifecycles, false)
}

func parseEventKey(key string, lifecycles []string, unregistering bool) (EventKey, error) {
	parts := strings.Split(key, keySeparator)

	var k EventKey
	switch {
	case indexOf(lifecycles, parts[0]) >= 0:
		k.Lifecycle = parts[0]
		k.Phase = indexOf(lifecycles, parts[0])
		parts = parts[1:]
	case unregistering && parts[0] == AllLifecycles:
		k.Lifecycle = AllLifecycles
		k.Phase = -1
		parts = parts[1:]
	case indexOf(lifecycles, DefaultLifecycle) >= 0:
		k.Lifecycle = DefaultLifecycle
		k.Phase = indexOf(lifecycles, DefaultLifecycle)
	default:
		return EventKey{}, errors.Wrapf(ErrUnknownLifecycle,
			"cannot register %q without a %q lifecycle, available: %s",
			key, DefaultLifecycle, strings.Join(lifecycles, ", "))
	}

	if len(parts) == 0 {
		return EventKey{}, errors.Wrapf(ErrMalformedEventKey,
			"cannot register %q, the key names a lifecycle but no event", key)
	}
	if len(parts) > 2 {
		return EventKey{}, errors.Wrapf(ErrMalformedEventKey,
			"cannot register %q, structure is [lifecycle:]name[:sortOrder] with lifecycle one of %s",
			key, strings.Join(lifecycles, ", "))
	}
	k.Name = parts[0]

	if len(parts) == 2 && parts[1] != "" {
		order, err := strconv.Atoi(parts[1])
		if err != nil {
			return EventKey{}, errors.Wrapf(ErrInvalidSortOrder,
				"cannot register %q, sort order %q is not an integer", key, parts[1])
		}
		k.Order = order
	}
	return k, nil
}

// normalizeLifecycles drops empty names, the reserved "*" token and
// duplicates, keeping first occurrences in order.
func normalizeLifecycles(names []string) (kept []string, dropped []string) {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup || name == "" || name == AllLifecycles || strings.Contains(name, keySeparator) {
			dropped = append(dropped, name)
			continue
		}
		seen[name] = struct{}{}
		kept = append(kept, name)
	}
	return kept, dropped
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
