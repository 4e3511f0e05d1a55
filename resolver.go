package cascade

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultCacheSize is the number of emitted names whose matching pattern keys
// are memoized by an advanced resolver.
const defaultCacheSize = 256

// resolver computes which listeners apply to an emitted name. Its strategy is
// fixed at construction: exact resolution is a single key lookup, advanced
// resolution scans every pattern key through the filter.
type resolver struct {
	filter   Filter
	advanced bool
	cache    *lru.Cache[string, []string] // nil when disabled or exact
}

func newResolver(filter Filter, lifecycles bool, cacheSize int) *resolver {
	r := &resolver{
		filter:   filter,
		advanced: filter.Advanced() || lifecycles,
	}
	if r.advanced && cacheSize > 0 {
		// lru.New only fails for a non-positive size.
		r.cache, _ = lru.New[string, []string](cacheSize) //nolint:errcheck // size checked above
	}
	return r
}

// resolve returns the listeners for name, one list per phase.
// Must be called while holding the emitter's read lock.
func (r *resolver) resolve(reg *registry, name string) [][]*Listener {
	if !r.advanced {
		return reg.lookup(name)
	}
	return reg.collect(r.matchingKeys(reg, name))
}

func (r *resolver) matchingKeys(reg *registry, name string) []string {
	if r.cache != nil {
		if keys, ok := r.cache.Get(name); ok {
			return keys
		}
	}

	var keys []string
	for _, key := range reg.keys {
		if r.filter.Match(name, key) {
			keys = append(keys, key)
		}
	}

	if r.cache != nil {
		r.cache.Add(name, keys)
	}
	return keys
}

// invalidate drops memoized resolutions. Called when a new pattern key appears.
func (r *resolver) invalidate() {
	if r.cache != nil {
		r.cache.Purge()
	}
}

func (r *resolver) cached() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.Len()
}
