package cascade

import "slices"

// slot holds the listeners of one pattern key, one list per phase.
// Without lifecycles there is a single phase.
type slot struct {
	phases [][]*Listener
}

// registry maps pattern keys to slots. Keys keep their first-registration
// order, which is the order resolution concatenates them in.
// Callers must hold the emitter's lock.
type registry struct {
	phases int
	keys   []string
	slots  map[string]*slot
	seq    uint64
}

func newRegistry(phases int) *registry {
	if phases < 1 {
		phases = 1
	}
	return &registry{
		phases: phases,
		slots:  make(map[string]*slot),
	}
}

// add inserts l into its phase list, keeping the list sorted by sort order
// and then by registration sequence. Reports whether l.name is a new key.
func (r *registry) add(l *Listener) bool {
	s, exists := r.slots[l.name]
	if !exists {
		s = &slot{phases: make([][]*Listener, r.phases)}
		r.slots[l.name] = s
		r.keys = append(r.keys, l.name)
	}

	r.seq++
	l.seq = r.seq

	list := append(s.phases[l.phase], l)
	slices.SortStableFunc(list, compareListeners)
	s.phases[l.phase] = list
	return !exists
}

func compareListeners(a, b *Listener) int {
	switch {
	case a.order < b.order:
		return -1
	case a.order > b.order:
		return 1
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	}
	return 0
}

// remove takes listeners out of the slot for name. phase -1 targets every
// phase. With no listeners given, the targeted lists are cleared. Removed
// listeners are marked closed and returned.
func (r *registry) remove(name string, phase int, targets ...*Listener) []*Listener {
	s, ok := r.slots[name]
	if !ok {
		return nil
	}

	var removed []*Listener
	clearPhase := func(p int) {
		if p < 0 || p >= len(s.phases) {
			return
		}
		list := s.phases[p]
		if len(targets) == 0 {
			removed = append(removed, list...)
			s.phases[p] = nil
			return
		}
		kept := list[:0:0]
		for _, l := range list {
			if slices.Contains(targets, l) {
				removed = append(removed, l)
				continue
			}
			kept = append(kept, l)
		}
		s.phases[p] = kept
	}

	if phase < 0 {
		for p := range s.phases {
			clearPhase(p)
		}
	} else {
		clearPhase(phase)
	}

	for _, l := range removed {
		l.closed.Store(true)
	}
	return removed
}

// lookup returns a copy of the per-phase lists for an exact key.
func (r *registry) lookup(name string) [][]*Listener {
	out := make([][]*Listener, r.phases)
	if s, ok := r.slots[name]; ok {
		for p, list := range s.phases {
			out[p] = append(out[p], list...)
		}
	}
	return out
}

// collect merges the per-phase lists of the given keys, in key order.
func (r *registry) collect(names []string) [][]*Listener {
	out := make([][]*Listener, r.phases)
	for _, name := range names {
		s, ok := r.slots[name]
		if !ok {
			continue
		}
		for p, list := range s.phases {
			out[p] = append(out[p], list...)
		}
	}
	return out
}

// counts returns the number of listeners per key.
func (r *registry) counts() map[string]int {
	counts := make(map[string]int, len(r.slots))
	for name, s := range r.slots {
		n := 0
		for _, list := range s.phases {
			n += len(list)
		}
		counts[name] = n
	}
	return counts
}
