package cascade

import (
	"sort"
	"sync"
)

// Directory maps names to emitters so that independent components can share
// one emitter by name. The first emitter created under a name is returned for
// it until the name is removed.
type Directory struct {
	mu       sync.Mutex
	emitters map[string]*Emitter
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{emitters: make(map[string]*Emitter)}
}

// GetOrCreate returns the emitter registered under name, creating it with
// opts if there is none. Options are ignored when the emitter already exists.
// An empty name always creates a fresh emitter that is not stored.
func (d *Directory) GetOrCreate(name string, opts ...Option) *Emitter {
	if name == "" {
		return New(opts...)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if em, ok := d.emitters[name]; ok {
		return em
	}
	em := New(opts...)
	d.emitters[name] = em
	return em
}

// Remove forgets the emitter registered under name. The emitter keeps
// working for anyone holding it. Reports whether name was present.
func (d *Directory) Remove(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.emitters[name]; !ok {
		return false
	}
	delete(d.emitters, name)
	return true
}

// RemoveAll forgets every emitter.
func (d *Directory) RemoveAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.emitters)
}

// Names returns the registered names in lexicographic order.
func (d *Directory) Names() []string {
	d.mu.Lock()
	names := make([]string, 0, len(d.emitters))
	for name := range d.emitters {
		names = append(names, name)
	}
	d.mu.Unlock()

	sort.Strings(names)
	return names
}

var (
	defaultDirectory *Directory
	defaultOnce      sync.Once
)

// Default returns the process-wide directory used by Named, Remove and
// RemoveAll. It starts empty and lives for the whole process; prefer an
// explicit NewDirectory where isolation matters, e.g. in tests.
func Default() *Directory {
	defaultOnce.Do(func() {
		defaultDirectory = NewDirectory()
	})
	return defaultDirectory
}

// Named returns the emitter registered under name in the default directory,
// creating it with opts if needed. An empty name returns a fresh, unshared emitter.
func Named(name string, opts ...Option) *Emitter {
	return Default().GetOrCreate(name, opts...)
}

// Remove forgets name in the default directory.
func Remove(name string) bool {
	return Default().Remove(name)
}

// RemoveAll empties the default directory.
func RemoveAll() {
	Default().RemoveAll()
}
