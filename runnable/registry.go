package runnable

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds named targets.
// Uses the database/sql driver registration pattern.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Runnable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Runnable),
	}
}

// Global registry instance (database/sql pattern)
var global = NewRegistry()

// Global returns the global registry.
func Global() *Registry {
	return global
}

// Register adds a target to the global registry under its own name.
//
// Example:
//
//	func init() {
//	    runnable.MustRegister(runnable.MustWrap(Echo))
//	}
func Register(r *Runnable) error {
	if r == nil {
		return fmt.Errorf("runnable: nil target")
	}
	return global.Register(r.Name(), r)
}

// MustRegister is Register that panics on error, for use in init.
func MustRegister(r *Runnable) {
	if err := Register(r); err != nil {
		panic(err)
	}
}

// MustWrap is Wrap that panics on error, for use in init.
func MustWrap(fn any) *Runnable {
	r, err := Wrap(fn)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup finds a target in the global registry.
func Lookup(name string) (*Runnable, bool) {
	return global.Lookup(name)
}

// Names lists the targets in the global registry.
func Names() []string {
	return global.Names()
}

// Register adds r under name. Names are unique.
func (reg *Registry) Register(name string, r *Runnable) error {
	if name == "" {
		return fmt.Errorf("runnable: empty target name")
	}
	if r == nil {
		return fmt.Errorf("runnable: nil target %q", name)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.entries[name]; exists {
		return fmt.Errorf("runnable: target %q already registered", name)
	}
	reg.entries[name] = r
	return nil
}

// Lookup retrieves a target by name.
func (reg *Registry) Lookup(name string) (*Runnable, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	r, ok := reg.entries[name]
	return r, ok
}

// Names returns the registered names in sorted order.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	names := make([]string, 0, len(reg.entries))
	for name := range reg.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
