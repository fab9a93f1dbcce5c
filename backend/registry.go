package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownRenderer is returned when a renderer id is not registered.
var ErrUnknownRenderer = errors.New("backend: unknown renderer")

type entry struct {
	info    Info
	factory Factory
}

// Registry maps renderer ids to their metadata and factories.
//
// Registries are explicit values: construct one at startup, register the
// renderers the program needs and pass it to whatever issues render
// requests. Several registries may coexist. A Registry is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a renderer.
//
// Register panics if:
//   - factory is nil
//   - info.ID is empty
//   - a renderer with the same id is already registered
//
// Duplicate registrations are programming errors and are caught at
// startup rather than silently replacing a renderer.
func (r *Registry) Register(info Info, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if factory == nil {
		panic("backend: Register factory is nil")
	}
	if info.ID == "" {
		panic("backend: Register called with empty id")
	}
	if r.entries == nil {
		r.entries = make(map[string]entry)
	}
	if _, dup := r.entries[info.ID]; dup {
		panic("backend: Register called twice for " + info.ID)
	}
	r.entries[info.ID] = entry{info: info, factory: factory}
}

// Lookup returns the metadata and factory registered under id.
func (r *Registry) Lookup(id string) (Info, Factory, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()

	if !ok {
		return Info{}, nil, fmt.Errorf("%w %q", ErrUnknownRenderer, id)
	}
	return e.info, e.factory, nil
}

// Info returns the metadata registered under id.
func (r *Registry) Info(id string) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e.info, ok
}

// New creates a fresh renderer instance by id.
func (r *Registry) New(id string) (Renderer, error) {
	_, f, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	return f(), nil
}

// List returns the metadata of every registered renderer sorted by id.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Info, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered renderers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
