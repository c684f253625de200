// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"cmp"
	"errors"
	"slices"
	"sync"
)

// Factory creates a Surface with the given options.
type Factory func(opts Options) (Surface, error)

// Entry is a registered surface backend.
type Entry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Window-system surfaces use 100, in-memory surfaces 10 or less.
	Priority int

	Factory Factory

	// Available reports if the backend can be used on this system.
	Available func() bool
}

var globalRegistry = NewRegistry()

// Registry maps names to surface backends.
//
// Example registration:
//
//	func init() {
//	    surface.Register("x11", 100, x11Factory, x11Available)
//	}
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and NewSurface.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds a backend to the global registry. A nil available means the
// backend is always available. Registering a name again replaces it.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) { globalRegistry.Unregister(name) }

// List returns all registered backend names, highest priority first.
func List() []string { return globalRegistry.List() }

// Available returns the names of usable backends, highest priority first.
func Available() []string { return globalRegistry.Available() }

// NewSurface creates a surface from the best available backend.
func NewSurface(opts Options) (Surface, error) { return globalRegistry.NewSurface(opts) }

// NewSurfaceByName creates a surface from a specific backend.
func NewSurfaceByName(name string, opts Options) (Surface, error) {
	return globalRegistry.NewSurfaceByName(name, opts)
}

func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	if available == nil {
		available = func() bool { return true }
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = Entry{Name: name, Priority: priority, Factory: factory, Available: available}
}

func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

func (r *Registry) List() []string { return r.names(false) }

func (r *Registry) Available() []string { return r.names(true) }

// Get returns a copy of the named entry.
func (r *Registry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// NewSurface tries the available backends in priority order and returns the
// first surface created, or the last error.
func (r *Registry) NewSurface(opts Options) (Surface, error) {
	names := r.names(true)
	if len(names) == 0 {
		return nil, ErrNoBackendAvailable
	}
	var lastErr error
	for _, name := range names {
		s, err := r.NewSurfaceByName(name, opts)
		if err == nil {
			return s, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (r *Registry) NewSurfaceByName(name string, opts Options) (Surface, error) {
	e, ok := r.Get(name)
	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !e.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return e.Factory(opts)
}

// names sorts by priority, then by name.
func (r *Registry) names(onlyAvailable bool) []string {
	r.mu.RLock()
	entries := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	var names []string
	for _, e := range entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		names = append(names, e.Name)
	}
	return names
}

// ErrNoBackendAvailable is returned when no surface backend is registered
// or available on the current system.
var ErrNoBackendAvailable = errors.New("surface: no backend available")

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "surface: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "surface: backend unavailable: " + e.Name
}

func init() {
	Register("image", 10, func(opts Options) (Surface, error) {
		return NewImageSurface(opts.RowPadding), nil
	}, nil)
	// Rows padded to a 64-byte boundary, as many window systems do.
	Register("padded", 5, func(opts Options) (Surface, error) {
		return NewImageSurface(max(opts.RowPadding, 64)), nil
	}, nil)
}
