// registry.go: explicit process-wide registry of loaded plugin libraries
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"sync"
)

// Registry owns the set of currently loaded plugin libraries.
//
// Process-wide loader state is kept here explicitly rather than in a
// package-level global: the registry is created empty, handles enter it on
// load and leave it on close, and Close tears down everything that
// remains. No handle outlives its registry, and no load is accepted after
// teardown begins.
type Registry struct {
	loader *Loader
	logger Logger

	mu      sync.Mutex
	handles map[string]*PluginHandle
	closed  bool
}

// NewRegistry creates an empty plugin registry with its own loader.
// The logger may be a Logger implementation or nil.
func NewRegistry(logger any) *Registry {
	l := NewLogger(logger)
	return &Registry{
		loader:  NewLoader(l),
		logger:  l,
		handles: make(map[string]*PluginHandle),
	}
}

// Load loads the plugin named by the descriptor and registers the
// resulting handle. Plugin names are unique within a registry; loading a
// name that is already registered fails with REGISTRY_1702 rather than
// mapping the library twice.
func (r *Registry) Load(desc PluginDescriptor) (*PluginHandle, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, NewRegistryClosedError()
	}
	if _, exists := r.handles[desc.Name]; exists {
		r.mu.Unlock()
		return nil, NewDuplicatePluginError(desc.Name)
	}
	r.mu.Unlock()

	// The platform load happens outside the registry lock; a slow dlopen
	// must not block access to already-registered handles.
	handle, err := r.loader.Load(desc)
	if err != nil {
		return nil, err
	}

	if err := r.register(handle); err != nil {
		// Teardown or a concurrent load won the race while the library was
		// loading. The handle never escaped and has no registry backlink,
		// so it unloads synchronously before the error returns.
		_ = handle.Close()
		return nil, err
	}
	return handle, nil
}

// register installs a freshly loaded handle, re-checking the conditions
// that held when Load started.
func (r *Registry) register(h *PluginHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return NewRegistryClosedError()
	}
	if _, exists := r.handles[h.name]; exists {
		return NewDuplicatePluginError(h.name)
	}
	h.registry = r
	r.handles[h.name] = h
	return nil
}

// Get returns the registered handle for a plugin name, if any.
func (r *Registry) Get(name string) (*PluginHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[name]
	return h, ok
}

// Names returns the names of all currently registered plugins.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.handles))
	for name := range r.handles {
		names = append(names, name)
	}
	return names
}

// Close tears down the registry: no further loads are accepted and every
// registered handle is closed. Each handle's own mutex sequences its
// unload after any in-flight invocation. The first close error is
// returned; teardown continues regardless.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	remaining := make([]*PluginHandle, 0, len(r.handles))
	for _, h := range r.handles {
		remaining = append(remaining, h)
	}
	r.mu.Unlock()

	var firstErr error
	for _, h := range remaining {
		if err := h.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	r.logger.Info("Plugin registry closed", "plugins_unloaded", len(remaining))
	return firstErr
}

// unregister removes a handle by name; called from PluginHandle.Close.
func (r *Registry) unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, name)
}
