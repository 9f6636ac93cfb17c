// loader.go: dynamic library loading and plugin handle lifecycle
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"os"
	"sync"
	"time"

	"github.com/agilira/go-timecache"
)

// PluginHandle is an opaque token for a successfully loaded dynamic
// library.
//
// Lifecycle: created by Loader.Load (library mapped into the process),
// destroyed by Close (library unloaded). After Close, any previously
// resolved ProcessFn is invalid and must not be invoked; InvokeHandle
// enforces this, but callers holding a raw ProcessFn are on their own.
//
// Plugins are treated as non-reentrant: the handle's mutex serializes
// every invocation, and Close takes the same mutex so unloading is
// sequenced strictly after the last in-flight call returns.
type PluginHandle struct {
	name     string
	path     string
	loadedAt time.Time

	mu      sync.Mutex
	lib     uintptr
	closed  bool
	process ProcessFn // cached resolution of the process_image export

	registry *Registry // nil for handles loaded outside a registry
}

// Name returns the plugin name from the descriptor that produced this handle.
func (h *PluginHandle) Name() string { return h.name }

// Path returns the library path the handle was loaded from.
func (h *PluginHandle) Path() string { return h.path }

// LoadedAt returns the time the library was mapped into the process.
func (h *PluginHandle) LoadedAt() time.Time { return h.loadedAt }

// Close unloads the dynamic library and invalidates every callable
// resolved from this handle. Close is idempotent and blocks until any
// in-flight invocation through this handle has returned; unloading a
// library while a call into it is running is always forbidden.
func (h *PluginHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	h.process = nil

	var err error
	if h.lib != 0 {
		err = closeLibrary(h.lib)
		h.lib = 0
	}

	if h.registry != nil {
		h.registry.unregister(h.name)
		h.registry = nil
	}
	return err
}

// lookup resolves an exported symbol's address, serialized against
// invocations and Close.
func (h *PluginHandle) lookup(symbol string) (uintptr, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lookupLocked(symbol)
}

// lookupLocked is lookup without taking the handle mutex; the caller must
// hold it.
func (h *PluginHandle) lookupLocked(symbol string) (uintptr, error) {
	if h.closed {
		return 0, NewHandleClosedError(h.name)
	}
	return lookupSymbol(h.lib, symbol)
}

// Loader opens dynamic libraries from plugin descriptors.
//
// The loader's only side effect is mapping foreign code into the process
// address space; unloading is the returned handle's responsibility.
type Loader struct {
	logger Logger
}

// NewLoader creates a plugin loader. The logger may be a Logger
// implementation or nil.
func NewLoader(logger any) *Loader {
	return &Loader{logger: NewLogger(logger)}
}

// Load resolves the descriptor to a concrete library path and maps that
// library into the process.
//
// Failure modes, each a typed error and none a panic:
//   - descriptor fails name hygiene → PLUGIN_1003
//   - resolved path does not exist → PLUGIN_1001
//   - the platform loader rejects the file (malformed, missing
//     dependencies, wrong architecture) → PLUGIN_1002 with the platform's
//     message attached
func (l *Loader) Load(desc PluginDescriptor) (*PluginHandle, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	path := desc.LibraryPath()
	if _, err := os.Stat(path); err != nil {
		return nil, NewPluginNotFoundError(path)
	}

	lib, err := openLibrary(path)
	if err != nil {
		return nil, NewPluginLoadFailedError(path, err)
	}

	l.logger.Info("Plugin library loaded",
		"plugin_name", desc.Name,
		"library_path", path)

	return &PluginHandle{
		name:     desc.Name,
		path:     path,
		lib:      lib,
		loadedAt: timecache.CachedTime(),
	}, nil
}
