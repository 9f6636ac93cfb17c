// loader_unix.go: dynamic loading primitives for dlopen platforms
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

//go:build linux || darwin || freebsd

package goimgproc

import (
	"github.com/ebitengine/purego"
)

// openLibrary maps a shared library into the process address space.
// RTLD_NOW resolves every undefined symbol up front so a malformed plugin
// fails at load time instead of mid-invocation; RTLD_LOCAL keeps plugin
// symbols out of the global namespace so plugins cannot shadow each other.
func openLibrary(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
}

// lookupSymbol resolves an exported symbol's address in a loaded library.
func lookupSymbol(lib uintptr, symbol string) (uintptr, error) {
	return purego.Dlsym(lib, symbol)
}

// closeLibrary unloads a library previously opened with openLibrary.
func closeLibrary(lib uintptr) error {
	return purego.Dlclose(lib)
}
