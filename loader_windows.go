// loader_windows.go: dynamic loading primitives for Windows
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

//go:build windows

package goimgproc

import (
	"golang.org/x/sys/windows"
)

// openLibrary maps a DLL into the process address space.
func openLibrary(path string) (uintptr, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, err
	}
	return uintptr(handle), nil
}

// lookupSymbol resolves an exported symbol's address in a loaded DLL.
func lookupSymbol(lib uintptr, symbol string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(lib), symbol)
}

// closeLibrary unloads a DLL previously opened with openLibrary.
func closeLibrary(lib uintptr) error {
	return windows.FreeLibrary(windows.Handle(lib))
}
