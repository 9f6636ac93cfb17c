// symbol.go: binding the required plugin export to a typed callable
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// ProcessImageSymbol is the fixed, well-known export name every
// image-processing plugin must provide.
const ProcessImageSymbol = "process_image"

// ProcessFn is the typed form of the plugin entry point:
//
//	int32_t process_image(uint32_t width, uint32_t height,
//	                      uint8_t *pixels, const char *params);
//
// pixels must point to exactly width*height*4 writable bytes; params is
// either nil or a NUL-terminated UTF-8 byte sequence valid for the call's
// duration. The return value is 0 on success and a plugin-defined nonzero
// status on failure, in which case the pixel data is left undefined.
type ProcessFn func(width, height uint32, pixels, params unsafe.Pointer) int32

// ResolveProcessImage binds a loaded plugin to its process_image export.
//
// Resolution can verify only that a symbol with the required name exists.
// It cannot verify that the symbol's actual signature, calling convention,
// or behavior match ProcessFn: that binding is inherently trust-based and
// is the plugin author's documented obligation. Calling a ProcessFn whose
// underlying export does not honor the contract is undefined behavior the
// host cannot detect in advance; this is the single largest residual
// safety risk in the design.
func ResolveProcessImage(h *PluginHandle) (ProcessFn, error) {
	addr, err := h.lookup(ProcessImageSymbol)
	if err != nil {
		return nil, NewSymbolNotFoundError(ProcessImageSymbol, h.name, err)
	}
	return registerProcessFn(addr), nil
}

// registerProcessFn wraps a raw export address in a ProcessFn that
// performs the C-ABI call.
func registerProcessFn(addr uintptr) ProcessFn {
	var fn ProcessFn
	purego.RegisterFunc(&fn, addr)
	return fn
}
