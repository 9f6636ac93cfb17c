// testing_helpers_test.go: shared assertions for the test suite
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	stderrors "errors"
	"testing"
	"unsafe"

	goerrors "github.com/agilira/go-errors"
)

// assertErrorCode fails the test unless err carries the given structured
// error code somewhere in its chain.
func assertErrorCode(t *testing.T, err error, code string) *goerrors.Error {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var structured *goerrors.Error
	if !stderrors.As(err, &structured) {
		t.Fatalf("expected *errors.Error with code %s, got %T: %v", code, err, err)
	}
	if structured.ErrorCode() != goerrors.ErrorCode(code) {
		t.Fatalf("expected error code %s, got %s (error: %v)", code, structured.ErrorCode(), err)
	}
	return structured
}

// rawPixels reinterprets a foreign pixel pointer as a byte slice of the
// contract-mandated length, the same way a conforming plugin would.
func rawPixels(pixels unsafe.Pointer, width, height uint32) []byte {
	return unsafe.Slice((*byte)(pixels), int(width)*int(height)*bytesPerPixel)
}

// cString reads a NUL-terminated byte sequence from a foreign pointer.
func cString(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	var out []byte
	for i := uintptr(0); ; i++ {
		b := *(*byte)(unsafe.Pointer(uintptr(p) + i))
		if b == 0 {
			return string(out)
		}
		out = append(out, b)
	}
}
