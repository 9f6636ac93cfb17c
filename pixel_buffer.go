// pixel_buffer.go: owned RGBA8 pixel storage with pre-call invariant checks
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"math"
)

// bytesPerPixel is fixed by the plugin contract: RGBA8, four 8-bit channels.
const bytesPerPixel = 4

// PixelBuffer owns a decoded image's raw pixel storage and dimensions.
//
// Invariant: len(Pix) == Width*Height*4 (RGBA8). The buffer is exclusively
// owned by the host; during a foreign call only a transient raw view of Pix
// is exposed to the plugin, and no component retains that view past the
// call's return. After an invocation fails with a nonzero plugin status,
// the contents of Pix are undefined and must be discarded.
type PixelBuffer struct {
	Width  uint32
	Height uint32
	Pix    []byte
}

// NewPixelBuffer allocates a zeroed buffer satisfying the RGBA8 invariant.
func NewPixelBuffer(width, height uint32) (*PixelBuffer, error) {
	size, err := pixelBufferSize(width, height)
	if err != nil {
		return nil, err
	}
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, size),
	}, nil
}

// pixelBufferSize computes width*height*4 with overflow checking.
// Dimensions come from untrusted file headers, so the multiplication is
// checked before it can be used to size or bound any memory access.
func pixelBufferSize(width, height uint32) (int, error) {
	if width == 0 || height == 0 {
		return 0, NewZeroDimensionsError(width, height)
	}
	// The pixel count is bounded before the byte multiply: width and height
	// of 2^31 each would make width*height*4 wrap to 0 in uint64 and slip
	// past a check on the final product.
	pixels := uint64(width) * uint64(height)
	if pixels > math.MaxInt32/bytesPerPixel {
		return 0, NewDimensionOverflowError(width, height)
	}
	return int(pixels) * bytesPerPixel, nil
}

// Validate enforces the buffer invariants required before a foreign call:
// both dimensions nonzero and len(Pix) exactly width*height*4.
//
// This is defense-in-depth, independent of the plugin's own obligations:
// dimensions and buffer length can diverge if upstream decoding is buggy
// or the caller assembled inconsistent values, and this check is the last
// safe place to catch that before an out-of-bounds write becomes possible.
func (b *PixelBuffer) Validate() error {
	size, err := pixelBufferSize(b.Width, b.Height)
	if err != nil {
		return err
	}
	if len(b.Pix) != size {
		return NewBufferSizeMismatchError(b.Width, b.Height, len(b.Pix))
	}
	return nil
}

// Size returns the expected byte length of the pixel storage.
func (b *PixelBuffer) Size() int {
	return int(b.Width) * int(b.Height) * bytesPerPixel
}

// Clone returns a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{
		Width:  b.Width,
		Height: b.Height,
		Pix:    pix,
	}
}
