// image_test.go: tests for the PNG pixel-buffer pipeline
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNGRoundTrip(t *testing.T) {
	src, err := NewPixelBuffer(3, 2)
	require.NoError(t, err)
	for i := range src.Pix {
		src.Pix[i] = byte(i * 7 % 256)
	}
	// Keep alpha opaque so the round trip is lossless byte for byte.
	for i := 3; i < len(src.Pix); i += bytesPerPixel {
		src.Pix[i] = 0xFF
	}

	var encoded bytes.Buffer
	require.NoError(t, EncodePNG(&encoded, src))

	decoded, err := DecodePNG(&encoded)
	require.NoError(t, err)
	assert.Equal(t, src.Width, decoded.Width)
	assert.Equal(t, src.Height, decoded.Height)
	assert.Equal(t, src.Pix, decoded.Pix)
}

func TestPNGRoundTripFile(t *testing.T) {
	src, err := NewPixelBuffer(4, 4)
	require.NoError(t, err)
	for i := 0; i < len(src.Pix); i += bytesPerPixel {
		src.Pix[i] = 0x20
		src.Pix[i+1] = 0x40
		src.Pix[i+2] = 0x80
		src.Pix[i+3] = 0xFF
	}

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, EncodePNGFile(path, src))

	decoded, err := DecodePNGFile(path)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, decoded.Pix)
}

func TestDecodePNGFile_Missing(t *testing.T) {
	buf, err := DecodePNGFile(filepath.Join(t.TempDir(), "absent.png"))
	assert.Nil(t, buf)
	structured := assertErrorCode(t, err, ErrCodeImageNotFound)
	assert.Contains(t, structured.Context["image_path"], "absent.png")
}

func TestDecodePNGFile_Corrupt(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.png", "this is not a png")

	buf, err := DecodePNGFile(filepath.Join(dir, "bad.png"))
	assert.Nil(t, buf)
	assertErrorCode(t, err, ErrCodeImageDecode)
}

func TestEncodePNG_InvalidBuffer(t *testing.T) {
	buf := &PixelBuffer{Width: 2, Height: 2, Pix: make([]byte, 3)}
	var out bytes.Buffer
	err := EncodePNG(&out, buf)
	assertErrorCode(t, err, ErrCodeBufferSizeMismatch)
	assert.Zero(t, out.Len())
}
