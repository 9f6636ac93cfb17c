// image.go: PNG decode/encode collaborators for the RGBA8 pixel buffer
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
)

// DecodePNG decodes a PNG stream into an RGBA8 PixelBuffer.
//
// Source images in other color models (paletted, grayscale, premultiplied
// RGBA) are converted to straight-alpha RGBA8, the only layout the plugin
// contract accepts.
func DecodePNG(r io.Reader) (*PixelBuffer, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, NewImageDecodeError("", err)
	}
	return bufferFromImage(img)
}

// DecodePNGFile decodes the PNG at path into an RGBA8 PixelBuffer.
func DecodePNGFile(path string) (*PixelBuffer, error) {
	f, err := os.Open(path) // #nosec G304 -- image path is caller-supplied by design
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewImageNotFoundError(path)
		}
		return nil, NewImageDecodeError(path, err)
	}
	defer f.Close() //nolint:errcheck

	img, err := png.Decode(f)
	if err != nil {
		return nil, NewImageDecodeError(path, err)
	}
	return bufferFromImage(img)
}

func bufferFromImage(img image.Image) (*PixelBuffer, error) {
	bounds := img.Bounds()
	width := uint32(bounds.Dx())  // #nosec G115 -- PNG dimensions are bounded well below uint32
	height := uint32(bounds.Dy()) // #nosec G115

	buf, err := NewPixelBuffer(width, height)
	if err != nil {
		return nil, err
	}

	dst := &image.NRGBA{
		Pix:    buf.Pix,
		Stride: int(width) * bytesPerPixel,
		Rect:   image.Rect(0, 0, int(width), int(height)),
	}
	draw.Draw(dst, dst.Rect, img, bounds.Min, draw.Src)
	return buf, nil
}

// EncodePNG writes the buffer to w as a PNG image.
func EncodePNG(w io.Writer, buf *PixelBuffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	img := &image.NRGBA{
		Pix:    buf.Pix,
		Stride: int(buf.Width) * bytesPerPixel,
		Rect:   image.Rect(0, 0, int(buf.Width), int(buf.Height)),
	}
	if err := png.Encode(w, img); err != nil {
		return NewImageEncodeError("", err)
	}
	return nil
}

// EncodePNGFile writes the buffer to path as a PNG image.
func EncodePNGFile(path string, buf *PixelBuffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	f, err := os.Create(path) // #nosec G304 -- output path is caller-supplied by design
	if err != nil {
		return NewImageEncodeError(path, err)
	}

	img := &image.NRGBA{
		Pix:    buf.Pix,
		Stride: int(buf.Width) * bytesPerPixel,
		Rect:   image.Rect(0, 0, int(buf.Width), int(buf.Height)),
	}
	if err := png.Encode(f, img); err != nil {
		f.Close() //nolint:errcheck,gosec
		return NewImageEncodeError(path, err)
	}
	if err := f.Close(); err != nil {
		return NewImageEncodeError(path, err)
	}
	return nil
}
