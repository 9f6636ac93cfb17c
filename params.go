// params.go: plugin parameter payload loading and C-string marshaling
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"bytes"
	"os"
	"unicode/utf8"
)

// Params is an opaque parameter payload handed to a plugin verbatim.
//
// The host never interprets the text; each plugin defines its own format
// (key=value pairs, TOML, whatever the author documents). The payload is
// valid UTF-8 with no interior NUL bytes, so it can cross the foreign
// boundary as a NUL-terminated C string. A nil *Params means "no
// parameters" and crosses as a null pointer.
type Params struct {
	text string
}

// NewParams wraps parameter text, rejecting text that cannot be
// represented as a NUL-terminated UTF-8 C string.
func NewParams(text string) (*Params, error) {
	if !utf8.ValidString(text) {
		return nil, NewParamsInvalidUTF8Error("")
	}
	if bytes.IndexByte([]byte(text), 0) >= 0 {
		return nil, NewParamsInteriorNULError()
	}
	return &Params{text: text}, nil
}

// LoadParamsFile reads a parameter file and validates it for the foreign
// boundary.
func LoadParamsFile(path string) (*Params, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, NewParamsNotFoundError(path)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is caller-supplied by design
	if err != nil {
		return nil, NewParamsReadFailedError(path, err)
	}
	if !utf8.Valid(data) {
		return nil, NewParamsInvalidUTF8Error(path)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, NewParamsInteriorNULError()
	}
	return &Params{text: string(data)}, nil
}

// String returns the parameter text.
func (p *Params) String() string {
	if p == nil {
		return ""
	}
	return p.text
}

// terminated returns the payload as a NUL-terminated byte sequence, or nil
// for an absent payload. The returned slice is freshly allocated; the
// invoker owns it for the duration of one foreign call and nothing may
// retain it afterwards.
func (p *Params) terminated() []byte {
	if p == nil {
		return nil
	}
	out := make([]byte, len(p.text)+1)
	copy(out, p.text)
	return out
}
