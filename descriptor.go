// descriptor.go: plugin identification and platform library name resolution
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"path/filepath"
	"runtime"
	"strings"
)

// PluginDescriptor identifies a plugin by a bare name and a search
// directory. The concrete library filename is resolved on demand by
// applying the host platform's shared-library naming convention; it is
// never stored.
type PluginDescriptor struct {
	// Name is the plugin name without prefix, extension, or path
	// components (e.g. "blur_plugin").
	Name string

	// Dir is the directory searched for the plugin library.
	Dir string
}

// Validate checks the descriptor for structural and hygiene problems.
//
// Plugin names become filesystem paths, so path separators, traversal
// sequences, NUL bytes, and control characters are all rejected before
// the name is ever joined to a directory.
func (d PluginDescriptor) Validate() error {
	if d.Name == "" {
		return NewInvalidPluginNameError(d.Name, "name is empty")
	}
	if strings.Contains(d.Name, "..") {
		return NewInvalidPluginNameError(d.Name, "name contains a traversal sequence")
	}
	if strings.ContainsAny(d.Name, `/\`) {
		return NewInvalidPluginNameError(d.Name, "name contains a path separator")
	}
	for _, r := range d.Name {
		if r < 32 || r == 127 {
			return NewInvalidPluginNameError(d.Name, "name contains a control character")
		}
	}
	return nil
}

// LibraryFileName returns the platform-specific filename for the plugin
// library on the current platform.
func (d PluginDescriptor) LibraryFileName() string {
	return platformLibraryName(runtime.GOOS, d.Name)
}

// LibraryPath returns the full resolved path of the plugin library.
func (d PluginDescriptor) LibraryPath() string {
	return filepath.Join(d.Dir, d.LibraryFileName())
}

// platformLibraryName applies a platform's standard dynamic-library naming
// convention to a bare plugin name.
func platformLibraryName(goos, name string) string {
	switch goos {
	case "windows":
		return name + ".dll"
	case "darwin":
		return "lib" + name + ".dylib"
	default:
		return "lib" + name + ".so"
	}
}

// libraryNameFromFile recovers the bare plugin name from a library
// filename on the given platform, reporting whether the filename follows
// the platform convention at all.
func libraryNameFromFile(goos, filename string) (string, bool) {
	switch goos {
	case "windows":
		name, ok := strings.CutSuffix(filename, ".dll")
		if !ok || name == "" {
			return "", false
		}
		return name, true
	case "darwin":
		return cutLibraryAffixes(filename, ".dylib")
	default:
		return cutLibraryAffixes(filename, ".so")
	}
}

func cutLibraryAffixes(filename, ext string) (string, bool) {
	name, ok := strings.CutSuffix(filename, ext)
	if !ok {
		return "", false
	}
	name, ok = strings.CutPrefix(name, "lib")
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
