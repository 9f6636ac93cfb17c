// discovery.go: filesystem discovery of native plugin libraries
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// PluginManifest carries optional metadata a plugin author can ship next
// to the library as a sidecar file (<name>.manifest.yaml, .yml or .json).
//
// Manifests are purely informational: loading and invocation never
// require one, and nothing in a manifest changes the foreign-call
// contract.
//
// Example YAML manifest (libblur_plugin.so → blur_plugin.manifest.yaml):
//
//	name: blur_plugin
//	version: 1.2.0
//	description: Weighted box blur, params "radius=N iterations=M"
//	author: imaging-team@company.com
type PluginManifest struct {
	Name        string            `json:"name" yaml:"name"`
	Version     string            `json:"version,omitempty" yaml:"version,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Author      string            `json:"author,omitempty" yaml:"author,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// DiscoveredPlugin describes one library found in a plugin directory.
type DiscoveredPlugin struct {
	// Descriptor is ready to hand to a Loader or Registry.
	Descriptor PluginDescriptor

	// LibraryPath is the full path of the shared library file.
	LibraryPath string

	// Manifest is the parsed sidecar manifest, or nil if none exists.
	Manifest *PluginManifest
}

// DiscoverPlugins scans a directory (non-recursively; plugin libraries sit
// flat) for files matching the current platform's shared-library naming
// convention and pairs each with its sidecar manifest when present.
//
// A manifest that exists but fails to parse is logged and skipped; a
// broken manifest must not make its library undiscoverable.
func DiscoverPlugins(dir string, logger any) ([]DiscoveredPlugin, error) {
	log := NewLogger(logger)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, NewDiscoveryError("failed to read plugin directory", err).
			WithContext("plugin_dir", dir)
	}

	var found []DiscoveredPlugin
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := libraryNameFromFile(runtime.GOOS, entry.Name())
		if !ok {
			continue
		}
		desc := PluginDescriptor{Name: name, Dir: dir}
		if err := desc.Validate(); err != nil {
			log.Warn("Skipping library with unusable name",
				"file", entry.Name(),
				"error", err)
			continue
		}

		plugin := DiscoveredPlugin{
			Descriptor:  desc,
			LibraryPath: filepath.Join(dir, entry.Name()),
		}
		if manifest, err := findManifest(dir, name); err != nil {
			log.Warn("Ignoring unreadable plugin manifest",
				"plugin_name", name,
				"error", err)
		} else {
			plugin.Manifest = manifest
		}

		log.Debug("Discovered plugin library",
			"plugin_name", name,
			"library_path", plugin.LibraryPath)
		found = append(found, plugin)
	}

	return found, nil
}

// manifestExtensions, in lookup order.
var manifestExtensions = []string{".manifest.yaml", ".manifest.yml", ".manifest.json"}

// findManifest locates and parses the sidecar manifest for a plugin name.
// Returns (nil, nil) when no manifest file exists.
func findManifest(dir, name string) (*PluginManifest, error) {
	for _, ext := range manifestExtensions {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return parseManifestFile(path)
	}
	return nil, nil
}

// parseManifestFile parses a manifest file, trying JSON first and falling
// back to YAML.
func parseManifestFile(path string) (*PluginManifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path derives from a scanned directory entry
	if err != nil {
		return nil, NewDiscoveryError("failed to read manifest file", err).
			WithContext("manifest_path", path)
	}

	var manifest PluginManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return nil, NewDiscoveryError("failed to parse manifest as JSON or YAML", err).
				WithContext("manifest_path", path)
		}
	}
	return &manifest, nil
}
