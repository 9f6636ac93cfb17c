// config_test.go: tests for host configuration loading and validation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHostConfig(t *testing.T) {
	cfg := DefaultHostConfig()
	assert.Equal(t, "plugins", cfg.PluginDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.MetricsEnabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadHostConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "host.yaml",
		"plugin_dir: /opt/imgproc/plugins\nlog_level: debug\nmetrics_enabled: false\n")

	cfg, err := LoadHostConfig(filepath.Join(dir, "host.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/opt/imgproc/plugins", cfg.PluginDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadHostConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "host.json",
		`{"plugin_dir":"./plugins","log_level":"warn"}`)

	cfg, err := LoadHostConfig(filepath.Join(dir, "host.json"))
	require.NoError(t, err)
	assert.Equal(t, "./plugins", cfg.PluginDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.MetricsEnabled, "fields absent from the file keep their defaults")
}

func TestLoadHostConfig_MissingFile(t *testing.T) {
	_, err := LoadHostConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assertErrorCode(t, err, ErrCodeConfigNotFound)
}

func TestLoadHostConfig_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "host.yaml", "plugin_dir: [unterminated")

	_, err := LoadHostConfig(filepath.Join(dir, "host.yaml"))
	assertErrorCode(t, err, ErrCodeConfigParseError)
}

func TestLoadHostConfig_InvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "host.yaml", "plugin_dir: plugins\nlog_level: verbose\n")

	_, err := LoadHostConfig(filepath.Join(dir, "host.yaml"))
	assertErrorCode(t, err, ErrCodeConfigValidation)
}

func TestHostConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     HostConfig
		wantErr bool
	}{
		{"valid", HostConfig{PluginDir: "plugins", LogLevel: "error"}, false},
		{"empty plugin dir", HostConfig{PluginDir: "", LogLevel: "info"}, true},
		{"unknown log level", HostConfig{PluginDir: "plugins", LogLevel: "trace"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assertErrorCode(t, err, ErrCodeConfigValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHostConfigWatcher_StartAndCurrent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "host.yaml", "plugin_dir: plugins\nlog_level: info\n")
	path := filepath.Join(dir, "host.yaml")

	watcher := NewHostConfigWatcher(path, nil, NewTestLogger())
	require.NoError(t, watcher.Start())
	defer func() { _ = watcher.Stop() }()

	cfg := watcher.Current()
	assert.Equal(t, "plugins", cfg.PluginDir)

	err := watcher.Start()
	assertErrorCode(t, err, ErrCodeConfigWatcher)
}

func TestHostConfigWatcher_StartMissingFile(t *testing.T) {
	watcher := NewHostConfigWatcher(filepath.Join(t.TempDir(), "absent.yaml"), nil, nil)
	err := watcher.Start()
	assertErrorCode(t, err, ErrCodeConfigNotFound)

	assert.Equal(t, DefaultHostConfig(), watcher.Current())
	assert.NoError(t, watcher.Stop(), "stopping a never-started watcher is a no-op")
}
