// config.go: host configuration with Argus-backed loading and hot reload
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"encoding/json"
	"os"
	"sync/atomic"
	"time"

	"github.com/agilira/argus"
	"gopkg.in/yaml.v3"
)

// HostConfig holds the host-side settings of the plugin system.
//
// Only host behavior is configurable here: which directory is searched for
// plugin libraries, how verbose the host logs are, and whether invocation
// metrics are collected. Plugin behavior is configured exclusively through
// the per-invocation params payload, and plugin hot-reload is explicitly
// not supported; hot reload below applies to these host settings only.
type HostConfig struct {
	// PluginDir is the directory searched for plugin libraries.
	PluginDir string `json:"plugin_dir" yaml:"plugin_dir"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `json:"log_level" yaml:"log_level"`

	// MetricsEnabled toggles invocation metrics reporting. The Invoker's
	// counters are always maintained; this flag controls whether the host
	// reports them.
	MetricsEnabled bool `json:"metrics_enabled" yaml:"metrics_enabled"`
}

// DefaultHostConfig returns the configuration used when no file is given.
func DefaultHostConfig() HostConfig {
	return HostConfig{
		PluginDir:      "plugins",
		LogLevel:       "info",
		MetricsEnabled: true,
	}
}

// Validate checks the configuration for usable values.
func (c HostConfig) Validate() error {
	if c.PluginDir == "" {
		return NewConfigValidationError("plugin_dir must not be empty", nil)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return NewConfigValidationError("log_level must be one of debug, info, warn, error", nil)
	}
	return nil
}

// LoadHostConfig reads and validates a host configuration file. The
// format is detected from the file extension (JSON or YAML).
func LoadHostConfig(path string) (HostConfig, error) {
	cfg := DefaultHostConfig()

	if _, err := os.Stat(path); err != nil {
		return cfg, NewConfigNotFoundError(path)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- config path is operator-supplied
	if err != nil {
		return cfg, NewConfigParseError(path, err)
	}

	switch format := argus.DetectFormat(path); format {
	case argus.FormatJSON:
		err = json.Unmarshal(data, &cfg)
	case argus.FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, NewConfigParseError(path,
			NewConfigValidationError("unsupported config format: "+format.String(), nil))
	}
	if err != nil {
		return cfg, NewConfigParseError(path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// HostConfigWatcher hot-reloads the host configuration file with an Argus
// watcher. Changes that fail to parse or validate are logged and ignored,
// leaving the last good configuration in place.
type HostConfigWatcher struct {
	path     string
	logger   Logger
	watcher  *argus.Watcher
	current  atomic.Pointer[HostConfig]
	onChange func(HostConfig)
	started  atomic.Bool
}

// NewHostConfigWatcher creates a watcher for the given configuration file.
// onChange, if non-nil, runs after every successfully applied reload.
func NewHostConfigWatcher(path string, onChange func(HostConfig), logger any) *HostConfigWatcher {
	internalLogger := NewLogger(logger)

	w := &HostConfigWatcher{
		path:     path,
		logger:   internalLogger,
		onChange: onChange,
	}
	w.watcher = argus.New(argus.Config{
		PollInterval:         5 * time.Second,
		CacheTTL:             2 * time.Second,
		MaxWatchedFiles:      2,
		OptimizationStrategy: argus.OptimizationSingleEvent,
		ErrorHandler: func(err error, filepath string) {
			internalLogger.Error("Host config file watching error",
				"error", err,
				"file", filepath)
		},
	})
	return w
}

// Start loads the initial configuration and begins watching for changes.
func (w *HostConfigWatcher) Start() error {
	if !w.started.CompareAndSwap(false, true) {
		return NewConfigWatcherError("host config watcher is already running", nil)
	}

	initial, err := LoadHostConfig(w.path)
	if err != nil {
		w.started.Store(false)
		return err
	}
	w.current.Store(&initial)

	if err := w.watcher.Watch(w.path, w.handleChange); err != nil {
		w.started.Store(false)
		return NewConfigWatcherError("failed to watch host config file", err)
	}
	if err := w.watcher.Start(); err != nil {
		w.started.Store(false)
		return NewConfigWatcherError("failed to start host config watcher", err)
	}

	w.logger.Info("Host config watcher started", "config_path", w.path)
	return nil
}

// Current returns the last successfully applied configuration.
func (w *HostConfigWatcher) Current() HostConfig {
	if cfg := w.current.Load(); cfg != nil {
		return *cfg
	}
	return DefaultHostConfig()
}

// Stop stops watching. The last applied configuration remains readable.
func (w *HostConfigWatcher) Stop() error {
	if !w.started.CompareAndSwap(true, false) {
		return nil
	}
	if err := w.watcher.Stop(); err != nil {
		return NewConfigWatcherError("failed to stop host config watcher", err)
	}
	return nil
}

func (w *HostConfigWatcher) handleChange(event argus.ChangeEvent) {
	if event.IsDelete {
		w.logger.Warn("Host config file deleted, keeping last good configuration",
			"config_path", event.Path)
		return
	}

	cfg, err := LoadHostConfig(event.Path)
	if err != nil {
		w.logger.Error("Rejected host config change",
			"config_path", event.Path,
			"error", err)
		return
	}

	w.current.Store(&cfg)
	w.logger.Info("Host configuration reloaded",
		"config_path", event.Path,
		"log_level", cfg.LogLevel,
		"plugin_dir", cfg.PluginDir)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
