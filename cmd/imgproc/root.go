// root.go: imgproc command tree
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	goimgproc "github.com/agilira/go-imgproc"
)

// NewRootCommand builds the imgproc command tree.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "imgproc",
		Short: "Process images with native plugins",
		Long: `imgproc applies image transformations implemented as native plugins:
shared libraries exporting a C-compatible process_image entry point.

The host decodes a PNG into an RGBA8 buffer, loads the named plugin from
the plugin directory, performs a single in-place processing call, and
writes the result back as PNG.`,
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().String("config", "", "path to host config file (JSON or YAML)")
	rootCmd.PersistentFlags().String("log-level", "", "log verbosity: debug, info, warn, error")

	rootCmd.AddCommand(newProcessCommand())
	rootCmd.AddCommand(newListCommand())

	return rootCmd
}

// hostSetup resolves configuration and builds the shared logger for a
// command run. Flags override the config file, which overrides defaults.
func hostSetup(cmd *cobra.Command) (goimgproc.HostConfig, goimgproc.Logger, error) {
	cfg := goimgproc.DefaultHostConfig()

	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		loaded, err := goimgproc.LoadHostConfig(configPath)
		if err != nil {
			return cfg, nil, err
		}
		cfg = loaded
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	switch cfg.LogLevel {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	return cfg, goimgproc.NewLogrusAdapter(logger), nil
}
