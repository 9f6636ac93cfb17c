// list.go: the list subcommand - enumerate discoverable plugins
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	goimgproc "github.com/agilira/go-imgproc"
)

func newListCommand() *cobra.Command {
	var pluginDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plugin libraries found in the plugin directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := hostSetup(cmd)
			if err != nil {
				return err
			}
			if pluginDir == "" {
				pluginDir = cfg.PluginDir
			}

			plugins, err := goimgproc.DiscoverPlugins(pluginDir, logger)
			if err != nil {
				return err
			}
			if len(plugins) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no plugins found in %s\n", pluginDir)
				return nil
			}

			for _, p := range plugins {
				line := p.Descriptor.Name
				if m := p.Manifest; m != nil {
					if m.Version != "" {
						line += " v" + m.Version
					}
					if m.Description != "" {
						line += " - " + m.Description
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n\t%s\n", line, p.LibraryPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pluginDir, "plugin-dir", "", "directory with plugin libraries (default from config)")
	return cmd
}
