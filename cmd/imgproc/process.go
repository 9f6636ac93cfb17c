// process.go: the process subcommand - decode, invoke plugin, encode
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"github.com/spf13/cobra"

	goimgproc "github.com/agilira/go-imgproc"
)

func newProcessCommand() *cobra.Command {
	var (
		inputPath  string
		outputPath string
		pluginName string
		paramsPath string
		pluginDir  string
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Apply a plugin transformation to a PNG image",
		Long: `Decode a PNG into an RGBA8 buffer, invoke the named plugin's
process_image export once over that buffer, and encode the result.

The params file, if given, is passed to the plugin verbatim as a
NUL-terminated UTF-8 string; its format is defined by the plugin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, inputPath, outputPath, pluginName, paramsPath, pluginDir)
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "path to input PNG (required)")
	cmd.Flags().StringVar(&outputPath, "output", "", "path to output PNG (required)")
	cmd.Flags().StringVar(&pluginName, "plugin", "", "plugin name without extension, e.g. blur_plugin (required)")
	cmd.Flags().StringVar(&paramsPath, "params", "", "path to plugin params text file")
	cmd.Flags().StringVar(&pluginDir, "plugin-dir", "", "directory with plugin libraries (default from config)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("plugin")

	return cmd
}

func runProcess(cmd *cobra.Command, inputPath, outputPath, pluginName, paramsPath, pluginDir string) error {
	cfg, logger, err := hostSetup(cmd)
	if err != nil {
		return err
	}
	if pluginDir == "" {
		pluginDir = cfg.PluginDir
	}

	buf, err := goimgproc.DecodePNGFile(inputPath)
	if err != nil {
		return err
	}

	var params *goimgproc.Params
	if paramsPath != "" {
		params, err = goimgproc.LoadParamsFile(paramsPath)
		if err != nil {
			return err
		}
	}

	registry := goimgproc.NewRegistry(logger)
	defer registry.Close() //nolint:errcheck

	handle, err := registry.Load(goimgproc.PluginDescriptor{
		Name: pluginName,
		Dir:  pluginDir,
	})
	if err != nil {
		return err
	}

	logger.Info("Processing image",
		"input_file", inputPath,
		"plugin", handle.Path(),
		"width", buf.Width,
		"height", buf.Height)

	invoker := goimgproc.NewInvoker(logger)
	if err := invoker.InvokeHandle(handle, buf, params); err != nil {
		return err
	}

	if err := goimgproc.EncodePNGFile(outputPath, buf); err != nil {
		return err
	}

	if cfg.MetricsEnabled {
		snapshot := invoker.Metrics()
		logger.Info("Invocation metrics",
			"total", snapshot.Total,
			"duration", snapshot.TotalDuration)
	}

	logger.Info("Output file saved", "output_file", outputPath)
	return nil
}
