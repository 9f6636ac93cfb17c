// errors.go: structured error definitions for the go-imgproc plugin host
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"github.com/agilira/go-errors"
)

// Error codes for the go-imgproc plugin host.
//
// The set is closed: every failure the host can produce on an expected
// path maps to exactly one of these codes. A contract breach inside the
// foreign call that the platform reports as a fault (SIGSEGV and friends)
// is the one case with no code, because it terminates the process.
const (
	// Plugin loading errors (1000-1099)
	ErrCodePluginNotFound    = "PLUGIN_1001"
	ErrCodePluginLoadFailed  = "PLUGIN_1002"
	ErrCodeInvalidPluginName = "PLUGIN_1003"
	ErrCodeHandleClosed      = "PLUGIN_1004"

	// Symbol resolution errors (1100-1199)
	ErrCodeSymbolNotFound = "SYMBOL_1101"

	// Pre-call safety violations (1200-1299)
	ErrCodeZeroDimensions     = "SAFETY_1201"
	ErrCodeBufferSizeMismatch = "SAFETY_1202"
	ErrCodeDimensionOverflow  = "SAFETY_1203"
	ErrCodeNilProcessFn       = "SAFETY_1204"

	// Invocation errors (1300-1399)
	ErrCodePluginStatus = "INVOKE_1301"
	ErrCodePluginPanic  = "INVOKE_1302"

	// Parameter file errors (1400-1499)
	ErrCodeParamsNotFound    = "PARAMS_1401"
	ErrCodeParamsInvalidUTF8 = "PARAMS_1402"
	ErrCodeParamsInteriorNUL = "PARAMS_1403"
	ErrCodeParamsReadFailed  = "PARAMS_1404"

	// Image pipeline errors (1500-1599)
	ErrCodeImageNotFound = "IMAGE_1501"
	ErrCodeImageDecode   = "IMAGE_1502"
	ErrCodeImageEncode   = "IMAGE_1503"

	// Host configuration errors (1600-1699)
	ErrCodeConfigNotFound   = "CONFIG_1601"
	ErrCodeConfigParseError = "CONFIG_1602"
	ErrCodeConfigValidation = "CONFIG_1603"
	ErrCodeConfigWatcher    = "CONFIG_1604"

	// Registry errors (1700-1799)
	ErrCodeRegistryClosed  = "REGISTRY_1701"
	ErrCodeDuplicatePlugin = "REGISTRY_1702"

	// Discovery errors (1800-1899)
	ErrCodeDiscoveryFailed = "DISCOVERY_1801"
)

// Plugin loading error constructors

func NewPluginNotFoundError(path string) *errors.Error {
	return errors.New(ErrCodePluginNotFound, "Plugin library not found").
		WithUserMessage("The plugin library does not exist at the resolved path").
		WithContext("library_path", path).
		WithSeverity("error")
}

func NewPluginLoadFailedError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodePluginLoadFailed, "Plugin load failed").
		WithUserMessage("The plugin library could not be mapped into the process").
		WithContext("library_path", path).
		WithSeverity("error")
}

func NewInvalidPluginNameError(name string, reason string) *errors.Error {
	return errors.New(ErrCodeInvalidPluginName, "Invalid plugin name: "+reason).
		WithUserMessage("Plugin name must be a bare library name without path or control characters").
		WithContext("plugin_name", name).
		WithSeverity("error")
}

func NewHandleClosedError(name string) *errors.Error {
	return errors.New(ErrCodeHandleClosed, "Plugin handle closed").
		WithUserMessage("The plugin library has been unloaded; resolved callables are invalid").
		WithContext("plugin_name", name).
		WithSeverity("error")
}

// Symbol resolution error constructors

func NewSymbolNotFoundError(symbol, pluginName string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeSymbolNotFound, "Required export not found").
		WithUserMessage("The plugin library does not export the required entry point").
		WithContext("symbol_name", symbol).
		WithContext("plugin_name", pluginName).
		WithSeverity("error")
}

// Safety violation constructors. These fire before the foreign boundary is
// crossed; when one is returned, the plugin was never entered.

func NewZeroDimensionsError(width, height uint32) *errors.Error {
	return errors.New(ErrCodeZeroDimensions, "Safety violation: zero image dimension").
		WithUserMessage("Image width and height must both be greater than zero").
		WithContext("width", width).
		WithContext("height", height).
		WithSeverity("error")
}

func NewBufferSizeMismatchError(width, height uint32, actual int) *errors.Error {
	return errors.New(ErrCodeBufferSizeMismatch, "Safety violation: buffer length does not match dimensions").
		WithUserMessage("Pixel buffer length must equal width*height*4 (RGBA8)").
		WithContext("width", width).
		WithContext("height", height).
		WithContext("expected_bytes", uint64(width)*uint64(height)*4).
		WithContext("actual_bytes", actual).
		WithSeverity("error")
}

func NewDimensionOverflowError(width, height uint32) *errors.Error {
	return errors.New(ErrCodeDimensionOverflow, "Safety violation: dimensions overflow addressable buffer size").
		WithUserMessage("Image dimensions are too large to address as a byte buffer").
		WithContext("width", width).
		WithContext("height", height).
		WithSeverity("error")
}

func NewNilProcessFnError() *errors.Error {
	return errors.New(ErrCodeNilProcessFn, "Safety violation: nil process function").
		WithUserMessage("A resolved process function is required to invoke a plugin").
		WithSeverity("error")
}

// Invocation error constructors

func NewPluginStatusError(pluginName string, status int32) *errors.Error {
	return errors.New(ErrCodePluginStatus, "Plugin reported failure").
		WithUserMessage("The plugin returned a nonzero status; the buffer contents are undefined").
		WithContext("plugin_name", pluginName).
		WithContext("status_code", status).
		WithSeverity("error")
}

func NewPluginPanicError(pluginName string, recovered interface{}) *errors.Error {
	return errors.New(ErrCodePluginPanic, "Panic trapped at plugin boundary").
		WithUserMessage("The plugin panicked during invocation; the buffer contents are undefined").
		WithContext("plugin_name", pluginName).
		WithContext("panic_value", recovered).
		WithSeverity("error")
}

// Parameter file error constructors

func NewParamsNotFoundError(path string) *errors.Error {
	return errors.New(ErrCodeParamsNotFound, "Params file not found").
		WithUserMessage("The parameter file does not exist").
		WithContext("params_path", path).
		WithSeverity("error")
}

func NewParamsInvalidUTF8Error(path string) *errors.Error {
	return errors.New(ErrCodeParamsInvalidUTF8, "Params file contains invalid UTF-8").
		WithUserMessage("Parameter data must be valid UTF-8 text").
		WithContext("params_path", path).
		WithSeverity("error")
}

func NewParamsInteriorNULError() *errors.Error {
	return errors.New(ErrCodeParamsInteriorNUL, "Params contain an interior NUL byte").
		WithUserMessage("Parameter text cannot contain NUL bytes; it is passed as a NUL-terminated C string").
		WithSeverity("error")
}

func NewParamsReadFailedError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeParamsReadFailed, "Params file read failed").
		WithUserMessage("The parameter file could not be read").
		WithContext("params_path", path).
		WithSeverity("error")
}

// Image pipeline error constructors

func NewImageNotFoundError(path string) *errors.Error {
	return errors.New(ErrCodeImageNotFound, "Input image not found").
		WithUserMessage("The input image file does not exist").
		WithContext("image_path", path).
		WithSeverity("error")
}

func NewImageDecodeError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeImageDecode, "Image decode failed").
		WithUserMessage("The input file could not be decoded as a PNG image").
		WithContext("image_path", path).
		WithSeverity("error")
}

func NewImageEncodeError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeImageEncode, "Image encode failed").
		WithUserMessage("The processed image could not be encoded").
		WithContext("image_path", path).
		WithSeverity("error")
}

// Host configuration error constructors

func NewConfigNotFoundError(path string) *errors.Error {
	return errors.New(ErrCodeConfigNotFound, "Configuration file not found").
		WithUserMessage("The host configuration file could not be found").
		WithContext("config_path", path).
		WithSeverity("error")
}

func NewConfigParseError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeConfigParseError, "Configuration parse error").
		WithUserMessage("Failed to parse host configuration file").
		WithContext("config_path", path).
		WithSeverity("error")
}

func NewConfigValidationError(message string, cause error) *errors.Error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeConfigValidation, "Configuration validation error: "+message).
			WithUserMessage("Host configuration validation failed").
			WithSeverity("error")
	}
	return errors.New(ErrCodeConfigValidation, "Configuration validation error: "+message).
		WithUserMessage("Host configuration validation failed").
		WithSeverity("error")
}

func NewConfigWatcherError(message string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeConfigWatcher, "Configuration watcher error: "+message).
		WithUserMessage("Host configuration monitoring failed").
		WithSeverity("error")
}

// Registry error constructors

func NewRegistryClosedError() *errors.Error {
	return errors.New(ErrCodeRegistryClosed, "Registry closed").
		WithUserMessage("The plugin registry has been torn down; no further loads are possible").
		WithSeverity("error")
}

func NewDuplicatePluginError(name string) *errors.Error {
	return errors.New(ErrCodeDuplicatePlugin, "Duplicate plugin name").
		WithUserMessage("A plugin with this name is already loaded in the registry").
		WithContext("plugin_name", name).
		WithSeverity("error")
}

// Discovery error constructors

func NewDiscoveryError(message string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeDiscoveryFailed, "Discovery error: "+message).
		WithUserMessage("Plugin discovery failed").
		WithSeverity("error")
}
