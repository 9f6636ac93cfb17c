// Package goimgproc provides a host for native image-processing plugins:
// shared libraries loaded at run time and invoked through a C-compatible
// function boundary. A plugin exports a single well-known entry point,
//
//	int32_t process_image(uint32_t width, uint32_t height,
//	                      uint8_t *pixels, const char *params);
//
// which transforms an RGBA8 pixel buffer in place and returns 0 on success
// or a nonzero plugin-defined status code on failure.
//
// The library covers the full host-side lifecycle:
//   - PluginDescriptor maps a plugin name and directory to the platform's
//     shared-library filename
//   - Loader opens the library and produces a PluginHandle
//   - ResolveProcessImage binds the process_image export to a typed ProcessFn
//   - Invoker validates the pixel buffer, marshals parameters, performs the
//     single foreign call, and maps the outcome to a typed error
//   - Registry tracks every loaded handle and tears them down in order
//
// Basic usage:
//
//	registry := goimgproc.NewRegistry(logger)
//	defer registry.Close()
//
//	handle, err := registry.Load(goimgproc.PluginDescriptor{
//		Name: "blur_plugin",
//		Dir:  "/opt/imgproc/plugins",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	buf, err := goimgproc.DecodePNGFile("input.png")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	params, _ := goimgproc.NewParams("radius=3")
//	invoker := goimgproc.NewInvoker(logger)
//	if err := invoker.InvokeHandle(handle, buf, params); err != nil {
//		log.Fatal(err)
//	}
//
// Safety:
// The host re-establishes memory-safety guarantees manually at the foreign
// boundary: buffer dimensions are validated before every call, raw pointers
// are valid only for the synchronous duration of one invocation, and every
// expected failure is returned as a typed error. What the host cannot verify
// is the loaded function's actual signature and behavior; that binding is
// trust-based and documented at the resolver. Plugins are treated as
// non-reentrant: invocations through a handle are serialized, and a handle
// is never unloaded while a call into it is in flight.
//
// Copyright (c) 2025 AGILira - A. Giordano
// SPDX-License-Identifier: MPL-2.0
package goimgproc
