// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the presentation targets of the software device.
//
// A Surface owns the color memory the device rasterizes into. The device asks
// it for a framebuffer of a given size, draws a frame, then hands the image
// back with Present. Window systems implement Surface on top of their own
// blit; the package ships CPU implementations for headless use and tests.
//
// # Surface Types
//
//   - ImageSurface: an in-memory *image.RGBA, optionally with padded rows
//
// # Registry
//
// Surfaces are selected by name through a priority-ordered registry:
//
//	surface.Register("x11", 100, x11Factory, x11Available)
//
//	// Later:
//	s, err := surface.NewSurfaceByName("x11", surface.Options{})
//
// The "image" and "padded" surfaces are registered by default.
package surface
