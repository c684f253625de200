// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "image"

// Surface is the window side of a software device.
//
// Surfaces are NOT thread-safe. The device calls them from the goroutine that
// renders.
type Surface interface {
	// Framebuffer returns a width x height color buffer with its origin at
	// (0, 0). The row stride may exceed width*4. A later call with a new
	// size invalidates the previous buffer.
	Framebuffer(width, height int) (*image.RGBA, error)

	// Present shows img, which was returned by Framebuffer.
	Present(img *image.RGBA) error

	// Close releases all resources associated with the surface.
	// Close is idempotent; multiple calls are safe.
	Close() error
}

// Options configures surface creation.
type Options struct {
	// RowPadding is the number of extra bytes at the end of each row.
	RowPadding int
}
