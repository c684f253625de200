// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"
	"image"
)

// ErrClosed is returned by a surface used after Close.
var ErrClosed = errors.New("surface: closed")

// ImageSurface keeps frames in memory. Presented frames are counted and the
// last one can be copied out with Snapshot.
//
// Example:
//
//	s := surface.NewImageSurface(0)
//	dev, err := softgpu.New(320, 240, softgpu.WithSurface(s))
//	...
//	img := s.Snapshot()
type ImageSurface struct {
	pad    int
	img    *image.RGBA
	frames int
	closed bool
}

// NewImageSurface creates a surface whose rows carry pad extra bytes.
func NewImageSurface(pad int) *ImageSurface {
	return &ImageSurface{pad: max(pad, 0)}
}

// Framebuffer allocates the color buffer, reusing it when the size is
// unchanged.
func (s *ImageSurface) Framebuffer(width, height int) (*image.RGBA, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("surface: invalid framebuffer size %dx%d", width, height)
	}
	if s.img != nil && s.img.Rect.Dx() == width && s.img.Rect.Dy() == height {
		return s.img, nil
	}
	stride := width*4 + s.pad
	s.img = &image.RGBA{
		// The last row needs no padding.
		Pix:    make([]uint8, stride*(height-1)+width*4),
		Stride: stride,
		Rect:   image.Rect(0, 0, width, height),
	}
	return s.img, nil
}

// Present records img as the shown frame.
func (s *ImageSurface) Present(img *image.RGBA) error {
	if s.closed {
		return ErrClosed
	}
	if img != s.img {
		return errors.New("surface: presented image was not allocated by this surface")
	}
	s.frames++
	return nil
}

// Frames returns the number of presented frames.
func (s *ImageSurface) Frames() int {
	return s.frames
}

// Stride returns the row stride of the current buffer in bytes.
func (s *ImageSurface) Stride() int {
	if s.img == nil {
		return 0
	}
	return s.img.Stride
}

// Snapshot returns a tightly packed copy of the current buffer, or nil
// before the first Framebuffer call.
func (s *ImageSurface) Snapshot() *image.RGBA {
	if s.img == nil {
		return nil
	}
	r := s.img.Rect
	out := image.NewRGBA(r)
	for y := 0; y < r.Dy(); y++ {
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], s.img.Pix[y*s.img.Stride:])
	}
	return out
}

// Close releases the buffer.
func (s *ImageSurface) Close() error {
	s.closed = true
	s.img = nil
	return nil
}
