package raster

import (
	"image"
	"image/color"

	"github.com/gogpu/softgpu/internal/numeric"
)

// Target is the color and depth store the rasterizer draws into.
//
// Color may have a stride wider than four bytes per pixel when the surface
// pads its rows. Depth has its own stride in elements. Both are addressed
// from the origin: Color.Rect.Min must be (0, 0).
//
// With BGRA set the color bytes are stored blue first; At and the
// rasterizer still speak color.RGBA.
type Target[S numeric.Scalar] struct {
	Color       *image.RGBA
	Depth       []S
	DepthStride int
	BGRA        bool
}

// NewTarget wraps existing buffers. depth must hold at least
// depthStride*height values.
func NewTarget[S numeric.Scalar](c *image.RGBA, depth []S, depthStride int) *Target[S] {
	return &Target[S]{Color: c, Depth: depth, DepthStride: depthStride}
}

// Width returns the width in pixels.
func (t *Target[S]) Width() int { return t.Color.Rect.Dx() }

// Height returns the height in pixels.
func (t *Target[S]) Height() int { return t.Color.Rect.Dy() }

// Bounds returns the drawable rectangle.
func (t *Target[S]) Bounds() image.Rectangle { return t.Color.Rect }

// ClearColor fills every pixel with c.
func (t *Target[S]) ClearColor(c color.RGBA) {
	w, h := t.Width(), t.Height()
	if w == 0 || h == 0 {
		return
	}
	c = t.order(c)
	rowBytes := w * 4
	pix := t.Color.Pix

	row := pix[:rowBytes]
	row[0], row[1], row[2], row[3] = c.R, c.G, c.B, c.A
	for n := 4; n < rowBytes; n *= 2 {
		copy(row[n:], row[:n])
	}

	if t.Color.Stride == rowBytes {
		all := pix[:rowBytes*h]
		for n := rowBytes; n < len(all); n *= 2 {
			copy(all[n:], all[:n])
		}
		return
	}
	for y := 1; y < h; y++ {
		copy(pix[y*t.Color.Stride:y*t.Color.Stride+rowBytes], row)
	}
}

// ClearDepth fills the depth buffer with far.
func (t *Target[S]) ClearDepth(far S) {
	if len(t.Depth) == 0 {
		return
	}
	t.Depth[0] = far
	for n := 1; n < len(t.Depth); n *= 2 {
		copy(t.Depth[n:], t.Depth[:n])
	}
}

// DepthAt returns the stored depth at (x, y).
func (t *Target[S]) DepthAt(x, y int) S {
	return t.Depth[y*t.DepthStride+x]
}

// At returns the color at (x, y).
func (t *Target[S]) At(x, y int) color.RGBA {
	return t.order(t.Color.RGBAAt(x, y))
}

// order converts between color.RGBA and the stored byte order. It is its
// own inverse.
func (t *Target[S]) order(c color.RGBA) color.RGBA {
	if t.BGRA {
		c.R, c.B = c.B, c.R
	}
	return c
}
