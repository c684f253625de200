package raster

import (
	"image"
	"image/color"
)

// Texture is a read-only view of power-of-two RGBA8 texels. Coordinates wrap.
type Texture struct {
	Pix    []uint8
	Stride int
	Width  int
	Height int
}

var white = &Texture{Pix: []uint8{255, 255, 255, 255}, Stride: 4, Width: 1, Height: 1}

// White returns the 1x1 opaque white texture used when nothing is bound.
func White() *Texture { return white }

// TextureOf views img as a texture. The caller guarantees power-of-two
// dimensions.
func TextureOf(img *image.RGBA) *Texture {
	return &Texture{
		Pix:    img.Pix,
		Stride: img.Stride,
		Width:  img.Rect.Dx(),
		Height: img.Rect.Dy(),
	}
}

// Texel returns the texel at (x, y), wrapping both coordinates.
func (t *Texture) Texel(x, y int) color.RGBA {
	x &= t.Width - 1
	y &= t.Height - 1
	i := y*t.Stride + x*4
	p := t.Pix[i : i+4 : i+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Solid reports whether the texture is a single texel.
func (t *Texture) Solid() bool { return t.Width == 1 && t.Height == 1 }
