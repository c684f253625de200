package blend

import "image/color"

// AlphaCutoff is the alpha test threshold: texels below it are discarded.
const AlphaCutoff = 0x80

// Modulate multiplies a texel by a vertex color channel by channel.
// White leaves the texel unchanged.
func Modulate(texel, c color.RGBA) color.RGBA {
	return color.RGBA{
		R: mulDiv255(texel.R, c.R),
		G: mulDiv255(texel.G, c.G),
		B: mulDiv255(texel.B, c.B),
		A: mulDiv255(texel.A, c.A),
	}
}

// Over blends src onto dst using src alpha: src*a + dst*(255-a).
// The result is opaque, except that a zero alpha returns dst untouched.
func Over(src, dst color.RGBA) color.RGBA {
	a := src.A
	switch a {
	case 255:
		return color.RGBA{R: src.R, G: src.G, B: src.B, A: 255}
	case 0:
		return dst
	}
	return color.RGBA{
		R: mix(src.R, dst.R, a),
		G: mix(src.G, dst.G, a),
		B: mix(src.B, dst.B, a),
		A: 255,
	}
}

// Opaque returns c with alpha forced to 255.
func Opaque(c color.RGBA) color.RGBA {
	c.A = 255
	return c
}

// Fog mixes c towards fog by visibility: 255 is unfogged, 0 is fully fogged.
// The alpha of c is kept.
func Fog(c, fog color.RGBA, visibility uint8) color.RGBA {
	if visibility == 255 {
		return c
	}
	return color.RGBA{
		R: mix(c.R, fog.R, visibility),
		G: mix(c.G, fog.G, visibility),
		B: mix(c.B, fog.B, visibility),
		A: c.A,
	}
}

// Mask selects the color channels a draw may write.
type Mask struct {
	R, G, B, A bool
}

// MaskAll enables every channel.
var MaskAll = Mask{R: true, G: true, B: true, A: true}

// None reports whether every channel is masked off.
func (m Mask) None() bool { return !m.R && !m.G && !m.B && !m.A }

// All reports whether every channel is writable.
func (m Mask) All() bool { return m.R && m.G && m.B && m.A }

// Apply returns src with the masked-off channels taken from dst.
func (m Mask) Apply(src, dst color.RGBA) color.RGBA {
	if !m.R {
		src.R = dst.R
	}
	if !m.G {
		src.G = dst.G
	}
	if !m.B {
		src.B = dst.B
	}
	if !m.A {
		src.A = dst.A
	}
	return src
}
