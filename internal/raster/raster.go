// Package raster scan-converts screen-space triangles into a color and depth
// target.
//
// Screen coordinates are snapped to 26.6 fixed point and the three edge
// functions are evaluated in int64, stepped incrementally across each row.
// Pixel centers sit at (x+0.5, y+0.5). Shared edges follow the top-left rule
// so that the two triangles of a quad never touch the same pixel.
//
// Depth is near-is-smaller: a fragment passes when 0 <= z <= stored, and the
// buffer is cleared to the backend's far value.
package raster

import (
	"image"
	"image/color"

	"github.com/gogpu/softgpu/internal/blend"
	"github.com/gogpu/softgpu/internal/numeric"
)

// State is the per-draw render state read by the rasterizer.
type State struct {
	DepthTest  bool
	DepthWrite bool
	AlphaTest  bool
	AlphaBlend bool
	Cull       bool
	Textured   bool
	Mask       blend.Mask

	// Scissor limits drawing when ScissorTest is set.
	ScissorTest bool
	Scissor     image.Rectangle
}

// DefaultState is the state of a fresh device.
func DefaultState() State {
	return State{
		DepthTest:  true,
		DepthWrite: true,
		Mask:       blend.MaskAll,
	}
}

// Stats counts rasterizer work since the last reset.
type Stats struct {
	Triangles  int
	Culled     int
	Degenerate int
	Pixels     int
}

// Rasterizer draws triangles and sprites into a Target.
type Rasterizer[S numeric.Scalar, M numeric.Math[S]] struct {
	m      M
	target *Target[S]
	state  State

	tex        *Texture
	texW, texH S

	fog      Fog
	fogTable fogTable
	fogScale S

	stats Stats
}

// NewRasterizer returns a rasterizer with the default state and the white
// texture bound.
func NewRasterizer[S numeric.Scalar, M numeric.Math[S]](m M) *Rasterizer[S, M] {
	r := &Rasterizer[S, M]{m: m, state: DefaultState()}
	r.SetTexture(nil)
	return r
}

// SetTarget selects the buffers to draw into.
func (r *Rasterizer[S, M]) SetTarget(t *Target[S]) { r.target = t }

// Target returns the current target.
func (r *Rasterizer[S, M]) Target() *Target[S] { return r.target }

// SetState replaces the render state.
func (r *Rasterizer[S, M]) SetState(s State) { r.state = s }

// State returns the render state.
func (r *Rasterizer[S, M]) State() State { return r.state }

// SetTexture binds t; nil binds the white texture.
func (r *Rasterizer[S, M]) SetTexture(t *Texture) {
	if t == nil {
		t = White()
	}
	r.tex = t
	r.texW = r.m.FromInt(t.Width)
	r.texH = r.m.FromInt(t.Height)
}

// SetFog updates fog parameters and rebuilds the visibility table.
func (r *Rasterizer[S, M]) SetFog(f Fog) {
	r.fog = f
	if !f.Enabled {
		return
	}
	r.fogTable = buildFogTable(f)
	r.fogScale = r.m.FromFloat((fogSteps - 1) / r.fogTable.span)
}

// Fog returns the fog parameters.
func (r *Rasterizer[S, M]) Fog() Fog { return r.fog }

// Stats returns the work counters.
func (r *Rasterizer[S, M]) Stats() Stats { return r.stats }

// ResetStats zeroes the work counters.
func (r *Rasterizer[S, M]) ResetStats() { r.stats = Stats{} }

// clipRect is the pixel rectangle a draw may touch.
func (r *Rasterizer[S, M]) clipRect() image.Rectangle {
	b := r.target.Bounds()
	if r.state.ScissorTest {
		b = b.Intersect(r.state.Scissor)
	}
	return b
}

// edge is the doubled signed area of (a, b, p).
func edge(ax, ay, bx, by, px, py int64) int64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// topLeft reports whether a->b is a top or left edge of a positive-area
// triangle in y-down coordinates.
func topLeft(ax, ay, bx, by int64) bool {
	dy := by - ay
	return dy < 0 || (dy == 0 && bx-ax > 0)
}

func bias(ax, ay, bx, by int64) int64 {
	if topLeft(ax, ay, bx, by) {
		return 0
	}
	return 1
}

// Triangle draws a, b, c. The triangle is flat-colored with a's color.
func (r *Rasterizer[S, M]) Triangle(a, b, c *ScreenVertex[S]) {
	m := r.m
	st := &r.state

	x0, y0 := int64(m.Subpixel(a.X)), int64(m.Subpixel(a.Y))
	x1, y1 := int64(m.Subpixel(b.X)), int64(m.Subpixel(b.Y))
	x2, y2 := int64(m.Subpixel(c.X)), int64(m.Subpixel(c.Y))

	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		r.stats.Degenerate++
		return
	}
	if area < 0 {
		if st.Cull {
			r.stats.Culled++
			return
		}
		b, c = c, b
		x1, y1, x2, y2 = x2, y2, x1, y1
		area = -area
	}

	// Pixel px is covered when its center px*64+32 lies inside the box.
	clip := r.clipRect()
	minX := max(int((min(x0, x1, x2)-32+63)>>6), clip.Min.X)
	minY := max(int((min(y0, y1, y2)-32+63)>>6), clip.Min.Y)
	maxX := min(int((max(x0, x1, x2)-32)>>6), clip.Max.X-1)
	maxY := min(int((max(y0, y1, y2)-32)>>6), clip.Max.Y-1)
	if minX > maxX || minY > maxY {
		return
	}
	r.stats.Triangles++

	// Per-pixel and per-row increments of the three edge functions.
	dx0, dy0 := -(y2-y1)<<6, (x2-x1)<<6
	dx1, dy1 := -(y0-y2)<<6, (x0-x2)<<6
	dx2, dy2 := -(y1-y0)<<6, (x1-x0)<<6
	b0, b1, b2 := bias(x1, y1, x2, y2), bias(x2, y2, x0, y0), bias(x0, y0, x1, y1)

	px, py := int64(minX)<<6+32, int64(minY)<<6+32
	row0 := edge(x1, y1, x2, y2, px, py)
	row1 := edge(x2, y2, x0, y0, px, py)
	row2 := edge(x0, y0, x1, y1, px, py)

	sh := r.shaderFor(a.Color)
	t := r.target
	cpix, cstride := t.Color.Pix, t.Color.Stride

	for y := minY; y <= maxY; y++ {
		e0, e1, e2 := row0, row1, row2
		depthRow := y * t.DepthStride
		colorRow := y * cstride
		for x := minX; x <= maxX; x++ {
			if e0 >= b0 && e1 >= b1 && e2 >= b2 {
				w0, w1, w2 := m.Barycentric(e0, e1, e2, area)
				r.fragment(&sh, a, b, c, w0, w1, w2, depthRow+x, cpix[colorRow+x*4:colorRow+x*4+4:colorRow+x*4+4])
			}
			e0 += dx0
			e1 += dx1
			e2 += dx2
		}
		row0 += dy0
		row1 += dy1
		row2 += dy2
	}
}

// shader carries the per-triangle constants of the fragment stage.
type shader struct {
	color color.RGBA
	// solid is set when the fragment color does not depend on texture
	// coordinates: untextured draws and 1x1 textures.
	solid    bool
	column   bool
	fogOn    bool
	fogColor color.RGBA
}

func (r *Rasterizer[S, M]) shaderFor(c color.RGBA) shader {
	sh := shader{
		color:    c,
		fogOn:    r.fog.Enabled,
		fogColor: r.fog.Color,
	}
	switch {
	case !r.state.Textured:
		sh.solid = true
	case r.tex.Solid():
		sh.solid = true
		sh.color = blend.Modulate(r.tex.Texel(0, 0), c)
	case r.tex.Width == 1:
		sh.column = true
	}
	return sh
}

// fragment shades one covered pixel.
func (r *Rasterizer[S, M]) fragment(sh *shader, a, b, c *ScreenVertex[S], w0, w1, w2 S, di int, dst []uint8) {
	m := r.m
	st := &r.state
	t := r.target

	z := numeric.Dot3(m, w0, w1, w2, a.Z, b.Z, c.Z)
	if st.DepthTest && (z < 0 || z > t.Depth[di]) {
		return
	}
	if st.Mask.None() {
		if st.DepthWrite {
			t.Depth[di] = z
		}
		return
	}

	src := sh.color
	var invW S
	if !sh.solid || sh.fogOn {
		invW = numeric.Dot3(m, w0, w1, w2, a.InvW, b.InvW, c.InvW)
	}
	if !sh.solid {
		v := m.Div(numeric.Dot3(m, w0, w1, w2, a.V, b.V, c.V), invW)
		ty := m.Floor(m.Mul(v, r.texH))
		tx := 0
		if !sh.column {
			u := m.Div(numeric.Dot3(m, w0, w1, w2, a.U, b.U, c.U), invW)
			tx = m.Floor(m.Mul(u, r.texW))
		}
		src = blend.Modulate(r.tex.Texel(tx, ty), sh.color)
	}

	if st.AlphaTest && src.A < blend.AlphaCutoff {
		return
	}
	if st.DepthWrite {
		t.Depth[di] = z
	}
	if sh.fogOn {
		idx := m.Floor(m.Mul(m.Recip(invW), r.fogScale))
		src = blend.Fog(src, sh.fogColor, r.fogTable.visibility(idx))
	}
	r.put(dst, src)
}

// put writes src to the pixel dst with blending and the write mask applied.
func (r *Rasterizer[S, M]) put(dst []uint8, src color.RGBA) {
	st := &r.state
	old := r.target.order(color.RGBA{R: dst[0], G: dst[1], B: dst[2], A: dst[3]})

	var out color.RGBA
	if st.AlphaBlend {
		out = blend.Over(src, old)
	} else {
		out = blend.Opaque(src)
	}
	if !st.Mask.All() {
		out = st.Mask.Apply(out, old)
	}
	out = r.target.order(out)
	dst[0], dst[1], dst[2], dst[3] = out.R, out.G, out.B, out.A
	r.stats.Pixels++
}
