package raster

import (
	"image"
	"image/color"

	"github.com/gogpu/softgpu/internal/geom"
	"github.com/gogpu/softgpu/internal/numeric"
)

// ScreenVertex is a vertex after the perspective divide.
//
// X and Y are pixel coordinates, Z is the comparable depth z/w, InvW is 1/w,
// and U, V are premultiplied by InvW so that they interpolate linearly in
// screen space.
type ScreenVertex[S numeric.Scalar] struct {
	X, Y  S
	Z     S
	InvW  S
	U, V  S
	Color color.RGBA
}

// Viewport maps clip-space vertices to pixels.
type Viewport[S numeric.Scalar, M numeric.Math[S]] struct {
	m      M
	rect   image.Rectangle
	x0, y0 S
	hw, hh S
	one    S
}

// NewViewport returns a mapper for r.
func NewViewport[S numeric.Scalar, M numeric.Math[S]](m M, r image.Rectangle) *Viewport[S, M] {
	vp := &Viewport[S, M]{m: m, one: m.FromInt(1)}
	vp.Set(r)
	return vp
}

// Set changes the target rectangle.
func (vp *Viewport[S, M]) Set(r image.Rectangle) {
	m := vp.m
	vp.rect = r
	vp.x0 = m.FromInt(r.Min.X)
	vp.y0 = m.FromInt(r.Min.Y)
	vp.hw = m.Div(m.FromInt(r.Dx()), m.FromInt(2))
	vp.hh = m.Div(m.FromInt(r.Dy()), m.FromInt(2))
}

// Rect returns the target rectangle.
func (vp *Viewport[S, M]) Rect() image.Rectangle { return vp.rect }

// Map divides v by w and maps it into the viewport. It reports false when w
// is too close to zero for the divide, in which case the triangle using the
// vertex must be skipped.
func (vp *Viewport[S, M]) Map(v *geom.ClipVertex[S], out *ScreenVertex[S]) bool {
	m := vp.m
	if v.W < m.Epsilon() {
		return false
	}
	invW := m.Recip(v.W)

	out.X = vp.x0 + m.Mul(vp.hw, vp.one+m.Mul(v.X, invW))
	out.Y = vp.y0 + m.Mul(vp.hh, vp.one-m.Mul(v.Y, invW))
	// Depth needs z/w to the last bit; Q16 z*invW cannot order distant
	// surfaces.
	out.Z = m.Div(v.Z, v.W)
	out.InvW = invW
	out.U = m.Mul(v.U, invW)
	out.V = m.Mul(v.V, invW)
	out.Color = v.Color
	return true
}
