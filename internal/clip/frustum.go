// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package clip clips primitives against the view frustum in homogeneous
// clip space and keeps nested pixel scissor rectangles.
package clip

import (
	"image/color"

	"github.com/gogpu/softgpu/internal/geom"
	"github.com/gogpu/softgpu/internal/numeric"
)

// Plane identifies one of the six frustum planes in clip space.
type Plane uint8

const (
	PlaneLeft   Plane = iota // x + w >= 0
	PlaneRight               // w - x >= 0
	PlaneBottom              // y + w >= 0
	PlaneTop                 // w - y >= 0
	PlaneNear                // z >= 0
	PlaneFar                 // w - z*k >= 0

	numPlanes = 6
)

// String returns the plane name.
func (p Plane) String() string {
	switch p {
	case PlaneLeft:
		return "left"
	case PlaneRight:
		return "right"
	case PlaneBottom:
		return "bottom"
	case PlaneTop:
		return "top"
	case PlaneNear:
		return "near"
	case PlaneFar:
		return "far"
	default:
		return "invalid"
	}
}

// MaxVertices bounds the clipped polygon. A quad clipped by six planes gains
// at most one vertex per plane (10), the buffer leaves headroom.
const MaxVertices = 16

// Polygon is a fixed-capacity convex polygon in clip space.
type Polygon[S numeric.Scalar] struct {
	V [MaxVertices]geom.ClipVertex[S]
	N int
}

// Quad is the pipeline's input primitive.
type Quad[S numeric.Scalar] [4]geom.ClipVertex[S]

// Frustum clips primitives against the six clip-space planes.
// The zero value is not usable; create one with NewFrustum.
type Frustum[S numeric.Scalar, M numeric.Math[S]] struct {
	m     M
	farK  S
	half  S
	bufA  Polygon[S]
	bufB  Polygon[S]
	stats Stats
}

// Stats counts clipper outcomes since the last reset.
type Stats struct {
	Inside    int // quads that took the fast path
	Clipped   int // quads that produced a partial polygon
	Discarded int // quads that were fully outside
}

// NewFrustum creates a clipper. farScale is the k of the far plane w - z*k.
func NewFrustum[S numeric.Scalar, M numeric.Math[S]](m M, farScale float32) *Frustum[S, M] {
	return &Frustum[S, M]{
		m:    m,
		farK: m.FromFloat(farScale),
		half: m.FromFloat(0.5),
	}
}

// SetFarScale changes k in the far plane w - z*k >= 0.
func (f *Frustum[S, M]) SetFarScale(k float32) { f.farK = f.m.FromFloat(k) }

// Stats returns the outcome counters.
func (f *Frustum[S, M]) Stats() Stats { return f.stats }

// ResetStats zeroes the outcome counters.
func (f *Frustum[S, M]) ResetStats() { f.stats = Stats{} }

// Distance returns the signed distance of v to plane p; >= 0 is inside.
func (f *Frustum[S, M]) Distance(v *geom.ClipVertex[S], p Plane) S {
	switch p {
	case PlaneLeft:
		return v.X + v.W
	case PlaneRight:
		return v.W - v.X
	case PlaneBottom:
		return v.Y + v.W
	case PlaneTop:
		return v.W - v.Y
	case PlaneNear:
		return v.Z
	default:
		return v.W - f.m.Mul(v.Z, f.farK)
	}
}

// Inside reports whether all four vertices satisfy all six planes.
func (f *Frustum[S, M]) Inside(q *Quad[S]) bool {
	for p := Plane(0); p < numPlanes; p++ {
		for i := range q {
			if f.Distance(&q[i], p) < 0 {
				return false
			}
		}
	}
	return true
}

// Clip clips the quad against all planes with Sutherland-Hodgman. The result
// is empty (N == 0) when the quad is fully outside, otherwise a convex polygon
// of 3 or more vertices to be fan-triangulated from vertex 0. The returned
// polygon aliases internal storage and is valid until the next call.
func (f *Frustum[S, M]) Clip(q *Quad[S]) *Polygon[S] {
	src, dst := &f.bufA, &f.bufB
	src.N = 0
	degenerate := true
	for i := range q {
		src.V[i] = q[i]
		if q[i].W != 0 {
			degenerate = false
		}
	}
	if degenerate {
		f.stats.Discarded++
		return src
	}
	src.N = len(q)

	for p := Plane(0); p < numPlanes; p++ {
		f.clipPlane(src, dst, p)
		if dst.N == 0 {
			f.stats.Discarded++
			return dst
		}
		src, dst = dst, src
	}
	if src.N < 3 {
		f.stats.Discarded++
		src.N = 0
		return src
	}
	f.stats.Clipped++
	return src
}

// CountInside records a quad that skipped clipping.
func (f *Frustum[S, M]) CountInside() { f.stats.Inside++ }

// clipPlane walks the edges of in and writes the part on the inside of p to out.
func (f *Frustum[S, M]) clipPlane(in, out *Polygon[S], p Plane) {
	out.N = 0
	if in.N == 0 {
		return
	}

	prev := &in.V[in.N-1]
	dPrev := f.Distance(prev, p)
	for i := 0; i < in.N; i++ {
		cur := &in.V[i]
		dCur := f.Distance(cur, p)

		switch {
		case dPrev >= 0 && dCur >= 0:
			f.emit(out, *cur)
		case dPrev >= 0 && dCur < 0:
			f.emit(out, f.intersect(prev, cur, dPrev, dCur))
		case dPrev < 0 && dCur >= 0:
			f.emit(out, f.intersect(prev, cur, dPrev, dCur))
			f.emit(out, *cur)
		}

		prev, dPrev = cur, dCur
	}
}

func (f *Frustum[S, M]) emit(out *Polygon[S], v geom.ClipVertex[S]) {
	if out.N < MaxVertices {
		out.V[out.N] = v
		out.N++
	}
}

// intersect returns the point where edge a-b crosses the plane, with
// t = dA / (dA - dB) clamped to [0, 1].
func (f *Frustum[S, M]) intersect(a, b *geom.ClipVertex[S], dA, dB S) geom.ClipVertex[S] {
	m := f.m
	var zero S
	one := m.FromInt(1)

	t := f.half
	if denom := dA - dB; numeric.Abs(denom) >= m.Epsilon() {
		t = numeric.Clamp(m.Div(dA, denom), zero, one)
	}

	return geom.ClipVertex[S]{
		X:     numeric.Lerp(m, a.X, b.X, t),
		Y:     numeric.Lerp(m, a.Y, b.Y, t),
		Z:     numeric.Lerp(m, a.Z, b.Z, t),
		W:     numeric.Lerp(m, a.W, b.W, t),
		U:     numeric.Lerp(m, a.U, b.U, t),
		V:     numeric.Lerp(m, a.V, b.V, t),
		Color: lerpColor(m, a, b, t),
	}
}

// lerpColor interpolates the packed colors channel by channel.
func lerpColor[S numeric.Scalar, M numeric.Math[S]](m M, a, b *geom.ClipVertex[S], t S) (c color.RGBA) {
	half := m.FromFloat(0.5)
	ch := func(x, y uint8) uint8 {
		v := m.Floor(numeric.Lerp(m, m.FromInt(int(x)), m.FromInt(int(y)), t) + half)
		return uint8(max(0, min(255, v)))
	}
	c.R = ch(a.Color.R, b.Color.R)
	c.G = ch(a.Color.G, b.Color.G)
	c.B = ch(a.Color.B, b.Color.B)
	c.A = ch(a.Color.A, b.Color.A)
	return c
}
