// Package geom holds the vertex and matrix types shared by the pipeline
// stages, and the vertex transformer.
//
// Matrices are row-major with translation in the last row: a vertex is a row
// vector multiplied on the left, so p' = p * M. Composition therefore reads
// left to right: p * (View * Proj) == (p * View) * Proj.
package geom

import (
	"image/color"

	"github.com/gogpu/softgpu/internal/numeric"
)

// Vertex is an object-space vertex as supplied by the caller.
// U and V are ignored by the colored-only vertex format.
type Vertex struct {
	X, Y, Z float32
	Color   color.RGBA
	U, V    float32
}

// Format selects the vertex layout read by draw calls.
type Format uint8

const (
	// FormatColored vertices carry position and color only.
	FormatColored Format = iota
	// FormatTextured vertices also carry a texture coordinate.
	FormatTextured
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatColored:
		return "colored"
	case FormatTextured:
		return "textured"
	default:
		return "unknown"
	}
}

// ClipVertex is a vertex in homogeneous clip space. It only lives for the
// duration of one primitive.
type ClipVertex[S numeric.Scalar] struct {
	X, Y, Z, W S
	U, V       S
	Color      color.RGBA
}

// Mat4 is a row-major 4x4 matrix in the backend representation.
type Mat4[S numeric.Scalar] [4][4]S

// FromFloats converts a row-major float32 matrix to the backend representation.
func FromFloats[S numeric.Scalar, M numeric.Math[S]](m M, src [16]float32) Mat4[S] {
	var dst Mat4[S]
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			dst[r][c] = m.FromFloat(src[r*4+c])
		}
	}
	return dst
}

// Mul returns a * b.
func Mul[S numeric.Scalar, M numeric.Math[S]](m M, a, b Mat4[S]) Mat4[S] {
	var dst Mat4[S]
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			dst[i][j] = m.Mul(a[i][0], b[0][j]) + m.Mul(a[i][1], b[1][j]) +
				m.Mul(a[i][2], b[2][j]) + m.Mul(a[i][3], b[3][j])
		}
	}
	return dst
}

// Transform maps an object-space position through mvp into clip space.
func Transform[S numeric.Scalar, M numeric.Math[S]](m M, mvp *Mat4[S], x, y, z S) (cx, cy, cz, cw S) {
	cx = m.Mul(x, mvp[0][0]) + m.Mul(y, mvp[1][0]) + m.Mul(z, mvp[2][0]) + mvp[3][0]
	cy = m.Mul(x, mvp[0][1]) + m.Mul(y, mvp[1][1]) + m.Mul(z, mvp[2][1]) + mvp[3][1]
	cz = m.Mul(x, mvp[0][2]) + m.Mul(y, mvp[1][2]) + m.Mul(z, mvp[2][2]) + mvp[3][2]
	cw = m.Mul(x, mvp[0][3]) + m.Mul(y, mvp[1][3]) + m.Mul(z, mvp[2][3]) + mvp[3][3]
	return cx, cy, cz, cw
}

// Transformer converts caller vertices to clip space with the current MVP.
type Transformer[S numeric.Scalar, M numeric.Math[S]] struct {
	m   M
	mvp Mat4[S]

	// offU and offV are added to textured coordinates (animated liquids).
	offU, offV S
}

// SetMVP replaces the combined transform.
func (t *Transformer[S, M]) SetMVP(mvp Mat4[S]) { t.mvp = mvp }

// MVP returns the combined transform.
func (t *Transformer[S, M]) MVP() Mat4[S] { return t.mvp }

// SetTextureOffset sets the offset added to texture coordinates.
func (t *Transformer[S, M]) SetTextureOffset(u, v float32) {
	t.offU, t.offV = t.m.FromFloat(u), t.m.FromFloat(v)
}

// Vertex transforms v into clip space.
func (t *Transformer[S, M]) Vertex(v *Vertex, format Format) ClipVertex[S] {
	m := t.m
	var out ClipVertex[S]
	out.X, out.Y, out.Z, out.W = Transform(m, &t.mvp, m.FromFloat(v.X), m.FromFloat(v.Y), m.FromFloat(v.Z))
	out.Color = v.Color
	if format == FormatTextured {
		out.U = m.FromFloat(v.U) + t.offU
		out.V = m.FromFloat(v.V) + t.offV
	}
	return out
}
