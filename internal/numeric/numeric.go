// Package numeric defines the scalar arithmetic the software pipeline is
// written against, and its two implementations: native float32 and Q16.16
// fixed point.
//
// The pipeline packages are generic over a Scalar type S and a Math[S]
// implementation M. Addition, subtraction, negation and comparison use the
// native operators; everything that depends on the representation
// (multiplication, division, reciprocal, conversions) goes through M.
// Both implementations are zero-sized, so instantiating the pipeline with one
// of them is a build-time strategy choice and no interface value sits on the
// per-pixel path.
package numeric

import "golang.org/x/image/math/fixed"

// Scalar is the set of representations the pipeline can run on.
type Scalar interface {
	~float32 | ~int32
}

// Math is the arithmetic contract for a Scalar representation.
type Math[S Scalar] interface {
	// Name identifies the backend in logs and device info.
	Name() string

	FromFloat(f float32) S
	FromInt(n int) S
	ToFloat(v S) float32

	Mul(a, b S) S
	Div(a, b S) S
	Recip(v S) S

	// Floor returns the largest integer <= v.
	Floor(v S) int

	// Subpixel converts a screen coordinate to 26.6 fixed point.
	Subpixel(v S) fixed.Int26_6

	// Far is the depth buffer clear value: farther than any visible depth.
	Far() S

	// Epsilon is the smallest magnitude the pipeline divides by.
	Epsilon() S

	// Barycentric normalizes three edge function values by the triangle's
	// doubled area, returning weights that sum to one.
	Barycentric(e0, e1, e2, area int64) (S, S, S)
}

// Dot3 returns b0*a0 + b1*a1 + b2*a2.
func Dot3[S Scalar, M Math[S]](m M, b0, b1, b2, a0, a1, a2 S) S {
	return m.Mul(b0, a0) + m.Mul(b1, a1) + m.Mul(b2, a2)
}

// Lerp returns a + (b-a)*t.
func Lerp[S Scalar, M Math[S]](m M, a, b, t S) S {
	return a + m.Mul(b-a, t)
}

// Clamp limits v to [lo, hi].
func Clamp[S Scalar](v, lo, hi S) S {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Abs returns |v|.
func Abs[S Scalar](v S) S {
	if v < 0 {
		return -v
	}
	return v
}
