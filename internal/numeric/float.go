package numeric

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/fixed"
)

// Float is the native float32 backend.
type Float struct{}

var _ Math[float32] = Float{}

func (Float) Name() string { return "float" }

func (Float) FromFloat(f float32) float32 { return f }
func (Float) FromInt(n int) float32       { return float32(n) }
func (Float) ToFloat(v float32) float32   { return v }

func (Float) Mul(a, b float32) float32 { return a * b }
func (Float) Div(a, b float32) float32 { return a / b }

func (Float) Recip(v float32) float32 {
	if v == 0 {
		return 0
	}
	return 1 / v
}

func (Float) Floor(v float32) int { return int(math32.Floor(v)) }

// maxScreen keeps unclipped 2D coordinates inside the 26.6 range.
const maxScreen = 1 << 24

func (Float) Subpixel(v float32) fixed.Int26_6 {
	v = max(-maxScreen, min(maxScreen, v))
	return fixed.Int26_6(math32.Floor(v*64 + 0.5))
}

func (Float) Far() float32 { return math32.MaxFloat32 }

func (Float) Epsilon() float32 { return 1e-6 }

func (Float) Barycentric(e0, e1, e2, area int64) (float32, float32, float32) {
	inv := 1 / float64(area)
	return float32(float64(e0) * inv), float32(float64(e1) * inv), float32(float64(e2) * inv)
}
