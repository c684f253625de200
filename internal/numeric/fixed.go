package numeric

import (
	"github.com/gogpu/softgpu/internal/fixed"
	xfixed "golang.org/x/image/math/fixed"
)

// Fixed is the Q16.16 backend for hardware without a capable FPU.
type Fixed struct{}

var _ Math[fixed.Q16] = Fixed{}

func (Fixed) Name() string { return "fixed" }

func (Fixed) FromFloat(f float32) fixed.Q16 { return fixed.FromFloat(f) }
func (Fixed) FromInt(n int) fixed.Q16       { return fixed.FromInt(n) }
func (Fixed) ToFloat(v fixed.Q16) float32   { return v.ToFloat() }

func (Fixed) Mul(a, b fixed.Q16) fixed.Q16 { return fixed.Mul(a, b) }
func (Fixed) Div(a, b fixed.Q16) fixed.Q16 { return fixed.Div(a, b) }
func (Fixed) Recip(v fixed.Q16) fixed.Q16  { return fixed.Recip(v) }

func (Fixed) Floor(v fixed.Q16) int { return v.Floor() }

func (Fixed) Subpixel(v fixed.Q16) xfixed.Int26_6 { return v.Subpixel() }

func (Fixed) Far() fixed.Q16 { return fixed.Max }

// Epsilon is 16/65536: below this a clip-plane denominator is treated as
// degenerate, matching the smallest step that survives the reciprocal.
func (Fixed) Epsilon() fixed.Q16 { return 16 }

func (Fixed) Barycentric(e0, e1, e2, area int64) (fixed.Q16, fixed.Q16, fixed.Q16) {
	return fixed.Q16((e0 << fixed.Shift) / area),
		fixed.Q16((e1 << fixed.Shift) / area),
		fixed.Q16((e2 << fixed.Shift) / area)
}
