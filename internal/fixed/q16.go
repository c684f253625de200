// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package fixed implements 16.16 fixed-point arithmetic for targets without
// a usable FPU.
//
// Every operation that can overflow goes through a 64-bit intermediate and
// saturates to the int32 range, so runaway geometry degrades into clamped
// coordinates instead of wrapping around the screen.
//
// Type Reference:
//   - Q16: 16.16 fixed point, range about -32768 to +32768 with 1/65536 precision
package fixed

import "golang.org/x/image/math/fixed"

// Q16 is a 16.16 fixed-point number (16 fractional bits).
type Q16 int32

const (
	// Shift is the number of fractional bits in Q16.
	Shift = 16

	// One is 1.0 in Q16 representation (2^16 = 65536).
	One Q16 = 1 << Shift

	// Half is 0.5 in Q16 representation.
	Half Q16 = 1 << (Shift - 1)

	// Mask is the mask for the fractional part of Q16.
	Mask = One - 1

	// Max is the largest representable Q16 value.
	Max Q16 = 0x7FFFFFFF

	// Min is the smallest representable Q16 value.
	Min Q16 = -0x80000000
)

// FromInt converts an integer to Q16. The integer must fit in 16 bits.
func FromInt(n int) Q16 {
	return saturate(int64(n) << Shift)
}

// FromFloat converts a float32 to Q16, truncating toward zero.
func FromFloat(f float32) Q16 {
	return saturate(int64(f * float32(One)))
}

// ToFloat converts a Q16 to float32.
func (q Q16) ToFloat() float32 {
	return float32(q) / float32(One)
}

// Floor returns the largest integer less than or equal to q.
func (q Q16) Floor() int {
	return int(q >> Shift)
}

// Ceil returns the smallest integer greater than or equal to q.
func (q Q16) Ceil() int {
	return int((int64(q) + int64(Mask)) >> Shift)
}

// Abs returns the absolute value of q, saturating Min to Max.
func (q Q16) Abs() Q16 {
	if q < 0 {
		if q == Min {
			return Max
		}
		return -q
	}
	return q
}

// Subpixel converts q to 26.6 fixed point (10 bits of precision dropped).
func (q Q16) Subpixel() fixed.Int26_6 {
	return fixed.Int26_6(q >> (Shift - 6))
}

// Mul multiplies two Q16 values using a 64-bit intermediate.
func Mul(a, b Q16) Q16 {
	return saturate((int64(a) * int64(b)) >> Shift)
}

// Div divides a by b using a 64-bit intermediate.
// Division by zero returns the signed maximum.
func Div(a, b Q16) Q16 {
	if b == 0 {
		if a >= 0 {
			return Max
		}
		return -Max
	}
	return saturate((int64(a) << Shift) / int64(b))
}

// Recip returns 1/q computed as 2^32 / q.
// The reciprocal of zero is zero; callers reject zero w before projecting.
func Recip(q Q16) Q16 {
	if q == 0 {
		return 0
	}
	return saturate((int64(One) << Shift) / int64(q))
}

// Lerp returns a + (b-a)*t for t in [0, One].
func Lerp(a, b, t Q16) Q16 {
	inv := int64(One - t)
	return saturate((inv*int64(a) + int64(t)*int64(b)) >> Shift)
}

// saturate clamps an int64 to the Q16 range.
func saturate(v int64) Q16 {
	if v > int64(Max) {
		return Max
	}
	if v < int64(Min) {
		return Min
	}
	return Q16(v)
}
