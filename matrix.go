package softgpu

import "github.com/chewxy/math32"

// Matrix is a 4x4 transformation in row-major order with the translation in
// the last row:
//
//	| m0  m1  m2  m3  |
//	| m4  m5  m6  m7  |
//	| m8  m9  m10 m11 |
//	| m12 m13 m14 m15 |
//
// Vertices are row vectors, so a point transforms as p' = p * M and
// a.Mul(b) applies a first, then b.
type Matrix [16]float32

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(x, y, z float32) Matrix {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale creates a scaling matrix.
func Scale(x, y, z float32) Matrix {
	m := Identity()
	m[0], m[5], m[10] = x, y, z
	return m
}

// RotateX creates a rotation about the X axis (angle in radians).
func RotateX(angle float32) Matrix {
	s, c := math32.Sincos(angle)
	m := Identity()
	m[5], m[6] = c, s
	m[9], m[10] = -s, c
	return m
}

// RotateY creates a rotation about the Y axis (angle in radians).
func RotateY(angle float32) Matrix {
	s, c := math32.Sincos(angle)
	m := Identity()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

// RotateZ creates a rotation about the Z axis (angle in radians).
func RotateZ(angle float32) Matrix {
	s, c := math32.Sincos(angle)
	m := Identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// Orthographic maps x in [0, width] and y in [0, height] to the screen with
// y down, and view z in [-zNear, -zFar] to depth [0, 1].
func Orthographic(width, height, zNear, zFar float32) Matrix {
	d := zNear - zFar
	return Matrix{
		2 / width, 0, 0, 0,
		0, -2 / height, 0, 0,
		0, 0, 1 / d, 0,
		-1, 1, zNear / d, 1,
	}
}

// Perspective creates a right-handed projection with clip w = -z and depth
// mapped to [0, 1] between zNear and zFar. fovY is in radians.
func Perspective(fovY, aspect, zNear, zFar float32) Matrix {
	f := 1 / math32.Tan(fovY/2)
	d := zNear - zFar
	return Matrix{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, zFar / d, -1,
		0, 0, zNear * zFar / d, 0,
	}
}

// Mul returns m * other.
func (m Matrix) Mul(other Matrix) Matrix {
	var r Matrix
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i*4+j] = m[i*4]*other[j] + m[i*4+1]*other[4+j] + m[i*4+2]*other[8+j] + m[i*4+3]*other[12+j]
		}
	}
	return r
}

// Transform applies the matrix to the row vector (x, y, z, w).
func (m Matrix) Transform(x, y, z, w float32) (float32, float32, float32, float32) {
	return x*m[0] + y*m[4] + z*m[8] + w*m[12],
		x*m[1] + y*m[5] + z*m[9] + w*m[13],
		x*m[2] + y*m[6] + z*m[10] + w*m[14],
		x*m[3] + y*m[7] + z*m[11] + w*m[15]
}

// IsIdentity returns true if this is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}
