package notan

import (
	"golang.org/x/image/math/f32"
)

// Matrix helpers over f32.Mat4.
//
// f32.Mat4 stores elements in row-major order: m[4*r+c] is the element at
// row r, column c. Transforms multiply column vectors on the right, so a
// point p is mapped to M·(x, y, z, 1).

// Identity returns the 4x4 identity matrix.
func Identity() f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies two matrices (a * b).
func Mul(a, b f32.Mat4) f32.Mat4 {
	var out f32.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[4*r+k] * b[4*k+c]
			}
			out[4*r+c] = sum
		}
	}
	return out
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	}
}

// Scale returns a scaling matrix.
func Scale(x, y, z float32) f32.Mat4 {
	return f32.Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// Ortho returns an orthographic projection matrix mapping the given box to
// clip space. For a typical 2D setup use Ortho(0, w, h, 0, -1, 1): origin
// top-left, y down.
func Ortho(left, right, bottom, top, near, far float32) f32.Mat4 {
	rl := right - left
	tb := top - bottom
	fn := far - near
	return f32.Mat4{
		2 / rl, 0, 0, -(right + left) / rl,
		0, 2 / tb, 0, -(top + bottom) / tb,
		0, 0, -2 / fn, -(far + near) / fn,
		0, 0, 0, 1,
	}
}

// transformPoint applies m to the homogeneous point (x, y, z, 1) and
// returns the transformed x, y, z. The w component is discarded: batched
// 2D geometry uses affine transforms whose bottom row is (0, 0, 0, 1).
func transformPoint(m f32.Mat4, x, y, z float32) (float32, float32, float32) {
	tx := m[0]*x + m[1]*y + m[2]*z + m[3]
	ty := m[4]*x + m[5]*y + m[6]*z + m[7]
	tz := m[8]*x + m[9]*y + m[10]*z + m[11]
	return tx, ty, tz
}
