package notan

import (
	"math"
	"testing"

	"golang.org/x/image/math/f32"
)

const matrixEps = 1e-5

func matNear(a, b f32.Mat4) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > matrixEps {
			return false
		}
	}
	return true
}

func TestIdentityTransform(t *testing.T) {
	x, y, z := transformPoint(Identity(), 3, -4, 5)
	if x != 3 || y != -4 || z != 5 {
		t.Errorf("identity transform moved point: (%v, %v, %v)", x, y, z)
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	if got := Mul(m, Identity()); !matNear(got, m) {
		t.Errorf("Mul(m, I) = %v, want %v", got, m)
	}
	if got := Mul(Identity(), m); !matNear(got, m) {
		t.Errorf("Mul(I, m) = %v, want %v", got, m)
	}
}

func TestTranslate(t *testing.T) {
	x, y, z := transformPoint(Translate(10, 20, 30), 1, 2, 3)
	if x != 11 || y != 22 || z != 33 {
		t.Errorf("translate = (%v, %v, %v), want (11, 22, 33)", x, y, z)
	}
}

func TestScale(t *testing.T) {
	x, y, z := transformPoint(Scale(2, 3, 4), 1, 1, 1)
	if x != 2 || y != 3 || z != 4 {
		t.Errorf("scale = (%v, %v, %v), want (2, 3, 4)", x, y, z)
	}
}

func TestMulComposesRightToLeft(t *testing.T) {
	// Scale then translate: T*S maps (1,1,1) to (2+10, 3+20, 4+30).
	m := Mul(Translate(10, 20, 30), Scale(2, 3, 4))
	x, y, z := transformPoint(m, 1, 1, 1)
	if x != 12 || y != 23 || z != 34 {
		t.Errorf("T*S = (%v, %v, %v), want (12, 23, 34)", x, y, z)
	}
}

func TestOrtho(t *testing.T) {
	// Typical 2D setup: origin top-left, y down.
	m := Ortho(0, 800, 600, 0, -1, 1)

	tests := []struct {
		name         string
		px, py       float32
		wantX, wantY float32
	}{
		{"top-left", 0, 0, -1, 1},
		{"bottom-right", 800, 600, 1, -1},
		{"center", 400, 300, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, _ := transformPoint(m, tt.px, tt.py, 0)
			if math.Abs(float64(x-tt.wantX)) > matrixEps || math.Abs(float64(y-tt.wantY)) > matrixEps {
				t.Errorf("(%v, %v) -> (%v, %v), want (%v, %v)", tt.px, tt.py, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}
