package notan

import (
	"fmt"
	"math"

	"github.com/coder3112/notan/backend"
)

// platformCeiling returns the absolute upper bound any batch buffer may
// grow to: 65535 when the target index format is 16-bit, otherwise the
// 32-bit maximum. Pure function of the backend capability; sampled once
// at batcher construction.
func platformCeiling(f backend.IndexFormat) int {
	if f == backend.IndexFormatUint16 {
		return math.MaxUint16
	}
	return math.MaxUint32
}

// batchIncrement computes the initial batch size and growth step for the
// given vertex stride: the largest value not exceeding 65535 that is
// divisible by both the stride and 3, so every allocation holds a whole
// number of vertices and a whole number of triangles.
//
// The scan terminates for any stride with stride*3 <= 65535; a zero or
// negative stride is a configuration error.
func batchIncrement(stride int) (int, error) {
	if stride <= 0 {
		return 0, fmt.Errorf("%w: vertex stride must be positive, got %d", ErrInvalidConfiguration, stride)
	}
	for n := math.MaxUint16; n > 0; n-- {
		if n%stride == 0 && n%3 == 0 {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: no batch size <= %d divisible by stride %d and 3", ErrInvalidConfiguration, math.MaxUint16, stride)
}
