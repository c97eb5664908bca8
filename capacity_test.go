package notan

import (
	"errors"
	"math"
	"testing"

	"github.com/coder3112/notan/backend"
)

func TestPlatformCeiling(t *testing.T) {
	if got := platformCeiling(backend.IndexFormatUint16); got != math.MaxUint16 {
		t.Errorf("platformCeiling(Uint16) = %d, want %d", got, math.MaxUint16)
	}
	if got := platformCeiling(backend.IndexFormatUint32); got != math.MaxUint32 {
		t.Errorf("platformCeiling(Uint32) = %d, want %d", got, math.MaxUint32)
	}
}

func TestBatchIncrement(t *testing.T) {
	tests := []struct {
		stride int
		want   int
	}{
		{stride: 1, want: 65535},
		{stride: 3, want: 65535},
		{stride: 7, want: 65520}, // color layout: pos3 + color4
		{stride: 9, want: 65529}, // image layout: pos3 + color4 + uv2
		{stride: 5, want: 65535},
	}
	for _, tt := range tests {
		got, err := batchIncrement(tt.stride)
		if err != nil {
			t.Errorf("batchIncrement(%d) error: %v", tt.stride, err)
			continue
		}
		if got != tt.want {
			t.Errorf("batchIncrement(%d) = %d, want %d", tt.stride, got, tt.want)
		}
	}
}

func TestBatchIncrementProperties(t *testing.T) {
	// For every plausible stride the result must be the LARGEST value not
	// exceeding 65535 divisible by both the stride and 3.
	for stride := 1; stride <= 32; stride++ {
		got, err := batchIncrement(stride)
		if err != nil {
			t.Fatalf("batchIncrement(%d) error: %v", stride, err)
		}
		if got <= 0 || got > math.MaxUint16 {
			t.Fatalf("batchIncrement(%d) = %d, out of range", stride, got)
		}
		if got%stride != 0 || got%3 != 0 {
			t.Errorf("batchIncrement(%d) = %d, not divisible by stride and 3", stride, got)
		}
		for n := got + 1; n <= math.MaxUint16; n++ {
			if n%stride == 0 && n%3 == 0 {
				t.Errorf("batchIncrement(%d) = %d, but %d also qualifies", stride, got, n)
				break
			}
		}
	}
}

func TestBatchIncrementInvalidStride(t *testing.T) {
	for _, stride := range []int{0, -1, -7} {
		if _, err := batchIncrement(stride); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("batchIncrement(%d) error = %v, want ErrInvalidConfiguration", stride, err)
		}
	}
}
