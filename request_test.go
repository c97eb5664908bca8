package notan

import (
	"errors"
	"testing"

	"github.com/coder3112/notan/backend"
)

func TestDrawRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     DrawRequest
		needUV  bool
		wantErr bool
	}{
		{
			name: "valid triangle",
			req: DrawRequest{
				Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
				Indices:  []uint32{0, 1, 2},
			},
		},
		{
			name: "valid with uv",
			req: DrawRequest{
				Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
				UVs:      []float32{0, 0, 1, 0, 0, 1},
				Indices:  []uint32{0, 1, 2},
			},
			needUV: true,
		},
		{
			name: "vertex stream not a multiple of 3",
			req: DrawRequest{
				Vertices: []float32{0, 0, 0, 1},
				Indices:  []uint32{0},
			},
			wantErr: true,
		},
		{
			name: "index out of range",
			req: DrawRequest{
				Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
				Indices:  []uint32{0, 1, 3},
			},
			wantErr: true,
		},
		{
			name: "more vertex records than index entries",
			req: DrawRequest{
				Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
				Indices:  []uint32{0, 1},
			},
			wantErr: true,
		},
		{
			name: "uv stream too short",
			req: DrawRequest{
				Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
				UVs:      []float32{0, 0},
				Indices:  []uint32{0, 1, 2},
			},
			needUV:  true,
			wantErr: true,
		},
		{
			name:    "empty request",
			req:     DrawRequest{},
			wantErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.validate(tt.needUV)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedRequest) {
					t.Errorf("validate() = %v, want ErrMalformedRequest", err)
				}
				return
			}
			if err != nil {
				t.Errorf("validate() = %v, want nil", err)
			}
		})
	}
}

func TestPushMalformedLeavesStateUntouched(t *testing.T) {
	b, h := newTestColorBatcher(t, backend.IndexFormatUint16)

	req := DrawRequest{
		Vertices:   []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:    []uint32{0, 1, 9},
		Color:      White,
		Alpha:      1,
		Transform:  Identity(),
		Projection: Identity(),
	}
	if err := b.Push(&req); !errors.Is(err, ErrMalformedRequest) {
		t.Fatalf("Push() = %v, want ErrMalformedRequest", err)
	}
	if b.Pending() != 0 {
		t.Errorf("Pending() = %d after rejected push, want 0", b.Pending())
	}
	if h.DrawCount() != 0 {
		t.Errorf("DrawCount() = %d after rejected push, want 0", h.DrawCount())
	}
}
