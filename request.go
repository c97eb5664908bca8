package notan

import (
	"fmt"

	"github.com/coder3112/notan/backend"

	"golang.org/x/image/math/f32"
)

// DrawRequest is one caller-supplied unit of geometry plus its
// color/transform/blend state, to be merged into the current batch. A
// request is consumed entirely within one Push call and never retained.
//
// Vertices holds raw pre-transform positions, three scalars (x, y, z) per
// vertex. Indices are zero-based and reference the raw vertex sequence;
// within one request they are 1:1 with vertex slots (the accumulator does
// not deduplicate shared vertices across requests). UVs are consumed only
// by image batchers: two scalars per vertex.
//
// Transform and Projection must be set explicitly; use Identity() for a
// pass-through transform.
type DrawRequest struct {
	Vertices   []float32
	UVs        []float32
	Indices    []uint32
	Color      Color
	Alpha      float32
	Blend      backend.BlendMode
	Transform  f32.Mat4
	Projection f32.Mat4
}

// vertexCount returns the number of vertex records in the request.
func (r *DrawRequest) vertexCount() int {
	return len(r.Vertices) / 3
}

// validate checks the request against the accumulator's write contract.
// Malformed requests fail with ErrMalformedRequest instead of writing out
// of bounds.
func (r *DrawRequest) validate(needUV bool) error {
	if len(r.Vertices)%3 != 0 {
		return fmt.Errorf("%w: vertex data length %d is not a multiple of 3", ErrMalformedRequest, len(r.Vertices))
	}
	n := r.vertexCount()
	if needUV && len(r.UVs) != 2*n {
		return fmt.Errorf("%w: uv data length %d, want %d for %d vertices", ErrMalformedRequest, len(r.UVs), 2*n, n)
	}
	// The cursor advances by the index count while vertex records are
	// written from the same base offset, so a request with more vertex
	// records than index entries would write past the region the capacity
	// checks reserved.
	if n > len(r.Indices) {
		return fmt.Errorf("%w: %d vertex records exceed %d index entries", ErrMalformedRequest, n, len(r.Indices))
	}
	for i, idx := range r.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at position %d out of range for %d vertices", ErrMalformedRequest, idx, i, n)
		}
	}
	return nil
}
