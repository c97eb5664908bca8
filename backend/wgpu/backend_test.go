// Copyright 2026 The notan Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"encoding/binary"
	"math"
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/coder3112/notan/backend"
)

func TestFloat32Bytes(t *testing.T) {
	got := float32Bytes([]float32{1, 0.5})
	if len(got) != 8 {
		t.Fatalf("len = %d, want 8", len(got))
	}
	if v := math.Float32frombits(binary.LittleEndian.Uint32(got[0:4])); v != 1 {
		t.Errorf("first scalar = %v, want 1", v)
	}
	if v := math.Float32frombits(binary.LittleEndian.Uint32(got[4:8])); v != 0.5 {
		t.Errorf("second scalar = %v, want 0.5", v)
	}
}

func TestIndexBytes(t *testing.T) {
	indices := []uint32{0, 1, 65535}

	narrow := indexBytes(indices, backend.IndexFormatUint16)
	if len(narrow) != 6 {
		t.Fatalf("16-bit len = %d, want 6", len(narrow))
	}
	if v := binary.LittleEndian.Uint16(narrow[4:6]); v != 65535 {
		t.Errorf("16-bit third entry = %d, want 65535", v)
	}

	wide := indexBytes(indices, backend.IndexFormatUint32)
	if len(wide) != 12 {
		t.Fatalf("32-bit len = %d, want 12", len(wide))
	}
	if v := binary.LittleEndian.Uint32(wide[8:12]); v != 65535 {
		t.Errorf("32-bit third entry = %d, want 65535", v)
	}
}

func TestMatrixBytesColumnMajor(t *testing.T) {
	// Row-major translation matrix: tx sits at row 0, column 3.
	m := f32.Mat4{
		1, 0, 0, 7,
		0, 1, 0, 8,
		0, 0, 1, 9,
		0, 0, 0, 1,
	}
	got := matrixBytes(m)
	if len(got) != matrixByteSize {
		t.Fatalf("len = %d, want %d", len(got), matrixByteSize)
	}

	at := func(c, r int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(got[(c*4+r)*4:]))
	}
	// Column-major layout puts the translation in the last column vector.
	if at(3, 0) != 7 || at(3, 1) != 8 || at(3, 2) != 9 || at(3, 3) != 1 {
		t.Errorf("translation column = (%v, %v, %v, %v), want (7, 8, 9, 1)",
			at(3, 0), at(3, 1), at(3, 2), at(3, 3))
	}
	if at(0, 0) != 1 || at(1, 1) != 1 || at(2, 2) != 1 {
		t.Errorf("diagonal not preserved")
	}
}

func TestUninitializedOperationsFail(t *testing.T) {
	g := New()
	if _, err := g.CreatePipeline(&backend.PipelineDescriptor{Source: "s"}); err == nil {
		t.Error("CreatePipeline on uninitialized backend = nil, want error")
	}
	if _, err := g.CreateVertexBuffer(nil, backend.UsageDynamic); err == nil {
		t.Error("CreateVertexBuffer on uninitialized backend = nil, want error")
	}
	if _, err := g.CreateIndexBuffer(backend.UsageDynamic); err == nil {
		t.Error("CreateIndexBuffer on uninitialized backend = nil, want error")
	}
	if err := g.Draw(0, 3); err == nil {
		t.Error("Draw on uninitialized backend = nil, want error")
	}
}

func TestIndexFormatBeforeInit(t *testing.T) {
	// Conservative default until the adapter is known.
	g := New()
	if got := g.IndexFormat(); got != backend.IndexFormatUint16 {
		t.Errorf("IndexFormat() before Init = %v, want Uint16", got)
	}
}

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendWGPU) {
		t.Error("wgpu backend not registered on import")
	}
}
