// Copyright 2026 The notan Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/coder3112/notan/backend"
)

func TestBlendStateFor(t *testing.T) {
	if got := blendStateFor(backend.BlendNone); got != nil {
		t.Errorf("blendStateFor(None) = %+v, want nil", got)
	}

	normal := blendStateFor(backend.BlendNormal)
	if normal.Color.SrcFactor != gputypes.BlendFactorSrcAlpha ||
		normal.Color.DstFactor != gputypes.BlendFactorOneMinusSrcAlpha {
		t.Errorf("Normal color blend = %+v", normal.Color)
	}

	additive := blendStateFor(backend.BlendAdditive)
	if additive.Color.DstFactor != gputypes.BlendFactorOne {
		t.Errorf("Additive color dst factor = %v, want One", additive.Color.DstFactor)
	}

	multiply := blendStateFor(backend.BlendMultiply)
	if multiply.Color.SrcFactor != gputypes.BlendFactorDst ||
		multiply.Color.DstFactor != gputypes.BlendFactorZero {
		t.Errorf("Multiply color blend = %+v", multiply.Color)
	}

	screen := blendStateFor(backend.BlendScreen)
	if screen.Color.SrcFactor != gputypes.BlendFactorOne ||
		screen.Color.DstFactor != gputypes.BlendFactorOneMinusSrc {
		t.Errorf("Screen color blend = %+v", screen.Color)
	}

	// Every enabled mode blends with Add.
	for _, mode := range []backend.BlendMode{backend.BlendNormal, backend.BlendAdditive, backend.BlendMultiply, backend.BlendScreen} {
		bs := blendStateFor(mode)
		if bs.Color.Operation != gputypes.BlendOperationAdd || bs.Alpha.Operation != gputypes.BlendOperationAdd {
			t.Errorf("blendStateFor(%v) operation != Add", mode)
		}
	}
}

func TestTranslateVertexLayout(t *testing.T) {
	layouts := translateVertexLayout([]backend.VertexAttr{
		{Location: 0, Format: backend.VertexFormatFloat3},
		{Location: 1, Format: backend.VertexFormatFloat4},
		{Location: 2, Format: backend.VertexFormatFloat2},
	})
	if len(layouts) != 1 {
		t.Fatalf("got %d buffer layouts, want 1", len(layouts))
	}
	l := layouts[0]

	if l.ArrayStride != 36 { // 9 scalars
		t.Errorf("ArrayStride = %d, want 36", l.ArrayStride)
	}
	if l.StepMode != gputypes.VertexStepModeVertex {
		t.Errorf("StepMode = %v, want Vertex", l.StepMode)
	}

	want := []struct {
		format   gputypes.VertexFormat
		offset   uint64
		location uint32
	}{
		{gputypes.VertexFormatFloat32x3, 0, 0},
		{gputypes.VertexFormatFloat32x4, 12, 1},
		{gputypes.VertexFormatFloat32x2, 28, 2},
	}
	for i, w := range want {
		a := l.Attributes[i]
		if a.Format != w.format || a.Offset != w.offset || a.ShaderLocation != w.location {
			t.Errorf("attribute %d = %+v, want %+v", i, a, w)
		}
	}
}

func TestVertexFormatMapping(t *testing.T) {
	tests := []struct {
		in   backend.VertexFormat
		want gputypes.VertexFormat
	}{
		{backend.VertexFormatFloat, gputypes.VertexFormatFloat32},
		{backend.VertexFormatFloat2, gputypes.VertexFormatFloat32x2},
		{backend.VertexFormatFloat3, gputypes.VertexFormatFloat32x3},
		{backend.VertexFormatFloat4, gputypes.VertexFormatFloat32x4},
	}
	for _, tt := range tests {
		if got := vertexFormat(tt.in); got != tt.want {
			t.Errorf("vertexFormat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIndexFormatMapping(t *testing.T) {
	if got := indexFormat(backend.IndexFormatUint16); got != gputypes.IndexFormatUint16 {
		t.Errorf("indexFormat(Uint16) = %v", got)
	}
	if got := indexFormat(backend.IndexFormatUint32); got != gputypes.IndexFormatUint32 {
		t.Errorf("indexFormat(Uint32) = %v", got)
	}
}
