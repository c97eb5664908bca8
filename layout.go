package notan

import (
	"github.com/coder3112/notan/backend"
)

// VertexLayout is the ordered list of attribute slots of a batcher's vertex
// record. It is fixed at batcher construction and never renegotiated at
// runtime.
type VertexLayout struct {
	attrs  []backend.VertexAttr
	stride int
}

// NewVertexLayout builds a layout from ordered attribute slots.
func NewVertexLayout(attrs ...backend.VertexAttr) VertexLayout {
	stride := 0
	for _, a := range attrs {
		stride += a.Format.Components()
	}
	return VertexLayout{
		attrs:  append([]backend.VertexAttr(nil), attrs...),
		stride: stride,
	}
}

// Stride returns the number of float32 components per vertex record.
func (l VertexLayout) Stride() int {
	return l.stride
}

// Attributes returns the ordered attribute slots.
func (l VertexLayout) Attributes() []backend.VertexAttr {
	return l.attrs
}
