package notan

import (
	_ "embed"

	"github.com/coder3112/notan/backend"
)

//go:embed shaders/color.wgsl
var colorShaderSource string

// NewColorBatcher creates a batcher for flat-colored geometry.
//
// Vertex layout: position (float3) at location 0, color (float4) at
// location 1; stride 7. This is the canonical batching core; the image
// batcher is a layout variant of it.
//
// Construction fails fast if the backend cannot compile the shader, create
// the pipeline, or allocate the dynamic buffers; no partially usable
// batcher is returned.
func NewColorBatcher(gfx backend.Graphics) (*Batcher, error) {
	layout := NewVertexLayout(
		backend.VertexAttr{Location: 0, Format: backend.VertexFormatFloat3},
		backend.VertexAttr{Location: 1, Format: backend.VertexFormatFloat4},
	)

	desc := &backend.PipelineDescriptor{
		Label:         "notan_color_pipeline",
		Source:        colorShaderSource,
		VertexEntry:   "vs_main",
		FragmentEntry: "fs_main",
		Attributes:    layout.Attributes(),
		Uniforms:      []string{"u_matrix"},
		Blend:         backend.BlendNormal,
	}

	return newBatcher(gfx, "color", layout, desc)
}
