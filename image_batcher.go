package notan

import (
	_ "embed"
	"fmt"

	"github.com/coder3112/notan/backend"

	"golang.org/x/image/math/f32"
)

//go:embed shaders/image.wgsl
var imageShaderSource string

// NewImageBatcher creates a batcher for textured geometry.
//
// Vertex layout: position (float3) at location 0, color (float4) at
// location 1, uv (float2) at location 2; stride 9. The push path is the
// shared batching core with uv passthrough: requests must carry two uv
// scalars per vertex. Texture objects themselves are managed by the
// caller; the batcher only owns the texture matrix uniform that maps uv
// coordinates at flush time.
func NewImageBatcher(gfx backend.Graphics) (*Batcher, error) {
	layout := NewVertexLayout(
		backend.VertexAttr{Location: 0, Format: backend.VertexFormatFloat3},
		backend.VertexAttr{Location: 1, Format: backend.VertexFormatFloat4},
		backend.VertexAttr{Location: 2, Format: backend.VertexFormatFloat2},
	)

	desc := &backend.PipelineDescriptor{
		Label:         "notan_image_pipeline",
		Source:        imageShaderSource,
		VertexEntry:   "vs_main",
		FragmentEntry: "fs_main",
		Attributes:    layout.Attributes(),
		Uniforms:      []string{"u_matrix", "u_tex_matrix"},
		Sampled:       true,
		Blend:         backend.BlendNormal,
	}

	b, err := newBatcher(gfx, "image", layout, desc)
	if err != nil {
		return nil, err
	}
	b.hasUV = true

	texMatrixUniform, err := b.pipeline.UniformLocation("u_tex_matrix")
	if err != nil {
		return nil, fmt.Errorf("notan: resolve image texture matrix uniform: %w", err)
	}
	b.texMatrixUniform = texMatrixUniform

	return b, nil
}

// SetTextureMatrix sets the texture coordinate matrix bound at the next
// flush. It defaults to identity. Calling it on a batcher without a uv
// layout is a no-op.
func (b *Batcher) SetTextureMatrix(m f32.Mat4) {
	if !b.hasUV {
		return
	}
	b.texMatrix = m
}
