// Copyright 2026 The notan Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/coder3112/notan/backend"
)

// matrixByteSize is the size of a mat4x4<f32> uniform.
const matrixByteSize = 64

// uniformSlot is a resolved uniform location: a dedicated 64-byte uniform
// buffer at a fixed binding in group 0.
type uniformSlot struct {
	name    string
	binding uint32
	buf     hal.Buffer
}

// pipeline holds the shader module, layouts, uniform buffers, and the
// per-blend-mode render pipeline variants for one pipeline descriptor.
//
// Blend state is baked into render pipelines, so each blend mode the
// batcher flushes with gets its own variant, created on first use. The
// variant for the descriptor's declared blend mode is created eagerly so
// pipeline errors surface at construction.
type pipeline struct {
	g     *Graphics
	label string

	module    hal.ShaderModule
	bgLayout  hal.BindGroupLayout
	layout    hal.PipelineLayout
	bindGroup hal.BindGroup

	// Sampled pipelines reserve bind group 1 for a texture and sampler
	// owned by the application; texBindGroup stays nil until the caller
	// supplies one through Graphics.SetTextureBindGroup.
	texLayout    hal.BindGroupLayout
	texBindGroup hal.BindGroup

	uniforms []*uniformSlot

	vertexEntry   string
	fragmentEntry string
	vertexLayout  []gputypes.VertexBufferLayout

	variants map[backend.BlendMode]hal.RenderPipeline
}

// CreatePipeline compiles the WGSL source, builds the uniform bind group,
// and creates the render pipeline variant for the descriptor's blend mode.
func (g *Graphics) CreatePipeline(desc *backend.PipelineDescriptor) (backend.Pipeline, error) {
	if !g.initialized {
		return nil, fmt.Errorf("%w: wgpu backend", backend.ErrNotInitialized)
	}
	if desc.Source == "" {
		return nil, fmt.Errorf("%w: empty shader source for %q", backend.ErrShaderCompilation, desc.Label)
	}

	// Validate through naga before handing the source to the driver; driver
	// error messages for malformed WGSL are much worse than naga's.
	if _, err := naga.Compile(desc.Source); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", backend.ErrShaderCompilation, desc.Label, err)
	}

	module, err := g.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label,
		Source: hal.ShaderSource{WGSL: desc.Source},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", backend.ErrShaderCompilation, desc.Label, err)
	}

	p := &pipeline{
		g:             g,
		label:         desc.Label,
		module:        module,
		vertexEntry:   desc.VertexEntry,
		fragmentEntry: desc.FragmentEntry,
		vertexLayout:  translateVertexLayout(desc.Attributes),
		variants:      make(map[backend.BlendMode]hal.RenderPipeline),
	}

	if err := p.createUniforms(desc.Uniforms, desc.Sampled); err != nil {
		p.destroy()
		return nil, err
	}
	if _, err := p.variant(desc.Blend); err != nil {
		p.destroy()
		return nil, err
	}

	g.pipelines = append(g.pipelines, p)
	return p, nil
}

// createUniforms builds one uniform buffer per name, the bind group layout
// over them, the pipeline layout, and the bind group. Binding indices follow
// the order of names. Sampled pipelines additionally get a texture+sampler
// layout at group 1; its bind group comes from the application.
func (p *pipeline) createUniforms(names []string, sampled bool) error {
	layoutEntries := make([]gputypes.BindGroupLayoutEntry, len(names))
	for i := range names {
		layoutEntries[i] = gputypes.BindGroupLayoutEntry{
			Binding:    uint32(i), //nolint:gosec // uniform count is tiny
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer: &gputypes.BufferBindingLayout{
				Type:           gputypes.BufferBindingTypeUniform,
				MinBindingSize: matrixByteSize,
			},
		}
	}

	bgLayout, err := p.g.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   p.label + "_uniform_layout",
		Entries: layoutEntries,
	})
	if err != nil {
		return fmt.Errorf("%w: %q uniform layout: %v", backend.ErrPipelineCreation, p.label, err)
	}
	p.bgLayout = bgLayout

	groupLayouts := []hal.BindGroupLayout{p.bgLayout}
	if sampled {
		texLayout, err := p.g.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label: p.label + "_texture_layout",
			Entries: []gputypes.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: gputypes.ShaderStageFragment,
					Texture: &gputypes.TextureBindingLayout{
						SampleType:    gputypes.TextureSampleTypeFloat,
						ViewDimension: gputypes.TextureViewDimension2D,
					},
				},
				{
					Binding:    1,
					Visibility: gputypes.ShaderStageFragment,
					Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
				},
			},
		})
		if err != nil {
			return fmt.Errorf("%w: %q texture layout: %v", backend.ErrPipelineCreation, p.label, err)
		}
		p.texLayout = texLayout
		groupLayouts = append(groupLayouts, texLayout)
	}

	layout, err := p.g.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.label + "_layout",
		BindGroupLayouts: groupLayouts,
	})
	if err != nil {
		return fmt.Errorf("%w: %q pipeline layout: %v", backend.ErrPipelineCreation, p.label, err)
	}
	p.layout = layout

	bindEntries := make([]gputypes.BindGroupEntry, len(names))
	for i, name := range names {
		buf, err := p.g.device.CreateBuffer(&hal.BufferDescriptor{
			Label: p.label + "_" + name,
			Size:  matrixByteSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("%w: uniform %q: %v", backend.ErrBufferAllocation, name, err)
		}
		slot := &uniformSlot{name: name, binding: uint32(i), buf: buf} //nolint:gosec // uniform count is tiny
		p.uniforms = append(p.uniforms, slot)
		bindEntries[i] = gputypes.BindGroupEntry{
			Binding: slot.binding,
			Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: matrixByteSize,
			},
		}
	}

	bindGroup, err := p.g.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   p.label + "_bind",
		Layout:  p.bgLayout,
		Entries: bindEntries,
	})
	if err != nil {
		return fmt.Errorf("%w: %q bind group: %v", backend.ErrPipelineCreation, p.label, err)
	}
	p.bindGroup = bindGroup
	return nil
}

// variant returns the render pipeline for the given blend mode, creating
// it on first use.
func (p *pipeline) variant(mode backend.BlendMode) (hal.RenderPipeline, error) {
	if rp, ok := p.variants[mode]; ok {
		return rp, nil
	}

	rp, err := p.g.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("%s_%s", p.label, mode),
		Layout: p.layout,
		Vertex: hal.VertexState{
			Module:     p.module,
			EntryPoint: p.vertexEntry,
			Buffers:    p.vertexLayout,
		},
		Fragment: &hal.FragmentState{
			Module:     p.module,
			EntryPoint: p.fragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.g.targetFormat,
					Blend:     blendStateFor(mode),
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %q blend %s: %v", backend.ErrPipelineCreation, p.label, mode, err)
	}
	p.variants[mode] = rp
	return rp, nil
}

// UniformLocation implements backend.Pipeline.
func (p *pipeline) UniformLocation(name string) (backend.Uniform, error) {
	for _, slot := range p.uniforms {
		if slot.name == name {
			return slot, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in pipeline %q", backend.ErrUnknownUniform, name, p.label)
}

// destroy releases all pipeline resources in reverse creation order.
func (p *pipeline) destroy() {
	d := p.g.device
	if d == nil {
		return
	}
	for _, rp := range p.variants {
		d.DestroyRenderPipeline(rp)
	}
	p.variants = nil
	if p.bindGroup != nil {
		d.DestroyBindGroup(p.bindGroup)
		p.bindGroup = nil
	}
	for _, slot := range p.uniforms {
		d.DestroyBuffer(slot.buf)
	}
	p.uniforms = nil
	if p.layout != nil {
		d.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
	if p.texLayout != nil {
		d.DestroyBindGroupLayout(p.texLayout)
		p.texLayout = nil
	}
	p.texBindGroup = nil
	if p.bgLayout != nil {
		d.DestroyBindGroupLayout(p.bgLayout)
		p.bgLayout = nil
	}
	if p.module != nil {
		d.DestroyShaderModule(p.module)
		p.module = nil
	}
}

// blendStateFor maps a blend mode to its GPU blend state. Returns nil for
// BlendNone (blending disabled on the color target).
func blendStateFor(mode backend.BlendMode) *gputypes.BlendState {
	var bs gputypes.BlendState
	switch mode {
	case backend.BlendNone:
		return nil
	case backend.BlendAdditive:
		bs = gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorSrcAlpha,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	case backend.BlendMultiply:
		bs = gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorDst,
				DstFactor: gputypes.BlendFactorZero,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorDstAlpha,
				DstFactor: gputypes.BlendFactorZero,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	case backend.BlendScreen:
		bs = gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOneMinusSrc,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	default: // BlendNormal
		bs = gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorSrcAlpha,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	}
	return &bs
}

// translateVertexLayout converts a backend attribute list into the single
// interleaved vertex buffer layout the pipelines use. Offsets accumulate in
// declaration order.
func translateVertexLayout(attrs []backend.VertexAttr) []gputypes.VertexBufferLayout {
	var (
		out    = make([]gputypes.VertexAttribute, len(attrs))
		offset uint64
	)
	for i, a := range attrs {
		out[i] = gputypes.VertexAttribute{
			Format:         vertexFormat(a.Format),
			Offset:         offset,
			ShaderLocation: a.Location,
		}
		offset += uint64(a.Format.Components()) * 4
	}
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: offset,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  out,
		},
	}
}

// vertexFormat maps backend vertex formats to GPU vertex formats.
func vertexFormat(f backend.VertexFormat) gputypes.VertexFormat {
	switch f {
	case backend.VertexFormatFloat2:
		return gputypes.VertexFormatFloat32x2
	case backend.VertexFormatFloat3:
		return gputypes.VertexFormatFloat32x3
	case backend.VertexFormatFloat4:
		return gputypes.VertexFormatFloat32x4
	default:
		return gputypes.VertexFormatFloat32
	}
}
