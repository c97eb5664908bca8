package backend

import (
	"errors"
	"fmt"

	"golang.org/x/image/math/f32"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrShaderCompilation is returned when a shader program fails to compile.
	ErrShaderCompilation = errors.New("backend: shader compilation failed")

	// ErrPipelineCreation is returned when render pipeline creation fails.
	ErrPipelineCreation = errors.New("backend: pipeline creation failed")

	// ErrBufferAllocation is returned when vertex or index buffer allocation fails.
	ErrBufferAllocation = errors.New("backend: buffer allocation failed")

	// ErrUnknownUniform is returned when a pipeline has no uniform with the
	// requested name.
	ErrUnknownUniform = errors.New("backend: unknown uniform")
)

// IndexFormat is the width of index buffer entries supported by a backend.
// It determines the platform ceiling of the batching core: a 16-bit target
// caps every batch buffer at 65535 entries.
type IndexFormat uint32

const (
	// IndexFormatUint16 uses 16-bit unsigned indices (GLES/WebGL-class targets).
	IndexFormatUint16 IndexFormat = iota

	// IndexFormatUint32 uses 32-bit unsigned indices.
	IndexFormatUint32
)

// String returns the string representation of IndexFormat.
func (f IndexFormat) String() string {
	switch f {
	case IndexFormatUint16:
		return "Uint16"
	case IndexFormatUint32:
		return "Uint32"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(f))
	}
}

// Usage is the buffer usage hint declared at allocation time.
type Usage uint32

const (
	// UsageStatic marks a buffer whose contents rarely change.
	UsageStatic Usage = iota

	// UsageDynamic marks a buffer that is re-uploaded every flush.
	// Batch buffers always use this.
	UsageDynamic
)

// String returns the string representation of Usage.
func (u Usage) String() string {
	switch u {
	case UsageStatic:
		return "Static"
	case UsageDynamic:
		return "Dynamic"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(u))
	}
}

// BlendMode selects how fragments are combined with the framebuffer.
// The batching core flushes whenever the incoming request's mode differs
// from the mode of the accumulated batch, so one draw call never mixes
// blend modes.
type BlendMode uint32

const (
	// BlendNormal is standard alpha blending (source-over).
	BlendNormal BlendMode = iota

	// BlendAdditive adds source to destination.
	BlendAdditive

	// BlendMultiply multiplies source with destination.
	BlendMultiply

	// BlendScreen inverts, multiplies, and inverts again.
	BlendScreen

	// BlendNone disables blending entirely.
	BlendNone
)

// String returns the string representation of BlendMode.
func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "Normal"
	case BlendAdditive:
		return "Additive"
	case BlendMultiply:
		return "Multiply"
	case BlendScreen:
		return "Screen"
	case BlendNone:
		return "None"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(m))
	}
}

// VertexFormat is the scalar layout of one vertex attribute.
type VertexFormat uint32

const (
	// VertexFormatFloat is a single float32 component.
	VertexFormatFloat VertexFormat = iota

	// VertexFormatFloat2 is two float32 components.
	VertexFormatFloat2

	// VertexFormatFloat3 is three float32 components.
	VertexFormatFloat3

	// VertexFormatFloat4 is four float32 components.
	VertexFormatFloat4
)

// Components returns the number of float32 components of the format.
func (f VertexFormat) Components() int {
	switch f {
	case VertexFormatFloat:
		return 1
	case VertexFormatFloat2:
		return 2
	case VertexFormatFloat3:
		return 3
	case VertexFormatFloat4:
		return 4
	default:
		return 0
	}
}

// String returns the string representation of VertexFormat.
func (f VertexFormat) String() string {
	switch f {
	case VertexFormatFloat:
		return "Float"
	case VertexFormatFloat2:
		return "Float2"
	case VertexFormatFloat3:
		return "Float3"
	case VertexFormatFloat4:
		return "Float4"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(f))
	}
}

// VertexAttr is one slot of a vertex layout: a shader location and the
// format stored there. The ordered list of attributes is fixed at batcher
// construction and never renegotiated at runtime.
type VertexAttr struct {
	// Location is the shader attribute location.
	Location uint32

	// Format is the scalar layout of the attribute.
	Format VertexFormat
}

// PipelineDescriptor describes a render pipeline to create.
// The shader source is a single WGSL module; the vertex and fragment
// programs are its two entry points.
type PipelineDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Source is the WGSL shader module source.
	Source string

	// VertexEntry is the vertex entry point name (e.g. "vs_main").
	VertexEntry string

	// FragmentEntry is the fragment entry point name (e.g. "fs_main").
	FragmentEntry string

	// Attributes is the vertex layout consumed by the vertex program.
	Attributes []VertexAttr

	// Uniforms lists the pipeline's mat4 uniform names in binding order
	// (binding 0, 1, ... of bind group 0).
	Uniforms []string

	// Sampled declares that the fragment program samples a caller-managed
	// texture and sampler pair (bind group 1, bindings 0 and 1). The
	// batching core never touches textures itself; GPU backends reserve
	// the bind group slot and the application supplies the contents.
	Sampled bool

	// Blend is the initial blend mode of the pipeline.
	Blend BlendMode
}

// Pipeline is an opaque handle to a compiled render pipeline.
type Pipeline interface {
	// UniformLocation resolves a uniform handle by name.
	// Returns ErrUnknownUniform if the pipeline declares no such uniform.
	UniformLocation(name string) (Uniform, error)
}

// Uniform is an opaque handle to a pipeline uniform slot.
type Uniform interface{}

// Buffer is an opaque handle to a backend vertex or index buffer.
type Buffer interface{}

// Graphics is the contract the batching core requires from a rendering
// backend. Bind calls fully upload the given contents each flush; backends
// do not diff against previous uploads.
//
// A Graphics instance is borrowed mutably for the duration of a batcher's
// Push/Flush and must not be used concurrently by any other component
// during that window.
type Graphics interface {
	// Name returns the backend identifier (e.g. "headless", "wgpu").
	Name() string

	// Init initializes the backend. It must be called before any other
	// operation.
	Init() error

	// Close releases all backend resources. The backend must not be used
	// after Close.
	Close() error

	// IndexFormat reports the index width of the target. Pure capability
	// query with no side effects.
	IndexFormat() IndexFormat

	// CreatePipeline compiles the descriptor's shader module and creates a
	// render pipeline. Errors wrap ErrShaderCompilation or
	// ErrPipelineCreation.
	CreatePipeline(desc *PipelineDescriptor) (Pipeline, error)

	// CreateVertexBuffer allocates a vertex buffer for the given layout.
	// Errors wrap ErrBufferAllocation.
	CreateVertexBuffer(attrs []VertexAttr, usage Usage) (Buffer, error)

	// CreateIndexBuffer allocates an index buffer. Errors wrap
	// ErrBufferAllocation.
	CreateIndexBuffer(usage Usage) (Buffer, error)

	// SetPipeline makes the pipeline current with the given blend mode.
	// The blend configuration is applied just-in-time; it is not mutable
	// state on the pipeline handle.
	SetPipeline(p Pipeline, blend BlendMode) error

	// BindVertexBuffer uploads data into the buffer and binds it for the
	// next draw. Errors wrap ErrBufferAllocation.
	BindVertexBuffer(buf Buffer, data []float32) error

	// BindIndexBuffer uploads data into the buffer and binds it for the
	// next draw. Errors wrap ErrBufferAllocation.
	BindIndexBuffer(buf Buffer, data []uint32) error

	// BindUniformMat4 uploads a 4x4 matrix into a pipeline uniform slot.
	BindUniformMat4(u Uniform, m f32.Mat4) error

	// Draw issues one indexed draw call covering count index entries
	// starting at start.
	Draw(start, count int) error
}
