package backend

import (
	"fmt"

	"golang.org/x/image/math/f32"
)

// init registers the headless backend on package import.
func init() {
	Register(BackendHeadless, func() Graphics {
		return NewHeadless()
	})
}

// DrawCall is one draw captured by the headless backend, with snapshots of
// everything bound at the moment Draw was issued.
type DrawCall struct {
	// Pipeline is the label of the pipeline that was current.
	Pipeline string

	// Blend is the blend mode the pipeline was set with.
	Blend BlendMode

	// Vertices is a copy of the bound vertex data.
	Vertices []float32

	// Indices is a copy of the bound index data.
	Indices []uint32

	// Uniforms is a copy of the uniform values bound before the draw.
	Uniforms map[string]f32.Mat4

	// Start and Count are the draw range in index entries.
	Start, Count int
}

// Headless is an in-memory Graphics implementation. It performs no GPU work;
// every bind and draw is recorded so callers can assert on the exact
// sequence of backend operations. It is the test harness for the batching
// core and a convenient target for benchmarks and CI.
//
// Headless is NOT safe for concurrent use, matching the single-threaded
// contract of the Graphics interface.
type Headless struct {
	initialized bool
	indexFormat IndexFormat

	pipelines []*headlessPipeline

	currentPipeline *headlessPipeline
	currentBlend    BlendMode
	boundVertices   []float32
	boundIndices    []uint32
	uniforms        map[string]f32.Mat4

	draws []DrawCall
}

// NewHeadless creates a headless backend targeting a 16-bit index space.
// Use SetIndexFormat before Init to simulate a 32-bit target.
func NewHeadless() *Headless {
	return &Headless{
		indexFormat: IndexFormatUint16,
		uniforms:    make(map[string]f32.Mat4),
	}
}

// SetIndexFormat overrides the simulated index width. Call before handing
// the backend to a batcher; the batcher samples the capability once at
// construction.
func (h *Headless) SetIndexFormat(f IndexFormat) {
	h.indexFormat = f
}

// Name returns the backend identifier.
func (h *Headless) Name() string {
	return BackendHeadless
}

// Init initializes the backend.
func (h *Headless) Init() error {
	h.initialized = true
	return nil
}

// Close releases all backend resources.
func (h *Headless) Close() error {
	h.initialized = false
	h.pipelines = nil
	h.currentPipeline = nil
	h.boundVertices = nil
	h.boundIndices = nil
	h.uniforms = make(map[string]f32.Mat4)
	h.draws = nil
	return nil
}

// IndexFormat reports the simulated index width.
func (h *Headless) IndexFormat() IndexFormat {
	return h.indexFormat
}

// headlessPipeline is the capture-side pipeline handle.
type headlessPipeline struct {
	label    string
	uniforms []string
}

// headlessUniform is the capture-side uniform handle.
type headlessUniform struct {
	owner *headlessPipeline
	name  string
}

// UniformLocation resolves a uniform handle by name.
func (p *headlessPipeline) UniformLocation(name string) (Uniform, error) {
	for _, u := range p.uniforms {
		if u == name {
			return &headlessUniform{owner: p, name: name}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in pipeline %q", ErrUnknownUniform, name, p.label)
}

// CreatePipeline records a pipeline. The shader source is only checked for
// presence; headless has no compiler.
func (h *Headless) CreatePipeline(desc *PipelineDescriptor) (Pipeline, error) {
	if !h.initialized {
		return nil, fmt.Errorf("%w: headless backend", ErrNotInitialized)
	}
	if desc.Source == "" {
		return nil, fmt.Errorf("%w: empty shader source", ErrShaderCompilation)
	}
	p := &headlessPipeline{
		label:    desc.Label,
		uniforms: append([]string(nil), desc.Uniforms...),
	}
	h.pipelines = append(h.pipelines, p)
	return p, nil
}

// headlessBuffer is the capture-side buffer handle.
type headlessBuffer struct {
	index bool
	usage Usage
}

// CreateVertexBuffer allocates a capture-side vertex buffer.
func (h *Headless) CreateVertexBuffer(attrs []VertexAttr, usage Usage) (Buffer, error) {
	if !h.initialized {
		return nil, fmt.Errorf("%w: headless backend", ErrNotInitialized)
	}
	stride := 0
	for _, a := range attrs {
		stride += a.Format.Components()
	}
	if stride == 0 {
		return nil, fmt.Errorf("%w: empty vertex layout", ErrBufferAllocation)
	}
	return &headlessBuffer{usage: usage}, nil
}

// CreateIndexBuffer allocates a capture-side index buffer.
func (h *Headless) CreateIndexBuffer(usage Usage) (Buffer, error) {
	if !h.initialized {
		return nil, fmt.Errorf("%w: headless backend", ErrNotInitialized)
	}
	return &headlessBuffer{index: true, usage: usage}, nil
}

// SetPipeline makes the pipeline current with the given blend mode.
func (h *Headless) SetPipeline(p Pipeline, blend BlendMode) error {
	hp, ok := p.(*headlessPipeline)
	if !ok {
		return fmt.Errorf("%w: foreign pipeline handle", ErrPipelineCreation)
	}
	h.currentPipeline = hp
	h.currentBlend = blend
	return nil
}

// BindVertexBuffer records the uploaded vertex data.
func (h *Headless) BindVertexBuffer(_ Buffer, data []float32) error {
	h.boundVertices = data
	return nil
}

// BindIndexBuffer records the uploaded index data.
func (h *Headless) BindIndexBuffer(_ Buffer, data []uint32) error {
	h.boundIndices = data
	return nil
}

// BindUniformMat4 records a uniform upload.
func (h *Headless) BindUniformMat4(u Uniform, m f32.Mat4) error {
	hu, ok := u.(*headlessUniform)
	if !ok {
		return fmt.Errorf("%w: foreign uniform handle", ErrUnknownUniform)
	}
	h.uniforms[hu.name] = m
	return nil
}

// Draw records one draw call with snapshots of all bound state.
func (h *Headless) Draw(start, count int) error {
	if !h.initialized {
		return fmt.Errorf("%w: headless backend", ErrNotInitialized)
	}
	call := DrawCall{
		Blend:    h.currentBlend,
		Vertices: append([]float32(nil), h.boundVertices...),
		Indices:  append([]uint32(nil), h.boundIndices...),
		Uniforms: make(map[string]f32.Mat4, len(h.uniforms)),
		Start:    start,
		Count:    count,
	}
	if h.currentPipeline != nil {
		call.Pipeline = h.currentPipeline.label
	}
	for k, v := range h.uniforms {
		call.Uniforms[k] = v
	}
	h.draws = append(h.draws, call)
	return nil
}

// Draws returns all captured draw calls in submission order.
func (h *Headless) Draws() []DrawCall {
	return h.draws
}

// DrawCount returns the number of captured draw calls.
func (h *Headless) DrawCount() int {
	return len(h.draws)
}

// Reset clears captured draws and bound state but keeps pipelines alive.
func (h *Headless) Reset() {
	h.draws = nil
	h.boundVertices = nil
	h.boundIndices = nil
	h.uniforms = make(map[string]f32.Mat4)
}
