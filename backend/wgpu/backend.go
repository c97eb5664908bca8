// Copyright 2026 The notan Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/math/f32"

	"github.com/coder3112/notan"
	"github.com/coder3112/notan/backend"
)

func init() {
	backend.Register(backend.BackendWGPU, func() backend.Graphics {
		return New()
	})
}

// submitTimeout bounds the fence wait after each submission.
const submitTimeout = 5 * time.Second

// DeviceProvider supplies an externally owned device and queue, so the
// backend can share a device with a windowing or compositor layer instead
// of opening its own. HalDevice and HalQueue must return hal.Device and
// hal.Queue values.
type DeviceProvider interface {
	HalDevice() any
	HalQueue() any
}

var (
	providerMu     sync.Mutex
	deviceProvider DeviceProvider
)

// SetDeviceProvider installs a device provider consulted by Init. Pass nil
// to clear. Must be called before Init to take effect.
func SetDeviceProvider(p DeviceProvider) {
	providerMu.Lock()
	deviceProvider = p
	providerMu.Unlock()
}

// dynamicBuffer is a GPU buffer that grows to fit each upload. Uploads go
// through queue.WriteBuffer; growth reallocates and retires the old handle.
type dynamicBuffer struct {
	label  string
	usage  gputypes.BufferUsage
	handle hal.Buffer
	size   uint64
}

// Graphics implements backend.Graphics on the wgpu hardware abstraction
// layer. Not safe for concurrent use; one goroutine drives a frame.
type Graphics struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	info     *GPUInfo

	external    bool
	initialized bool

	target       hal.TextureView
	targetFormat gputypes.TextureFormat
	clearColor   gputypes.Color
	loadOp       gputypes.LoadOp

	pipelines []*pipeline
	buffers   []*dynamicBuffer

	current      *pipeline
	currentBlend backend.BlendMode
	boundVerts   *dynamicBuffer
	boundIndices *dynamicBuffer
}

// New creates an uninitialized wgpu backend.
func New() *Graphics {
	return &Graphics{
		targetFormat: gputypes.TextureFormatBGRA8Unorm,
		loadOp:       gputypes.LoadOpClear,
	}
}

// Name implements backend.Graphics.
func (g *Graphics) Name() string { return backend.BackendWGPU }

// Init opens the GPU device, or adopts the one from the installed device
// provider. Idempotent.
func (g *Graphics) Init() error {
	if g.initialized {
		return nil
	}

	providerMu.Lock()
	p := deviceProvider
	providerMu.Unlock()
	if p != nil {
		dev, devOK := p.HalDevice().(hal.Device)
		q, qOK := p.HalQueue().(hal.Queue)
		if !devOK || !qOK {
			return fmt.Errorf("%w: device provider returned unusable handles", backend.ErrBackendNotAvailable)
		}
		g.device, g.queue = dev, q
		g.external = true
		g.initialized = true
		notan.Logger().Info("wgpu: using externally provided device")
		return nil
	}

	instance, device, queue, info, err := openDevice()
	if err != nil {
		return fmt.Errorf("%w: %v", backend.ErrBackendNotAvailable, err)
	}
	g.instance = instance
	g.device = device
	g.queue = queue
	g.info = info
	g.initialized = true
	return nil
}

// Close releases every pipeline and buffer this backend created. The device
// itself is released only when the backend opened it.
func (g *Graphics) Close() error {
	for _, p := range g.pipelines {
		p.destroy()
	}
	g.pipelines = nil
	for _, b := range g.buffers {
		if b.handle != nil {
			g.device.DestroyBuffer(b.handle)
			b.handle = nil
		}
	}
	g.buffers = nil

	g.current = nil
	g.boundVerts = nil
	g.boundIndices = nil
	g.target = nil
	if !g.external {
		g.device = nil
		g.queue = nil
		g.instance = nil
	}
	g.initialized = false
	return nil
}

// Info returns the selected adapter, or nil before Init or with an external
// device.
func (g *Graphics) Info() *GPUInfo { return g.info }

// IndexFormat implements backend.Graphics. GLES devices get 16-bit indices;
// everything else handles 32-bit.
func (g *Graphics) IndexFormat() backend.IndexFormat {
	if g.info != nil && g.info.Backend == gputypes.BackendGL {
		return backend.IndexFormatUint16
	}
	if !g.initialized {
		return backend.IndexFormatUint16
	}
	return backend.IndexFormatUint32
}

// SetTarget sets the texture view draws render into for the current frame.
// The first draw after SetTarget clears the target to the clear color;
// later draws load the previous contents.
func (g *Graphics) SetTarget(view hal.TextureView) {
	g.target = view
	g.loadOp = gputypes.LoadOpClear
}

// SetClearColor sets the color used when a frame's first draw clears the
// target.
func (g *Graphics) SetClearColor(c gputypes.Color) {
	g.clearColor = c
}

// SetTargetFormat sets the color format of render targets. Must be called
// before CreatePipeline; pipelines bake the target format in. Defaults to
// BGRA8Unorm.
func (g *Graphics) SetTargetFormat(f gputypes.TextureFormat) {
	g.targetFormat = f
}

// CreateVertexBuffer implements backend.Graphics. The attribute list and
// usage hint are fixed at creation; the buffer grows to fit each upload.
func (g *Graphics) CreateVertexBuffer(_ []backend.VertexAttr, usage backend.Usage) (backend.Buffer, error) {
	if !g.initialized {
		return nil, fmt.Errorf("%w: wgpu backend", backend.ErrNotInitialized)
	}
	b := &dynamicBuffer{
		label: fmt.Sprintf("notan_vbo_%s", usage),
		usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	}
	g.buffers = append(g.buffers, b)
	return b, nil
}

// CreateIndexBuffer implements backend.Graphics.
func (g *Graphics) CreateIndexBuffer(usage backend.Usage) (backend.Buffer, error) {
	if !g.initialized {
		return nil, fmt.Errorf("%w: wgpu backend", backend.ErrNotInitialized)
	}
	b := &dynamicBuffer{
		label: fmt.Sprintf("notan_ibo_%s", usage),
		usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	}
	g.buffers = append(g.buffers, b)
	return b, nil
}

// SetPipeline implements backend.Graphics. The blend mode selects (and on
// first use creates) the matching render pipeline variant.
func (g *Graphics) SetPipeline(p backend.Pipeline, blend backend.BlendMode) error {
	pl, ok := p.(*pipeline)
	if !ok {
		return fmt.Errorf("%w: foreign pipeline handle", backend.ErrPipelineCreation)
	}
	if _, err := pl.variant(blend); err != nil {
		return err
	}
	g.current = pl
	g.currentBlend = blend
	return nil
}

// TextureBindGroupLayout returns the layout of the pipeline's texture bind
// group (group 1: texture at binding 0, sampler at binding 1), or nil when
// the pipeline samples no texture. The application creates a bind group with
// this layout for each texture it draws with.
func (g *Graphics) TextureBindGroupLayout(p backend.Pipeline) hal.BindGroupLayout {
	if pl, ok := p.(*pipeline); ok {
		return pl.texLayout
	}
	return nil
}

// SetTextureBindGroup installs the texture bind group draws with this
// pipeline sample from. The bind group stays owned by the caller; the
// backend never destroys it.
func (g *Graphics) SetTextureBindGroup(p backend.Pipeline, bg hal.BindGroup) error {
	pl, ok := p.(*pipeline)
	if !ok {
		return fmt.Errorf("%w: foreign pipeline handle", backend.ErrPipelineCreation)
	}
	if pl.texLayout == nil {
		return fmt.Errorf("%w: pipeline %q samples no texture", backend.ErrPipelineCreation, pl.label)
	}
	pl.texBindGroup = bg
	return nil
}

// BindVertexBuffer implements backend.Graphics: uploads the vertex scalars
// and marks the buffer as the one the next draw reads.
func (g *Graphics) BindVertexBuffer(buf backend.Buffer, data []float32) error {
	b, ok := buf.(*dynamicBuffer)
	if !ok {
		return fmt.Errorf("%w: foreign buffer handle", backend.ErrBufferAllocation)
	}
	if err := g.upload(b, float32Bytes(data)); err != nil {
		return err
	}
	g.boundVerts = b
	return nil
}

// BindIndexBuffer implements backend.Graphics. Indices are narrowed to
// 16 bits when the device's index format requires it; the batching layer
// guarantees values fit.
func (g *Graphics) BindIndexBuffer(buf backend.Buffer, data []uint32) error {
	b, ok := buf.(*dynamicBuffer)
	if !ok {
		return fmt.Errorf("%w: foreign buffer handle", backend.ErrBufferAllocation)
	}
	if err := g.upload(b, indexBytes(data, g.IndexFormat())); err != nil {
		return err
	}
	g.boundIndices = b
	return nil
}

// BindUniformMat4 implements backend.Graphics: writes the matrix into the
// uniform's dedicated buffer.
func (g *Graphics) BindUniformMat4(u backend.Uniform, m f32.Mat4) error {
	slot, ok := u.(*uniformSlot)
	if !ok {
		return fmt.Errorf("%w: foreign uniform handle", backend.ErrUnknownUniform)
	}
	g.queue.WriteBuffer(slot.buf, 0, matrixBytes(m))
	return nil
}

// Draw implements backend.Graphics: records one render pass with a single
// indexed draw over the bound buffers and submits it.
func (g *Graphics) Draw(start, count int) error {
	if !g.initialized {
		return fmt.Errorf("%w: wgpu backend", backend.ErrNotInitialized)
	}
	if g.target == nil {
		return fmt.Errorf("%w: no render target set", backend.ErrNotInitialized)
	}
	if g.current == nil || g.boundVerts == nil || g.boundIndices == nil {
		return fmt.Errorf("%w: draw without pipeline and buffers bound", backend.ErrNotInitialized)
	}
	if g.current.texLayout != nil && g.current.texBindGroup == nil {
		return fmt.Errorf("%w: pipeline %q needs a texture bind group before drawing", backend.ErrNotInitialized, g.current.label)
	}

	variant, err := g.current.variant(g.currentBlend)
	if err != nil {
		return err
	}

	encoder, err := g.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "notan_draw",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("notan_draw"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "notan_batch_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       g.target,
				LoadOp:     g.loadOp,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: g.clearColor,
			},
		},
	})
	rp.SetPipeline(variant)
	rp.SetBindGroup(0, g.current.bindGroup, nil)
	if g.current.texBindGroup != nil {
		rp.SetBindGroup(1, g.current.texBindGroup, nil)
	}
	rp.SetVertexBuffer(0, g.boundVerts.handle, 0)
	rp.SetIndexBuffer(g.boundIndices.handle, indexFormat(g.IndexFormat()), 0)
	rp.DrawIndexed(uint32(count), 1, uint32(start), 0, 0) //nolint:gosec // counts bounded by the index ceiling
	rp.End()
	g.loadOp = gputypes.LoadOpLoad

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer g.device.FreeCommandBuffer(cmdBuf)

	fence, err := g.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer g.device.DestroyFence(fence)

	if err := g.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := g.device.Wait(fence, 1, submitTimeout)
	if err != nil || !ok {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", ok, err)
	}

	notan.Logger().Debug("wgpu: batch submitted", "indices", count, "first", start, "blend", g.currentBlend.String())
	return nil
}

// upload writes data into the buffer, reallocating when it outgrows the
// current handle.
func (g *Graphics) upload(b *dynamicBuffer, data []byte) error {
	need := uint64(len(data))
	if need == 0 {
		return nil
	}
	if b.handle == nil || b.size < need {
		if b.handle != nil {
			g.device.DestroyBuffer(b.handle)
			b.handle = nil
		}
		handle, err := g.device.CreateBuffer(&hal.BufferDescriptor{
			Label: b.label,
			Size:  need,
			Usage: b.usage,
		})
		if err != nil {
			return fmt.Errorf("%w: %s (%d bytes): %v", backend.ErrBufferAllocation, b.label, need, err)
		}
		b.handle = handle
		b.size = need
	}
	g.queue.WriteBuffer(b.handle, 0, data)
	return nil
}

// indexFormat maps the backend index format to the GPU one.
func indexFormat(f backend.IndexFormat) gputypes.IndexFormat {
	if f == backend.IndexFormatUint16 {
		return gputypes.IndexFormatUint16
	}
	return gputypes.IndexFormatUint32
}

// float32Bytes serializes scalars little-endian, matching WGSL layout.
func float32Bytes(data []float32) []byte {
	out := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// indexBytes serializes indices in the device's index format. Callers keep
// values under 65536 when the format is 16-bit.
func indexBytes(data []uint32, f backend.IndexFormat) []byte {
	if f == backend.IndexFormatUint16 {
		out := make([]byte, len(data)*2)
		for i, v := range data {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(v)) //nolint:gosec // bounded by the index ceiling
		}
		return out
	}
	out := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

// matrixBytes lays the row-major matrix out in the column-major order a
// WGSL mat4x4<f32> expects.
func matrixBytes(m f32.Mat4) []byte {
	out := make([]byte, matrixByteSize)
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			binary.LittleEndian.PutUint32(out[(c*4+r)*4:], math.Float32bits(m[4*r+c]))
		}
	}
	return out
}
