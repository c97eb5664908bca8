package notan

import (
	"fmt"

	"github.com/coder3112/notan/backend"

	"golang.org/x/image/math/f32"
)

// Batcher accumulates draw requests into shared vertex/index storage and
// submits them to a graphics backend in as few draw calls as possible.
// Create instances with NewColorBatcher or NewImageBatcher.
//
// The zero value is not usable. A Batcher is NOT safe for concurrent use:
// it is exclusively owned by the goroutine driving the render loop, and it
// borrows the backend mutably for the duration of Push and Flush.
type Batcher struct {
	gfx      backend.Graphics
	pipeline backend.Pipeline
	vbo      backend.Buffer
	ibo      backend.Buffer

	matrixUniform    backend.Uniform
	texMatrixUniform backend.Uniform

	label  string
	layout VertexLayout
	stride int
	hasUV  bool

	// Flat geometry storage. vertices always holds a multiple of stride
	// scalars; indices a multiple of 3 entries. cursor counts vertex
	// records written into the current unflushed batch and doubles as the
	// index write offset (indices are 1:1 with vertex slots per request).
	vertices []float32
	indices  []uint32
	cursor   int

	// Immutable capacity policy, computed once at construction.
	maxVertices int
	batchSize   int

	activeBlend backend.BlendMode
	texMatrix   f32.Mat4
}

// newBatcher wires the shared batching core: pipeline, dynamic buffers,
// uniform handles, and initial storage sized to one batch increment.
func newBatcher(gfx backend.Graphics, label string, layout VertexLayout, desc *backend.PipelineDescriptor) (*Batcher, error) {
	stride := layout.Stride()
	batchSize, err := batchIncrement(stride)
	if err != nil {
		return nil, err
	}

	pipeline, err := gfx.CreatePipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("notan: create %s pipeline: %w", label, err)
	}

	vbo, err := gfx.CreateVertexBuffer(layout.Attributes(), backend.UsageDynamic)
	if err != nil {
		return nil, fmt.Errorf("notan: create %s vertex buffer: %w", label, err)
	}

	ibo, err := gfx.CreateIndexBuffer(backend.UsageDynamic)
	if err != nil {
		return nil, fmt.Errorf("notan: create %s index buffer: %w", label, err)
	}

	matrixUniform, err := pipeline.UniformLocation("u_matrix")
	if err != nil {
		return nil, fmt.Errorf("notan: resolve %s projection uniform: %w", label, err)
	}

	b := &Batcher{
		gfx:           gfx,
		pipeline:      pipeline,
		vbo:           vbo,
		ibo:           ibo,
		matrixUniform: matrixUniform,
		label:         label,
		layout:        layout,
		stride:        stride,
		vertices:      make([]float32, batchSize),
		indices:       make([]uint32, batchSize/stride),
		maxVertices:   platformCeiling(gfx.IndexFormat()),
		batchSize:     batchSize,
		activeBlend:   desc.Blend,
		texMatrix:     Identity(),
	}
	return b, nil
}

// Stride returns the number of float32 components per vertex record.
func (b *Batcher) Stride() int {
	return b.stride
}

// BatchIncrement returns the initial storage size and growth step in
// vertex scalars.
func (b *Batcher) BatchIncrement() int {
	return b.batchSize
}

// CapacityVertices returns the current vertex storage length in records.
func (b *Batcher) CapacityVertices() int {
	return len(b.vertices) / b.stride
}

// CapacityIndices returns the current index storage length in entries.
func (b *Batcher) CapacityIndices() int {
	return len(b.indices)
}

// Pending returns the write cursor: the number of vertex records appended
// since the last flush.
func (b *Batcher) Pending() int {
	return b.cursor
}

// Blend returns the active blend mode of the accumulated batch.
func (b *Batcher) Blend() backend.BlendMode {
	return b.activeBlend
}

// Push merges one draw request into the current batch. Depending on the
// request and the accumulated state it may grow storage, flush the pending
// batch, or split the request across several flushes before appending.
//
// Push returns ErrMalformedRequest for out-of-range indices or invalid
// vertex/uv stream lengths; any other error comes from the backend via an
// implied flush.
//
// Requests large enough to require splitting must use sequential,
// non-shared indexing (index i referencing vertex slot i): the split path
// remaps indices chunk-locally and cannot express vertex reuse across
// chunk boundaries. An oversized request violating this also fails with
// ErrMalformedRequest.
func (b *Batcher) Push(req *DrawRequest) error {
	if err := req.validate(b.hasUV); err != nil {
		return err
	}

	if err := b.checkBatchSize(req); err != nil {
		return err
	}

	// A request larger than storage can ever hold at the current ceiling
	// is split across multiple flushes; the remaining checks do not apply.
	if len(req.Indices) > len(b.indices) {
		return b.splitRequest(req)
	}

	// Flush if the request would run past the end of this batch.
	if b.cursor+len(req.Indices) >= len(b.indices) {
		if err := b.Flush(req.Projection); err != nil {
			return err
		}
	}

	// Flush if the blend mode changes, then adopt the new mode.
	if req.Blend != b.activeBlend {
		if err := b.Flush(req.Projection); err != nil {
			return err
		}
		b.activeBlend = req.Blend
	}

	b.append(req.Indices, req.Vertices, req.UVs, req.Color, req.Transform, req.Alpha)
	return nil
}

// checkBatchSize grows both storages by one batch increment when the
// request does not fit the current capacity and the grown size stays
// within the platform ceiling. A growth step that lands exactly on the
// ceiling fits. Growth flushes the pending batch first, so the resized
// storage starts empty; existing content is preserved regardless.
func (b *Batcher) checkBatchSize(req *DrawRequest) error {
	next := len(b.vertices) + b.batchSize
	if next > b.maxVertices {
		return nil
	}

	isBigger := len(req.Indices) > len(b.indices)
	isMore := b.cursor+len(req.Indices) >= len(b.indices)
	if !isBigger && !isMore {
		return nil
	}

	if err := b.Flush(req.Projection); err != nil {
		return err
	}

	nextIndices := next / b.stride
	Logger().Debug("notan: growing batch storage",
		"batcher", b.label,
		"vertices", len(b.vertices), "newVertices", next,
		"indices", len(b.indices), "newIndices", nextIndices)

	grown := make([]float32, next)
	copy(grown, b.vertices)
	b.vertices = grown

	grownIdx := make([]uint32, nextIndices)
	copy(grownIdx, b.indices)
	b.indices = grownIdx
	return nil
}

// splitRequest partitions an oversized request into consecutive chunks of
// at most CapacityIndices entries. Each chunk's indices are remapped to a
// zero base, appended as an independent sub-batch, and flushed
// immediately. The blend-mode check deliberately does not apply here; a
// split request is drawn with the batch's active mode.
func (b *Batcher) splitRequest(req *DrawRequest) error {
	// Chunk boundaries slice the vertex stream by index position, so an
	// oversized request must carry one vertex record per index entry; a
	// shared vertex set cannot be partitioned along index boundaries.
	if req.vertexCount() != len(req.Indices) {
		return fmt.Errorf("%w: oversized request with %d vertex records for %d index entries requires sequential non-shared indexing",
			ErrMalformedRequest, req.vertexCount(), len(req.Indices))
	}

	// The pending batch would collide with the first full-capacity chunk.
	if b.cursor > 0 {
		if err := b.Flush(req.Projection); err != nil {
			return err
		}
	}

	chunk := make([]uint32, len(b.indices))
	iterations := len(req.Indices)/len(b.indices) + 1

	for i := 0; i < iterations; i++ {
		start := i * len(b.indices)
		end := min(start+len(b.indices), len(req.Indices))
		if start >= end {
			break
		}
		n := end - start
		for j := 0; j < n; j++ {
			chunk[j] = uint32(j)
		}

		var uvs []float32
		if b.hasUV {
			uvs = req.UVs[start*2 : end*2]
		}
		b.append(chunk[:n], req.Vertices[start*3:end*3], uvs, req.Color, req.Transform, req.Alpha)
		if err := b.Flush(req.Projection); err != nil {
			return err
		}
	}
	return nil
}

// append writes remapped indices and transformed, color-packed vertices
// into storage and advances the cursor. The caller guarantees the region
// fits; index values written never exceed the platform ceiling.
func (b *Batcher) append(indices []uint32, verts, uvs []float32, col Color, m f32.Mat4, alpha float32) {
	for i, idx := range indices {
		b.indices[b.cursor+i] = uint32(b.cursor) + idx
	}

	off := b.cursor * b.stride
	uv := 0
	for v := 0; v+2 < len(verts); v += 3 {
		x, y, z := transformPoint(m, verts[v], verts[v+1], verts[v+2])

		b.vertices[off+0] = x
		b.vertices[off+1] = y
		b.vertices[off+2] = z
		b.vertices[off+3] = col.R
		b.vertices[off+4] = col.G
		b.vertices[off+5] = col.B
		b.vertices[off+6] = col.A * alpha

		if b.hasUV {
			b.vertices[off+7] = uvs[uv]
			b.vertices[off+8] = uvs[uv+1]
			uv += 2
		}

		off += b.stride
	}

	b.cursor += len(indices)
}

// Flush submits the accumulated batch as one draw call and resets the
// write cursor. It is a no-op when nothing is pending. This is the only
// point at which the backend is invoked; everything before it is pure
// in-memory bookkeeping.
//
// The cursor resets whether or not the backend succeeds: a batch the
// backend rejected is dropped, not retried.
func (b *Batcher) Flush(projection f32.Mat4) error {
	if b.cursor == 0 {
		return nil
	}
	count := b.cursor
	b.cursor = 0

	if err := b.gfx.SetPipeline(b.pipeline, b.activeBlend); err != nil {
		return fmt.Errorf("notan: flush %s: %w", b.label, err)
	}
	if err := b.gfx.BindVertexBuffer(b.vbo, b.vertices); err != nil {
		return fmt.Errorf("notan: flush %s: %w", b.label, err)
	}
	if err := b.gfx.BindIndexBuffer(b.ibo, b.indices); err != nil {
		return fmt.Errorf("notan: flush %s: %w", b.label, err)
	}
	if err := b.gfx.BindUniformMat4(b.matrixUniform, projection); err != nil {
		return fmt.Errorf("notan: flush %s: %w", b.label, err)
	}
	if b.texMatrixUniform != nil {
		if err := b.gfx.BindUniformMat4(b.texMatrixUniform, b.texMatrix); err != nil {
			return fmt.Errorf("notan: flush %s: %w", b.label, err)
		}
	}
	if err := b.gfx.Draw(0, count); err != nil {
		return fmt.Errorf("notan: flush %s: %w", b.label, err)
	}
	return nil
}
