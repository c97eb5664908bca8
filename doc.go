// Package notan provides a draw-call batching engine for immediate-mode
// 2D rendering.
//
// # Overview
//
// notan accumulates many small geometric draw requests (colored shapes,
// textured images) into large shared vertex and index buffers so that a
// graphics backend can render them with the minimum number of GPU
// submissions. It respects hard platform limits on index width: buffers
// never grow past 65535 entries on 16-bit index targets, nor past the
// 32-bit maximum elsewhere.
//
// # Quick Start
//
//	import (
//		"github.com/coder3112/notan"
//		"github.com/coder3112/notan/backend"
//	)
//
//	gfx := backend.NewHeadless()
//	_ = gfx.Init()
//
//	b, err := notan.NewColorBatcher(gfx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	proj := notan.Ortho(0, 800, 600, 0, -1, 1)
//	_ = b.Push(&notan.DrawRequest{
//		Vertices:   []float32{0, 0, 0, 100, 0, 0, 0, 100, 0},
//		Indices:    []uint32{0, 1, 2},
//		Color:      notan.RGB(1, 0, 0),
//		Alpha:      1,
//		Transform:  notan.Identity(),
//		Projection: proj,
//	})
//	_ = b.Flush(proj) // end of frame
//
// # Architecture
//
// The library is organized into:
//   - Capacity policy: platform vertex ceiling and batch increment,
//     computed once at construction.
//   - Geometry accumulator: growable flat vertex/index storage with a
//     write cursor; append transforms and color-packs each vertex.
//   - Batch controller: Push decides per request whether to grow storage,
//     flush, split an oversized request, or simply append.
//   - Flush/submit: binds the accumulated buffers and issues one draw call
//     through the backend package.
//
// Two concrete batchers share this core: NewColorBatcher
// (position+color) and NewImageBatcher (position+color+uv). They differ
// only in vertex layout, shader pair, and uniforms.
//
// # Concurrency
//
// A Batcher is exclusively owned by the goroutine driving the render loop.
// Push, Flush, and growth are synchronous and run to completion on the
// caller's goroutine; requests are flushed in exact push order.
package notan

// Version information.
const (
	// Version is the current version of the library.
	Version = "0.1.0-alpha.1"
)
