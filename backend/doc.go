// Package backend provides the graphics backend abstraction used by notan's
// batchers, plus the registry through which concrete backends are selected.
//
// A backend is the only component that talks to the GPU (or whatever stands
// in for one). The batching core in the root package accumulates geometry in
// plain Go slices and invokes a backend exactly once per flush: set pipeline,
// bind vertex/index data, bind the projection uniform, issue one draw.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The headless backend is automatically registered on import:
//
//	import _ "github.com/coder3112/notan/backend/wgpu"
//
//	gfx, err := backend.InitDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer gfx.Close()
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request a
// specific backend by name:
//
//	gfx := backend.Get("headless")
//
// # Available Backends
//
// - "headless": in-memory capture backend (always available, used by tests)
// - "wgpu": GPU-accelerated via gogpu/wgpu (import backend/wgpu)
package backend
