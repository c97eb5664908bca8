package notan

import (
	"errors"

	"github.com/coder3112/notan/backend"
)

// Errors returned by batcher construction, Push, and Flush. The
// backend-originated kinds are aliases of the backend package sentinels so
// callers can match them with errors.Is regardless of which layer they
// import.
//
// All construction errors fail fast: no partially usable batcher is ever
// returned. After construction, Push fails with ErrMalformedRequest for
// invalid geometry or passes through whatever the backend returned from an
// implied flush.
var (
	// ErrInvalidConfiguration is returned for an unusable batcher
	// configuration, e.g. a zero vertex stride.
	ErrInvalidConfiguration = errors.New("notan: invalid configuration")

	// ErrMalformedRequest is returned by Push for a draw request whose
	// indices reference vertices outside the supplied vertex data, or whose
	// vertex/uv streams have invalid lengths.
	ErrMalformedRequest = errors.New("notan: malformed draw request")

	// ErrShaderCompilation is returned when the backend fails to compile a
	// batcher's shader module.
	ErrShaderCompilation = backend.ErrShaderCompilation

	// ErrPipelineCreation is returned when the backend fails to create a
	// batcher's render pipeline.
	ErrPipelineCreation = backend.ErrPipelineCreation

	// ErrBufferAllocation is returned when the backend fails to allocate a
	// batcher's vertex or index buffer.
	ErrBufferAllocation = backend.ErrBufferAllocation
)
