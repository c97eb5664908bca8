package backend

import (
	"sync"
)

// Backend name constants.
const (
	// BackendHeadless is the name of the in-memory capture backend.
	BackendHeadless = "headless"

	// BackendWGPU is the name of the GPU backend (gogpu/wgpu).
	// It is registered by importing github.com/coder3112/notan/backend/wgpu.
	BackendWGPU = "wgpu"
)

// Factory creates a new backend instance.
type Factory func() Graphics

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	// WGPU > Headless (headless is the always-available fallback).
	backendPriority = []string{BackendWGPU, BackendHeadless}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns a list of registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a backend instance by name.
// Returns nil if the backend is not registered.
func Get(name string) Graphics {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := backends[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available backend based on priority.
// Returns nil if no backends are registered.
func Default() Graphics {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			if g := factory(); g != nil {
				return g
			}
		}
	}

	// Fallback: return first available.
	for _, factory := range backends {
		if g := factory(); g != nil {
			return g
		}
	}

	return nil
}

// MustDefault returns the default backend or panics.
func MustDefault() Graphics {
	g := Default()
	if g == nil {
		panic("backend: no backend available")
	}
	return g
}

// InitDefault returns the default backend, initialized and ready for use.
func InitDefault() (Graphics, error) {
	g := Default()
	if g == nil {
		return nil, ErrBackendNotAvailable
	}

	if err := g.Init(); err != nil {
		return nil, err
	}

	return g, nil
}
