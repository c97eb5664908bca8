// Copyright 2026 The notan Authors
// SPDX-License-Identifier: MIT

// Package gpuctx connects the wgpu backend to an application that already
// owns a GPU device through gpucontext. Windowing layers expose their
// device via gpucontext.DeviceProvider; attaching it here makes batcher
// draws share that device instead of opening a second one.
package gpuctx

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/coder3112/notan/backend/wgpu"
)

var (
	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("gpuctx: nil DeviceProvider")

	// ErrNoHalAccess is returned when the provider does not expose raw
	// hal device handles.
	ErrNoHalAccess = errors.New("gpuctx: provider does not expose hal device access")
)

// halProvider is the optional extension a DeviceProvider implements to
// expose its underlying hal handles. gogpu's app provider implements it.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// Attach routes the wgpu backend onto the provider's device and queue.
// Call before backend initialization; a backend initialized afterwards
// adopts the shared device and never opens its own.
func Attach(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		return ErrNilProvider
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return ErrNoHalAccess
	}
	wgpu.SetDeviceProvider(sharedDevice{hp})
	return nil
}

// Detach clears a previously attached provider. Backends already
// initialized keep the device they adopted.
func Detach() {
	wgpu.SetDeviceProvider(nil)
}

// SurfaceFormat returns the provider's surface format, for configuring the
// backend's target format before pipelines are created. Falls back to
// BGRA8Unorm for a nil provider.
func SurfaceFormat(provider gpucontext.DeviceProvider) gputypes.TextureFormat {
	if provider == nil {
		return gputypes.TextureFormatBGRA8Unorm
	}
	return provider.SurfaceFormat()
}

// sharedDevice adapts a halProvider to the wgpu backend's DeviceProvider.
type sharedDevice struct {
	hp halProvider
}

func (s sharedDevice) HalDevice() any { return s.hp.HalDevice() }
func (s sharedDevice) HalQueue() any  { return s.hp.HalQueue() }
