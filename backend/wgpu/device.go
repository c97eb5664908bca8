// Copyright 2026 The notan Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/coder3112/notan"
)

// GPUInfo contains information about the selected GPU adapter.
type GPUInfo struct {
	// Name is the GPU name (e.g. "NVIDIA GeForce RTX 3080").
	Name string
	// DeviceType is the type of GPU (discrete, integrated, etc.).
	DeviceType gputypes.DeviceType
	// Backend is the graphics API in use (Vulkan, Metal, DX12, GLES).
	Backend gputypes.Backend
}

// String returns a human-readable description of the GPU.
func (g *GPUInfo) String() string {
	return fmt.Sprintf("%s (%v, %v)", g.Name, g.DeviceType, g.Backend)
}

// apiPreference is the order in which graphics APIs are tried.
var apiPreference = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
	gputypes.BackendGL,
}

// openDevice creates an instance, picks an adapter (discrete preferred over
// integrated), and opens a device+queue on it.
func openDevice() (hal.Instance, hal.Device, hal.Queue, *GPUInfo, error) {
	var (
		api     hal.Backend
		apiName gputypes.Backend
	)
	for _, name := range apiPreference {
		if b, ok := hal.GetBackend(name); ok {
			api = b
			apiName = name
			break
		}
	}
	if api == nil {
		return nil, nil, nil, nil, fmt.Errorf("no graphics API available")
	}

	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, nil, nil, nil, fmt.Errorf("no GPU adapters found")
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		for i := range adapters {
			if adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
				selected = &adapters[i]
				break
			}
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("open device: %w", err)
	}

	info := &GPUInfo{
		Name:       selected.Info.Name,
		DeviceType: selected.Info.DeviceType,
		Backend:    apiName,
	}
	notan.Logger().Info("wgpu: adapter selected", "adapter", info.Name, "api", info.Backend)

	return instance, openDev.Device, openDev.Queue, info, nil
}
