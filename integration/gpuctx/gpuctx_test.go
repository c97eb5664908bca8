// Copyright 2026 The notan Authors
// SPDX-License-Identifier: MIT

package gpuctx

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockProvider implements gpucontext.DeviceProvider without hal access.
type mockProvider struct {
	format gputypes.TextureFormat
}

func (m *mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return nil }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }

// mockHalProvider additionally exposes hal handles.
type mockHalProvider struct {
	mockProvider
	device any
	queue  any
}

func (m *mockHalProvider) HalDevice() any { return m.device }
func (m *mockHalProvider) HalQueue() any  { return m.queue }

func TestAttachNilProvider(t *testing.T) {
	if err := Attach(nil); !errors.Is(err, ErrNilProvider) {
		t.Errorf("Attach(nil) = %v, want ErrNilProvider", err)
	}
}

func TestAttachWithoutHalAccess(t *testing.T) {
	p := &mockProvider{format: gputypes.TextureFormatBGRA8Unorm}
	if err := Attach(p); !errors.Is(err, ErrNoHalAccess) {
		t.Errorf("Attach() without hal access = %v, want ErrNoHalAccess", err)
	}
}

func TestAttachAndDetach(t *testing.T) {
	p := &mockHalProvider{}
	if err := Attach(p); err != nil {
		t.Fatalf("Attach() = %v", err)
	}
	t.Cleanup(Detach)

	// The adapter must pass handles through untouched.
	s := sharedDevice{hp: p}
	p.device = "dev"
	p.queue = "queue"
	if s.HalDevice() != "dev" || s.HalQueue() != "queue" {
		t.Error("sharedDevice does not pass hal handles through")
	}
}

func TestSurfaceFormat(t *testing.T) {
	if got := SurfaceFormat(nil); got != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("SurfaceFormat(nil) = %v, want BGRA8Unorm", got)
	}
	p := &mockProvider{format: gputypes.TextureFormatRGBA8Unorm}
	if got := SurfaceFormat(p); got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("SurfaceFormat() = %v, want RGBA8Unorm", got)
	}
}
