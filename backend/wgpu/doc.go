// Copyright 2026 The notan Authors
// SPDX-License-Identifier: MIT

// Package wgpu provides a GPU implementation of the notan backend contract
// on top of github.com/gogpu/wgpu's hardware abstraction layer.
//
// Importing the package registers the backend under the name "wgpu":
//
//	import _ "github.com/coder3112/notan/backend/wgpu"
//
//	gfx, err := backend.InitDefault()
//
// Shader modules are WGSL, validated through github.com/gogpu/naga at
// pipeline creation. Each flush of a batcher becomes exactly one command
// buffer submission: uniform uploads, buffer uploads, and one indexed draw
// recorded into a render pass on the current target.
//
// The backend needs a render target before any draw: call SetTarget with
// the texture view of the surface or offscreen texture at the start of each
// frame. The first draw after SetTarget clears the target; later draws in
// the frame load the previous contents.
//
// Textures stay application-owned. A sampled pipeline reserves bind group 1
// for one texture and sampler; create a bind group against
// TextureBindGroupLayout and install it with SetTextureBindGroup before
// drawing.
package wgpu
