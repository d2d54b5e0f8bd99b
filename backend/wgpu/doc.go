// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpu runs the gravity simulation stage as a WebGPU compute pass on
// the gogpu/wgpu HAL.
//
// The two particle buffers are storage buffers. Each step binds the current
// buffer read-only and the target buffer read-write, dispatches one
// invocation per particle, and copies the target into a staging buffer for
// readback. Two bind groups, one per direction, are built once; choosing the
// bind group by the driver's current slot is the ping-pong.
//
// There is no presentation surface: the render stage rasterizes the read-back
// particles on the CPU, like the software backend. The compute shader is
// WGSL compiled to SPIR-V with naga.
//
// A host application that already owns a device (for example a gogpu app)
// can share it with SetDeviceProvider before the first step.
//
// Import the package to register it:
//
//	import _ "github.com/gogpu/gravity/backend/wgpu"
package wgpu
