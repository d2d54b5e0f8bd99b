// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import "errors"

// Package errors for the wgpu backend.
var (
	// ErrNoGPU is returned when no HAL backend or adapter is available.
	ErrNoGPU = errors.New("wgpu: no GPU available")

	// ErrNotInitialized is returned when stepping before Init.
	ErrNotInitialized = errors.New("wgpu: simulator not initialized")

	// ErrProviderNotHAL is returned when a device provider does not expose
	// HAL device and queue objects.
	ErrProviderNotHAL = errors.New("wgpu: provider does not expose HAL types")

	// ErrDeviceInUse is returned when a device provider is set after the
	// simulator has started stepping.
	ErrDeviceInUse = errors.New("wgpu: device already in use")

	// ErrClosed is returned by calls on a closed simulator or pipeline.
	ErrClosed = errors.New("wgpu: closed")
)
