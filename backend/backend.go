// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"image"

	"github.com/gogpu/gravity"
)

// Backend names.
const (
	// NameOpenGL is the OpenGL 4.1 transform feedback backend.
	NameOpenGL = "opengl"
	// NameWGPU is the WebGPU compute backend (gogpu/wgpu HAL).
	NameWGPU = "wgpu"
	// NameSoftware is the CPU reference backend.
	NameSoftware = "software"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNeedsWindow is returned when a windowed backend is selected for a
	// headless run.
	ErrNeedsWindow = errors.New("backend: backend requires a window")
)

// Backend creates gravity pipelines.
//
// Backends must be registered via Register() and are selected via
// Get(), Default() or Select().
type Backend interface {
	// Name returns the backend identifier (e.g., "opengl", "software").
	Name() string

	// Windowed reports whether pipelines of this backend draw into the
	// current window's graphics context. Windowed backends must be created
	// after the window, on the thread that owns its context.
	Windowed() bool

	// NewPipeline creates a pipeline for cfg with both particle buffers
	// allocated and slot 0 holding the initial particles.
	NewPipeline(cfg gravity.Config) (gravity.Pipeline, error)
}

// ParticleReader is implemented by pipelines whose particle state can be
// read back to the CPU.
type ParticleReader interface {
	// Particles returns a copy of the most recently written particle buffer.
	Particles() ([]gravity.Particle, error)
}

// FrameReader is implemented by pipelines that render into a CPU image.
type FrameReader interface {
	// Frame returns the most recently presented frame. The image is owned
	// by the pipeline and is overwritten by the next Render.
	Frame() *image.RGBA
}
