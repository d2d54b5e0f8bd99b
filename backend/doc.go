// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend provides the pluggable pipeline backends of gravity.
//
// A backend creates gravity.Pipeline values: the pair of particle buffers
// plus the programs that simulate and draw them. Backends register
// themselves from init() functions and are selected at runtime:
//
//	import (
//		_ "github.com/gogpu/gravity/backend/opengl"
//		_ "github.com/gogpu/gravity/backend/software"
//	)
//
// # Backend Selection
//
// Use Default() to get the best available backend, Get() to request one by
// name, or Select() to honor a user choice and the headless constraint:
//
//	b, err := backend.Select(*backendName, headless)
//	if err != nil {
//		log.Fatal(err)
//	}
//	pipe, err := b.NewPipeline(cfg)
//
// # Available Backends
//
//   - "opengl": transform feedback on OpenGL 4.1 core (needs a window)
//   - "wgpu": compute pass on the gogpu/wgpu HAL, CPU raster for display
//   - "software": CPU reference stepper and rasterizer (always available)
package backend
