// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gravity is a real-time particle demo: a fixed set of point particles
// is pulled toward a cursor-controlled gravity source, simulated on the GPU
// through a feedback loop between two vertex buffers.
//
// # Overview
//
// Each frame the simulation stage reads every particle from the "current"
// buffer, applies the force law and wall reflection, and writes the result to
// the other buffer (the "feedback target"). The render stage then draws the
// freshly written buffer as point sprites, either straight to the screen or
// into an off-screen color target that a post-process pass copies to the
// screen. Finally the two buffers swap roles (ping-pong buffering), so no
// step ever reads and writes the same buffer.
//
// # Force Law
//
// For a particle at position p with velocity v, gravity source s and time step dt:
//
//	diff = s - p
//	r2   = clamp(|diff|^2, 0.1, 1.0)
//	v'   = v + dt * normalize(diff) / r2
//	p'   = p + dt * v'
//
// If p' leaves [-1, 1] on an axis, the velocity component on that axis is
// reflected and scaled by [ReflectLoss]. Position is not clamped, so a
// particle may spend one frame outside the visible range.
// [Step] is the reference implementation; the GPU backends run the same law
// in GLSL (transform feedback) and WGSL (compute pass).
//
// # Architecture
//
// The package is organized into:
//   - Data model: [Particle], [BufferPair], [StepParams]
//   - Frame driver: [Driver] over the [Window] and [Pipeline] interfaces
//   - Configuration: [Config] built from functional [Option] values
//   - Backends: backend/opengl (transform feedback), backend/wgpu (compute),
//     backend/software (CPU reference), selected through the backend registry
//
// # Quick Start
//
//	cfg, err := gravity.NewConfig(gravity.WithVariant(gravity.VariantPostProcess))
//	if err != nil {
//		log.Fatal(err)
//	}
//	win := window.NewHeadless(cfg, 600)
//	pipe, err := software.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pipe.Close()
//
//	if err := gravity.NewDriver(cfg, win, pipe).Run(context.Background()); err != nil {
//		log.Fatal(err)
//	}
//
// # Logging
//
// The package is silent by default. Call [SetLogger] to receive lifecycle and
// per-frame diagnostics through log/slog.
package gravity
