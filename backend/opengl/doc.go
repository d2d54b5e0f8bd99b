// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package opengl implements the gravity pipeline on OpenGL 4.1 core with
// transform feedback.
//
// Each particle slot is a vertex buffer of interleaved position and velocity.
// The simulation program is vertex-only: it reads the current buffer as
// vertex attributes and captures its newPos and newVel outputs into the
// target buffer through transform feedback, with rasterization disabled.
// The render stage then draws the target buffer as point sprites, either to
// the window or into an off-screen framebuffer that a full-screen quad
// composites to the window.
//
// A TRANSFORM_FEEDBACK_PRIMITIVES_WRITTEN query counts the particles the
// simulation captured when feedback reporting is enabled.
//
// The pipeline must be created and used on the thread that owns the current
// GL context, after the window is opened:
//
//	win, err := window.OpenGLFW(cfg)
//	...
//	pipe, err := opengl.New(cfg)
//
// Import the package to register it:
//
//	import _ "github.com/gogpu/gravity/backend/opengl"
package opengl
