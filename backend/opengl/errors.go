// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package opengl

import "errors"

// Package errors for the OpenGL backend.
var (
	// ErrShaderCompile is returned when a shader fails to compile. The
	// wrapping error carries the driver info log.
	ErrShaderCompile = errors.New("opengl: shader compilation failed")

	// ErrProgramLink is returned when a program fails to link.
	ErrProgramLink = errors.New("opengl: program link failed")

	// ErrLocationNotFound is returned when a named attribute or uniform has
	// no location in a linked program.
	ErrLocationNotFound = errors.New("opengl: attribute or uniform not found")

	// ErrFramebufferIncomplete is returned when the off-screen framebuffer
	// is not complete.
	ErrFramebufferIncomplete = errors.New("opengl: framebuffer incomplete")

	// ErrGL is returned when glGetError reports an error after a stage.
	ErrGL = errors.New("opengl: GL error")

	// ErrClosed is returned by stage calls on a closed pipeline.
	ErrClosed = errors.New("opengl: pipeline closed")
)
