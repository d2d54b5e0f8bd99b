// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build nogpu

package window

import "github.com/gogpu/gravity"

// GLFW is unavailable in nogpu builds.
type GLFW struct{ Headless }

// OpenGLFW always fails in nogpu builds.
func OpenGLFW(gravity.Config) (*GLFW, error) { return nil, ErrUnavailable }

// FramebufferSize mirrors the glfw build.
func (w *GLFW) FramebufferSize() (int, int) { return w.Size() }

// Close is a no-op.
func (w *GLFW) Close() {}
