// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package window

import (
	"fmt"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/gravity"
)

// GLFW is a glfw window owning the current OpenGL context.
//
// glfw must be driven from the main OS thread; callers lock it with
// runtime.LockOSThread in an init function.
type GLFW struct {
	win       *glfw.Window
	closeOnce sync.Once
}

// OpenGLFW initializes glfw, creates a fixed-size window with an OpenGL 4.1
// core forward-compatible context, makes the context current and hides the
// cursor over the window.
func OpenGLFW(cfg gravity.Config) (*GLFW, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("window: glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("window: create %dx%d: %w", cfg.Width, cfg.Height, err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	win.SetInputMode(glfw.CursorMode, glfw.CursorHidden)

	gravity.Logger().Info("window: opened",
		"width", cfg.Width,
		"height", cfg.Height,
		"vsync", cfg.VSync)
	return &GLFW{win: win}, nil
}

// ShouldClose reports whether the user asked to close the window.
func (w *GLFW) ShouldClose() bool { return w.win.ShouldClose() }

// Time returns the glfw clock in seconds.
func (w *GLFW) Time() float64 { return glfw.GetTime() }

// CursorPos returns the cursor position in window coordinates.
func (w *GLFW) CursorPos() (x, y float64) { return w.win.GetCursorPos() }

// Size returns the window size in screen coordinates, the space CursorPos
// reports in.
func (w *GLFW) Size() (width, height int) { return w.win.GetSize() }

// FramebufferSize returns the drawable size in pixels.
func (w *GLFW) FramebufferSize() (width, height int) { return w.win.GetFramebufferSize() }

// SwapBuffers presents the back buffer.
func (w *GLFW) SwapBuffers() { w.win.SwapBuffers() }

// PollEvents processes pending events.
func (w *GLFW) PollEvents() { glfw.PollEvents() }

// Close destroys the window and terminates glfw. It is safe to call more
// than once. Release GL resources before calling Close.
func (w *GLFW) Close() {
	w.closeOnce.Do(func() {
		w.win.Destroy()
		glfw.Terminate()
	})
}

var _ gravity.Window = (*GLFW)(nil)
