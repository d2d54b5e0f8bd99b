// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package wgpu

import "github.com/gogpu/gpucontext"

// fakeProvider satisfies gpucontext.DeviceProvider but exposes no usable
// HAL objects.
type fakeProvider struct{ gpucontext.DeviceProvider }

func (fakeProvider) HalDevice() any { return nil }
func (fakeProvider) HalQueue() any  { return nil }

// fixedWindow closes after a number of frames on a 1/60 s clock.
type fixedWindow struct {
	frames, swaps int
	now           float64
}

func (w *fixedWindow) ShouldClose() bool { return w.swaps >= w.frames }
func (w *fixedWindow) Time() float64 {
	w.now += 1.0 / 60
	return w.now
}
func (w *fixedWindow) CursorPos() (float64, float64) { return 120, 30 }
func (w *fixedWindow) Size() (int, int)              { return 160, 120 }
func (w *fixedWindow) SwapBuffers()                  { w.swaps++ }
func (w *fixedWindow) PollEvents()                   {}
