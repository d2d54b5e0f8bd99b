// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package window

import (
	"sync"

	"github.com/gogpu/gravity"
)

// DefaultTick is the fixed frame period of a headless window.
const DefaultTick = 1.0 / 60

// Headless is a window without a display. Its clock advances by a fixed tick
// on every reading, so a headless run is reproducible regardless of host speed.
// It requests close after a fixed number of presented frames.
//
// Headless is safe for concurrent use.
type Headless struct {
	mu sync.Mutex

	width, height int
	frames        int
	tick          float64

	reads            int
	presented        int
	cursorX, cursorY float64
	closed           bool
}

// NewHeadless returns a window of the given size that closes after frames
// presented frames. A non-positive frames value never closes on its own.
// The cursor starts at the window center.
func NewHeadless(width, height, frames int) *Headless {
	return &Headless{
		width:   width,
		height:  height,
		frames:  frames,
		tick:    DefaultTick,
		cursorX: float64(width) / 2,
		cursorY: float64(height) / 2,
	}
}

// SetTick changes the clock period. Use before the run starts.
func (h *Headless) SetTick(seconds float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tick = seconds
}

// SetCursor moves the simulated cursor, in window pixels.
func (h *Headless) SetCursor(x, y float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cursorX, h.cursorY = x, y
}

// RequestClose makes ShouldClose return true.
func (h *Headless) RequestClose() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
}

// ShouldClose reports whether the frame budget is spent or a close was
// requested.
func (h *Headless) ShouldClose() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed || (h.frames > 0 && h.presented >= h.frames)
}

// Time returns 0 on the first call and one tick more on every call after
// that. The frame driver reads the clock once before the loop and once per
// frame, so every frame measures exactly one tick.
func (h *Headless) Time() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	t := float64(h.reads) * h.tick
	h.reads++
	return t
}

// CursorPos returns the simulated cursor position.
func (h *Headless) CursorPos() (x, y float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursorX, h.cursorY
}

// Size returns the window size.
func (h *Headless) Size() (width, height int) {
	return h.width, h.height
}

// SwapBuffers counts a presented frame.
func (h *Headless) SwapBuffers() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.presented++
}

// PollEvents does nothing.
func (h *Headless) PollEvents() {}

// Presented returns the number of presented frames.
func (h *Headless) Presented() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.presented
}

var _ gravity.Window = (*Headless)(nil)
