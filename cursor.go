// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gravity

import "github.com/go-gl/mathgl/mgl32"

// CursorToSource converts a cursor position in window pixels (origin at the
// top-left, Y down) to the simulation's normalized coordinates (origin at the
// center, Y up, [-1, 1] across the window).
func CursorToSource(x, y float64, width, height int) mgl32.Vec2 {
	hw := float64(width) / 2
	hh := float64(height) / 2
	return mgl32.Vec2{float32((x - hw) / hw), float32((hh - y) / hh)}
}
