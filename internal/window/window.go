// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package window provides the gravity.Window implementations: a glfw window
// with an OpenGL 4.1 core context, and a headless window driven by a fixed
// clock.
package window

import "errors"

// ErrUnavailable is returned when the binary was built without window
// support (the nogpu build tag).
var ErrUnavailable = errors.New("window: built without glfw support")
