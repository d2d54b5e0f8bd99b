// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gravity

import "errors"

// Configuration and lifecycle errors.
var (
	// ErrInvalidParticleCount is returned when the particle count is not positive.
	ErrInvalidParticleCount = errors.New("gravity: particle count must be positive")

	// ErrInvalidWindowSize is returned when the window width or height is not positive.
	ErrInvalidWindowSize = errors.New("gravity: window size must be positive")

	// ErrUnknownVariant is returned when parsing an unrecognized render variant.
	ErrUnknownVariant = errors.New("gravity: unknown render variant")

	// ErrInvalidTimestep is returned when a frozen time step is negative.
	ErrInvalidTimestep = errors.New("gravity: time step must not be negative")

	// ErrDriverStopped is returned when Run is called on a driver that has
	// already left the Running state.
	ErrDriverStopped = errors.New("gravity: driver is not running")

	// ErrNilPipeline is returned when a driver is built without a pipeline or window.
	ErrNilPipeline = errors.New("gravity: nil pipeline or window")
)
