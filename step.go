// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gravity

import "github.com/go-gl/mathgl/mgl32"

// Force law constants. The GLSL and WGSL programs are generated from these
// values so that every backend runs the same law.
const (
	// ReflectLoss scales the reflected velocity component after a wall hit.
	ReflectLoss float32 = 0.5

	// MinInfluence is the lower clamp of the squared distance. It bounds the
	// acceleration near the source and keeps the division finite.
	MinInfluence float32 = 0.1

	// MaxInfluence is the upper clamp of the squared distance, so far-away
	// particles still feel a minimum pull.
	MaxInfluence float32 = 1.0

	// Bound is the half extent of the visible square [-Bound, Bound].
	Bound float32 = 1.0
)

// StepParams holds the per-frame inputs of the simulation stage.
type StepParams struct {
	// Source is the gravity source in normalized device coordinates.
	Source mgl32.Vec2

	// DT is the time step in seconds.
	DT float32
}

// Step advances a single particle by one time step.
//
// Boundary checks use the unreflected new position: the X test may flip and
// damp the X velocity, and the Y test, evaluated on the same position, may
// independently flip and damp the Y velocity. The position itself is never
// clamped. A zero time step returns p unchanged.
func Step(p Particle, params StepParams) Particle {
	if params.DT == 0 {
		return p
	}

	diff := params.Source.Sub(p.Position)
	r2 := mgl32.Clamp(diff.LenSqr(), MinInfluence, MaxInfluence)

	vel := p.Velocity.Add(direction(diff).Mul(params.DT / r2))
	pos := p.Position.Add(vel.Mul(params.DT))

	if outside(pos[0]) {
		vel[0] = -ReflectLoss * vel[0]
	}
	if outside(pos[1]) {
		vel[1] = -ReflectLoss * vel[1]
	}
	return Particle{Position: pos, Velocity: vel}
}

// StepAll writes Step(src[i]) into dst[i] for every particle and returns the
// number of particles processed. dst and src must not share storage.
func StepAll(dst, src []Particle, params StepParams) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = Step(src[i], params)
	}
	return n
}

// direction returns the unit vector along d, or zero when d has no length.
func direction(d mgl32.Vec2) mgl32.Vec2 {
	if d.LenSqr() == 0 {
		return mgl32.Vec2{}
	}
	return d.Normalize()
}

func outside(c float32) bool {
	return c < -Bound || c > Bound
}
