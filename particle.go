// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gravity

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// Particle layout shared by every backend: position and velocity interleaved
// as four float32 values.
const (
	// ParticleFloats is the number of float32 values per particle.
	ParticleFloats = 4

	// ParticleStride is the size of one particle in a GPU buffer, in bytes.
	ParticleStride = ParticleFloats * 4

	// VelocityOffset is the byte offset of the velocity within a particle.
	VelocityOffset = 2 * 4
)

// Particle is a point mass with a position and velocity in normalized
// device coordinates. A particle has no identity beyond its buffer slot.
type Particle struct {
	Position mgl32.Vec2
	Velocity mgl32.Vec2
}

// NewParticles returns n particles with positions drawn uniformly from
// [-1, 1] on both axes and zero velocity. The same seed always yields the
// same particles.
func NewParticles(n int, seed uint64) []Particle {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	ps := make([]Particle, n)
	for i := range ps {
		ps[i].Position = mgl32.Vec2{rng.Float32()*2 - 1, rng.Float32()*2 - 1}
	}
	return ps
}

// Pack appends the interleaved float32 layout of ps to dst and returns the
// extended slice.
func Pack(dst []float32, ps []Particle) []float32 {
	for _, p := range ps {
		dst = append(dst, p.Position[0], p.Position[1], p.Velocity[0], p.Velocity[1])
	}
	return dst
}

// Unpack decodes interleaved float32 data into dst, reusing its storage.
// Trailing values that do not form a whole particle are ignored.
func Unpack(dst []Particle, data []float32) []Particle {
	n := len(data) / ParticleFloats
	dst = dst[:0]
	for i := 0; i < n; i++ {
		f := data[i*ParticleFloats:]
		dst = append(dst, Particle{
			Position: mgl32.Vec2{f[0], f[1]},
			Velocity: mgl32.Vec2{f[2], f[3]},
		})
	}
	return dst
}
