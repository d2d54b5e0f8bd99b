// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gravity

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const stepEps = 1e-6

func vecApprox(a, b mgl32.Vec2) bool {
	return mgl32.FloatEqualThreshold(a[0], b[0], stepEps) &&
		mgl32.FloatEqualThreshold(a[1], b[1], stepEps)
}

func finite(v mgl32.Vec2) bool {
	for _, c := range v {
		if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			return false
		}
	}
	return true
}

func TestStep_EndToEnd(t *testing.T) {
	p := Particle{}
	got := Step(p, StepParams{Source: mgl32.Vec2{1, 0}, DT: 1})

	if got.Velocity != (mgl32.Vec2{1, 0}) {
		t.Errorf("velocity = %v, want (1, 0)", got.Velocity)
	}
	// x lands exactly on the wall: 1.0 is not > 1.0, so no reflection.
	if got.Position != (mgl32.Vec2{1, 0}) {
		t.Errorf("position = %v, want (1, 0)", got.Position)
	}
}

func TestStep_AtSource(t *testing.T) {
	p := Particle{Position: mgl32.Vec2{0.3, 0.2}, Velocity: mgl32.Vec2{0.1, -0.2}}
	got := Step(p, StepParams{Source: p.Position, DT: 0.016})

	if !finite(got.Position) || !finite(got.Velocity) {
		t.Fatalf("Step at source produced non-finite state %+v", got)
	}
	if got.Velocity != p.Velocity {
		t.Errorf("velocity = %v, want unchanged %v", got.Velocity, p.Velocity)
	}
	want := p.Position.Add(p.Velocity.Mul(0.016))
	if !vecApprox(got.Position, want) {
		t.Errorf("position = %v, want %v", got.Position, want)
	}
}

func TestStep_ZeroTimestep(t *testing.T) {
	tests := []struct {
		name string
		p    Particle
		src  mgl32.Vec2
	}{
		{"at rest", Particle{}, mgl32.Vec2{0.5, 0.5}},
		{"moving", Particle{Position: mgl32.Vec2{0.2, -0.4}, Velocity: mgl32.Vec2{3, -1}}, mgl32.Vec2{-1, 1}},
		{"at source", Particle{Position: mgl32.Vec2{0.1, 0.1}, Velocity: mgl32.Vec2{1, 1}}, mgl32.Vec2{0.1, 0.1}},
		{"outside bounds", Particle{Position: mgl32.Vec2{1.5, -2}, Velocity: mgl32.Vec2{0.7, -0.3}}, mgl32.Vec2{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Step(tt.p, StepParams{Source: tt.src, DT: 0})
			if got != tt.p {
				t.Errorf("Step(dt=0) = %+v, want %+v", got, tt.p)
			}
		})
	}
}

// The source sits on the particle in the reflection cases so the force is
// zero and the velocity entering the boundary check is exactly v.
func TestStep_Reflection(t *testing.T) {
	tests := []struct {
		name    string
		p       Particle
		dt      float32
		wantPos mgl32.Vec2
		wantVel mgl32.Vec2
	}{
		{
			name:    "right wall",
			p:       Particle{Position: mgl32.Vec2{0.9, 0}, Velocity: mgl32.Vec2{2, 0.5}},
			dt:      0.1,
			wantPos: mgl32.Vec2{1.1, 0.05},
			wantVel: mgl32.Vec2{-1, 0.5},
		},
		{
			name:    "left wall",
			p:       Particle{Position: mgl32.Vec2{-0.9, 0.2}, Velocity: mgl32.Vec2{-2, -0.5}},
			dt:      0.1,
			wantPos: mgl32.Vec2{-1.1, 0.15},
			wantVel: mgl32.Vec2{1, -0.5},
		},
		{
			name:    "floor",
			p:       Particle{Position: mgl32.Vec2{0, -0.95}, Velocity: mgl32.Vec2{0.25, -1}},
			dt:      0.1,
			wantPos: mgl32.Vec2{0.025, -1.05},
			wantVel: mgl32.Vec2{0.25, 0.5},
		},
		{
			name:    "ceiling",
			p:       Particle{Position: mgl32.Vec2{0, 0.95}, Velocity: mgl32.Vec2{-0.25, 1}},
			dt:      0.1,
			wantPos: mgl32.Vec2{-0.025, 1.05},
			wantVel: mgl32.Vec2{-0.25, -0.5},
		},
		{
			name:    "corner",
			p:       Particle{Position: mgl32.Vec2{0.9, 0.9}, Velocity: mgl32.Vec2{2, 3}},
			dt:      0.1,
			wantPos: mgl32.Vec2{1.1, 1.2},
			wantVel: mgl32.Vec2{-1, -1.5},
		},
		{
			name:    "x only, y inside",
			p:       Particle{Position: mgl32.Vec2{0.9, 0.5}, Velocity: mgl32.Vec2{2, 1}},
			dt:      0.1,
			wantPos: mgl32.Vec2{1.1, 0.6},
			wantVel: mgl32.Vec2{-1, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Step(tt.p, StepParams{Source: tt.p.Position, DT: tt.dt})
			if !vecApprox(got.Velocity, tt.wantVel) {
				t.Errorf("velocity = %v, want %v", got.Velocity, tt.wantVel)
			}
			// Position is not clamped after a reflection.
			if !vecApprox(got.Position, tt.wantPos) {
				t.Errorf("position = %v, want %v", got.Position, tt.wantPos)
			}
		})
	}
}

func TestStep_ReflectionScalesReflectedComponent(t *testing.T) {
	p := Particle{Position: mgl32.Vec2{0.99, 0}, Velocity: mgl32.Vec2{0.8, -0.3}}
	got := Step(p, StepParams{Source: p.Position, DT: 0.1})

	if math.Signbit(float64(got.Velocity[0])) == math.Signbit(float64(p.Velocity[0])) {
		t.Errorf("x velocity %v did not change sign from %v", got.Velocity[0], p.Velocity[0])
	}
	if want := ReflectLoss * p.Velocity[0]; !mgl32.FloatEqualThreshold(-got.Velocity[0], want, stepEps) {
		t.Errorf("|x velocity| = %v, want %v", -got.Velocity[0], want)
	}
	if got.Velocity[1] != p.Velocity[1] {
		t.Errorf("y velocity = %v, want unchanged %v", got.Velocity[1], p.Velocity[1])
	}
}

func TestStep_Attraction(t *testing.T) {
	tests := []struct {
		name    string
		src     mgl32.Vec2
		dt      float32
		wantVel mgl32.Vec2
		wantPos mgl32.Vec2
	}{
		// |diff|^2 = 0.25 lies inside the clamp range.
		{"mid range", mgl32.Vec2{0.5, 0}, 0.1, mgl32.Vec2{0.4, 0}, mgl32.Vec2{0.04, 0}},
		// |diff|^2 = 0.01 is clamped up to 0.1.
		{"near clamp", mgl32.Vec2{0, 0.1}, 0.01, mgl32.Vec2{0, 0.1}, mgl32.Vec2{0, 0.001}},
		// |diff|^2 = 4 is clamped down to 1.
		{"far clamp", mgl32.Vec2{-2, 0}, 0.1, mgl32.Vec2{-0.1, 0}, mgl32.Vec2{-0.01, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Step(Particle{}, StepParams{Source: tt.src, DT: tt.dt})
			if !vecApprox(got.Velocity, tt.wantVel) {
				t.Errorf("velocity = %v, want %v", got.Velocity, tt.wantVel)
			}
			if !vecApprox(got.Position, tt.wantPos) {
				t.Errorf("position = %v, want %v", got.Position, tt.wantPos)
			}
		})
	}
}

func TestStepAll(t *testing.T) {
	src := NewParticles(DefaultParticleCount, 7)
	dst := make([]Particle, len(src))
	params := StepParams{Source: mgl32.Vec2{0.25, -0.5}, DT: 1.0 / 60}

	n := StepAll(dst, src, params)
	if n != len(src) {
		t.Fatalf("StepAll processed %d, want %d", n, len(src))
	}
	for i := range src {
		if want := Step(src[i], params); dst[i] != want {
			t.Errorf("dst[%d] = %+v, want %+v", i, dst[i], want)
		}
	}
}

func TestStepAll_ShorterDestination(t *testing.T) {
	src := NewParticles(10, 1)
	dst := make([]Particle, 4)
	if n := StepAll(dst, src, StepParams{DT: 0.1}); n != 4 {
		t.Errorf("StepAll processed %d, want 4", n)
	}
}

func TestStep_StaysFiniteOverManyFrames(t *testing.T) {
	ps := NewParticles(DefaultParticleCount, 42)
	next := make([]Particle, len(ps))
	for frame := 0; frame < 2000; frame++ {
		angle := float64(frame) * 0.01
		src := mgl32.Vec2{float32(math.Cos(angle)), float32(math.Sin(angle))}
		StepAll(next, ps, StepParams{Source: src, DT: 1.0 / 60})
		ps, next = next, ps
	}
	for i, p := range ps {
		if !finite(p.Position) || !finite(p.Velocity) {
			t.Fatalf("particle %d became non-finite: %+v", i, p)
		}
	}
}

func BenchmarkStepAll(b *testing.B) {
	src := NewParticles(10000, 3)
	dst := make([]Particle, len(src))
	params := StepParams{Source: mgl32.Vec2{0.1, 0.2}, DT: 1.0 / 60}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		StepAll(dst, src, params)
	}
}
