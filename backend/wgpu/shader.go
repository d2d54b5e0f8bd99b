// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/naga"

	"github.com/gogpu/gravity"
)

// workgroupSize is the number of particles per compute workgroup.
const workgroupSize = 64

// paramsSize is the size of the Params uniform: vec2 source, f32 dt, u32 count.
const paramsSize = 16

// simulateShaderSource is the force law of gravity.Step in WGSL.
var simulateShaderSource = strings.NewReplacer(
	"{{WG}}", strconv.Itoa(workgroupSize),
	"{{MIN}}", wgslFloat(gravity.MinInfluence),
	"{{MAX}}", wgslFloat(gravity.MaxInfluence),
	"{{BOUND}}", wgslFloat(gravity.Bound),
	"{{LOSS}}", wgslFloat(gravity.ReflectLoss),
).Replace(`
struct Params {
    source: vec2<f32>,
    dt: f32,
    count: u32,
}

struct Particle {
    pos: vec2<f32>,
    vel: vec2<f32>,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read> src: array<Particle>;
@group(0) @binding(2) var<storage, read_write> dst: array<Particle>;

@compute @workgroup_size({{WG}})
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    let i = id.x;
    if (i >= params.count) {
        return;
    }

    let p = src[i];
    if (params.dt == 0.0) {
        dst[i] = p;
        return;
    }

    let diff = params.source - p.pos;
    let d2 = dot(diff, diff);
    let r2 = clamp(d2, {{MIN}}, {{MAX}});
    var dir = vec2<f32>(0.0, 0.0);
    if (d2 > 0.0) {
        dir = diff / sqrt(d2);
    }

    var vel = p.vel + dir * (params.dt / r2);
    let pos = p.pos + vel * params.dt;

    if (pos.x < -{{BOUND}} || pos.x > {{BOUND}}) {
        vel.x = -{{LOSS}} * vel.x;
    }
    if (pos.y < -{{BOUND}} || pos.y > {{BOUND}}) {
        vel.y = -{{LOSS}} * vel.y;
    }

    dst[i] = Particle(pos, vel);
}
`)

// wgslFloat formats f as an abstract-float WGSL literal.
func wgslFloat(f float32) string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// packParams encodes the Params uniform.
func packParams(params gravity.StepParams, count int) []byte {
	b := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(params.Source[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(params.Source[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(params.DT))
	binary.LittleEndian.PutUint32(b[12:], uint32(count)) //nolint:gosec // particle count fits uint32
	return b
}

// encodeParticles serializes ps in the storage buffer layout.
func encodeParticles(ps []gravity.Particle) []byte {
	floats := gravity.Pack(make([]float32, 0, len(ps)*gravity.ParticleFloats), ps)
	b := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}

// decodeParticles deserializes the storage buffer layout into dst.
func decodeParticles(dst []gravity.Particle, b []byte) []gravity.Particle {
	floats := make([]float32, len(b)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return gravity.Unpack(dst, floats)
}

// workgroups returns the dispatch size covering n particles.
func workgroups(n int) uint32 {
	return uint32((n + workgroupSize - 1) / workgroupSize) //nolint:gosec // particle count fits uint32
}
