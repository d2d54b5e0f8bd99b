// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package opengl

import (
	"strconv"
	"strings"

	"github.com/gogpu/gravity"
)

// Transform feedback outputs, in buffer order. Captured interleaved, they
// reproduce the particle layout of gravity.Particle.
var feedbackVaryings = []string{"newPos", "newVel"}

// Attribute, uniform and fragment output names shared by the Go side and the
// generated GLSL.
const (
	attrPosition = "position"
	attrVelocity = "velocity"
	attrTexCoord = "texcoord"

	uniformDT        = "dt"
	uniformSource    = "source"
	uniformPointSize = "pointSize"
	uniformScreen    = "screen"

	fragOut = "outColor"
)

const glslVersion = "#version 410 core\n"

// simulateVertexSource is the force law of gravity.Step in GLSL.
var simulateVertexSource = glslVersion + expand(`
in vec2 position;
in vec2 velocity;

uniform float dt;
uniform vec2 source;

out vec2 newPos;
out vec2 newVel;

void main() {
    if (dt == 0.0) {
        newPos = position;
        newVel = velocity;
        return;
    }

    vec2 diff = source - position;
    float d2 = dot(diff, diff);
    float r2 = clamp(d2, {{MIN}}, {{MAX}});
    vec2 dir = d2 > 0.0 ? diff * inversesqrt(d2) : vec2(0.0);

    newVel = velocity + dir * (dt / r2);
    newPos = position + newVel * dt;

    if (newPos.x < -{{BOUND}} || newPos.x > {{BOUND}}) {
        newVel.x = -{{LOSS}} * newVel.x;
    }
    if (newPos.y < -{{BOUND}} || newPos.y > {{BOUND}}) {
        newVel.y = -{{LOSS}} * newVel.y;
    }
}
`)

const pointVertexSource = glslVersion + `
in vec2 position;

uniform float pointSize;

void main() {
    gl_PointSize = pointSize;
    gl_Position = vec4(position, 0.0, 1.0);
}
`

const pointFragmentSource = glslVersion + `
out vec4 outColor;

void main() {
    outColor = vec4(1.0);
}
`

const quadVertexSource = glslVersion + `
in vec2 position;
in vec2 texcoord;

out vec2 uv;

void main() {
    uv = texcoord;
    gl_Position = vec4(position, 0.0, 1.0);
}
`

const quadFragmentSource = glslVersion + `
in vec2 uv;

uniform sampler2D screen;

out vec4 outColor;

void main() {
    outColor = texture(screen, uv);
}
`

// quadVertices holds the four corners of the screen as interleaved
// position and texcoord pairs.
var quadVertices = []float32{
	-1, -1, 0, 0,
	1, -1, 1, 0,
	-1, 1, 0, 1,
	1, 1, 1, 1,
}

// quadIndices splits the screen quad into two counter-clockwise triangles.
var quadIndices = []uint32{
	0, 1, 2,
	2, 1, 3,
}

func expand(src string) string {
	return strings.NewReplacer(
		"{{MIN}}", glslFloat(gravity.MinInfluence),
		"{{MAX}}", glslFloat(gravity.MaxInfluence),
		"{{BOUND}}", glslFloat(gravity.Bound),
		"{{LOSS}}", glslFloat(gravity.ReflectLoss),
	).Replace(src)
}

// glslFloat formats f as a GLSL float literal. GLSL needs the decimal point:
// "1" is an int and does not convert implicitly in every context.
func glslFloat(f float32) string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
