// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ProgramDesc describes a GLSL program to compile and link.
type ProgramDesc struct {
	Name     string
	Vertex   string
	Fragment string // optional: feedback-only programs have no fragment stage

	// FeedbackVaryings are captured interleaved into the buffer bound at
	// TRANSFORM_FEEDBACK_BUFFER index 0. Must be set before linking.
	FeedbackVaryings []string

	// FragOut is bound to color number 0 before linking.
	FragOut string

	// Attribs and Uniforms are resolved after linking. A name the linker
	// optimized away is an error.
	Attribs  []string
	Uniforms []string
}

// Program is a linked GL program with its resolved locations.
type Program struct {
	name     string
	handle   uint32
	attribs  map[string]uint32
	uniforms map[string]int32
}

// NewProgram compiles, links and introspects desc.
func NewProgram(desc ProgramDesc) (*Program, error) {
	vs, err := compileShader(desc.Name, gl.VERTEX_SHADER, desc.Vertex)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)

	var fs uint32
	if desc.Fragment != "" {
		fs, err = compileShader(desc.Name, gl.FRAGMENT_SHADER, desc.Fragment)
		if err != nil {
			return nil, err
		}
		defer gl.DeleteShader(fs)
	}

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vs)
	if fs != 0 {
		gl.AttachShader(handle, fs)
	}

	if len(desc.FeedbackVaryings) > 0 {
		cstrs := make([]string, len(desc.FeedbackVaryings))
		for i, v := range desc.FeedbackVaryings {
			cstrs[i] = v + "\x00"
		}
		varyings, free := gl.Strs(cstrs...)
		gl.TransformFeedbackVaryings(handle, int32(len(cstrs)), varyings, gl.INTERLEAVED_ATTRIBS)
		free()
	}
	if desc.FragOut != "" {
		gl.BindFragDataLocation(handle, 0, gl.Str(desc.FragOut+"\x00"))
	}

	gl.LinkProgram(handle)

	gl.DetachShader(handle, vs)
	if fs != 0 {
		gl.DetachShader(handle, fs)
	}

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteProgram(handle)
		return nil, fmt.Errorf("%w: %s: %s", ErrProgramLink, desc.Name, strings.TrimRight(msg, "\x00"))
	}

	p := &Program{
		name:     desc.Name,
		handle:   handle,
		attribs:  make(map[string]uint32, len(desc.Attribs)),
		uniforms: make(map[string]int32, len(desc.Uniforms)),
	}
	for _, a := range desc.Attribs {
		loc := gl.GetAttribLocation(handle, gl.Str(a+"\x00"))
		if loc < 0 {
			p.Delete()
			return nil, fmt.Errorf("%w: %s: attribute %q", ErrLocationNotFound, desc.Name, a)
		}
		p.attribs[a] = uint32(loc)
	}
	for _, u := range desc.Uniforms {
		loc := gl.GetUniformLocation(handle, gl.Str(u+"\x00"))
		if loc < 0 {
			p.Delete()
			return nil, fmt.Errorf("%w: %s: uniform %q", ErrLocationNotFound, desc.Name, u)
		}
		p.uniforms[u] = loc
	}
	return p, nil
}

// Attrib returns the location of a resolved attribute.
func (p *Program) Attrib(name string) uint32 { return p.attribs[name] }

// Uniform returns the location of a resolved uniform.
func (p *Program) Uniform(name string) int32 { return p.uniforms[name] }

// Use makes p the current program.
func (p *Program) Use() { gl.UseProgram(p.handle) }

// Delete releases the program. It is safe to call more than once.
func (p *Program) Delete() {
	if p.handle == 0 {
		return
	}
	gl.DeleteProgram(p.handle)
	p.handle = 0
}

func compileShader(program string, typ uint32, src string) (uint32, error) {
	handle := gl.CreateShader(typ)

	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteShader(handle)
		return 0, fmt.Errorf("%w: %s %s: %s", ErrShaderCompile, program, stageName(typ), strings.TrimRight(msg, "\x00"))
	}
	return handle, nil
}

func stageName(typ uint32) string {
	switch typ {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	default:
		return fmt.Sprintf("stage 0x%x", typ)
	}
}
