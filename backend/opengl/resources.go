// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/gravity"
)

// releaser collects cleanup functions and runs them in reverse order of
// acquisition.
type releaser struct {
	fns []func()
}

func (r *releaser) add(fn func()) { r.fns = append(r.fns, fn) }

func (r *releaser) release() {
	for i := len(r.fns) - 1; i >= 0; i-- {
		r.fns[i]()
	}
	r.fns = nil
}

// newBuffer creates an array buffer holding data.
func newBuffer(data []float32, usage uint32) uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), usage)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return buf
}

func deleteBuffer(buf uint32) { gl.DeleteBuffers(1, &buf) }

// newIndexBuffer creates an element buffer holding indices. It is attached
// to a vertex array with indexedVertexArray.
func newIndexBuffer(indices []uint32) uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	return buf
}

// vertexAttrib is one float vector attribute inside an interleaved buffer.
type vertexAttrib struct {
	location   uint32
	components int32
	offset     int
}

// newVertexArray records the layout of attribs in buf with the given stride.
func newVertexArray(buf uint32, stride int32, attribs ...vertexAttrib) uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	for _, a := range attribs {
		gl.EnableVertexAttribArray(a.location)
		gl.VertexAttribPointer(a.location, a.components, gl.FLOAT, false, stride, gl.PtrOffset(a.offset))
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao
}

func deleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

// indexedVertexArray is newVertexArray with ebo recorded as the element
// buffer of the vertex array.
func indexedVertexArray(buf, ebo uint32, stride int32, attribs ...vertexAttrib) uint32 {
	vao := newVertexArray(buf, stride, attribs...)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BindVertexArray(0)
	return vao
}

// particleVertexArray binds the interleaved particle layout of buf to the
// position (and, when velocity is set, velocity) attributes of prog.
func particleVertexArray(buf uint32, prog *Program, velocity bool) uint32 {
	attribs := []vertexAttrib{{location: prog.Attrib(attrPosition), components: 2, offset: 0}}
	if velocity {
		attribs = append(attribs, vertexAttrib{
			location:   prog.Attrib(attrVelocity),
			components: 2,
			offset:     gravity.VelocityOffset,
		})
	}
	return newVertexArray(buf, gravity.ParticleStride, attribs...)
}

// offscreen is a framebuffer with a single color texture.
type offscreen struct {
	fbo, tex      uint32
	width, height int32
}

func newOffscreen(width, height int32) (*offscreen, error) {
	o := &offscreen{width: width, height: height}

	gl.GenTextures(1, &o.tex)
	gl.BindTexture(gl.TEXTURE_2D, o.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &o.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, o.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, o.tex, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		o.delete()
		return nil, fmt.Errorf("%w: status 0x%x (%dx%d)", ErrFramebufferIncomplete, status, width, height)
	}
	return o, nil
}

func (o *offscreen) delete() {
	if o.fbo != 0 {
		gl.DeleteFramebuffers(1, &o.fbo)
		o.fbo = 0
	}
	if o.tex != 0 {
		gl.DeleteTextures(1, &o.tex)
		o.tex = 0
	}
}

// checkError drains the GL error queue and reports the first error.
func checkError(op string) error {
	first := gl.GetError()
	if first == gl.NO_ERROR {
		return nil
	}
	for gl.GetError() != gl.NO_ERROR {
	}
	return fmt.Errorf("%w: %s: 0x%04x", ErrGL, op, first)
}
