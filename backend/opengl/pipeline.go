// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package opengl

import (
	"fmt"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/gravity"
	"github.com/gogpu/gravity/backend"
)

func init() {
	backend.Register(backend.NameOpenGL, func() backend.Backend {
		return Backend{}
	})
}

// Backend creates OpenGL pipelines.
type Backend struct{}

// Name returns the backend identifier.
func (Backend) Name() string { return backend.NameOpenGL }

// Windowed reports true: the pipeline draws into the current GL context.
func (Backend) Windowed() bool { return true }

// NewPipeline creates an OpenGL pipeline in the current context.
func (Backend) NewPipeline(cfg gravity.Config) (gravity.Pipeline, error) {
	return New(cfg)
}

// Pipeline is the transform feedback gravity pipeline.
//
// All methods must be called on the thread owning the GL context.
type Pipeline struct {
	mu sync.Mutex

	cfg   gravity.Config
	count int32

	simulate *Program
	points   *Program
	quad     *Program

	vbo     [2]uint32
	simVAO  [2]uint32
	drawVAO [2]uint32

	quadVBO, quadEBO, quadVAO uint32
	off                       *offscreen

	query    uint32
	viewport [4]int32

	last   int
	closed bool
	rel    releaser
}

// New creates a pipeline for cfg in the current GL context. Slot 0 holds the
// initial particles and slot 1 is allocated with the same size. On error
// every GL object created so far is released.
func New(cfg gravity.Config) (_ *Pipeline, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("opengl: init: %w", err)
	}

	p := &Pipeline{cfg: cfg, count: int32(cfg.Particles)}
	defer func() {
		if err != nil {
			p.rel.release()
		}
	}()

	log := gravity.Logger()
	log.Info("opengl: context",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	if err := p.createPrograms(); err != nil {
		return nil, err
	}

	// Particle buffers: slot 0 starts with the initial state, slot 1 is
	// sized to match and written by the first step.
	initial := gravity.Pack(nil, gravity.NewParticles(cfg.Particles, cfg.Seed))
	for i := range p.vbo {
		data := initial
		if i == 1 {
			data = make([]float32, len(initial))
		}
		p.vbo[i] = newBuffer(data, gl.STREAM_DRAW)
		buf := p.vbo[i]
		p.rel.add(func() { deleteBuffer(buf) })
	}
	for i := range p.vbo {
		p.simVAO[i] = particleVertexArray(p.vbo[i], p.simulate, true)
		p.drawVAO[i] = particleVertexArray(p.vbo[i], p.points, false)
		sim, draw := p.simVAO[i], p.drawVAO[i]
		p.rel.add(func() {
			deleteVertexArray(draw)
			deleteVertexArray(sim)
		})
	}

	gl.GenQueries(1, &p.query)
	p.rel.add(func() { gl.DeleteQueries(1, &p.query) })

	gl.GetIntegerv(gl.VIEWPORT, &p.viewport[0])

	if cfg.Variant == gravity.VariantPostProcess {
		p.quadVBO = newBuffer(quadVertices, gl.STATIC_DRAW)
		p.rel.add(func() { deleteBuffer(p.quadVBO) })
		p.quadEBO = newIndexBuffer(quadIndices)
		p.rel.add(func() { deleteBuffer(p.quadEBO) })
		p.quadVAO = indexedVertexArray(p.quadVBO, p.quadEBO, 4*4,
			vertexAttrib{location: p.quad.Attrib(attrPosition), components: 2, offset: 0},
			vertexAttrib{location: p.quad.Attrib(attrTexCoord), components: 2, offset: 2 * 4},
		)
		p.rel.add(func() { deleteVertexArray(p.quadVAO) })

		off, err := newOffscreen(p.viewport[2], p.viewport[3])
		if err != nil {
			return nil, err
		}
		p.off = off
		p.rel.add(off.delete)
	}

	gl.Enable(gl.PROGRAM_POINT_SIZE)

	if err := checkError("setup"); err != nil {
		return nil, err
	}

	log.Info("opengl: pipeline created",
		"particles", cfg.Particles,
		"variant", cfg.Variant,
		"buffer_bytes", cfg.Particles*gravity.ParticleStride,
		"viewport", p.viewport)
	return p, nil
}

func (p *Pipeline) createPrograms() error {
	var err error
	p.simulate, err = NewProgram(ProgramDesc{
		Name:             "simulate",
		Vertex:           simulateVertexSource,
		FeedbackVaryings: feedbackVaryings,
		Attribs:          []string{attrPosition, attrVelocity},
		Uniforms:         []string{uniformDT, uniformSource},
	})
	if err != nil {
		return err
	}
	p.rel.add(p.simulate.Delete)

	p.points, err = NewProgram(ProgramDesc{
		Name:     "points",
		Vertex:   pointVertexSource,
		Fragment: pointFragmentSource,
		FragOut:  fragOut,
		Attribs:  []string{attrPosition},
		Uniforms: []string{uniformPointSize},
	})
	if err != nil {
		return err
	}
	p.rel.add(p.points.Delete)

	if p.cfg.Variant != gravity.VariantPostProcess {
		return nil
	}
	p.quad, err = NewProgram(ProgramDesc{
		Name:     "postprocess",
		Vertex:   quadVertexSource,
		Fragment: quadFragmentSource,
		FragOut:  fragOut,
		Attribs:  []string{attrPosition, attrTexCoord},
		Uniforms: []string{uniformScreen},
	})
	if err != nil {
		return err
	}
	p.rel.add(p.quad.Delete)
	return nil
}

// Name returns the backend identifier.
func (p *Pipeline) Name() string { return backend.NameOpenGL }

// Simulate captures one step of every particle from the current buffer into
// the target buffer with rasterization disabled. When feedback reporting is
// on, the count comes from the primitives-written query; otherwise it is the
// number of particles submitted.
func (p *Pipeline) Simulate(sc *gravity.SimContext) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, ErrClosed
	}

	src, dst := sc.Pair.Current(), sc.Pair.Target()
	report := p.cfg.ReportsFeedback()

	p.simulate.Use()
	gl.Uniform1f(p.simulate.Uniform(uniformDT), sc.Params.DT)
	gl.Uniform2f(p.simulate.Uniform(uniformSource), sc.Params.Source[0], sc.Params.Source[1])

	gl.Enable(gl.RASTERIZER_DISCARD)
	gl.BindVertexArray(p.simVAO[src])
	gl.BindBufferBase(gl.TRANSFORM_FEEDBACK_BUFFER, 0, p.vbo[dst])

	if report {
		gl.BeginQuery(gl.TRANSFORM_FEEDBACK_PRIMITIVES_WRITTEN, p.query)
	}
	gl.BeginTransformFeedback(gl.POINTS)
	gl.DrawArrays(gl.POINTS, 0, p.count)
	gl.EndTransformFeedback()
	if report {
		gl.EndQuery(gl.TRANSFORM_FEEDBACK_PRIMITIVES_WRITTEN)
	}

	gl.BindBufferBase(gl.TRANSFORM_FEEDBACK_BUFFER, 0, 0)
	gl.BindVertexArray(0)
	gl.Disable(gl.RASTERIZER_DISCARD)

	n := int(p.count)
	if report {
		var written uint32
		gl.GetQueryObjectuiv(p.query, gl.QUERY_RESULT, &written)
		n = int(written)
	}
	if err := checkError("simulate"); err != nil {
		return 0, err
	}
	p.last = dst
	return n, nil
}

// Render draws the target buffer as points, to the window or through the
// off-screen target and the full-screen quad.
func (p *Pipeline) Render(sc *gravity.SimContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	if p.off != nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, p.off.fbo)
		gl.Viewport(0, 0, p.off.width, p.off.height)
	}
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	p.points.Use()
	gl.Uniform1f(p.points.Uniform(uniformPointSize), p.cfg.PointSize)
	gl.BindVertexArray(p.drawVAO[sc.Pair.Target()])
	gl.DrawArrays(gl.POINTS, 0, p.count)

	if p.off != nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(p.viewport[0], p.viewport[1], p.viewport[2], p.viewport[3])
		gl.Clear(gl.COLOR_BUFFER_BIT)

		p.quad.Use()
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, p.off.tex)
		gl.Uniform1i(p.quad.Uniform(uniformScreen), 0)
		gl.BindVertexArray(p.quadVAO)
		gl.DrawElements(gl.TRIANGLES, int32(len(quadIndices)), gl.UNSIGNED_INT, nil)
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
	gl.BindVertexArray(0)

	return checkError("render")
}

// Particles reads back the most recently written buffer.
func (p *Pipeline) Particles() ([]gravity.Particle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}

	data := make([]float32, int(p.count)*gravity.ParticleFloats)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo[p.last])
	gl.GetBufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, gl.Ptr(data))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if err := checkError("readback"); err != nil {
		return nil, err
	}
	return gravity.Unpack(nil, data), nil
}

// Close releases every GL object in reverse order of creation. It is safe
// to call more than once.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.rel.release()
	if err := checkError("release"); err != nil {
		gravity.Logger().Warn("opengl: release", "err", err)
	}
}

var (
	_ gravity.Pipeline       = (*Pipeline)(nil)
	_ backend.ParticleReader = (*Pipeline)(nil)
)
