// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software implements the gravity pipeline on the CPU.
//
// It is the reference backend: the simulation stage is gravity.StepAll over
// two particle slices indexed by the driver's buffer slots, and the render
// stage rasterizes point sprites into an image. The post-process variant
// draws into an off-screen image first and blits it to the frame.
//
// Import the package to register it:
//
//	import _ "github.com/gogpu/gravity/backend/software"
package software

import (
	"errors"
	"image"
	"slices"
	"sync"

	"github.com/gogpu/gravity"
	"github.com/gogpu/gravity/backend"
	"github.com/gogpu/gravity/internal/parallel"
	"github.com/gogpu/gravity/internal/raster"
)

// ErrClosed is returned by stage calls on a closed pipeline.
var ErrClosed = errors.New("software: pipeline closed")

func init() {
	backend.Register(backend.NameSoftware, func() backend.Backend {
		return Backend{}
	})
}

// Backend creates software pipelines.
type Backend struct{}

// Name returns the backend identifier.
func (Backend) Name() string { return backend.NameSoftware }

// Windowed reports false: software pipelines render into CPU images.
func (Backend) Windowed() bool { return false }

// NewPipeline creates a software pipeline for cfg.
func (Backend) NewPipeline(cfg gravity.Config) (gravity.Pipeline, error) {
	return New(cfg)
}

// Pipeline is the CPU gravity pipeline.
//
// Pipeline is safe for concurrent use; stage calls are serialized.
type Pipeline struct {
	mu sync.Mutex

	cfg  gravity.Config
	bufs [2][]gravity.Particle

	// last is the slot most recently written by Simulate.
	last int

	frame     *image.RGBA
	offscreen *image.RGBA
	points    *raster.Points

	// pool splits Simulate across goroutines; nil for small particle counts.
	pool *parallel.Pool

	closed bool
}

// New creates a pipeline with slot 0 holding cfg.Particles particles seeded
// from cfg.Seed.
func New(cfg gravity.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg:    cfg,
		frame:  image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
		points: raster.NewPoints(cfg.PointSize, raster.Foreground),
	}
	p.bufs[0] = gravity.NewParticles(cfg.Particles, cfg.Seed)
	p.bufs[1] = make([]gravity.Particle, cfg.Particles)
	if cfg.Variant == gravity.VariantPostProcess {
		p.offscreen = image.NewRGBA(p.frame.Bounds())
	}
	if cfg.Particles >= 2*parallel.MinChunk {
		p.pool = parallel.NewPool(0)
	}
	raster.Clear(p.frame, raster.Background)

	gravity.Logger().Info("software: pipeline created",
		"particles", cfg.Particles,
		"parallel", p.pool != nil,
		"variant", cfg.Variant,
		"size", p.frame.Bounds().Size())
	return p, nil
}

// Name returns the backend identifier.
func (p *Pipeline) Name() string { return backend.NameSoftware }

// Simulate steps every particle of the current slot into the target slot.
func (p *Pipeline) Simulate(sc *gravity.SimContext) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, ErrClosed
	}

	src, dst := p.bufs[sc.Pair.Current()], p.bufs[sc.Pair.Target()]
	n := min(len(src), len(dst))
	if p.pool == nil {
		gravity.StepAll(dst, src, sc.Params)
	} else {
		p.pool.Range(n, func(lo, hi int) {
			gravity.StepAll(dst[lo:hi], src[lo:hi], sc.Params)
		})
	}
	p.last = sc.Pair.Target()
	return n, nil
}

// Render draws the target slot, directly into the frame or into the
// off-screen image followed by a full-frame blit.
func (p *Pipeline) Render(sc *gravity.SimContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	target := p.frame
	if p.offscreen != nil {
		target = p.offscreen
	}
	raster.Clear(target, raster.Background)
	drawn := p.points.Draw(target, p.bufs[sc.Pair.Target()])
	if p.offscreen != nil {
		raster.Blit(p.frame, p.offscreen)
	}

	gravity.Logger().Debug("software: rendered", "frame", sc.Frame, "visible", drawn)
	return nil
}

// Particles returns a copy of the most recently written slot, or the
// initial particles before the first Simulate.
func (p *Pipeline) Particles() ([]gravity.Particle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	return slices.Clone(p.bufs[p.last]), nil
}

// Frame returns the most recently rendered frame.
func (p *Pipeline) Frame() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

// Close releases the particle buffers. It is safe to call more than once.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.pool != nil {
		p.pool.Close()
	}
	p.bufs = [2][]gravity.Particle{}
	p.offscreen = nil
}

var (
	_ gravity.Pipeline       = (*Pipeline)(nil)
	_ backend.ParticleReader = (*Pipeline)(nil)
	_ backend.FrameReader    = (*Pipeline)(nil)
)
