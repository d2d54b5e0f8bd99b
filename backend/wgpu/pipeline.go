// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package wgpu

import (
	"image"
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/gravity"
	"github.com/gogpu/gravity/backend"
	"github.com/gogpu/gravity/internal/raster"
)

func init() {
	backend.Register(backend.NameWGPU, func() backend.Backend {
		return Backend{}
	})
}

// Backend creates wgpu pipelines on a device of their own.
type Backend struct{}

// Name returns the backend identifier.
func (Backend) Name() string { return backend.NameWGPU }

// Windowed reports false: frames are rasterized on the CPU.
func (Backend) Windowed() bool { return false }

// NewPipeline creates a wgpu pipeline for cfg.
func (Backend) NewPipeline(cfg gravity.Config) (gravity.Pipeline, error) {
	return New(cfg, nil)
}

// Pipeline simulates on the GPU and renders the read-back particles into
// CPU images.
type Pipeline struct {
	mu sync.Mutex

	cfg       gravity.Config
	sim       *Simulator
	frame     *image.RGBA
	offscreen *image.RGBA
	points    *raster.Points
	closed    bool
}

// New creates a pipeline for cfg. A non-nil provider shares the host's
// device instead of opening one.
func New(cfg gravity.Config, provider gpucontext.DeviceProvider) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sim := NewSimulator(gravity.NewParticles(cfg.Particles, cfg.Seed))
	if provider != nil {
		if err := sim.SetDeviceProvider(provider); err != nil {
			sim.Close()
			return nil, err
		}
	}
	if err := sim.Init(); err != nil {
		sim.Close()
		return nil, err
	}

	p := &Pipeline{
		cfg:    cfg,
		sim:    sim,
		frame:  image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
		points: raster.NewPoints(cfg.PointSize, raster.Foreground),
	}
	if cfg.Variant == gravity.VariantPostProcess {
		p.offscreen = image.NewRGBA(p.frame.Bounds())
	}
	raster.Clear(p.frame, raster.Background)

	gravity.Logger().Info("wgpu: pipeline created",
		"particles", cfg.Particles,
		"variant", cfg.Variant,
		"shared_device", provider != nil)
	return p, nil
}

// Name returns the backend identifier.
func (p *Pipeline) Name() string { return backend.NameWGPU }

// Simulate dispatches one compute step from the current slot to the target.
func (p *Pipeline) Simulate(sc *gravity.SimContext) (int, error) {
	return p.sim.Step(sc.Pair.Current(), sc.Params)
}

// Render rasterizes the particles written by the last Simulate, which are
// the contents of the target slot.
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
	var drawn int
	if err := p.sim.view(func(ps []gravity.Particle) {
		drawn = p.points.Draw(target, ps)
	}); err != nil {
		return err
	}
	if p.offscreen != nil {
		raster.Blit(p.frame, p.offscreen)
	}

	gravity.Logger().Debug("wgpu: rendered", "frame", sc.Frame, "visible", drawn)
	return nil
}

// Particles returns the most recently read-back particles.
func (p *Pipeline) Particles() ([]gravity.Particle, error) {
	return p.sim.Latest()
}

// Frame returns the most recently rendered frame.
func (p *Pipeline) Frame() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

// Close releases the simulator. It is safe to call more than once.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.sim.Close()
}

var (
	_ gravity.Pipeline       = (*Pipeline)(nil)
	_ backend.ParticleReader = (*Pipeline)(nil)
	_ backend.FrameReader    = (*Pipeline)(nil)
)
