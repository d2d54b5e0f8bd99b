// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command gravity runs the cursor gravity particle demo.
//
// With no flags it opens an 800x600 window and simulates 50 particles on the
// GPU with OpenGL transform feedback, attracted toward the mouse cursor.
//
// Usage:
//
//	gravity [-backend opengl|wgpu|software] [-variant direct|postprocess]
//	        [-frozen] [-headless N] [-out frame.png] [-v]
//
// Backends that render on the CPU (wgpu, software) always run headless on a
// fixed 1/60 s clock; -out saves their last frame as PNG.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/gravity"
	"github.com/gogpu/gravity/backend"
	_ "github.com/gogpu/gravity/backend/opengl"
	_ "github.com/gogpu/gravity/backend/software"
	_ "github.com/gogpu/gravity/backend/wgpu"
	"github.com/gogpu/gravity/internal/window"
)

// defaultHeadlessFrames is used when a CPU backend is selected without -headless.
const defaultHeadlessFrames = 600

func init() {
	// glfw and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

type options struct {
	backend   string
	variant   gravity.Variant
	frozen    bool
	headless  int
	out       string
	verbose   bool
	particles int
	seed      uint64
	noVSync   bool
}

func main() {
	var o options
	flag.StringVar(&o.backend, "backend", "", "pipeline backend (opengl, wgpu, software); empty picks the best available")
	flag.TextVar(&o.variant, "variant", gravity.VariantDirect, "render variant (direct, postprocess)")
	flag.BoolVar(&o.frozen, "frozen", false, "use a fixed 0.1 s step and a source at the center instead of the clock and cursor")
	flag.IntVar(&o.headless, "headless", 0, "run `N` frames without a window")
	flag.StringVar(&o.out, "out", "", "write the last frame of a headless run to this PNG `file`")
	flag.BoolVar(&o.verbose, "v", false, "log per-frame diagnostics")
	flag.IntVar(&o.particles, "particles", gravity.DefaultParticleCount, "number of particles")
	flag.Uint64Var(&o.seed, "seed", 0, "seed of the initial particle placement")
	flag.BoolVar(&o.noVSync, "novsync", false, "do not wait for vertical sync")
	flag.Parse()

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	gravity.SetLogger(logger)

	if err := run(o, logger); err != nil {
		logger.Error("gravity: exit", "err", err)
		os.Exit(1)
	}
}

func run(o options, logger *slog.Logger) error {
	opts := []gravity.Option{
		gravity.WithVariant(o.variant),
		gravity.WithParticleCount(o.particles),
		gravity.WithSeed(o.seed),
		gravity.WithVSync(!o.noVSync),
	}
	if o.frozen {
		opts = append(opts, gravity.WithFrozenInput(gravity.FrozenDT, mgl32.Vec2{}))
	}
	cfg, err := gravity.NewConfig(opts...)
	if err != nil {
		return err
	}

	b, err := backend.Select(o.backend, o.headless > 0)
	if err != nil {
		return err
	}
	frames := o.headless
	if !b.Windowed() && frames <= 0 {
		frames = defaultHeadlessFrames
	}
	logger.Info("gravity: backend selected",
		"backend", b.Name(),
		"available", backend.Available(),
		"headless", frames > 0)

	var win gravity.Window
	if frames > 0 {
		win = window.NewHeadless(cfg.Width, cfg.Height, frames)
	} else {
		w, err := window.OpenGLFW(cfg)
		if err != nil {
			return err
		}
		defer w.Close()
		win = w
	}

	pipe, err := b.NewPipeline(cfg)
	if err != nil && o.backend == "" && !b.Windowed() && b.Name() != backend.NameSoftware {
		// An automatically picked GPU backend may find no adapter.
		logger.Warn("gravity: backend unavailable, using software", "backend", b.Name(), "err", err)
		if sw := backend.Get(backend.NameSoftware); sw != nil {
			b = sw
			pipe, err = b.NewPipeline(cfg)
		}
	}
	if err != nil {
		return fmt.Errorf("gravity: create %s pipeline: %w", b.Name(), err)
	}
	defer pipe.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := gravity.NewDriver(cfg, win, pipe)
	if err := d.Run(ctx); err != nil {
		return err
	}
	logger.Info("gravity: done", "frames", d.Frames(), "state", d.State())

	if pr, ok := pipe.(backend.ParticleReader); ok {
		ps, err := pr.Particles()
		if err != nil {
			logger.Warn("gravity: particle readback", "err", err)
		} else {
			logSummary(logger, ps)
		}
	}

	if o.out != "" {
		fr, ok := pipe.(backend.FrameReader)
		if !ok {
			return fmt.Errorf("gravity: -out: %s backend has no CPU frame", b.Name())
		}
		if err := savePNG(o.out, fr.Frame()); err != nil {
			return err
		}
		logger.Info("gravity: frame saved", "path", o.out)
	}
	return nil
}

// logSummary reports how many particles ended inside the visible square and
// their mean speed.
func logSummary(logger *slog.Logger, ps []gravity.Particle) {
	if len(ps) == 0 {
		return
	}
	inside := 0
	var speed float32
	for _, p := range ps {
		if p.Position[0] >= -gravity.Bound && p.Position[0] <= gravity.Bound &&
			p.Position[1] >= -gravity.Bound && p.Position[1] <= gravity.Bound {
			inside++
		}
		speed += p.Velocity.Len()
	}
	logger.Info("gravity: final state",
		"particles", len(ps),
		"inside", inside,
		"mean_speed", speed/float32(len(ps)))
}

func savePNG(path string, img image.Image) (err error) {
	if img == nil {
		return errors.New("gravity: no frame to save")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}
