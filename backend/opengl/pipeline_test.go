// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package opengl

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/gravity"
	"github.com/gogpu/gravity/backend"
	"github.com/gogpu/gravity/internal/window"
)

// openContext opens a real window for GL tests. They need a display and a
// GL 4.1 driver, so they only run with GRAVITY_GL_TESTS=1.
func openContext(t *testing.T, cfg gravity.Config) *window.GLFW {
	t.Helper()
	if os.Getenv("GRAVITY_GL_TESTS") != "1" {
		t.Skip("set GRAVITY_GL_TESTS=1 to run OpenGL tests")
	}
	if runtime.GOOS == "darwin" {
		t.Skip("glfw requires the main thread on darwin")
	}
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)

	win, err := window.OpenGLFW(cfg)
	if err != nil {
		t.Skipf("no GL window: %v", err)
	}
	t.Cleanup(win.Close)
	return win
}

func TestRegistered(t *testing.T) {
	b := backend.Get(backend.NameOpenGL)
	if b == nil {
		t.Fatal("opengl backend not registered")
	}
	if !b.Windowed() {
		t.Error("opengl backend must report Windowed")
	}
}

func TestSimulateMatchesCPU(t *testing.T) {
	cfg, err := gravity.NewConfig(gravity.WithFeedbackReport(gravity.FeedbackOn))
	if err != nil {
		t.Fatal(err)
	}
	openContext(t, cfg)

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	var pair gravity.BufferPair
	sc := &gravity.SimContext{
		Pair:   &pair,
		Params: gravity.StepParams{Source: mgl32.Vec2{0.25, 0.5}, DT: 1.0 / 60},
	}
	want := gravity.NewParticles(cfg.Particles, cfg.Seed)
	next := make([]gravity.Particle, len(want))

	for frame := 0; frame < 10; frame++ {
		n, err := p.Simulate(sc)
		if err != nil {
			t.Fatalf("Simulate: %v", err)
		}
		if n != cfg.Particles {
			t.Errorf("feedback wrote %d particles, want %d", n, cfg.Particles)
		}
		if err := p.Render(sc); err != nil {
			t.Fatalf("Render: %v", err)
		}
		gravity.StepAll(next, want, sc.Params)
		want, next = next, want
		pair.Swap()
	}

	got, err := p.Particles()
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		for c := 0; c < 2; c++ {
			if !mgl32.FloatEqualThreshold(got[i].Position[c], want[i].Position[c], 1e-4) ||
				!mgl32.FloatEqualThreshold(got[i].Velocity[c], want[i].Velocity[c], 1e-4) {
				t.Fatalf("particle %d = %+v, want %+v", i, got[i], want[i])
			}
		}
	}
}

func TestPostProcessRun(t *testing.T) {
	cfg, err := gravity.NewConfig(gravity.WithVariant(gravity.VariantPostProcess))
	if err != nil {
		t.Fatal(err)
	}
	win := openContext(t, cfg)

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	var bound int32
	gl.BindVertexArray(p.quadVAO)
	gl.GetIntegerv(gl.ELEMENT_ARRAY_BUFFER_BINDING, &bound)
	gl.BindVertexArray(0)
	if p.quadEBO == 0 || uint32(bound) != p.quadEBO {
		t.Errorf("quad element buffer = %d, bound to quad VAO = %d", p.quadEBO, bound)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	frames := 0
	d := gravity.NewDriver(cfg, &countingWindow{Window: win, limit: 5, frames: &frames}, p)
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if frames != 5 {
		t.Errorf("presented %d frames, want 5", frames)
	}
}

func TestClosedPipeline(t *testing.T) {
	cfg := gravity.DefaultConfig()
	openContext(t, cfg)

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Close()
	p.Close()

	var pair gravity.BufferPair
	if _, err := p.Simulate(&gravity.SimContext{Pair: &pair}); !errors.Is(err, ErrClosed) {
		t.Errorf("Simulate after Close = %v, want ErrClosed", err)
	}
}

// countingWindow closes after limit presented frames.
type countingWindow struct {
	gravity.Window
	limit  int
	frames *int
}

func (w *countingWindow) ShouldClose() bool { return *w.frames >= w.limit || w.Window.ShouldClose() }

func (w *countingWindow) SwapBuffers() {
	*w.frames++
	w.Window.SwapBuffers()
}

func TestNewProgramErrors(t *testing.T) {
	openContext(t, gravity.DefaultConfig())
	if err := gl.Init(); err != nil {
		t.Fatal(err)
	}

	_, err := NewProgram(ProgramDesc{Name: "broken", Vertex: glslVersion + "void main() { nope; }"})
	if !errors.Is(err, ErrShaderCompile) {
		t.Errorf("broken shader error = %v, want ErrShaderCompile", err)
	}

	_, err = NewProgram(ProgramDesc{
		Name:     "points",
		Vertex:   pointVertexSource,
		Fragment: pointFragmentSource,
		FragOut:  fragOut,
		Attribs:  []string{"missing"},
	})
	if !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("missing attribute error = %v, want ErrLocationNotFound", err)
	}
}
