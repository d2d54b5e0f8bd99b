// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gravity

import (
	"context"
	"fmt"
	"sync/atomic"
)

// State is the lifecycle state of a Driver.
type State int32

const (
	// StateRunning means the frame loop is (or will be) iterating.
	StateRunning State = iota
	// StateClosing means a close request was seen and the loop has exited.
	StateClosing
	// StateTerminated means Run has returned.
	StateTerminated
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateClosing:
		return "Closing"
	case StateTerminated:
		return "Terminated"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Window is the windowing and input collaborator of the frame driver.
type Window interface {
	// ShouldClose reports whether a close request has been received.
	ShouldClose() bool

	// Time returns a monotonic clock reading in seconds.
	Time() float64

	// CursorPos returns the cursor position in window pixels, origin top-left.
	CursorPos() (x, y float64)

	// Size returns the window size in pixels.
	Size() (width, height int)

	// SwapBuffers presents the frame.
	SwapBuffers()

	// PollEvents processes pending input and window events.
	PollEvents()
}

// SimContext is the explicit loop state handed to every stage call.
type SimContext struct {
	// Pair holds the buffer roles for this frame: stages read Pair.Current()
	// and write Pair.Target().
	Pair *BufferPair

	// Params are the per-frame simulation inputs.
	Params StepParams

	// Frame is the zero-based index of the frame being produced.
	Frame uint64
}

// Pipeline is the graphics device side of the demo: it owns the two particle
// buffers and the programs that simulate and draw them.
type Pipeline interface {
	// Name returns the backend identifier (e.g., "opengl", "software").
	Name() string

	// Simulate runs the simulation stage over every particle, reading slot
	// sc.Pair.Current() and writing slot sc.Pair.Target(). It returns the
	// number of particles processed.
	Simulate(sc *SimContext) (int, error)

	// Render draws slot sc.Pair.Target() and, for the post-process variant,
	// composites the off-screen target to the screen.
	Render(sc *SimContext) error

	// Close releases every resource of the pipeline. It is safe to call
	// more than once.
	Close()
}

// Driver runs the per-frame loop: measure time, sample the cursor, simulate,
// render, present, swap buffer roles, poll events, until the window asks to
// close or the context is cancelled.
//
// The driver owns the BufferPair for its lifetime. It does not own the window
// or the pipeline; callers release those after Run returns.
type Driver struct {
	cfg  Config
	win  Window
	pipe Pipeline

	pair  BufferPair
	sc    SimContext
	prev  float64
	state atomic.Int32
}

// NewDriver creates a driver in the Running state.
func NewDriver(cfg Config, win Window, pipe Pipeline) *Driver {
	d := &Driver{cfg: cfg, win: win, pipe: pipe}
	d.sc.Pair = &d.pair
	return d
}

// State returns the current lifecycle state. Safe for concurrent use.
func (d *Driver) State() State { return State(d.state.Load()) }

// Pair returns the buffer roles. After Run returns, Pair().Current() is the
// slot holding the final particle state.
func (d *Driver) Pair() *BufferPair { return &d.pair }

// Frames returns the number of completed frames.
func (d *Driver) Frames() uint64 { return d.sc.Frame }

// Run iterates frames until the window requests close or ctx is cancelled,
// then moves to Closing and finally Terminated. A stage error stops the loop
// and is returned; a close request or cancellation returns nil.
func (d *Driver) Run(ctx context.Context) error {
	if d.win == nil || d.pipe == nil {
		return ErrNilPipeline
	}
	if !d.state.CompareAndSwap(int32(StateRunning), int32(StateRunning)) {
		return ErrDriverStopped
	}
	defer d.state.Store(int32(StateTerminated))

	log := Logger()
	log.Info("gravity: frame loop started",
		"backend", d.pipe.Name(),
		"variant", d.cfg.Variant,
		"particles", d.cfg.Particles,
		"frozen", d.cfg.Frozen)

	d.prev = d.win.Time()
	var err error
	for !d.win.ShouldClose() {
		if ctx.Err() != nil {
			break
		}
		if err = d.frame(); err != nil {
			break
		}
	}
	d.state.Store(int32(StateClosing))

	log.Info("gravity: frame loop stopped", "frames", d.sc.Frame, "err", err)
	return err
}

// frame runs one iteration of the loop.
func (d *Driver) frame() error {
	now := d.win.Time()
	d.sc.Params = d.params(now)
	d.prev = now
	Logger().Debug("gravity: frame",
		"frame", d.sc.Frame,
		"dt", d.sc.Params.DT,
		"source", d.sc.Params.Source,
		"read", d.pair.Current(),
		"write", d.pair.Target())

	n, err := d.pipe.Simulate(&d.sc)
	if err != nil {
		return fmt.Errorf("gravity: simulate frame %d: %w", d.sc.Frame, err)
	}
	if d.cfg.ReportsFeedback() {
		Logger().Info("gravity: feedback", "frame", d.sc.Frame, "particles", n)
	}

	if err := d.pipe.Render(&d.sc); err != nil {
		return fmt.Errorf("gravity: render frame %d: %w", d.sc.Frame, err)
	}

	d.win.SwapBuffers()
	d.pair.Swap()
	d.win.PollEvents()
	d.sc.Frame++
	return nil
}

// params computes the simulation inputs for a frame starting at now. The
// frozen debug configuration overrides both the measured step and the cursor.
func (d *Driver) params(now float64) StepParams {
	if d.cfg.Frozen {
		return StepParams{Source: d.cfg.FrozenSource, DT: d.cfg.FrozenStep}
	}
	x, y := d.win.CursorPos()
	w, h := d.win.Size()
	return StepParams{
		Source: CursorToSource(x, y, w, h),
		DT:     float32(now - d.prev),
	}
}
