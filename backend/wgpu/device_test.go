// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package wgpu

import (
	"errors"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/gravity"
)

var errUpload = errors.New("upload rejected")

// hostProvider hands the simulator a HAL device and queue owned by the test.
type hostProvider struct {
	gpucontext.DeviceProvider
	device hal.Device
	queue  hal.Queue
}

func (p hostProvider) HalDevice() any { return p.device }
func (p hostProvider) HalQueue() any  { return p.queue }

// rejectingQueue fails every WriteBuffer after the first ok calls.
type rejectingQueue struct {
	hal.Queue
	ok, writes int
}

func (q *rejectingQueue) WriteBuffer(b hal.Buffer, offset uint64, data []byte) error {
	q.writes++
	if q.writes > q.ok {
		return errUpload
	}
	return q.Queue.WriteBuffer(b, offset, data)
}

// requireShader skips when naga cannot build the simulate shader, since
// resource creation starts with it.
func requireShader(t *testing.T) {
	t.Helper()
	if _, err := compileSPIRV(simulateShaderSource); err != nil {
		t.Skipf("naga: %v", err)
	}
}

func TestStepOnHostDevice(t *testing.T) {
	requireShader(t)

	queue := &noop.Queue{}
	s := NewSimulator(gravity.NewParticles(8, 5))
	defer s.Close()
	if err := s.SetDeviceProvider(hostProvider{device: &noop.Device{}, queue: queue}); err != nil {
		t.Fatalf("SetDeviceProvider: %v", err)
	}

	// The noop device never runs the dispatch or the copy, so whatever sits
	// in the staging buffer is what Step must read back.
	want := make([]gravity.Particle, 8)
	for i := range want {
		want[i] = gravity.Particle{
			Position: mgl32.Vec2{float32(i) / 8, -0.5},
			Velocity: mgl32.Vec2{0.25, float32(i)},
		}
	}
	if err := queue.WriteBuffer(s.staging, 0, encodeParticles(want)); err != nil {
		t.Fatal(err)
	}

	n, err := s.Step(0, gravity.StepParams{Source: mgl32.Vec2{0.5, 0.5}, DT: 0.1})
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if n != len(want) {
		t.Errorf("Step processed %d, want %d", n, len(want))
	}
	if got := queue.PollCompleted(); got != 1 {
		t.Errorf("submissions completed = %d, want 1", got)
	}
	got, err := s.Latest()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, want) {
		t.Errorf("Latest() = %v, want %v", got, want)
	}
}

func TestUploadErrors(t *testing.T) {
	requireShader(t)

	tests := []struct {
		name        string
		ok          int
		wantInitErr bool
	}{
		// Resource creation writes both particle buffers, Step writes params.
		{"initial particles", 0, true},
		{"second particle buffer", 1, true},
		{"step params", 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &rejectingQueue{Queue: &noop.Queue{}, ok: tt.ok}
			s := NewSimulator(gravity.NewParticles(4, 1))
			defer s.Close()

			err := s.SetDeviceProvider(hostProvider{device: &noop.Device{}, queue: q})
			if tt.wantInitErr {
				if !errors.Is(err, errUpload) {
					t.Errorf("SetDeviceProvider = %v, want errUpload", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetDeviceProvider: %v", err)
			}
			if _, err := s.Step(0, gravity.StepParams{DT: 0.1}); !errors.Is(err, errUpload) {
				t.Errorf("Step = %v, want errUpload", err)
			}
		})
	}
}
