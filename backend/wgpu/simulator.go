// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package wgpu

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gravity"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Simulator runs gravity.Step for every particle in a compute pass.
//
// Slot numbering matches gravity.BufferPair: Step(read, ...) reads buffer
// read and writes buffer read^1.
//
// Simulator is safe for concurrent use; steps are serialized.
type Simulator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	params     hal.Buffer
	particles  [2]hal.Buffer
	staging    hal.Buffer
	bindGroups [2]hal.BindGroup

	initial []gravity.Particle
	latest  []gravity.Particle
	count   int
	size    uint64

	externalDevice bool // shared device: don't destroy on Close
	ready          bool
	stepped        bool
	closed         bool
}

// NewSimulator creates a simulator whose slot 0 will hold initial. No GPU
// work happens until Init.
func NewSimulator(initial []gravity.Particle) *Simulator {
	ps := make([]gravity.Particle, len(initial))
	copy(ps, initial)
	return &Simulator{
		initial: ps,
		latest:  make([]gravity.Particle, len(initial)),
		count:   len(initial),
		size:    uint64(len(initial) * gravity.ParticleStride), //nolint:gosec // buffer size is positive
	}
}

// SetDeviceProvider makes the simulator use a device owned by the host
// application. The provider must also implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue. It must be called
// before the first Step; GPU resources already created on another device
// are released and rebuilt on the shared one.
func (s *Simulator) SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.stepped {
		return ErrDeviceInUse
	}

	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return ErrProviderNotHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("%w: HalDevice is not hal.Device", ErrProviderNotHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("%w: HalQueue is not hal.Queue", ErrProviderNotHAL)
	}

	s.destroyResources()
	s.releaseDevice()

	s.device = device
	s.queue = queue
	s.externalDevice = true

	if err := s.createResources(); err != nil {
		s.destroyResources()
		s.ready = false
		return fmt.Errorf("wgpu: create resources on shared device: %w", err)
	}
	s.ready = true
	gravity.Logger().Info("wgpu: switched to shared GPU device")
	return nil
}

// Init opens a device of its own unless one was provided, then creates the
// compute pipeline and buffers. Calling Init on a ready simulator is a no-op.
func (s *Simulator) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.ready {
		return nil
	}
	if s.device == nil {
		if err := s.openDevice(); err != nil {
			return err
		}
	}
	if err := s.createResources(); err != nil {
		s.destroyResources()
		s.releaseDevice()
		return fmt.Errorf("wgpu: create resources: %w", err)
	}
	s.ready = true
	return nil
}

func (s *Simulator) openDevice() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not available", ErrNoGPU)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("%w: create instance: %w", ErrNoGPU, err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return fmt.Errorf("%w: no adapters found", ErrNoGPU)
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("wgpu: open device: %w", err)
	}
	s.instance = instance
	s.device = openDev.Device
	s.queue = openDev.Queue

	gravity.Logger().Info("wgpu: adapter", "name", selected.Info.Name, "type", selected.Info.DeviceType)
	return nil
}

func (s *Simulator) createResources() error {
	spirv, err := compileSPIRV(simulateShaderSource)
	if err != nil {
		return err
	}
	s.shader, err = s.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "gravity_simulate",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}

	s.bindLayout, err = s.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "gravity_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}

	s.pipeLayout, err = s.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "gravity_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{s.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	s.pipeline, err = s.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "gravity_pipeline", Layout: s.pipeLayout,
		Compute: hal.ComputeState{Module: s.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}

	s.params, err = s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gravity_params", Size: paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create params buffer: %w", err)
	}

	for i := range s.particles {
		s.particles[i], err = s.device.CreateBuffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("gravity_particles_%d", i), Size: s.size,
			Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create particle buffer %d: %w", i, err)
		}
	}
	if err := s.queue.WriteBuffer(s.particles[0], 0, encodeParticles(s.initial)); err != nil {
		return fmt.Errorf("upload initial particles: %w", err)
	}
	if err := s.queue.WriteBuffer(s.particles[1], 0, make([]byte, s.size)); err != nil {
		return fmt.Errorf("clear particle buffer 1: %w", err)
	}

	s.staging, err = s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gravity_staging", Size: s.size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}

	// bindGroups[r] reads particles[r] and writes particles[r^1].
	for r := range s.bindGroups {
		s.bindGroups[r], err = s.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: fmt.Sprintf("gravity_bind_%d", r), Layout: s.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: s.params.NativeHandle(), Offset: 0, Size: paramsSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: s.particles[r].NativeHandle(), Offset: 0, Size: s.size}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: s.particles[r^1].NativeHandle(), Offset: 0, Size: s.size}},
			},
		})
		if err != nil {
			return fmt.Errorf("create bind group %d: %w", r, err)
		}
	}

	copy(s.latest, s.initial)
	gravity.Logger().Debug("wgpu: resources created",
		"particles", s.count,
		"buffer_bytes", s.size,
		"workgroups", workgroups(s.count))
	return nil
}

// Step advances every particle from buffer read into buffer read^1, waits
// for the GPU and reads the result back. It returns the number of particles
// processed.
func (s *Simulator) Step(read int, params gravity.StepParams) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if !s.ready {
		return 0, ErrNotInitialized
	}
	s.stepped = true

	write := read ^ 1
	if err := s.queue.WriteBuffer(s.params, 0, packParams(params, s.count)); err != nil {
		return 0, fmt.Errorf("wgpu: upload params: %w", err)
	}

	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "gravity_encoder"})
	if err != nil {
		return 0, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	defer encoder.Destroy()
	if err := encoder.BeginEncoding("gravity_step"); err != nil {
		return 0, fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "gravity_simulate"})
	pass.SetPipeline(s.pipeline)
	pass.SetBindGroup(0, s.bindGroups[read], nil)
	pass.Dispatch(workgroups(s.count), 1, 1)
	pass.End()

	encoder.CopyBufferToBuffer(s.particles[write], s.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: s.size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return 0, fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer s.device.FreeCommandBuffer(cmdBuf)

	idx, err := s.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return 0, fmt.Errorf("wgpu: submit: %w", err)
	}
	if s.queue.PollCompleted() < idx {
		if err := s.device.WaitIdle(); err != nil {
			return 0, fmt.Errorf("wgpu: wait for submission %d: %w", idx, err)
		}
	}

	if err := s.readback(); err != nil {
		return 0, err
	}
	return s.count, nil
}

// readback decodes the staging buffer into latest. The GPU must be done
// with the copy into staging.
func (s *Simulator) readback() error {
	m, err := s.device.MapBuffer(s.staging, 0, s.size)
	if err != nil {
		return fmt.Errorf("wgpu: map staging buffer: %w", err)
	}
	s.latest = decodeParticles(s.latest, unsafe.Slice((*byte)(m.Ptr), s.size))
	if err := s.device.UnmapBuffer(s.staging); err != nil {
		return fmt.Errorf("wgpu: unmap staging buffer: %w", err)
	}
	return nil
}

// Latest returns a copy of the most recently written buffer as read back
// after the last Step, or the initial particles before the first Step.
func (s *Simulator) Latest() ([]gravity.Particle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]gravity.Particle, len(s.latest))
	copy(out, s.latest)
	return out, nil
}

// view calls fn with the latest particles without copying.
func (s *Simulator) view(fn func([]gravity.Particle)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	fn(s.latest)
	return nil
}

// Close releases every GPU resource in reverse order of creation, and the
// device unless it was provided. It is safe to call more than once.
func (s *Simulator) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.destroyResources()
	s.releaseDevice()
	s.ready = false
}

func (s *Simulator) destroyResources() {
	if s.device == nil {
		return
	}
	for i := range s.bindGroups {
		if s.bindGroups[i] != nil {
			s.device.DestroyBindGroup(s.bindGroups[i])
			s.bindGroups[i] = nil
		}
	}
	if s.staging != nil {
		s.device.DestroyBuffer(s.staging)
		s.staging = nil
	}
	for i := range s.particles {
		if s.particles[i] != nil {
			s.device.DestroyBuffer(s.particles[i])
			s.particles[i] = nil
		}
	}
	if s.params != nil {
		s.device.DestroyBuffer(s.params)
		s.params = nil
	}
	if s.pipeline != nil {
		s.device.DestroyComputePipeline(s.pipeline)
		s.pipeline = nil
	}
	if s.pipeLayout != nil {
		s.device.DestroyPipelineLayout(s.pipeLayout)
		s.pipeLayout = nil
	}
	if s.bindLayout != nil {
		s.device.DestroyBindGroupLayout(s.bindLayout)
		s.bindLayout = nil
	}
	if s.shader != nil {
		s.device.DestroyShaderModule(s.shader)
		s.shader = nil
	}
}

func (s *Simulator) releaseDevice() {
	if !s.externalDevice {
		if s.device != nil {
			s.device.Destroy()
		}
		if s.instance != nil {
			s.instance.Destroy()
		}
	}
	s.device = nil
	s.queue = nil
	s.instance = nil
	s.externalDevice = false
}
