// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gravity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Defaults reproduce the original demo.
const (
	DefaultParticleCount = 50
	DefaultWidth         = 800
	DefaultHeight        = 600
	DefaultTitle         = "Cursor Gravity"

	// DefaultPointSize is the diameter of a particle sprite, in pixels.
	DefaultPointSize float32 = 5

	// FrozenDT is the fixed time step used by the frozen debug configuration.
	FrozenDT float32 = 0.1
)

// FeedbackReport controls the per-frame report of how many particles the
// simulation stage processed.
type FeedbackReport int

const (
	// FeedbackAuto reports only for the post-process variant.
	FeedbackAuto FeedbackReport = iota
	// FeedbackOn always reports.
	FeedbackOn
	// FeedbackOff never reports.
	FeedbackOff
)

// Config holds the compile-time constants of the demo and the debug switches
// that select between its two variants. Build one with NewConfig.
type Config struct {
	Variant   Variant
	Particles int
	Width     int
	Height    int
	Title     string
	PointSize float32

	// Seed drives the initial particle placement.
	Seed uint64

	// Frozen replaces the measured time step with FrozenStep and the cursor
	// with FrozenSource on every frame.
	Frozen       bool
	FrozenStep   float32
	FrozenSource mgl32.Vec2

	Feedback FeedbackReport
	VSync    bool
}

// Option configures a Config during creation.
//
// Example:
//
//	cfg, err := gravity.NewConfig(
//		gravity.WithVariant(gravity.VariantPostProcess),
//		gravity.WithFrozenInput(gravity.FrozenDT, mgl32.Vec2{}),
//	)
type Option func(*Config)

// DefaultConfig returns the configuration of the original demo: 50 particles
// in an 800x600 window, direct rendering, real elapsed time and cursor.
func DefaultConfig() Config {
	return Config{
		Variant:    VariantDirect,
		Particles:  DefaultParticleCount,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Title:      DefaultTitle,
		PointSize:  DefaultPointSize,
		FrozenStep: FrozenDT,
		Feedback:   FeedbackAuto,
		VSync:      true,
	}
}

// NewConfig applies opts to DefaultConfig and validates the result.
func NewConfig(opts ...Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field of c.
func (c Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidParticleCount, c.Particles)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidWindowSize, c.Width, c.Height)
	}
	if c.Variant != VariantDirect && c.Variant != VariantPostProcess {
		return fmt.Errorf("%w: %d", ErrUnknownVariant, int(c.Variant))
	}
	if c.Frozen && c.FrozenStep < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidTimestep, c.FrozenStep)
	}
	return nil
}

// ReportsFeedback reports whether the processed particle count is logged
// every frame.
func (c Config) ReportsFeedback() bool {
	switch c.Feedback {
	case FeedbackOn:
		return true
	case FeedbackOff:
		return false
	default:
		return c.Variant == VariantPostProcess
	}
}

// WithVariant selects direct or post-process rendering.
func WithVariant(v Variant) Option {
	return func(c *Config) {
		c.Variant = v
	}
}

// WithParticleCount sets the fixed number of particles.
func WithParticleCount(n int) Option {
	return func(c *Config) {
		c.Particles = n
	}
}

// WithWindowSize sets the window size in pixels.
func WithWindowSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(c *Config) {
		c.Title = title
	}
}

// WithSeed sets the seed of the initial particle placement.
func WithSeed(seed uint64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

// WithFrozenInput enables the frozen debug configuration: every frame uses
// the time step dt and the gravity source instead of the measured elapsed
// time and the cursor.
func WithFrozenInput(dt float32, source mgl32.Vec2) Option {
	return func(c *Config) {
		c.Frozen = true
		c.FrozenStep = dt
		c.FrozenSource = source
	}
}

// WithFeedbackReport overrides when the processed particle count is logged.
func WithFeedbackReport(r FeedbackReport) Option {
	return func(c *Config) {
		c.Feedback = r
	}
}

// WithVSync enables or disables waiting for vertical sync on present.
func WithVSync(on bool) Option {
	return func(c *Config) {
		c.VSync = on
	}
}
