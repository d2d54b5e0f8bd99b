// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster draws particle point sprites into CPU images and composites
// off-screen frames, for the backends that render without a graphics context.
package raster

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/gravity"
)

// Default colors: white points on a black background.
var (
	Background = color.RGBA{A: 0xff}
	Foreground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// ToPixel maps a normalized device coordinate to pixel space of a w x h
// image (origin top-left, Y down).
func ToPixel(p mgl32.Vec2, w, h int) (x, y float32) {
	return (p[0] + 1) / 2 * float32(w), (1 - p[1]) / 2 * float32(h)
}

// Clear fills dst with c.
func Clear(dst *image.RGBA, c color.RGBA) {
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
}

// Points rasterizes particles as axis-aligned squares, the shape of an
// OpenGL point sprite. A Points value reuses its rasterizer between frames
// and is not safe for concurrent use.
type Points struct {
	ras   *vector.Rasterizer
	size  float32
	color *image.Uniform
}

// NewPoints creates a point rasterizer drawing squares of size pixels.
func NewPoints(size float32, c color.Color) *Points {
	if size <= 0 {
		size = 1
	}
	return &Points{
		ras:   vector.NewRasterizer(0, 0),
		size:  size,
		color: image.NewUniform(c),
	}
}

// Draw composites every particle of ps over dst and returns how many were
// at least partly inside the image.
func (p *Points) Draw(dst *image.RGBA, ps []gravity.Particle) int {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0
	}
	p.ras.Reset(w, h)

	half := p.size / 2
	fw, fh := float32(w), float32(h)
	drawn := 0
	for i := range ps {
		x, y := ToPixel(ps[i].Position, w, h)
		x0, y0 := clamp(x-half, fw), clamp(y-half, fh)
		x1, y1 := clamp(x+half, fw), clamp(y+half, fh)
		if x0 >= x1 || y0 >= y1 {
			continue
		}
		p.ras.MoveTo(x0, y0)
		p.ras.LineTo(x1, y0)
		p.ras.LineTo(x1, y1)
		p.ras.LineTo(x0, y1)
		p.ras.ClosePath()
		drawn++
	}
	if drawn > 0 {
		p.ras.Draw(dst, b, p.color, image.Point{})
	}
	return drawn
}

// Blit copies src onto dst, scaling with nearest-neighbor sampling when the
// sizes differ. This is the CPU form of the full-screen textured quad.
func Blit(dst, src *image.RGBA) {
	if dst.Bounds().Size() == src.Bounds().Size() {
		xdraw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, xdraw.Src)
		return
	}
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
}

func clamp(v, hi float32) float32 {
	return mgl32.Clamp(v, 0, hi)
}
