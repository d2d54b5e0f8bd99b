// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/gravity"
)

func TestToPixel(t *testing.T) {
	tests := []struct {
		p      mgl32.Vec2
		wx, wy float32
	}{
		{mgl32.Vec2{0, 0}, 400, 300},
		{mgl32.Vec2{-1, 1}, 0, 0},
		{mgl32.Vec2{1, -1}, 800, 600},
		{mgl32.Vec2{0.5, 0.5}, 600, 150},
	}
	for _, tt := range tests {
		x, y := ToPixel(tt.p, 800, 600)
		if x != tt.wx || y != tt.wy {
			t.Errorf("ToPixel(%v) = (%v, %v), want (%v, %v)", tt.p, x, y, tt.wx, tt.wy)
		}
	}
}

func TestClear(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	c := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	Clear(img, c)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := img.RGBAAt(x, y); got != c {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, c)
			}
		}
	}
}

func TestPointsDraw(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 80, 60))
	Clear(img, Background)

	pts := NewPoints(5, Foreground)
	n := pts.Draw(img, []gravity.Particle{{Position: mgl32.Vec2{0, 0}}})
	if n != 1 {
		t.Fatalf("Draw = %d, want 1", n)
	}

	// Center of a 5px square at (40, 30).
	if got := img.RGBAAt(40, 30); got != Foreground {
		t.Errorf("center = %v, want %v", got, Foreground)
	}
	// Well outside the square.
	if got := img.RGBAAt(40, 40); got != Background {
		t.Errorf("pixel (40,40) = %v, want background", got)
	}
	if got := img.RGBAAt(30, 30); got != Background {
		t.Errorf("pixel (30,30) = %v, want background", got)
	}
}

func TestPointsDrawOutside(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	Clear(img, Background)

	pts := NewPoints(5, Foreground)
	n := pts.Draw(img, []gravity.Particle{
		{Position: mgl32.Vec2{3, 0}},
		{Position: mgl32.Vec2{0, -5}},
	})
	if n != 0 {
		t.Errorf("Draw = %d, want 0 for off-screen particles", n)
	}
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if img.RGBAAt(x, y) != Background {
				t.Fatalf("pixel (%d,%d) touched by off-screen particle", x, y)
			}
		}
	}
}

func TestPointsDrawEdgeClipped(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	Clear(img, Background)

	// Centered on the right edge: half the square is visible.
	pts := NewPoints(6, Foreground)
	if n := pts.Draw(img, []gravity.Particle{{Position: mgl32.Vec2{1, 0}}}); n != 1 {
		t.Fatalf("Draw = %d, want 1", n)
	}
	if got := img.RGBAAt(19, 10); got != Foreground {
		t.Errorf("edge pixel = %v, want foreground", got)
	}
}

func TestBlit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	Clear(src, Background)
	src.SetRGBA(1, 1, Foreground)

	same := image.NewRGBA(src.Bounds())
	Blit(same, src)
	if same.RGBAAt(1, 1) != Foreground || same.RGBAAt(0, 0) != Background {
		t.Errorf("same-size blit did not copy pixels")
	}

	big := image.NewRGBA(image.Rect(0, 0, 4, 4))
	Blit(big, src)
	for _, p := range []image.Point{{2, 2}, {3, 3}, {2, 3}} {
		if got := big.RGBAAt(p.X, p.Y); got != Foreground {
			t.Errorf("scaled pixel %v = %v, want foreground", p, got)
		}
	}
	if got := big.RGBAAt(0, 0); got != Background {
		t.Errorf("scaled pixel (0,0) = %v, want background", got)
	}
}
