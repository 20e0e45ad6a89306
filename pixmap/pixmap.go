// Package pixmap provides a small RGBA pixel canvas and a from-scratch PNG
// encoder. It exists so the menu bar icon can be rasterized without pulling
// in an imaging library: the icon is a handful of rounded bars on a
// transparent background, and per-pixel tests are both simpler and faster
// than a path rasterizer at this size.
package pixmap

import "fmt"

// RGBA is one pixel, 8 bits per channel, alpha not premultiplied.
type RGBA struct {
	R, G, B, A uint8
}

// Canvas is a width×height pixel grid, initially fully transparent.
// It is not safe for concurrent use; each render pass owns its own.
type Canvas struct {
	w, h int
	pix  []RGBA // row-major, y*w+x
}

// NewCanvas allocates a transparent canvas. Non-positive dimensions are a
// programmer error and panic rather than producing a half-valid canvas.
func NewCanvas(w, h int) *Canvas {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("pixmap: invalid canvas size %dx%d", w, h))
	}
	return &Canvas{w: w, h: h, pix: make([]RGBA, w*h)}
}

func (c *Canvas) Width() int  { return c.w }
func (c *Canvas) Height() int { return c.h }

// At returns the pixel at (x, y). Out-of-bounds reads return a transparent
// pixel so callers can probe freely.
func (c *Canvas) At(x, y int) RGBA {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return RGBA{}
	}
	return c.pix[y*c.w+x]
}

// FillRoundedRect fills the inclusive rectangle [x0,x1]×[y0,y1] with col,
// rounding each corner by radius. A pixel inside a corner region is kept
// only when its squared distance from that corner's arc center is within
// radius². A radius larger than half the rectangle just over-rounds; it
// never faults. Pixels outside the canvas are skipped.
//
// Compositing is source-over for the color channels, but alpha accumulates
// additively with saturation at 255 instead of the standard over formula.
// The layered track+fill look of the icon depends on this exact rule, so
// don't "correct" it.
func (c *Canvas) FillRoundedRect(x0, y0, x1, y1, radius int, col RGBA) {
	r := radius
	for y := y0; y <= y1; y++ {
		if y < 0 || y >= c.h {
			continue
		}
		for x := x0; x <= x1; x++ {
			if x < 0 || x >= c.w {
				continue
			}
			draw := true
			switch {
			case x < x0+r && y < y0+r:
				draw = distSq(x, y, x0+r, y0+r) <= r*r
			case x > x1-r && y < y0+r:
				draw = distSq(x, y, x1-r, y0+r) <= r*r
			case x < x0+r && y > y1-r:
				draw = distSq(x, y, x0+r, y1-r) <= r*r
			case x > x1-r && y > y1-r:
				draw = distSq(x, y, x1-r, y1-r) <= r*r
			}
			if draw {
				c.blend(x, y, col)
			}
		}
	}
}

func distSq(x, y, cx, cy int) int {
	dx := x - cx
	dy := y - cy
	return dx*dx + dy*dy
}

func (c *Canvas) blend(x, y int, src RGBA) {
	i := y*c.w + x
	dst := c.pix[i]
	a := float64(src.A) / 255.0
	c.pix[i] = RGBA{
		R: uint8(float64(src.R)*a + float64(dst.R)*(1-a)),
		G: uint8(float64(src.G)*a + float64(dst.G)*(1-a)),
		B: uint8(float64(src.B)*a + float64(dst.B)*(1-a)),
		A: satAdd(src.A, dst.A),
	}
}

func satAdd(a, b uint8) uint8 {
	s := int(a) + int(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}
