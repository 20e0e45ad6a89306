// Package icon lays out per-tier pacing bars and rasterizes them into
// the menu bar glyph: one vertical bar per tier, a faint track with a
// bottom-anchored fill whose height follows the remaining budget and
// whose color follows the pacing score.
package icon

import (
	"math"

	"pacebar/pace"
	"pacebar/pixmap"
	"pacebar/usage"
)

// Geometry describes the bar layout in pixels. It is passed in
// explicitly so renders stay deterministic and testable.
type Geometry struct {
	IconH   int
	BarW    int
	BarH    int
	Gap     int
	PadX    int
	CornerR int
}

// Default fits the 22-point menu bar: three 3×11 bars, vertically
// centered, one pixel of outer padding.
func Default() Geometry {
	return Geometry{IconH: 22, BarW: 3, BarH: 11, Gap: 2, PadX: 1, CornerR: 1}
}

// Width is the canvas width needed for n bars.
func (g Geometry) Width(n int) int {
	return g.PadX*2 + g.BarW*n + g.Gap*(n-1)
}

var (
	// trackColor is the low-opacity outline every bar gets first.
	trackColor = pixmap.RGBA{R: 140, G: 140, B: 140, A: 45}
	// unknownColor fills a sentinel tier: clearly gray, never a pace
	// color, so "no data" can't masquerade as "healthy".
	unknownColor = pixmap.RGBA{R: 140, G: 140, B: 140, A: 160}
)

// Render draws one bar per tier, left to right in input order, onto a
// fresh canvas. Unknown tiers render as a full-height neutral fill.
func Render(tiers []usage.Snapshot, g Geometry) *pixmap.Canvas {
	c := pixmap.NewCanvas(g.Width(len(tiers)), g.IconH)
	yTop := (g.IconH - g.BarH) / 2
	x := g.PadX
	for _, tier := range tiers {
		c.FillRoundedRect(x, yTop, x+g.BarW-1, yTop+g.BarH-1, g.CornerR, trackColor)

		remaining := tier.RemainingPct
		fill := unknownColor
		if tier.Unknown() {
			remaining = 100
		} else {
			fill = pace.Color(pace.Score(remaining, tier.TimeRemainingPct))
		}
		fillH := fillHeight(g.BarH, remaining)
		yFill := yTop + g.BarH - fillH
		c.FillRoundedRect(x, yFill, x+g.BarW-1, yTop+g.BarH-1, g.CornerR, fill)

		x += g.BarW + g.Gap
	}
	return c
}

// fillHeight floors at 2px so a nearly-drained tier stays visible.
func fillHeight(barH int, remainingPct float64) int {
	r := math.Max(0, math.Min(100, remainingPct))
	h := int(float64(barH) * r / 100.0)
	if h < 2 {
		return 2
	}
	return h
}

// Base64 renders the tiers and returns the glyph as an inline base64
// PNG ready for a SwiftBar image= parameter.
func Base64(tiers []usage.Snapshot, g Geometry) string {
	return pixmap.EncodeBase64PNG(Render(tiers, g))
}

// Bytes renders the tiers and returns the raw PNG, the form the native
// tray API wants.
func Bytes(tiers []usage.Snapshot, g Geometry) []byte {
	return pixmap.EncodePNG(Render(tiers, g))
}
