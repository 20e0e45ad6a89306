//go:build ignore

// Renders preview.png, a scaled sheet of the menu bar glyph across
// pacing states, for the README. Run with: go run gen_preview.go
package main

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"pacebar/icon"
	"pacebar/usage"
)

func snap(remaining, timeLeft float64) usage.Snapshot {
	return usage.Snapshot{RemainingPct: remaining, TimeRemainingPct: timeLeft}
}

func main() {
	scenarios := [][]usage.Snapshot{
		{snap(98, 95), snap(95, 90), snap(100, 99)}, // fresh
		{snap(70, 60), snap(60, 55), snap(85, 80)},  // steady
		{snap(50, 90), snap(35, 80), snap(35, 70)},  // burning fast
		{snap(5, 80), snap(12, 60), snap(20, 90)},   // near limit
		usage.Placeholder().Snapshots(),             // no data
	}

	const scale = 4
	const gap = 8
	g := icon.Default()
	iconW := g.Width(3)

	sheetW := gap + len(scenarios)*(iconW*scale+gap)
	sheetH := g.IconH*scale + 2*gap
	sheet := image.NewRGBA(image.Rect(0, 0, sheetW, sheetH))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(color.RGBA{30, 30, 30, 255}), image.Point{}, draw.Src)

	x := gap
	for _, tiers := range scenarios {
		img, err := png.Decode(bytes.NewReader(icon.Bytes(tiers, g)))
		if err != nil {
			panic(err)
		}
		for py := 0; py < g.IconH; py++ {
			for px := 0; px < iconW; px++ {
				cell := image.Rect(x+px*scale, gap+py*scale, x+(px+1)*scale, gap+(py+1)*scale)
				draw.Draw(sheet, cell, image.NewUniform(img.At(px, py)), image.Point{}, draw.Over)
			}
		}
		x += iconW*scale + gap
	}

	f, _ := os.Create("preview.png")
	defer f.Close()
	png.Encode(f, sheet)
}
