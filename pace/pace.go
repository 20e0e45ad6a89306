// Package pace converts a tier's remaining budget and remaining reset
// window into a 0..1 pacing score and the color and band derived from
// it. Higher is healthier: 1.0 means plenty of budget for the time
// left, 0.0 means the budget is effectively gone.
package pace

import (
	"math"

	"pacebar/pixmap"
)

// Fixed saturation/brightness for the score hue sweep, and the alpha
// all score-derived fills share.
const (
	colorSaturation = 0.78
	colorValue      = 0.88
	colorAlpha      = 230
)

// Score weighs remaining capacity against remaining time. Both inputs
// are percentages; values outside [0, 100] are clamped, so the result
// is always in [0, 1].
func Score(remainingPct, timeRemainingPct float64) float64 {
	r := math.Max(0.0, math.Min(100.0, remainingPct))
	t := math.Max(0.0, math.Min(100.0, timeRemainingPct))

	if r <= 3 {
		return 0.0
	}
	if r >= 92 {
		return 1.0
	}
	if t <= 5 {
		// Reset is imminent, so almost any leftover budget is fine.
		return math.Min(1.0, r/35.0)
	}

	pace := r / math.Max(t, 0.1)
	return math.Min(1.0, math.Max(0.0, pace/1.3))
}

// Color maps a score through the HSV wheel from red (0°) over yellow
// (60°) to green (120°) at fixed saturation and brightness.
func Color(score float64) pixmap.RGBA {
	score = math.Max(0.0, math.Min(1.0, score))
	r, g, b := hsvToRGB(score*(120.0/360.0), colorSaturation, colorValue)
	return pixmap.RGBA{
		R: uint8(r * 255),
		G: uint8(g * 255),
		B: uint8(b * 255),
		A: colorAlpha,
	}
}

// hsvToRGB is the classic six-sector conversion; h, s and v are all
// in [0, 1], with h in turns rather than degrees.
func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	if s == 0.0 {
		return v, v, v
	}
	i := int(h * 6.0)
	f := h*6.0 - float64(i)
	p := v * (1.0 - s)
	q := v * (1.0 - s*f)
	t := v * (1.0 - s*(1.0-f))
	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// Band buckets a score into the four states surfaced in menus and
// alerts. The zero value is Danger; larger values are healthier, so
// callers can compare bands directly to detect a worsening trend.
type Band int

const (
	Danger Band = iota
	Slow
	Watch
	Comfortable
)

// BandFor buckets score with the same thresholds everywhere a dot or
// hint is shown, so the icon, menu and alerts always agree.
func BandFor(score float64) Band {
	switch {
	case score >= 0.8:
		return Comfortable
	case score >= 0.5:
		return Watch
	case score >= 0.25:
		return Slow
	default:
		return Danger
	}
}

func (b Band) String() string {
	switch b {
	case Comfortable:
		return "Comfortable"
	case Watch:
		return "Watch"
	case Slow:
		return "Slow"
	default:
		return "Danger"
	}
}

// Dot is the colored circle shown in front of a tier line.
func (b Band) Dot() string {
	switch b {
	case Comfortable:
		return "🟢"
	case Watch:
		return "🟡"
	case Slow:
		return "🟠"
	default:
		return "🔴"
	}
}

// Hint is the one-line pacing advice shown under a tier line.
func (b Band) Hint() string {
	switch b {
	case Comfortable:
		return "↳ Comfortable pace"
	case Watch:
		return "↳ Burning a bit fast"
	case Slow:
		return "↳ Slow down to avoid hitting limit"
	default:
		return "⚠️ Near limit — conserve usage"
	}
}
