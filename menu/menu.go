// Package menu assembles the SwiftBar plugin output: the icon line,
// the dropdown breakdown per tier, and the action rows. It is pure
// text assembly; everything it prints is derived from a usage.Report
// and the clock passed in.
package menu

import (
	"fmt"
	"math"
	"strings"
	"time"

	"pacebar/pace"
	"pacebar/usage"
)

// SwiftBar colors are light,dark pairs so the text stays readable in
// both themes.
const (
	bodyStyle = "color=#000000,#ffffff size=13"
	hintStyle = "color=#222222,#dddddd size=12"
)

// Actions carries the paths the dropdown's action rows point at.
type Actions struct {
	Exe       string // this binary, for Refresh Now and View History
	ConfigDir string
	UsagePath string
}

type labeledTier struct {
	label string
	tier  usage.Tier
}

func orderedTiers(r usage.Report) []labeledTier {
	return []labeledTier{
		{"Session", r.Session},
		{"Weekly", r.Weekly},
		{"Extra", r.Extra},
	}
}

// TierText renders one tier as its dropdown line, without SwiftBar
// styling: pacing dot, label, remaining figure, reset countdown.
// Spend-based tiers show dollars left instead of a percentage.
func TierText(label string, t usage.Tier, now time.Time) string {
	snap := t.Snapshot()
	if snap.Unknown() {
		return fmt.Sprintf("⚪  %s:  No data", label)
	}
	dot := pace.BandFor(pace.Score(snap.RemainingPct, snap.TimeRemainingPct)).Dot()
	reset := usage.TimeRemainingStr(t.ResetAt, now)
	if t.Spent != nil && t.Cap != nil {
		left := math.Max(0, *t.Cap-*t.Spent)
		return fmt.Sprintf("%s  %s:  $%.2f / $%.2f  ·  resets %s", dot, label, left, *t.Cap, reset)
	}
	return fmt.Sprintf("%s  %s:  %.0f%% remaining  ·  resets %s", dot, label, snap.RemainingPct, reset)
}

// HintText is the pacing advice shown under a tier line, empty for
// sentinel tiers.
func HintText(t usage.Tier) string {
	snap := t.Snapshot()
	if snap.Unknown() {
		return ""
	}
	return pace.BandFor(pace.Score(snap.RemainingPct, snap.TimeRemainingPct)).Hint()
}

// Build renders the full plugin output. iconB64 is the pre-rendered
// glyph; it is ignored for placeholder reports, which fall back to an
// SF Symbols glyph instead of an empty chart.
func Build(r usage.Report, iconB64 string, now time.Time, a Actions) string {
	var b strings.Builder

	if r.IsPlaceholder() {
		b.WriteString("🦊⚡ | sfimage=chart.bar.fill\n")
	} else {
		fmt.Fprintf(&b, "| image=%s\n", iconB64)
	}
	b.WriteString("---\n")

	if r.IsPlaceholder() {
		fmt.Fprintf(&b, "⚡ Claude Usage | %s\n", bodyStyle)
		b.WriteString("---\n")
		fmt.Fprintf(&b, "No usage data yet. | %s\n", bodyStyle)
		fmt.Fprintf(&b, "Set refresh_cmd in config.json to fetch it. | %s\n", bodyStyle)
		b.WriteString("---\n")
	} else {
		fmt.Fprintf(&b, "⚡ Claude Usage  ·  updated %s | %s\n", usage.FormatAgo(r.UpdatedAt, now), bodyStyle)
		b.WriteString("---\n")
		for _, lt := range orderedTiers(r) {
			fmt.Fprintf(&b, "%s | %s\n", TierText(lt.label, lt.tier, now), bodyStyle)
			if hint := HintText(lt.tier); hint != "" {
				fmt.Fprintf(&b, "%s | %s\n", hint, hintStyle)
			}
			b.WriteString("---\n")
		}
	}

	fmt.Fprintf(&b, "⟳  Refresh Now | %s bash=%s param1=-now terminal=false refresh=true\n", bodyStyle, a.Exe)
	b.WriteString("---\n")
	fmt.Fprintf(&b, "📂  Open Config | %s bash=/usr/bin/open param1=%s terminal=false\n", bodyStyle, a.ConfigDir)
	fmt.Fprintf(&b, "📖  Edit usage.json | %s bash=/usr/bin/open param1=%s terminal=false\n", bodyStyle, a.UsagePath)
	fmt.Fprintf(&b, "📊  View History | %s bash=%s param1=-tui terminal=true\n", bodyStyle, a.Exe)

	return b.String()
}

// Summary is the plain-text rendition of the report used for
// clipboard copies from the tray and the TUI.
func Summary(r usage.Report, now time.Time) string {
	if r.IsPlaceholder() {
		return "Claude usage: no data yet\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Claude usage · updated %s\n", usage.FormatAgo(r.UpdatedAt, now))
	for _, lt := range orderedTiers(r) {
		snap := lt.tier.Snapshot()
		if snap.Unknown() {
			fmt.Fprintf(&b, "%s: no data\n", lt.label)
			continue
		}
		band := pace.BandFor(pace.Score(snap.RemainingPct, snap.TimeRemainingPct))
		reset := usage.TimeRemainingStr(lt.tier.ResetAt, now)
		if lt.tier.Spent != nil && lt.tier.Cap != nil {
			left := math.Max(0, *lt.tier.Cap-*lt.tier.Spent)
			fmt.Fprintf(&b, "%s: $%.2f of $%.2f left, resets %s [%s]\n", lt.label, left, *lt.tier.Cap, reset, band)
		} else {
			fmt.Fprintf(&b, "%s: %.0f%% remaining, resets %s [%s]\n", lt.label, snap.RemainingPct, reset, band)
		}
	}
	return b.String()
}
