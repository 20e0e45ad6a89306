package usage

import (
	"fmt"
	"math"
	"time"
)

// parseTime accepts the RFC 3339 timestamps the scraper writes (both
// "Z" and explicit offsets, with or without fractional seconds).
func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	dt, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return dt, true
}

// TimeRemainingPct converts a reset timestamp into "percent of the
// window still ahead of us", clamped to [0, 100]. Unparseable input or
// a non-positive window reports the neutral 50.
func TimeRemainingPct(resetAt string, windowHours float64, now time.Time) float64 {
	dt, ok := parseTime(resetAt)
	if !ok || windowHours <= 0 {
		return 50.0
	}
	secsLeft := dt.Sub(now).Seconds()
	windowSecs := windowHours * 3600
	return math.Max(0.0, math.Min(100.0, secsLeft/windowSecs*100.0))
}

// TimeRemainingStr renders the gap until resetAt the way the dropdown
// shows it: "now" once passed, minutes under an hour, "3h 7m" under
// two days, whole days beyond that, "—" when unparseable.
func TimeRemainingStr(resetAt string, now time.Time) string {
	dt, ok := parseTime(resetAt)
	if !ok {
		return "—"
	}
	if dt.Sub(now) <= 0 {
		return "now"
	}
	secs := int(dt.Sub(now).Seconds())
	h := secs / 3600
	m := secs % 3600 / 60
	if h > 48 {
		return fmt.Sprintf("%dd", h/24)
	}
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatAgo renders how stale a timestamp is: "never" when blank or
// unparseable, "just now" under a minute, then "12m ago", "3h 4m ago",
// "2d ago". Future timestamps read as "just now".
func FormatAgo(iso string, now time.Time) string {
	dt, ok := parseTime(iso)
	if !ok {
		return "never"
	}
	secs := int(now.Sub(dt).Seconds())
	if secs < 0 {
		secs = 0
	}
	if secs < 60 {
		return "just now"
	}
	m := secs / 60
	if m < 60 {
		return fmt.Sprintf("%dm ago", m)
	}
	h := m / 60
	if h < 24 {
		return fmt.Sprintf("%dh %dm ago", h, m%60)
	}
	return fmt.Sprintf("%dd ago", h/24)
}
