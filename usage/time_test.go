package usage

import (
	"testing"
	"time"
)

func TestTimeRemainingStr(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		resetAt string
		want    string
	}{
		{"", "—"},
		{"not a timestamp", "—"},
		{"2026-03-14T11:00:00Z", "now"},
		{"2026-03-14T12:00:00Z", "now"},
		{"2026-03-14T12:42:00Z", "42m"},
		{"2026-03-14T15:07:00Z", "3h 7m"},
		{"2026-03-14T15:00:30Z", "3h 0m"},
		{"2026-03-16T12:00:00Z", "48h 0m"},
		{"2026-03-16T13:00:00Z", "2d"},
		{"2026-03-19T12:00:00Z", "5d"},
		{"2026-03-14T14:30:00+02:00", "30m"},
	}
	for _, tt := range tests {
		if got := TimeRemainingStr(tt.resetAt, now); got != tt.want {
			t.Errorf("TimeRemainingStr(%q) = %q, want %q", tt.resetAt, got, tt.want)
		}
	}
}

func TestTimeRemainingPct(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		resetAt string
		window  float64
		want    float64
	}{
		{"2026-03-14T14:30:00Z", 5, 50},
		{"2026-03-14T17:00:00Z", 5, 100},
		{"2026-03-15T12:00:00Z", 5, 100}, // beyond the window clamps
		{"2026-03-14T11:00:00Z", 5, 0},   // already reset
		{"2026-03-14T14:30:00Z", 0, 50},  // bad window
		{"", 5, 50},
		{"garbage", 5, 50},
	}
	for _, tt := range tests {
		if got := TimeRemainingPct(tt.resetAt, tt.window, now); got != tt.want {
			t.Errorf("TimeRemainingPct(%q, %v) = %v, want %v", tt.resetAt, tt.window, got, tt.want)
		}
	}
}

func TestFormatAgo(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		iso  string
		want string
	}{
		{"", "never"},
		{"yesterday-ish", "never"},
		{"2026-03-14T11:59:30Z", "just now"},
		{"2026-03-14T12:05:00Z", "just now"}, // clock skew reads as fresh
		{"2026-03-14T11:48:00Z", "12m ago"},
		{"2026-03-14T08:56:00Z", "3h 4m ago"},
		{"2026-03-13T12:00:00Z", "1d ago"},
		{"2026-03-10T12:00:00Z", "4d ago"},
	}
	for _, tt := range tests {
		if got := FormatAgo(tt.iso, now); got != tt.want {
			t.Errorf("FormatAgo(%q) = %q, want %q", tt.iso, got, tt.want)
		}
	}
}
