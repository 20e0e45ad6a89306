// Package usage loads the scraper-written usage.json snapshot and
// derives the fields the rest of the app works from. Loading never
// fails: a missing or corrupt file yields the placeholder report so
// the menu always has something to render.
package usage

import (
	"encoding/json"
	"math"
	"os"
	"time"
)

// Default reset windows per tier, in hours, used to derive
// time_remaining_pct when the snapshot carries reset_at but no
// window_hours.
const (
	SessionWindowHours = 5
	WeeklyWindowHours  = 168
	ExtraWindowHours   = 720
)

// Tier is one metered quota as the scraper writes it. Optional fields
// are pointers so "absent" and "zero" stay distinguishable.
type Tier struct {
	RemainingPct     *float64 `json:"remaining_pct,omitempty"`
	TimeRemainingPct *float64 `json:"time_remaining_pct,omitempty"`
	Used             *float64 `json:"used,omitempty"`
	Limit            *float64 `json:"limit,omitempty"`
	Spent            *float64 `json:"spent,omitempty"`
	Cap              *float64 `json:"cap,omitempty"`
	WindowHours      *float64 `json:"window_hours,omitempty"`
	ResetAt          string   `json:"reset_at,omitempty"`
}

// Report is a full usage snapshot across the three tiers.
type Report struct {
	Session   Tier   `json:"session"`
	Weekly    Tier   `json:"weekly"`
	Extra     Tier   `json:"extra"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Load reads and decodes the snapshot at path, filling in derived
// fields per tier. Any read or decode failure returns Placeholder().
func Load(path string, now time.Time) Report {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Placeholder()
	}
	var r Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return Placeholder()
	}
	r.Session.derive(SessionWindowHours, now)
	r.Weekly.derive(WeeklyWindowHours, now)
	r.Extra.derive(ExtraWindowHours, now)
	return r
}

// derive fills time_remaining_pct from reset_at and remaining_pct from
// used/limit when the scraper left them out.
func (t *Tier) derive(defaultWindowHours float64, now time.Time) {
	if t.TimeRemainingPct == nil && t.ResetAt != "" {
		window := defaultWindowHours
		if t.WindowHours != nil {
			window = *t.WindowHours
		}
		pct := TimeRemainingPct(t.ResetAt, window, now)
		t.TimeRemainingPct = &pct
	}
	if t.RemainingPct == nil && t.Used != nil && t.Limit != nil && *t.Limit > 0 {
		pct := math.Max(0, 1-*t.Used / *t.Limit) * 100
		t.RemainingPct = &pct
	}
}

// Placeholder is the report shown before the scraper has ever run:
// every tier carries the -1 sentinel the menu renders as "No data".
func Placeholder() Report {
	return Report{
		Session: placeholderTier(),
		Weekly:  placeholderTier(),
		Extra:   placeholderTier(),
	}
}

func placeholderTier() Tier {
	remaining, timeLeft := -1.0, 50.0
	return Tier{RemainingPct: &remaining, TimeRemainingPct: &timeLeft}
}

// IsPlaceholder reports whether the snapshot carries no real data. The
// session tier is the marker: a negative remaining_pct only comes from
// Placeholder or a scraper writing the sentinel.
func (r Report) IsPlaceholder() bool {
	return r.Session.RemainingPct == nil || *r.Session.RemainingPct < 0
}

// Snapshot is the pair of pacing inputs a tier reduces to.
type Snapshot struct {
	RemainingPct     float64
	TimeRemainingPct float64
}

// Unknown reports whether the tier had no usable remaining figure.
func (s Snapshot) Unknown() bool { return s.RemainingPct < 0 }

// Snapshot collapses the tier to its pacing inputs, with the -1
// sentinel when remaining is absent and the neutral 50 when the time
// axis is absent. Icon, menu and alerts all read these same two
// numbers so they can never disagree about a tier's state.
func (t Tier) Snapshot() Snapshot {
	s := Snapshot{RemainingPct: -1, TimeRemainingPct: 50}
	if t.RemainingPct != nil {
		s.RemainingPct = *t.RemainingPct
	}
	if t.TimeRemainingPct != nil {
		s.TimeRemainingPct = *t.TimeRemainingPct
	}
	return s
}

// Snapshots returns the tiers in display order: session, weekly, extra.
func (r Report) Snapshots() []Snapshot {
	return []Snapshot{r.Session.Snapshot(), r.Weekly.Snapshot(), r.Extra.Snapshot()}
}
