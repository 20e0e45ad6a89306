package notify

import (
	"encoding/json"
	"os"
	"path/filepath"

	"pacebar/pace"
)

// Gate debounces pace alerts across one-shot plugin runs. The last
// alerted band per tier is kept in a small JSON state file, so a tier
// that already alerted stays quiet every 10-minute cycle until it
// recovers and worsens again.
type Gate struct {
	Path string
}

// ShouldAlert records the tier's current band and reports whether an
// alert should fire now: only on a worsening transition into Slow or
// Danger. Improving, staying put, and recovering never fire; recovery
// to Watch or better re-arms the tier. Callers must not feed sentinel
// tiers in; "no data" is not a pace.
func (g Gate) ShouldAlert(tier string, b pace.Band) bool {
	state := g.load()
	prev, seen := state[tier]
	if !seen {
		prev = pace.Comfortable
	}
	fire := b <= pace.Slow && b < prev
	state[tier] = b
	g.save(state)
	return fire
}

// Reset drops all recorded state, re-arming every tier.
func (g Gate) Reset() {
	os.Remove(g.Path)
}

// State files are best-effort: an unreadable file is an empty state, a
// failed write means at worst one duplicate alert next cycle.

func (g Gate) load() map[string]pace.Band {
	state := make(map[string]pace.Band)
	raw, err := os.ReadFile(g.Path)
	if err != nil {
		return state
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return make(map[string]pace.Band)
	}
	return state
}

func (g Gate) save(state map[string]pace.Band) {
	raw, err := json.Marshal(state)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(g.Path), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(g.Path, raw, 0o644)
}
