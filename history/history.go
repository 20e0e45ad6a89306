// Package history maintains the append-only usage log (history.jsonl)
// and rebuilds it into a normalized, deduplicated time series for the
// dashboard surfaces.
package history

import (
	"bufio"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"pacebar/usage"
)

// Entry is one normalized sample of the series.
type Entry struct {
	TS      string     `json:"ts"`
	Session TierPoint  `json:"session"`
	Weekly  TierPoint  `json:"weekly"`
	Extra   ExtraPoint `json:"extra"`
}

// TierPoint is the session/weekly projection of a sample.
type TierPoint struct {
	RemainingPct float64 `json:"remaining_pct"`
	Used         float64 `json:"used"`
	ResetAt      string  `json:"reset_at,omitempty"`
}

// ExtraPoint keeps the spend fields of the extra tier.
type ExtraPoint struct {
	RemainingPct float64 `json:"remaining_pct"`
	Spent        float64 `json:"spent"`
	Cap          float64 `json:"cap"`
	ResetAt      string  `json:"reset_at,omitempty"`
}

// appendTier is the per-line projection written by Append; pointers so
// absent fields stay absent in the log.
type appendTier struct {
	RemainingPct     *float64 `json:"remaining_pct,omitempty"`
	TimeRemainingPct *float64 `json:"time_remaining_pct,omitempty"`
	Used             *float64 `json:"used,omitempty"`
	Limit            *float64 `json:"limit,omitempty"`
}

type appendExtra struct {
	RemainingPct     *float64 `json:"remaining_pct,omitempty"`
	TimeRemainingPct *float64 `json:"time_remaining_pct,omitempty"`
	Spent            *float64 `json:"spent,omitempty"`
	Cap              *float64 `json:"cap,omitempty"`
}

type appendEntry struct {
	TS      string      `json:"ts"`
	Session appendTier  `json:"session"`
	Weekly  appendTier  `json:"weekly"`
	Extra   appendExtra `json:"extra"`
}

// Append writes one snapshot line to the JSONL log at path, creating
// parent directories as needed. Placeholder reports are not history
// and are silently skipped.
func Append(path string, r usage.Report, now time.Time) error {
	if r.IsPlaceholder() {
		return nil
	}
	entry := appendEntry{
		TS: now.UTC().Format(time.RFC3339),
		Session: appendTier{
			RemainingPct:     r.Session.RemainingPct,
			TimeRemainingPct: r.Session.TimeRemainingPct,
			Used:             r.Session.Used,
			Limit:            r.Session.Limit,
		},
		Weekly: appendTier{
			RemainingPct:     r.Weekly.RemainingPct,
			TimeRemainingPct: r.Weekly.TimeRemainingPct,
			Used:             r.Weekly.Used,
			Limit:            r.Weekly.Limit,
		},
		Extra: appendExtra{
			RemainingPct:     r.Extra.RemainingPct,
			TimeRemainingPct: r.Extra.TimeRemainingPct,
			Spent:            r.Extra.Spent,
			Cap:              r.Extra.Cap,
		},
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// rawEntry accepts any line shape that ever landed in a history file:
// current appends, old scraper dumps keyed by updated_at, and
// event-only markers.
type rawEntry struct {
	TS        string          `json:"ts"`
	UpdatedAt string          `json:"updated_at"`
	Event     json.RawMessage `json:"event"`
	Session   *usage.Tier     `json:"session"`
	Weekly    *usage.Tier     `json:"weekly"`
	Extra     *usage.Tier     `json:"extra"`
}

// Build reads the JSONL log and returns the normalized series: blank
// and malformed lines skipped, one entry per timestamp (first wins),
// sorted by timestamp.
func Build(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries := []Entry{}
	seen := make(map[string]bool)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var raw rawEntry
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			continue
		}
		entry, ok := normalize(raw)
		if !ok || seen[entry.TS] {
			continue
		}
		seen[entry.TS] = true
		entries = append(entries, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].TS < entries[j].TS })
	return entries, nil
}

// normalize maps a raw line to an Entry. Lines without a timestamp,
// event-only lines, and lines with neither session nor weekly data are
// dropped.
func normalize(raw rawEntry) (Entry, bool) {
	ts := raw.TS
	if ts == "" {
		ts = raw.UpdatedAt
	}
	if ts == "" {
		return Entry{}, false
	}
	if len(raw.Event) > 0 && raw.Session == nil {
		return Entry{}, false
	}

	session := tierOrEmpty(raw.Session)
	weekly := tierOrEmpty(raw.Weekly)
	extra := tierOrEmpty(raw.Extra)

	sRemain := remainingOf(session)
	wRemain := remainingOf(weekly)
	if sRemain == nil && wRemain == nil {
		return Entry{}, false
	}

	return Entry{
		TS: ts,
		Session: TierPoint{
			RemainingPct: floatOr(sRemain, 100),
			Used:         floatOr(session.Used, 0),
			ResetAt:      session.ResetAt,
		},
		Weekly: TierPoint{
			RemainingPct: floatOr(wRemain, 100),
			Used:         floatOr(weekly.Used, 0),
			ResetAt:      weekly.ResetAt,
		},
		Extra: ExtraPoint{
			RemainingPct: floatOr(remainingOf(extra), 100),
			Spent:        floatOr(extra.Spent, 0),
			Cap:          floatOr(extra.Cap, 100),
			ResetAt:      extra.ResetAt,
		},
	}, true
}

// remainingOf prefers an explicit remaining_pct, then derives one from
// used/limit, then gives up.
func remainingOf(t usage.Tier) *float64 {
	if t.RemainingPct != nil {
		return t.RemainingPct
	}
	if t.Used != nil && t.Limit != nil && *t.Limit > 0 {
		v := math.Max(0, 1-*t.Used / *t.Limit) * 100
		return &v
	}
	return nil
}

func tierOrEmpty(t *usage.Tier) usage.Tier {
	if t == nil {
		return usage.Tier{}
	}
	return *t
}

func floatOr(p *float64, def float64) float64 {
	if p != nil {
		return *p
	}
	return def
}

// WriteData exports the series as one JSON array, the data.json format
// external dashboards read.
func WriteData(entries []Entry, path string) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
