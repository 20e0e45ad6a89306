package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pacebar/usage"
)

func fp(v float64) *float64 { return &v }

func TestAppendSkipsPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	if err := Append(path, usage.Placeholder(), time.Now()); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("placeholder report was appended")
	}
}

func TestAppendWritesProjectedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history.jsonl")
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	r := usage.Report{
		Session: usage.Tier{RemainingPct: fp(75), Used: fp(30), Limit: fp(120), ResetAt: "2026-03-14T14:30:00Z"},
		Weekly:  usage.Tier{RemainingPct: fp(40)},
		Extra:   usage.Tier{RemainingPct: fp(90), Spent: fp(12.5), Cap: fp(50), Used: fp(999)},
	}
	if err := Append(path, r, now); err != nil {
		t.Fatalf("Append: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	line := strings.TrimSpace(string(raw))
	if strings.Count(string(raw), "\n") != 1 {
		t.Fatalf("want exactly one line, got %q", raw)
	}

	var got map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("appended line is not JSON: %v", err)
	}
	if string(got["ts"]) != `"2026-03-14T12:00:00Z"` {
		t.Errorf("ts = %s", got["ts"])
	}
	// The extra tier keeps spend fields only; used/limit never leak in.
	if strings.Contains(string(got["extra"]), "used") {
		t.Errorf("extra projection leaked used: %s", got["extra"])
	}
	if !strings.Contains(string(got["extra"]), `"spent":12.5`) {
		t.Errorf("extra projection lost spent: %s", got["extra"])
	}
	// reset_at is not part of the appended projection.
	if strings.Contains(string(got["session"]), "reset_at") {
		t.Errorf("session projection leaked reset_at: %s", got["session"])
	}
}

func TestBuildNormalizes(t *testing.T) {
	lines := []string{
		`{"ts": "2026-03-14T12:20:00Z", "session": {"remaining_pct": 60}, "weekly": {"used": 50, "limit": 200}}`,
		``,
		`{"updated_at": "2026-03-14T12:00:00Z", "session": {"used": 30, "limit": 120}}`,
		`not json at all`,
		`{"ts": "2026-03-14T12:05:00Z", "event": "session_reset"}`,
		`{"ts": "2026-03-14T12:10:00Z", "event": "note", "session": {"remaining_pct": 55}}`,
		`{"session": {"remaining_pct": 10}}`,
		`{"ts": "2026-03-14T12:15:00Z", "extra": {"spent": 3, "cap": 50}}`,
		`{"ts": "2026-03-14T12:20:00Z", "session": {"remaining_pct": 1}}`,
	}
	path := filepath.Join(t.TempDir(), "history.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	entries, err := Build(path)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3: %+v", len(entries), entries)
	}

	// Sorted by timestamp, updated_at fallback first.
	if entries[0].TS != "2026-03-14T12:00:00Z" || entries[1].TS != "2026-03-14T12:10:00Z" || entries[2].TS != "2026-03-14T12:20:00Z" {
		t.Fatalf("order = %s %s %s", entries[0].TS, entries[1].TS, entries[2].TS)
	}
	// remaining derived from used/limit.
	if got := entries[0].Session.RemainingPct; got != 75 {
		t.Errorf("derived session remaining = %v, want 75", got)
	}
	// Absent tiers fall back to defaults.
	if e := entries[0].Extra; e.RemainingPct != 100 || e.Spent != 0 || e.Cap != 100 {
		t.Errorf("extra defaults = %+v, want 100/0/100", e)
	}
	// Duplicate timestamp: first occurrence wins.
	if got := entries[2].Session.RemainingPct; got != 60 {
		t.Errorf("dupe ts kept remaining = %v, want 60 (first line)", got)
	}
	if got := entries[2].Weekly.RemainingPct; got != 75 {
		t.Errorf("weekly derived remaining = %v, want 75", got)
	}
}

func TestBuildKeepsResetAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	line := `{"ts": "2026-03-14T12:00:00Z", "session": {"remaining_pct": 50, "reset_at": "2026-03-14T14:00:00Z"}}`
	if err := os.WriteFile(path, []byte(line+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	entries, err := Build(path)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(entries) != 1 || entries[0].Session.ResetAt != "2026-03-14T14:00:00Z" {
		t.Fatalf("reset_at not preserved: %+v", entries)
	}
}

func TestBuildMissingFile(t *testing.T) {
	if _, err := Build(filepath.Join(t.TempDir(), "none.jsonl")); err == nil {
		t.Fatal("Build on a missing file should error")
	}
}

func TestAppendThenBuildRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		r := usage.Report{
			Session: usage.Tier{RemainingPct: fp(float64(90 - i*10))},
			Weekly:  usage.Tier{RemainingPct: fp(80)},
		}
		if err := Append(path, r, base.Add(time.Duration(i)*10*time.Minute)); err != nil {
			t.Fatalf("Append #%d: %v", i, err)
		}
	}

	entries, err := Build(path)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	for i, want := range []float64{90, 80, 70} {
		if got := entries[i].Session.RemainingPct; got != want {
			t.Errorf("entry %d remaining = %v, want %v", i, got, want)
		}
	}
}

func TestWriteData(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "data.json")

	if err := WriteData(nil, out); err != nil {
		t.Fatalf("WriteData(nil): %v", err)
	}
	raw, _ := os.ReadFile(out)
	if string(raw) != "[]" {
		t.Errorf("empty export = %q, want []", raw)
	}

	entries := []Entry{{TS: "2026-03-14T12:00:00Z", Session: TierPoint{RemainingPct: 50}}}
	if err := WriteData(entries, out); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	raw, _ = os.ReadFile(out)
	var back []Entry
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if len(back) != 1 || back[0].Session.RemainingPct != 50 {
		t.Fatalf("round trip = %+v", back)
	}
}
