package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HOME at an empty directory so the loader can't pick
// up a real config.json, and clears the config env override.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PACEBAR_CONFIG", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dir != filepath.Join(home, ".config", "claude-menubar") {
		t.Errorf("dir = %q, want expanded default under %q", cfg.Dir, home)
	}
	if strings.Contains(cfg.Dir, "~") {
		t.Errorf("dir %q still contains ~", cfg.Dir)
	}
	if cfg.IconH != 22 || cfg.BarW != 3 || cfg.BarH != 11 || cfg.Gap != 2 || cfg.PadX != 1 || cfg.CornerR != 1 {
		t.Errorf("geometry defaults = %+v", cfg.Geometry())
	}
	if !cfg.AlertsEnabled {
		t.Error("alerts should default on")
	}
	if cfg.RefreshCmd != "" {
		t.Errorf("refresh_cmd default = %q, want empty", cfg.RefreshCmd)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"refresh_cmd": "scrape.sh", "icon_h": 24, "refresh_stale_min": 5}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RefreshCmd != "scrape.sh" {
		t.Errorf("refresh_cmd = %q", cfg.RefreshCmd)
	}
	if cfg.IconH != 24 {
		t.Errorf("icon_h = %d, want 24", cfg.IconH)
	}
	// Untouched fields keep their defaults.
	if cfg.BarW != 3 || cfg.UsageFile != "usage.json" {
		t.Errorf("defaults lost: bar_w=%d usage_file=%q", cfg.BarW, cfg.UsageFile)
	}
}

func TestLoadImplicitConfigFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", "claude-menubar")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"bar_w": 4}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BarW != 4 {
		t.Errorf("bar_w = %d, want 4 from <dir>/config.json", cfg.BarW)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"icon_h": 24, "refresh_cmd": "from-file"}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("PACEBAR_ICON_H", "30")
	t.Setenv("PACEBAR_ALERTS_ENABLED", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IconH != 30 {
		t.Errorf("icon_h = %d, want env override 30", cfg.IconH)
	}
	if cfg.AlertsEnabled {
		t.Error("alerts_enabled env override lost")
	}
	if cfg.RefreshCmd != "from-file" {
		t.Errorf("refresh_cmd = %q, want file value", cfg.RefreshCmd)
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("explicit missing config file should error")
	}
}

func TestLoadValidation(t *testing.T) {
	isolate(t)
	bad := []string{
		`{"icon_h": 0}`,
		`{"bar_h": 30}`, // exceeds default icon_h 22
		`{"gap": -1}`,
		`{"refresh_stale_min": -5}`,
		`{"refresh_timeout_sec": 0}`,
		`{"usage_file": ""}`,
	}
	for _, body := range bad {
		path := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("config %s should fail validation", body)
		}
	}
}

func TestPathResolution(t *testing.T) {
	cfg := Default()
	cfg.Dir = "/data"

	if got := cfg.UsagePath(); got != "/data/usage.json" {
		t.Errorf("UsagePath = %q", got)
	}
	cfg.UsageFile = "/elsewhere/u.json"
	if got := cfg.UsagePath(); got != "/elsewhere/u.json" {
		t.Errorf("absolute UsagePath = %q", got)
	}
	if got := cfg.AlertStatePath(); got != "/data/alerts.json" {
		t.Errorf("AlertStatePath = %q", got)
	}
	if got := cfg.DataPath(); got != "/data/data.json" {
		t.Errorf("DataPath = %q", got)
	}
}
