// Package config defines the file/env-backed application
// configuration. Process switches (mode flags, log path) stay on the
// command line; everything here describes the data, the scraper, and
// the icon's presentation.
package config

import (
	"path/filepath"
	"time"

	"pacebar/icon"
)

// Config holds the application configuration.
type Config struct {
	// Dir is the data directory holding usage.json, history.jsonl and
	// alert state. The default matches the original SwiftBar plugin so
	// existing data keeps working.
	Dir string `koanf:"dir"`

	// UsageFile and HistoryFile are resolved against Dir unless
	// absolute.
	UsageFile   string `koanf:"usage_file"`
	HistoryFile string `koanf:"history_file"`

	// RefreshCmd is the shell command that rewrites usage.json. Empty
	// disables refreshing.
	RefreshCmd string `koanf:"refresh_cmd"`

	// RefreshStaleMin suppresses background refreshes while usage.json
	// is younger than this many minutes. 0 fires on every pass.
	RefreshStaleMin int `koanf:"refresh_stale_min"`

	// RefreshTimeoutSec bounds synchronous refreshes (-now, tray, TUI).
	RefreshTimeoutSec int `koanf:"refresh_timeout_sec"`

	// AlertsEnabled gates pace notifications.
	AlertsEnabled bool `koanf:"alerts_enabled"`

	// Icon geometry, in pixels.
	IconH   int `koanf:"icon_h"`
	BarW    int `koanf:"bar_w"`
	BarH    int `koanf:"bar_h"`
	Gap     int `koanf:"gap"`
	PadX    int `koanf:"pad_x"`
	CornerR int `koanf:"corner_r"`
}

// Default returns the configuration used when no file or env override
// is present.
func Default() *Config {
	return &Config{
		Dir:               "~/.config/claude-menubar",
		UsageFile:         "usage.json",
		HistoryFile:       "history.jsonl",
		RefreshTimeoutSec: 120,
		AlertsEnabled:     true,
		IconH:             22,
		BarW:              3,
		BarH:              11,
		Gap:               2,
		PadX:              1,
		CornerR:           1,
	}
}

// UsagePath is the absolute location of the usage snapshot.
func (c *Config) UsagePath() string { return c.resolve(c.UsageFile) }

// HistoryPath is the absolute location of the JSONL history log.
func (c *Config) HistoryPath() string { return c.resolve(c.HistoryFile) }

// DataPath is where -rebuild-history writes its dashboard export.
func (c *Config) DataPath() string { return filepath.Join(c.Dir, "data.json") }

// AlertStatePath is where the notification gate keeps its state.
func (c *Config) AlertStatePath() string { return filepath.Join(c.Dir, "alerts.json") }

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Geometry converts the pixel fields into the renderer's layout.
func (c *Config) Geometry() icon.Geometry {
	return icon.Geometry{
		IconH:   c.IconH,
		BarW:    c.BarW,
		BarH:    c.BarH,
		Gap:     c.Gap,
		PadX:    c.PadX,
		CornerR: c.CornerR,
	}
}

// RefreshStale is RefreshStaleMin as a duration.
func (c *Config) RefreshStale() time.Duration {
	return time.Duration(c.RefreshStaleMin) * time.Minute
}

// RefreshTimeout is RefreshTimeoutSec as a duration.
func (c *Config) RefreshTimeout() time.Duration {
	return time.Duration(c.RefreshTimeoutSec) * time.Second
}
