package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional JSON file,
// and environment variables. Order of precedence (low -> high):
//  1. Default()
//  2. file: the explicit path argument, else $PACEBAR_CONFIG, else
//     <dir>/config.json when present
//  3. env (prefix PACEBAR_, e.g. PACEBAR_REFRESH_CMD)
func Load(path string) (*Config, error) {
	base := Default()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("PACEBAR_CONFIG")
	}
	if path == "" {
		if dir, err := expandHome(base.Dir); err == nil {
			candidate := filepath.Join(dir, "config.json")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	// PACEBAR_REFRESH_CMD -> refresh_cmd: flat keys matching the koanf
	// tags on the struct.
	envProvider := env.Provider("PACEBAR_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "pacebar_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	dir, err := expandHome(cfg.Dir)
	if err != nil {
		return nil, err
	}
	cfg.Dir = dir

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Dir == "" {
		return errors.New("dir must not be empty")
	}
	if c.UsageFile == "" || c.HistoryFile == "" {
		return errors.New("usage_file and history_file must not be empty")
	}
	if c.IconH < 1 || c.BarW < 1 || c.BarH < 1 {
		return fmt.Errorf("icon geometry must be positive (icon_h=%d bar_w=%d bar_h=%d)", c.IconH, c.BarW, c.BarH)
	}
	if c.Gap < 0 || c.PadX < 0 || c.CornerR < 0 {
		return errors.New("gap, pad_x and corner_r must not be negative")
	}
	if c.BarH > c.IconH {
		return fmt.Errorf("bar_h %d exceeds icon_h %d", c.BarH, c.IconH)
	}
	if c.RefreshStaleMin < 0 {
		return errors.New("refresh_stale_min must not be negative")
	}
	if c.RefreshTimeoutSec < 1 {
		return errors.New("refresh_timeout_sec must be positive")
	}
	return nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
