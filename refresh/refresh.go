// Package refresh launches the configured scraper command that
// rewrites usage.json. Plugin passes fire it in the background so the
// next render picks up fresher data; the interactive surfaces run it
// synchronously when asked.
package refresh

import (
	"context"
	"os"
	"time"
)

// Runner invokes the scraper. Cmd is a full shell command line; an
// empty Cmd disables refreshing.
type Runner struct {
	Cmd       string
	UsagePath string
	// Stale suppresses background launches while usage.json is younger
	// than this. Zero means always launch, which is what the 10-minute
	// plugin cycle wants.
	Stale time.Duration
}

// MaybeStart fires the scraper detached and reports whether a launch
// happened. The child gets the null device for all stdio and is only
// ever waited on for reaping; whether it succeeds shows up solely as a
// fresher usage.json.
func (r Runner) MaybeStart() bool {
	if r.Cmd == "" {
		return false
	}
	if r.Stale > 0 && r.UsagePath != "" {
		if fi, err := os.Stat(r.UsagePath); err == nil && time.Since(fi.ModTime()) < r.Stale {
			return false
		}
	}
	cmd := shellCommand(context.Background(), r.Cmd)
	if err := cmd.Start(); err != nil {
		return false
	}
	go cmd.Wait()
	return true
}

// RunSync runs the scraper in the foreground, honoring ctx for
// timeout and cancellation.
func (r Runner) RunSync(ctx context.Context) error {
	if r.Cmd == "" {
		return nil
	}
	return shellCommand(ctx, r.Cmd).Run()
}
