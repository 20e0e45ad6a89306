package main

import (
	"context"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"pacebar/config"
	"pacebar/history"
	"pacebar/icon"
	"pacebar/log"
	"pacebar/login"
	"pacebar/menu"
	"pacebar/notify"
	"pacebar/refresh"
	"pacebar/shutdown"
	"pacebar/tray"
	"pacebar/update"
	"pacebar/usage"
)

var (
	shutdownOnce sync.Once
	renderCount  int // touched only by the runTray loop
)

func gracefulShutdown() {
	shutdownOnce.Do(func() {
		log.SessionEnd(renderCount)
		log.Close()
		tray.Quit()
		os.Exit(0)
	})
}

// runTray is the persistent menu bar mode: render on startup, then
// re-render whenever usage.json changes, once a minute for the
// countdown texts, and on SIGHUP.
func runTray(cfg *config.Config) {
	notifier := notify.New(cfg.AlertsEnabled)
	gate := notify.Gate{Path: cfg.AlertStatePath()}
	runner := refresh.Runner{Cmd: cfg.RefreshCmd, UsagePath: cfg.UsagePath(), Stale: cfg.RefreshStale()}

	// Coalescing kick channel: a burst of watcher events ends up as a
	// single re-render.
	renderCh := make(chan struct{}, 1)
	kick := func() {
		select {
		case renderCh <- struct{}{}:
		default:
		}
	}

	tray.SetAlerts(cfg.AlertsEnabled)
	tray.OnAlerts(func(on bool) { notifier.SetEnabled(on) })
	tray.SetLogin(login.Enabled())
	tray.OnLogin(func(on bool) error {
		if on {
			return login.Enable()
		}
		return login.Disable()
	})
	tray.OnRefreshNow(func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.RefreshTimeout())
			defer cancel()
			start := time.Now()
			err := runner.RunSync(ctx)
			log.RefreshDone(err == nil, float64(time.Since(start).Milliseconds()))
			if err != nil {
				log.Errorf("refresh: %v", err)
				notifier.RefreshFailed(err)
				tray.SetError("refresh failed")
			}
			kick()
		}()
	})
	tray.OnCopySummary(func() {
		now := time.Now()
		report := usage.Load(cfg.UsagePath(), now)
		if err := clipboard.WriteAll(menu.Summary(report, now)); err != nil {
			log.Warnf("clipboard: %v", err)
		}
	})
	tray.OnOpenConfig(func() {
		exec.Command("open", cfg.Dir).Start()
	})
	tray.OnExportHistory(func() {
		entries, err := history.Build(cfg.HistoryPath())
		if err != nil {
			log.Warnf("history build: %v", err)
			return
		}
		if err := history.WriteData(entries, cfg.DataPath()); err != nil {
			log.Warnf("write data: %v", err)
			return
		}
		exec.Command("open", "-R", cfg.DataPath()).Start()
	})

	trayQuit := tray.Init()

	stopWatch, err := usage.Watch(cfg.UsagePath(), kick)
	if err != nil {
		log.Warnf("watch: %v", err)
	} else {
		defer stopWatch()
	}

	update.StartBackgroundCheck(version, log.Dir(), func(rel update.Release) {
		log.Info("update_available: " + rel.Version)
		tray.SetUpdateAvailable(rel.Version)
		notifier.UpdateAvailable(rel.Version)
	})

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	reloadChan := make(chan os.Signal, 1)
	shutdown.NotifyReload(reloadChan)

	// History appends and alerts only fire when the snapshot actually
	// changed; countdown texts re-render regardless.
	var lastMod time.Time
	render := func() {
		now := time.Now()
		report := usage.Load(cfg.UsagePath(), now)
		log.SnapshotLoaded(snapshotAgeMin(cfg.UsagePath(), now), report.IsPlaceholder())

		if fi, err := os.Stat(cfg.UsagePath()); err == nil && fi.ModTime().After(lastMod) {
			lastMod = fi.ModTime()
			if err := history.Append(cfg.HistoryPath(), report, now); err != nil {
				log.Warnf("history append: %v", err)
			}
			sendAlerts(gate, notifier, report)
		}

		geom := cfg.Geometry()
		snaps := report.Snapshots()
		t0 := time.Now()
		iconPNG := icon.Bytes(snaps, geom)
		log.IconRender(log.RenderMetrics{
			Bars:     len(snaps),
			Width:    geom.Width(len(snaps)),
			Height:   geom.IconH,
			PNGBytes: len(iconPNG),
			EncodeMs: float64(time.Since(t0).Microseconds()) / 1000,
		})

		tray.SetUsage(iconPNG, trayTooltip(report, now))
		tray.SetTiers(tierLines(report, now))
		tray.SetLastRefresh(usage.FormatAgo(report.UpdatedAt, now))
		renderCount++
	}

	maybeRefresh := func() {
		if runner.MaybeStart() {
			log.RefreshLaunched(cfg.RefreshCmd)
		}
	}

	maybeRefresh()
	render()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-renderCh:
			render()
		case <-ticker.C:
			maybeRefresh()
			render()
		case <-reloadChan:
			render()
		case <-sigChan:
			gracefulShutdown()
		case <-trayQuit:
			gracefulShutdown()
		}
	}
}

func tierLines(r usage.Report, now time.Time) []tray.TierLine {
	lines := make([]tray.TierLine, 0, 3)
	for _, lt := range labeledTiers(r) {
		lines = append(lines, tray.TierLine{
			Title: menu.TierText(lt.label, lt.tier, now),
			Hint:  menu.HintText(lt.tier),
		})
	}
	return lines
}

func trayTooltip(r usage.Report, now time.Time) string {
	if r.IsPlaceholder() {
		return "pacebar – no usage data yet"
	}
	return "pacebar – updated " + usage.FormatAgo(r.UpdatedAt, now)
}
