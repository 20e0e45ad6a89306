package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"golang.org/x/term"

	"pacebar/config"
	"pacebar/doctor"
	"pacebar/history"
	"pacebar/icon"
	"pacebar/log"
	"pacebar/menu"
	"pacebar/notify"
	"pacebar/pace"
	"pacebar/refresh"
	"pacebar/update"
	"pacebar/usage"
)

var version = "dev"

type labeledTier struct {
	label string
	tier  usage.Tier
}

func labeledTiers(r usage.Report) []labeledTier {
	return []labeledTier{
		{"Session", r.Session},
		{"Weekly", r.Weekly},
		{"Extra", r.Extra},
	}
}

func run() {
	if len(os.Args) > 1 && os.Args[1] == "update" {
		if version == "dev" {
			fmt.Println("Dev build — cannot check for updates.")
			os.Exit(0)
		}
		fmt.Printf("pacebar %s — checking for updates...\n", version)
		rel, err := update.CheckLatest(version)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if rel == nil {
			fmt.Println("Already up to date.")
			os.Exit(0)
		}
		fmt.Printf("Update available: %s -> %s\n", version, rel.Version)
		fmt.Print("Continue? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			os.Exit(0)
		}
		fmt.Printf("Downloading %s...\n", rel.Version)
		if err := update.Apply(rel); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated to %s\n", rel.Version)
		os.Exit(0)
	}

	trayFlag := flag.Bool("tray", false, "Run as a persistent menu bar app (macOS)")
	tuiFlag := flag.Bool("tui", false, "Show the usage history dashboard")
	nowFlag := flag.Bool("now", false, "Run the refresh command before rendering")
	noRefreshFlag := flag.Bool("no-refresh", false, "Never launch the refresh command")
	rebuildFlag := flag.Bool("rebuild-history", false, "Rebuild data.json from history.jsonl and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	configFlag := flag.String("config", "", "Path to config.json (default: $PACEBAR_CONFIG or <dir>/config.json)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	profileFlag := flag.String("profile", "", "Enable pprof profiling server (e.g., :6060 or localhost:6060)")
	crashFlag := flag.Bool("crash", false, "Trigger synthetic panic for testing crash logging")
	flag.Parse()

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *profileFlag != "" {
		go func() {
			fmt.Fprintf(os.Stderr, "pprof server listening on http://%s/debug/pprof/\n", *profileFlag)
			if err := http.ListenAndServe(*profileFlag, nil); err != nil {
				fmt.Fprintf(os.Stderr, "pprof server error: %v\n", err)
			}
		}()
	}

	if *crashFlag {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	if *versionFlag {
		fmt.Printf("pacebar %s\n", version)
		os.Exit(0)
	}

	if *doctorFlag {
		os.Exit(doctor.Run(*configFlag))
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Errorf("config: %v", err)
		pluginMode := !*trayFlag && !*tuiFlag && !*rebuildFlag
		if pluginMode {
			// SwiftBar only shows stdout, so surface the problem there
			fmt.Println("⚠️ pacebar | sfimage=exclamationmark.triangle")
			fmt.Println("---")
			fmt.Printf("Config error: %v | color=#bb2222,#ff6666 size=12\n", err)
			log.Close()
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Close()
		os.Exit(1)
	}

	if *rebuildFlag {
		entries, err := history.Build(cfg.HistoryPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := history.WriteData(entries, cfg.DataPath()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d entries to %s\n", len(entries), cfg.DataPath())
		log.Close()
		os.Exit(0)
	}

	if *trayFlag {
		if runtime.GOOS != "darwin" {
			fmt.Fprintln(os.Stderr, "Error: -tray is only supported on macOS")
			os.Exit(1)
		}
		log.SessionStart("tray")
		runTray(cfg)
		return
	}

	if *tuiFlag {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -tui needs a terminal")
			os.Exit(1)
		}
		log.SessionStart("tui")
		if err := runTUI(cfg); err != nil {
			log.Errorf("tui: %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log.Close()
		return
	}

	runPlugin(cfg, *nowFlag, *noRefreshFlag)
	log.Close()
}

// runPlugin is one SwiftBar pass: maybe refresh, load the snapshot,
// append history, alert, and print the menu to stdout.
func runPlugin(cfg *config.Config, runNow, noRefresh bool) {
	log.SessionStart("plugin")

	runner := refresh.Runner{Cmd: cfg.RefreshCmd, UsagePath: cfg.UsagePath(), Stale: cfg.RefreshStale()}
	switch {
	case runNow:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RefreshTimeout())
		start := time.Now()
		err := runner.RunSync(ctx)
		cancel()
		log.RefreshDone(err == nil, float64(time.Since(start).Milliseconds()))
		if err != nil {
			log.Errorf("refresh: %v", err)
		}
	case noRefresh:
	default:
		if runner.MaybeStart() {
			log.RefreshLaunched(cfg.RefreshCmd)
		}
	}

	now := time.Now()
	report := usage.Load(cfg.UsagePath(), now)
	log.SnapshotLoaded(snapshotAgeMin(cfg.UsagePath(), now), report.IsPlaceholder())

	if err := history.Append(cfg.HistoryPath(), report, now); err != nil {
		log.Warnf("history append: %v", err)
	}

	sendAlerts(notify.Gate{Path: cfg.AlertStatePath()}, notify.New(cfg.AlertsEnabled), report)

	geom := cfg.Geometry()
	snaps := report.Snapshots()
	t0 := time.Now()
	iconPNG := icon.Bytes(snaps, geom)
	iconB64 := base64.StdEncoding.EncodeToString(iconPNG)
	log.IconRender(log.RenderMetrics{
		Bars:     len(snaps),
		Width:    geom.Width(len(snaps)),
		Height:   geom.IconH,
		PNGBytes: len(iconPNG),
		EncodeMs: float64(time.Since(t0).Microseconds()) / 1000,
	})

	exe, err := os.Executable()
	if err != nil {
		exe = "pacebar"
	}
	fmt.Print(menu.Build(report, iconB64, now, menu.Actions{
		Exe:       exe,
		ConfigDir: cfg.Dir,
		UsagePath: cfg.UsagePath(),
	}))
	log.SessionEnd(1)
}

// sendAlerts pushes a notification for every tier that worsened into a
// worrying band since the last pass. The gate also records the current
// bands, so it runs even when delivery is off.
func sendAlerts(gate notify.Gate, notifier *notify.Notifier, r usage.Report) {
	if r.IsPlaceholder() {
		return
	}
	for _, lt := range labeledTiers(r) {
		snap := lt.tier.Snapshot()
		if snap.Unknown() {
			continue
		}
		band := pace.BandFor(pace.Score(snap.RemainingPct, snap.TimeRemainingPct))
		if gate.ShouldAlert(lt.label, band) {
			notifier.PaceAlert(lt.label, band.Hint())
			log.AlertSent(lt.label, band.String())
		}
	}
}

func snapshotAgeMin(path string, now time.Time) float64 {
	fi, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return now.Sub(fi.ModTime()).Minutes()
}
