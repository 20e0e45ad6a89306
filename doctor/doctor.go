package doctor

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"strings"
	"time"

	"pacebar/config"
	"pacebar/icon"
	"pacebar/notify"
	"pacebar/refresh"
	"pacebar/usage"
)

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(configFlag string) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("pacebar doctor - interactive system diagnostics")
	fmt.Println("================================================")

	allPass := true

	cfg := checkConfig(configFlag)
	if cfg == nil {
		allPass = false
	}
	if allPass && !checkRender(cfg) {
		allPass = false
	}
	if allPass && !checkRefresh(cfg) {
		allPass = false
	}
	if allPass && !checkNotification() {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
	} else {
		fmt.Println("Some checks failed. See details above.")
	}

	if allPass {
		return 0
	}
	return 1
}

// checkConfig loads the config the same way the plugin pass would and
// reports on the data files it points at. Returns nil on failure.
func checkConfig(configFlag string) *config.Config {
	fmt.Println()
	fmt.Println("[1/4] Config and data files")

	cfg, err := config.Load(configFlag)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return nil
	}
	fmt.Printf("  data dir: %s\n", cfg.Dir)
	if _, err := os.Stat(cfg.Dir); err != nil {
		fmt.Println("  note: data dir does not exist yet, it is created on first write")
	}

	usagePath := cfg.UsagePath()
	fi, err := os.Stat(usagePath)
	if err != nil {
		fmt.Printf("  note: %s missing, the icon will show neutral bars until a snapshot lands\n", usagePath)
	} else {
		now := time.Now()
		fmt.Printf("  usage.json: updated %s\n", usage.FormatAgo(fi.ModTime().UTC().Format(time.RFC3339), now))
		if usage.Load(usagePath, now).IsPlaceholder() {
			fmt.Println("  note: usage.json holds no remaining figures yet")
		}
		if stale := cfg.RefreshStale(); stale > 0 && time.Since(fi.ModTime()) > 3*stale {
			fmt.Println("  note: snapshot is much older than refresh_stale_min, is the scraper running?")
		}
	}

	fmt.Println("  PASS: config loaded")
	return cfg
}

// checkRender draws a three-tier icon and decodes it with the standard
// library to prove the hand-rolled PNG encoder produces valid output.
func checkRender(cfg *config.Config) bool {
	fmt.Println()
	fmt.Println("[2/4] Icon render self-test")

	tiers := []usage.Snapshot{
		{RemainingPct: 95, TimeRemainingPct: 90},
		{RemainingPct: 50, TimeRemainingPct: 50},
		{RemainingPct: 5, TimeRemainingPct: 80},
	}
	g := cfg.Geometry()
	data := icon.Bytes(tiers, g)

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		fmt.Printf("  FAIL: rendered PNG does not decode: %v\n", err)
		return false
	}
	b := img.Bounds()
	if b.Dx() != g.Width(len(tiers)) || b.Dy() != g.IconH {
		fmt.Printf("  FAIL: decoded size %dx%d, want %dx%d\n", b.Dx(), b.Dy(), g.Width(len(tiers)), g.IconH)
		return false
	}
	fmt.Printf("  PASS: %dx%d icon, %d byte PNG\n", b.Dx(), b.Dy(), len(data))
	return true
}

func checkRefresh(cfg *config.Config) bool {
	fmt.Println()
	fmt.Println("[3/4] Refresh command")

	if cfg.RefreshCmd == "" {
		fmt.Println("  note: refresh_cmd is not set; usage.json must be written by an external job")
		fmt.Println("  PASS: nothing to run")
		return true
	}
	fmt.Printf("  refresh_cmd: %s\n", cfg.RefreshCmd)

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Run it now? [y/n]: ")
	confirm, _ := reader.ReadString('\n')
	confirm = strings.TrimSpace(strings.ToLower(confirm))
	if confirm != "y" && confirm != "yes" {
		fmt.Println("  skipped")
		return true
	}

	r := refresh.Runner{Cmd: cfg.RefreshCmd, UsagePath: cfg.UsagePath()}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RefreshTimeout())
	defer cancel()

	start := time.Now()
	if err := r.RunSync(ctx); err != nil {
		fmt.Printf("  FAIL: refresh command: %v\n", err)
		return false
	}
	fmt.Printf("  command finished in %.1fs\n", time.Since(start).Seconds())

	fi, err := os.Stat(cfg.UsagePath())
	if err != nil {
		fmt.Println("  FAIL: usage.json still missing after refresh")
		return false
	}
	if fi.ModTime().Before(start) {
		fmt.Println("  FAIL: refresh ran but usage.json was not rewritten")
		return false
	}
	fmt.Println("  PASS: refresh rewrote usage.json")
	return true
}

func checkNotification() bool {
	fmt.Println()
	fmt.Println("[4/4] Desktop notification")

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Send a test notification? [y/n]: ")
	confirm, _ := reader.ReadString('\n')
	confirm = strings.TrimSpace(strings.ToLower(confirm))
	if confirm != "y" && confirm != "yes" {
		fmt.Println("  skipped")
		return true
	}

	notify.New(true).Test()

	// Fresh reader to clear any buffered input
	confirmReader := bufio.NewReader(os.Stdin)
	fmt.Print("Did the notification appear? [y/n]: ")
	confirm, _ = confirmReader.ReadString('\n')
	confirm = strings.TrimSpace(strings.ToLower(confirm))

	if confirm == "y" || confirm == "yes" {
		fmt.Println("  PASS: notification verified by user")
		return true
	}
	fmt.Println("  FAIL: notification not confirmed")
	return false
}
