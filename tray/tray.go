package tray

import (
	"sync"
	"time"
)

// TierLine is one quota tier in the dropdown: a status line plus an
// optional pace hint shown under it.
type TierLine struct {
	Title string
	Hint  string
}

const defaultTooltip = "pacebar – Claude usage pace"

var (
	quitCh    = make(chan struct{})
	closeOnce sync.Once

	refreshFn     func()
	copySummaryFn func()
	openConfigFn  func()
	exportFn      func()

	tierMu    sync.Mutex
	tierLines []TierLine

	alertsOn bool
	alertsCb func(bool)

	loginOn bool
	loginCb func(bool) error
)

func OnRefreshNow(fn func())      { refreshFn = fn }
func OnCopySummary(fn func())     { copySummaryFn = fn }
func OnOpenConfig(fn func())      { openConfigFn = fn }
func OnExportHistory(fn func())   { exportFn = fn }
func SetAlerts(on bool)           { alertsOn = on }
func OnAlerts(fn func(bool))      { alertsCb = fn }
func SetLogin(on bool)            { loginOn = on }
func OnLogin(fn func(bool) error) { loginCb = fn }

// SetUsage swaps the menu bar icon and tooltip for a fresh snapshot.
func SetUsage(iconPNG []byte, tooltip string) {
	updateUsageIcon(iconPNG, tooltip)
}

// SetTiers replaces the per-tier status lines in the dropdown.
func SetTiers(lines []TierLine) {
	tierMu.Lock()
	tierLines = lines
	tierMu.Unlock()
	refreshTierItems()
}

func SetLastRefresh(ago string) {
	updateStatusTitle("Updated " + ago)
}

func SetError(msg string) {
	updateTooltip("pacebar – " + msg)
	go func() {
		time.Sleep(10 * time.Second)
		updateTooltip(defaultTooltip)
	}()
}

func SetUpdateAvailable(version string) {
	addUpdateMenuItem(version)
}

func Quit() {
	closeOnce.Do(func() { close(quitCh) })
}
