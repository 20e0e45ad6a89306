//go:build darwin

package tray

import (
	"os/exec"

	"github.com/energye/systray"
	"golang.design/x/hotkey/mainthread"
)

// At most three quota tiers exist (session, weekly, extra). Items are
// created hidden up front because systray can only append to the menu.
const maxTiers = 3

var (
	tierReady chan struct{}

	tierItems []*systray.MenuItem
	hintItems []*systray.MenuItem

	mStatus   *systray.MenuItem
	mSettings *systray.MenuItem
	mAlerts   *systray.MenuItem
	mLogin    *systray.MenuItem
	mUpdate   *systray.MenuItem
)

func Init() <-chan struct{} {
	tierReady = make(chan struct{})
	start, _ := systray.RunWithExternalLoop(onReady, onExit)
	done := make(chan struct{})
	mainthread.Call(func() {
		start()
		close(done)
	})
	<-done
	return quitCh
}

func updateUsageIcon(iconPNG []byte, tooltip string) {
	systray.SetIcon(iconPNG)
	systray.SetTooltip(tooltip)
}

func updateTooltip(msg string) {
	systray.SetTooltip(msg)
}

func updateStatusTitle(title string) {
	if mStatus != nil {
		mStatus.SetTitle(title)
	}
}

func refreshTierItems() {
	if tierReady == nil {
		return
	}
	<-tierReady

	tierMu.Lock()
	defer tierMu.Unlock()

	for i, item := range tierItems {
		if i < len(tierLines) {
			line := tierLines[i]
			item.SetTitle(line.Title)
			item.Show()
			if line.Hint != "" {
				hintItems[i].SetTitle("    " + line.Hint)
				hintItems[i].Show()
			} else {
				hintItems[i].Hide()
			}
		} else {
			item.Hide()
			hintItems[i].Hide()
		}
	}
}

func onReady() {
	systray.SetIcon(iconPlaceholder)
	systray.SetTooltip(defaultTooltip)

	tierItems = make([]*systray.MenuItem, maxTiers)
	hintItems = make([]*systray.MenuItem, maxTiers)
	for i := range maxTiers {
		tierItems[i] = systray.AddMenuItem("", "")
		tierItems[i].Disable()
		tierItems[i].Hide()
		hintItems[i] = systray.AddMenuItem("", "")
		hintItems[i].Disable()
		hintItems[i].Hide()
	}

	systray.AddSeparator()

	mRefresh := systray.AddMenuItem("⟳ Refresh Now", "Run the refresh command now")
	mRefresh.Click(func() {
		if refreshFn != nil {
			refreshFn()
		}
	})

	mCopy := systray.AddMenuItem("Copy Usage Summary", "Copy a plain text summary to the clipboard")
	mCopy.Click(func() {
		if copySummaryFn != nil {
			copySummaryFn()
		}
	})

	mStatus = systray.AddMenuItem("Updated never", "")
	mStatus.Disable()

	systray.AddSeparator()

	mSettings = systray.AddMenuItem("Settings", "Settings")

	mAlerts = mSettings.AddSubMenuItemCheckbox("Pace Alerts", "Notify when a tier starts burning too fast", alertsOn)
	mAlerts.Click(func() {
		if mAlerts.Checked() {
			mAlerts.Uncheck()
		} else {
			mAlerts.Check()
		}
		if alertsCb != nil {
			alertsCb(mAlerts.Checked())
		}
	})

	mLogin = mSettings.AddSubMenuItemCheckbox("Start at Login", "Launch pacebar when you log in", loginOn)
	mLogin.Click(func() {
		if mLogin.Checked() {
			mLogin.Uncheck()
		} else {
			mLogin.Check()
		}
		if loginCb != nil {
			if err := loginCb(mLogin.Checked()); err != nil {
				// Roll the checkbox back so it reflects reality
				if mLogin.Checked() {
					mLogin.Uncheck()
				} else {
					mLogin.Check()
				}
			}
		}
	})

	mOpenCfg := mSettings.AddSubMenuItem("Open Config Folder", "Reveal the config directory in Finder")
	mOpenCfg.Click(func() {
		if openConfigFn != nil {
			openConfigFn()
		}
	})

	mExport := mSettings.AddSubMenuItem("Export History Data", "Rebuild data.json from the history log")
	mExport.Click(func() {
		if exportFn != nil {
			exportFn()
		}
	})

	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit pacebar")
	mQuit.Click(func() { Quit() })
	systray.CreateMenu()

	close(tierReady)
}

func addUpdateMenuItem(version string) {
	if mUpdate != nil {
		mUpdate.SetTitle("⚠ Update available: " + version)
		mUpdate.Show()
		return
	}
	if mSettings == nil {
		return
	}
	mUpdate = mSettings.AddSubMenuItem("Update available: "+version, "Open release page")
	mUpdate.Click(func() {
		url := "https://github.com/sumerc/pacebar/releases/tag/" + version
		exec.Command("open", url).Start()
	})
}

func onExit() {
	closeOnce.Do(func() { close(quitCh) })
}
