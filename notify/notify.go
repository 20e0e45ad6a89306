// Package notify sends the desktop notifications pacebar produces:
// pace alerts when a tier starts burning too fast, refresh failures,
// and update announcements. Delivery errors are ignored; none of these
// are critical.
package notify

import "github.com/gen2brain/beeep"

const appName = "Pacebar"

// Notifier sends system notifications when enabled.
type Notifier struct {
	enabled bool
}

func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// SetEnabled flips delivery at runtime (tray checkbox).
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// PaceAlert announces that a tier crossed into a worrying band.
func (n *Notifier) PaceAlert(tier, hint string) {
	n.notify(tier+" quota pacing", hint)
}

// RefreshFailed surfaces a scraper failure from an interactive
// refresh. Background refresh failures stay silent.
func (n *Notifier) RefreshFailed(err error) {
	if err == nil {
		return
	}
	n.notify("Refresh failed", err.Error())
}

// UpdateAvailable announces a newer release.
func (n *Notifier) UpdateAvailable(version string) {
	n.notify("Update available", "pacebar "+version+" is out. Run: pacebar update")
}

// Test sends a throwaway notification so doctor can verify delivery.
func (n *Notifier) Test() {
	n.notify("Test notification", "Notifications are working.")
}

func (n *Notifier) notify(title, message string) {
	if !n.enabled {
		return
	}
	_ = beeep.Notify(appName+": "+title, message, "")
}
