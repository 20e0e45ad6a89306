//go:build !darwin

package tray

func Init() <-chan struct{}          { return make(chan struct{}) }
func updateUsageIcon([]byte, string) {}
func updateTooltip(string)           {}
func updateStatusTitle(string)       {}
func refreshTierItems()              {}
func addUpdateMenuItem(string)       {}
