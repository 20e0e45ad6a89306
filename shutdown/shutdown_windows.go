//go:build windows

package shutdown

import (
	"os"
	"os/signal"
)

func Notify(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt)
}

// NotifyReload is a no-op on Windows, which has no SIGHUP equivalent.
func NotifyReload(ch chan os.Signal) {
}
