//go:build !linux

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	// The systray needs the real main thread; run() moves to a
	// goroutine and calls back into it via mainthread.Call.
	mainthread.Init(run)
}
