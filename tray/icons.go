//go:build darwin

package tray

import (
	"pacebar/icon"
	"pacebar/usage"
)

// iconPlaceholder is what the menu bar shows between startup and the
// first snapshot render: three neutral bars, no pace color.
var iconPlaceholder []byte

func init() {
	iconPlaceholder = icon.Bytes(usage.Placeholder().Snapshots(), icon.Default())
}
