//go:build windows

package refresh

import (
	"context"
	"os/exec"
)

func shellCommand(ctx context.Context, cmdline string) *exec.Cmd {
	return exec.CommandContext(ctx, "cmd", "/C", cmdline)
}
