//go:build !windows

package process

import (
	"fmt"
	"os/exec"
	"syscall"
)

// StartDetached starts cmd in its own process group so it survives the
// bootstrap exiting and is not hit by a Ctrl-C aimed at the terminal.
func StartDetached(cmd *exec.Cmd) (*Info, error) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start process: %w", err)
	}
	return release(cmd)
}
