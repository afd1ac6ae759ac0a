package process

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

type Info struct {
	PID int
}

// release lets go of the started process; the bootstrap never waits on it.
func release(cmd *exec.Cmd) (*Info, error) {
	info := &Info{PID: cmd.Process.Pid}
	if err := cmd.Process.Release(); err != nil {
		return info, fmt.Errorf("release process %d: %w", info.PID, err)
	}
	return info, nil
}

func WritePIDFile(path string, pid int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("pid file: %w", err)
	}
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0644)
}

func ReadPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("pid file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("pid file %s: %w", path, err)
	}
	return pid, nil
}
