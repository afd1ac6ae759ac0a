// Package extcmd runs the external collaborators of the bootstrap: the
// install script, the agent CLI and the engine itself.
package extcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/process"
)

type Mode int

const (
	// Checked waits for the command; a non-zero exit is an error.
	Checked Mode = iota
	// BestEffort waits for the command; a non-zero exit is only reported.
	BestEffort
	// Detached starts the command with output sent to LogPath and returns
	// without waiting.
	Detached
)

func (m Mode) String() string {
	switch m {
	case Checked:
		return "checked"
	case BestEffort:
		return "best-effort"
	case Detached:
		return "detached"
	}
	return "unknown"
}

type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string
	Mode Mode

	// Detached only.
	LogPath string
	PIDPath string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

type Result struct {
	ExitCode int
	PID      int
	LogPath  string
}

// MissingDependencyError means the command could not be resolved on PATH
// (or relative to the project root) and was never started.
type MissingDependencyError struct {
	Command string
	Err     error
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%s not found: install it or add it to PATH", e.Command)
}

func (e *MissingDependencyError) Unwrap() error { return e.Err }

type Runner interface {
	Run(ctx context.Context, c Command) (*Result, error)
}

type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer

	lookPath func(string) (string, error)
}

func NewExecRunner(stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{Stdout: stdout, Stderr: stderr, lookPath: exec.LookPath}
}

func (r *ExecRunner) Run(ctx context.Context, c Command) (*Result, error) {
	path, err := r.resolve(c)
	if err != nil {
		return nil, err
	}

	if c.Mode == Detached {
		return r.startDetached(path, c)
	}

	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err = cmd.Run()
	res := &Result{}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		if c.Mode == BestEffort {
			return res, nil
		}
		return res, fmt.Errorf("%s: %w", c, err)
	default:
		return nil, fmt.Errorf("%s: %w", c, err)
	}
}

func (r *ExecRunner) resolve(c Command) (string, error) {
	name := c.Name
	if strings.ContainsRune(name, filepath.Separator) && !filepath.IsAbs(name) && c.Dir != "" {
		name = filepath.Join(c.Dir, name)
	}
	lookPath := r.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(name)
	if err != nil {
		return "", &MissingDependencyError{Command: c.Name, Err: err}
	}
	return path, nil
}

func (r *ExecRunner) startDetached(path string, c Command) (*Result, error) {
	if c.LogPath == "" {
		return nil, fmt.Errorf("%s: detached command needs a log path", c)
	}
	if err := os.MkdirAll(filepath.Dir(c.LogPath), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	info, err := process.StartDetached(cmd)
	if info == nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}

	res := &Result{PID: info.PID, LogPath: c.LogPath}
	if c.PIDPath != "" {
		if werr := process.WritePIDFile(c.PIDPath, info.PID); werr != nil {
			return res, werr
		}
	}
	return res, err
}
