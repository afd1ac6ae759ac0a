package version

import (
	"fmt"
	"runtime"
)

// Set via ldflags at build time:
//
//	-X github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/version.Version=v0.3.0
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func GoVersion() string {
	return runtime.Version()
}

// String is the one-line banner printed by `agent-bootstrap version`.
func String() string {
	return fmt.Sprintf("agent-bootstrap %s (commit %s, built %s, %s %s/%s)",
		Version, Commit, BuildDate, GoVersion(), runtime.GOOS, runtime.GOARCH)
}
