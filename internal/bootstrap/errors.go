package bootstrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/extcmd"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/port"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/profile"
)

// ConfigurationError aborts the run: unknown baseline or missing template.
type ConfigurationError = profile.ConfigurationError

// MissingDependencyError skips one optional step: a downstream command is
// not installed.
type MissingDependencyError = extcmd.MissingDependencyError

// MissingTargetError skips one patch: the active config is gone, usually
// because it is managed by hand.
type MissingTargetError struct {
	Path   string
	Action string
}

func (e *MissingTargetError) Error() string {
	return fmt.Sprintf("%s not found; skipped %s (restore it or re-run with a baseline to recreate it)", e.Path, e.Action)
}

// PortExhaustionWarning reports ranges with no free port. The base port is
// written anyway.
type PortExhaustionWarning struct {
	Outcomes []port.Outcome
}

func (w *PortExhaustionWarning) Error() string {
	msgs := make([]string, len(w.Outcomes))
	for i, o := range w.Outcomes {
		msgs[i] = o.Message()
	}
	return strings.Join(msgs, "; ")
}

// IsFatal reports whether err must stop the run. Only configuration errors
// do; everything else is reported and the next step runs.
func IsFatal(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
