package bootstrap

import (
	"context"

	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/agentconfig"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/config"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/env"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/extcmd"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/logging"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/port"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/profile"
)

// Options is the parsed invocation. It is built once by the CLI and only
// read afterwards.
type Options struct {
	Baseline string
	// Pipeline overrides active_pipeline when non-empty.
	Pipeline string

	Install     bool
	Quickstart  bool
	Doctor      bool
	StartEngine bool
}

type Step interface {
	Name() string
	Run(ctx *StepContext) error
}

type StepContext struct {
	Context  context.Context
	Config   *config.Config
	Options  Options
	Logger   *logging.Logger
	Profiles *profile.Store
	Secrets  *env.Initializer
	Ports    *port.Allocator
	Patcher  *agentconfig.Patcher
	Runner   extcmd.Runner

	// Enriched during pipeline
	Baseline      profile.Baseline
	SecretsResult env.Result
	AudioSocket   port.Outcome
	RTP           port.Outcome
	PortsResolved bool
	PortsPatched  bool
	EnginePID     int
	Skipped       []string
	Warnings      []string
}

func (ctx *StepContext) skip(step, flag string) {
	ctx.Skipped = append(ctx.Skipped, step)
	ctx.Logger.Skip("skipping %s (pass --%s to enable)", step, flag)
}

// command builds a command from argv plus extra args, rooted at the project dir.
func (ctx *StepContext) command(argv []string, mode extcmd.Mode, extra ...string) extcmd.Command {
	args := append(append([]string{}, argv[1:]...), extra...)
	return extcmd.Command{
		Name: argv[0],
		Args: args,
		Dir:  ctx.Config.Root,
		Mode: mode,
	}
}
