package bootstrap

import (
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/extcmd"
)

type InstallStep struct{}

func (s *InstallStep) Name() string { return "install" }

func (s *InstallStep) Run(ctx *StepContext) error {
	cmd := ctx.command(ctx.Config.Commands.Install, extcmd.Checked)
	ctx.Logger.Log("running %s", cmd)

	if _, err := ctx.Runner.Run(ctx.Context, cmd); err != nil {
		return err
	}

	ctx.Logger.OK("install finished")
	return nil
}

type QuickstartStep struct{}

func (s *QuickstartStep) Name() string { return "quickstart" }

func (s *QuickstartStep) Run(ctx *StepContext) error {
	cmd := ctx.command(ctx.Config.Commands.CLI, extcmd.Checked, "quickstart")
	ctx.Logger.Log("running %s", cmd)

	if _, err := ctx.Runner.Run(ctx.Context, cmd); err != nil {
		return err
	}

	ctx.Logger.OK("quickstart validation passed")
	return nil
}

// DoctorStep is best-effort: the doctor exits non-zero on warnings, which
// should not read as a failed bootstrap.
type DoctorStep struct{}

func (s *DoctorStep) Name() string { return "doctor" }

func (s *DoctorStep) Run(ctx *StepContext) error {
	cmd := ctx.command(ctx.Config.Commands.CLI, extcmd.BestEffort, "doctor")
	ctx.Logger.Log("running %s", cmd)

	res, err := ctx.Runner.Run(ctx.Context, cmd)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		ctx.Logger.Warn("doctor reported problems (exit %d); review its output above", res.ExitCode)
		return nil
	}

	ctx.Logger.OK("doctor checks passed")
	return nil
}
