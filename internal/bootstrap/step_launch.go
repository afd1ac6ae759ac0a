package bootstrap

import (
	"github.com/shirou/gopsutil/v4/process"

	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/extcmd"
	pidfile "github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/process"
)

// LaunchEngineStep starts the engine in the background and returns at once.
// Readiness is not checked; the endpoints are printed for the operator.
type LaunchEngineStep struct{}

func (s *LaunchEngineStep) Name() string { return "launch-engine" }

func (s *LaunchEngineStep) Run(ctx *StepContext) error {
	pidPath := ctx.Config.EnginePIDPath()
	if pid, err := pidfile.ReadPIDFile(pidPath); err == nil && pid > 0 {
		if alive, _ := process.PidExistsWithContext(ctx.Context, int32(pid)); alive {
			ctx.Logger.Warn("engine already running (pid %d from %s); not starting another (stop it or remove the pid file)",
				pid, ctx.Config.Rel(pidPath))
			return nil
		}
	}

	cmd := ctx.command(ctx.Config.Commands.Engine, extcmd.Detached)
	cmd.LogPath = ctx.Config.EngineLogPath()
	cmd.PIDPath = pidPath
	ctx.Logger.Log("starting %s in the background", cmd)

	res, err := ctx.Runner.Run(ctx.Context, cmd)
	if res != nil {
		ctx.EnginePID = res.PID
	}
	if err != nil {
		return err
	}

	ctx.Logger.OK("engine started (pid %d), output in %s", res.PID, ctx.Config.Rel(res.LogPath))
	ctx.Logger.Log("health:  %s", ctx.Config.Engine.HealthURL)
	ctx.Logger.Log("metrics: %s", ctx.Config.Engine.MetricsURL)
	return nil
}
