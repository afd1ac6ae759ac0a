package bootstrap

import (
	"fmt"
	"strings"

	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/agentconfig"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/env"
)

type DialplanGuidanceStep struct{}

func (s *DialplanGuidanceStep) Name() string { return "dialplan-guidance" }

func (s *DialplanGuidanceStep) Run(ctx *StepContext) error {
	sum, err := ctx.Patcher.Summary()
	if err != nil {
		ctx.Logger.Warn("cannot read %s for guidance: %v", ctx.Config.Rel(ctx.Patcher.Path), err)
		sum = &agentconfig.Summary{AppName: agentconfig.DefaultAppName}
	}
	if sum.AppName == agentconfig.DefaultAppName && ctx.Config.Asterisk.AppName != "" {
		sum.AppName = ctx.Config.Asterisk.AppName
	}

	audio, rtp := ctx.AudioSocket.Port, ctx.RTP.Port
	if !ctx.PortsPatched {
		// Report what the engine will actually read.
		if sum.AudioSocketPort > 0 {
			audio = sum.AudioSocketPort
		}
		if sum.RTPPort > 0 {
			rtp = sum.RTPPort
		}
	}

	ctx.Logger.Block(renderGuidance(sum, audio, rtp))
	return nil
}

func renderGuidance(sum *agentconfig.Summary, audio, rtp int) string {
	var b strings.Builder
	b.WriteString("\nPorts\n")
	if audio > 0 {
		fmt.Fprintf(&b, "  AudioSocket (TCP):         %d\n", audio)
	}
	if rtp > 0 {
		fmt.Fprintf(&b, "  ExternalMedia RTP (UDP):   %d (range %s)\n", rtp, agentconfig.PortRangeFor(rtp))
	}
	if sum.ActivePipeline != "" {
		fmt.Fprintf(&b, "  Active pipeline:           %s\n", sum.ActivePipeline)
	}

	b.WriteString("\nDialplan (on the PBX, e.g. extensions_custom.conf)\n")
	b.WriteString("  [from-ai-agent]\n")
	b.WriteString("  exten => s,1,NoOp(Asterisk AI Voice Agent)\n")
	b.WriteString("   same => n,Answer()\n")
	fmt.Fprintf(&b, "   same => n,Stasis(%s)\n", sum.AppName)
	b.WriteString("   same => n,Hangup()\n")
	b.WriteString("\n  Verify with: asterisk -rx \"ari show apps\"\n")
	return b.String()
}

type FinalReminderStep struct{}

func (s *FinalReminderStep) Name() string { return "final-reminder" }

func (s *FinalReminderStep) Run(ctx *StepContext) error {
	secrets := ctx.Config.Rel(ctx.Secrets.Path)
	cli := strings.Join(ctx.Config.Commands.CLI, " ")

	var b strings.Builder
	b.WriteString("\nNext steps\n")
	fmt.Fprintf(&b, "  1. Fill in %s in %s\n", strings.Join(env.RequiredKeys(), ", "), secrets)
	if !ctx.Options.Doctor {
		fmt.Fprintf(&b, "  2. Validate the setup: %s doctor\n", cli)
	} else {
		fmt.Fprintf(&b, "  2. Re-run %s doctor after editing %s\n", cli, secrets)
	}
	if ctx.EnginePID > 0 {
		fmt.Fprintf(&b, "  3. Follow the engine log: tail -f %s\n", ctx.Config.Rel(ctx.Config.EngineLogPath()))
	} else {
		b.WriteString("  3. Start the engine: re-run with --start-engine\n")
	}
	ctx.Logger.Block(b.String())

	if len(ctx.Warnings) > 0 {
		ctx.Logger.Warn("finished with %d warning(s); see above (run %s)", len(ctx.Warnings), ctx.Logger.RunID())
	} else {
		ctx.Logger.OK("bootstrap complete (run %s)", ctx.Logger.RunID())
	}
	return nil
}
