package bootstrap

import (
	"errors"

	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/agentconfig"
)

type PatchPortsStep struct{}

func (s *PatchPortsStep) Name() string { return "patch-ports" }

func (s *PatchPortsStep) Run(ctx *StepContext) error {
	if !ctx.PortsResolved {
		ctx.Logger.Skip("no ports resolved; leaving audiosocket/external_media untouched")
		return nil
	}

	audio, rtp := ctx.AudioSocket.Port, ctx.RTP.Port
	if err := ctx.Patcher.ApplyPorts(audio, rtp); err != nil {
		if errors.Is(err, agentconfig.ErrNotFound) {
			return &MissingTargetError{Path: ctx.Config.Rel(ctx.Patcher.Path), Action: "port patch"}
		}
		return err
	}

	ctx.PortsPatched = true
	ctx.Logger.OK("set audiosocket.port=%d, external_media.rtp_port=%d, external_media.port_range=%s",
		audio, rtp, agentconfig.PortRangeFor(rtp))
	return nil
}
