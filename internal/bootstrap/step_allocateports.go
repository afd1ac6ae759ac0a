package bootstrap

import (
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/port"
)

type AllocatePortsStep struct{}

func (s *AllocatePortsStep) Name() string { return "allocate-ports" }

func (s *AllocatePortsStep) Run(ctx *StepContext) error {
	ranges := ctx.Config.Ports
	audio := port.Range{Name: port.AudioSocketRange.Name, Start: ranges.AudioSocketStart, End: ranges.AudioSocketEnd}
	rtp := port.Range{Name: port.RTPRange.Name, Start: ranges.RTPStart, End: ranges.RTPEnd}

	ctx.AudioSocket = ctx.Ports.Resolve(ctx.Context, audio)
	ctx.RTP = ctx.Ports.Resolve(ctx.Context, rtp)
	ctx.PortsResolved = true

	var exhausted []port.Outcome
	for _, o := range []port.Outcome{ctx.AudioSocket, ctx.RTP} {
		switch o.Status {
		case port.Available:
			ctx.Logger.OK("%s", o.Message())
		case port.Busy:
			ctx.Logger.Warn("%s", o.Message())
		case port.Exhausted:
			exhausted = append(exhausted, o)
		}
	}

	if len(exhausted) > 0 {
		return &PortExhaustionWarning{Outcomes: exhausted}
	}
	return nil
}
