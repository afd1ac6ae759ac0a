package bootstrap

import (
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/profile"
)

type MaterializeProfileStep struct{}

func (s *MaterializeProfileStep) Name() string { return "materialize-profile" }

func (s *MaterializeProfileStep) Run(ctx *StepContext) error {
	b, err := profile.ParseBaseline(ctx.Options.Baseline)
	if err != nil {
		return err
	}
	ctx.Baseline = b

	src, err := ctx.Profiles.Resolve(b)
	if err != nil {
		return err
	}

	ctx.Logger.Log("baseline %s: copying %s -> %s", b, ctx.Config.Rel(src), ctx.Config.Rel(ctx.Profiles.ActivePath))
	if err := ctx.Profiles.Materialize(b); err != nil {
		if IsFatal(err) {
			return err
		}
		// A half-applied baseline leaves nothing sensible to patch.
		return &ConfigurationError{Baseline: string(b), Path: ctx.Profiles.ActivePath, Reason: err.Error()}
	}
	ctx.Logger.OK("active config reset to %s baseline", b)
	return nil
}
