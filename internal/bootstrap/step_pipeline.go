package bootstrap

import (
	"errors"

	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/agentconfig"
)

// PatchPipelineStep writes active_pipeline only when --pipeline was given.
// Without an override the baseline's own default stays in place.
type PatchPipelineStep struct{}

func (s *PatchPipelineStep) Name() string { return "patch-pipeline" }

func (s *PatchPipelineStep) Run(ctx *StepContext) error {
	name := ctx.Options.Pipeline
	if name == "" {
		ctx.Skipped = append(ctx.Skipped, s.Name())
		ctx.Logger.Skip("no pipeline override; keeping the baseline's active_pipeline (pass --pipeline NAME to change it)")
		return nil
	}

	if err := ctx.Patcher.ApplyPipeline(name); err != nil {
		if errors.Is(err, agentconfig.ErrNotFound) {
			return &MissingTargetError{Path: ctx.Config.Rel(ctx.Patcher.Path), Action: "pipeline override"}
		}
		return err
	}
	ctx.Logger.OK("set active_pipeline=%s", name)
	return nil
}
