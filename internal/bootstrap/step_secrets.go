package bootstrap

import "github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/env"

type EnsureSecretsStep struct{}

func (s *EnsureSecretsStep) Name() string { return "ensure-secrets" }

func (s *EnsureSecretsStep) Run(ctx *StepContext) error {
	res, err := ctx.Secrets.Ensure()
	if err != nil {
		return err
	}
	ctx.SecretsResult = res

	if res.Status == env.AlreadyPresent {
		ctx.Logger.Log("%s", res)
		return nil
	}
	ctx.Logger.OK("%s", res)
	return nil
}
