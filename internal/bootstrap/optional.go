package bootstrap

// OptionalStep runs Step only when its flag was passed; otherwise it prints
// which flag would enable it.
type OptionalStep struct {
	Flag    string
	Enabled func(Options) bool
	Step    Step
}

func (s *OptionalStep) Name() string { return s.Step.Name() }

func (s *OptionalStep) Run(ctx *StepContext) error {
	if s.Enabled == nil || !s.Enabled(ctx.Options) {
		ctx.skip(s.Step.Name(), s.Flag)
		return nil
	}
	return s.Step.Run(ctx)
}
