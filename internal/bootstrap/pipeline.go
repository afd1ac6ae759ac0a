package bootstrap

import (
	"context"
	"fmt"

	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/agentconfig"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/config"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/env"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/extcmd"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/logging"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/port"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/profile"
)

type Pipeline struct {
	steps    []Step
	cfg      *config.Config
	logger   *logging.Logger
	profiles *profile.Store
	secrets  *env.Initializer
	ports    *port.Allocator
	patcher  *agentconfig.Patcher
	runner   extcmd.Runner
}

// NewPipeline wires the collaborators from cfg. Steps are added by the
// caller; see New for the standard sequence.
func NewPipeline(cfg *config.Config, logger *logging.Logger, runner extcmd.Runner, ports *port.Allocator) *Pipeline {
	templates := map[profile.Baseline]string{
		profile.OpenAI:   cfg.Path(cfg.Profiles.OpenAI),
		profile.Deepgram: cfg.Path(cfg.Profiles.Deepgram),
		profile.Local:    cfg.Path(cfg.Profiles.Local),
	}
	active := cfg.Path(cfg.Paths.ActiveConfig)

	return &Pipeline{
		cfg:      cfg,
		logger:   logger,
		profiles: profile.NewStore(templates, active),
		secrets:  env.NewInitializer(cfg.Path(cfg.Paths.Secrets), cfg.Path(cfg.Paths.SecretsExample)),
		ports:    ports,
		patcher:  agentconfig.NewPatcher(active),
		runner:   runner,
	}
}

// New returns the pipeline with the fixed bootstrap sequence.
func New(cfg *config.Config, logger *logging.Logger, runner extcmd.Runner, ports *port.Allocator) *Pipeline {
	p := NewPipeline(cfg, logger, runner, ports)
	p.AddStep(&MaterializeProfileStep{})
	p.AddStep(&EnsureSecretsStep{})
	p.AddStep(&AllocatePortsStep{})
	p.AddStep(&PatchPortsStep{})
	p.AddStep(&PatchPipelineStep{})
	p.AddStep(&OptionalStep{Flag: "install", Enabled: func(o Options) bool { return o.Install }, Step: &InstallStep{}})
	p.AddStep(&OptionalStep{Flag: "quickstart", Enabled: func(o Options) bool { return o.Quickstart }, Step: &QuickstartStep{}})
	p.AddStep(&OptionalStep{Flag: "doctor", Enabled: func(o Options) bool { return o.Doctor }, Step: &DoctorStep{}})
	p.AddStep(&OptionalStep{Flag: "start-engine", Enabled: func(o Options) bool { return o.StartEngine }, Step: &LaunchEngineStep{}})
	p.AddStep(&DialplanGuidanceStep{})
	p.AddStep(&FinalReminderStep{})
	return p
}

func (p *Pipeline) AddStep(s Step) {
	p.steps = append(p.steps, s)
}

func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Summary is what a run did, for the CLI exit status and for tests.
type Summary struct {
	Baseline     profile.Baseline
	Secrets      env.Result
	AudioSocket  port.Outcome
	RTP          port.Outcome
	PortsPatched bool
	EnginePID    int
	Skipped      []string
	Warnings     []string
}

// Run executes every step once, in order. A fatal error stops the run;
// any other step error is reported and the run continues.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	sctx := &StepContext{
		Context:  ctx,
		Config:   p.cfg,
		Options:  opts,
		Logger:   p.logger,
		Profiles: p.profiles,
		Secrets:  p.secrets,
		Ports:    p.ports,
		Patcher:  p.patcher,
		Runner:   p.runner,
	}

	p.logger.Debug("bootstrap starting", "root", p.cfg.Root, "baseline", opts.Baseline, "steps", p.Steps())

	for _, step := range p.steps {
		p.logger.Debug("step", "name", step.Name())
		if err := step.Run(sctx); err != nil {
			if IsFatal(err) {
				p.logger.Fail("%s: %v", step.Name(), err)
				return sctx.summary(), fmt.Errorf("step %s: %w", step.Name(), err)
			}
			p.logger.Warn("%s: %v", step.Name(), err)
			sctx.Warnings = append(sctx.Warnings, fmt.Sprintf("%s: %v", step.Name(), err))
		}
	}

	p.logger.Debug("bootstrap complete", "warnings", len(sctx.Warnings), "skipped", len(sctx.Skipped))
	return sctx.summary(), nil
}

func (ctx *StepContext) summary() *Summary {
	return &Summary{
		Baseline:     ctx.Baseline,
		Secrets:      ctx.SecretsResult,
		AudioSocket:  ctx.AudioSocket,
		RTP:          ctx.RTP,
		PortsPatched: ctx.PortsPatched,
		EnginePID:    ctx.EnginePID,
		Skipped:      ctx.Skipped,
		Warnings:     ctx.Warnings,
	}
}
