package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/bootstrap"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/config"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/extcmd"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/logging"
	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/port"
)

var (
	opts       bootstrap.Options
	rootDir    string
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "agent-bootstrap [openai|deepgram|local]",
	Short: "Prepare a checkout of the Asterisk AI Voice Agent for its first call",
	Long: `agent-bootstrap prepares a checkout of the Asterisk AI Voice Agent.

It always:
  - copies the chosen golden baseline onto config/ai-agent.yaml (default: openai)
  - creates .env if it does not exist (an existing .env is never touched)
  - finds free ports for AudioSocket (8090-8100) and ExternalMedia RTP (18080-18099)
  - writes those ports into config/ai-agent.yaml

and on request:
  --pipeline NAME   set active_pipeline
  --install         run the install script
  --quickstart      run "agent quickstart"
  --doctor          run "agent doctor"
  --start-engine    start the engine in the background

Running it again is safe; manual edits to config/ai-agent.yaml are replaced
by the baseline.`,
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	SilenceUsage:       true,
	SilenceErrors:      true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	RunE: runBootstrap,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&opts.Pipeline, "pipeline", "", "override active_pipeline in the active config")
	f.BoolVar(&opts.Install, "install", false, "run the install script")
	f.BoolVar(&opts.Quickstart, "quickstart", false, "run the agent CLI quickstart validation")
	f.BoolVar(&opts.Doctor, "doctor", false, "run the agent CLI doctor checks")
	f.BoolVar(&opts.StartEngine, "start-engine", false, "start the engine in the background")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootDir, "root", ".", "project root (where config/ and .env live)")
	pf.StringVar(&configPath, "config", "", "bootstrap settings file (default <root>/bootstrap.toml)")
	pf.StringVar(&logLevel, "log-level", "warn", "diagnostic log level: debug, info, warn, error")
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	diag := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(configPath, rootDir)
	if err != nil {
		return err
	}

	// Extra positional arguments are ignored.
	if len(args) > 0 {
		opts.Baseline = args[0]
	}

	logger := logging.New(cmd.OutOrStdout(), diag, nil)
	runner := extcmd.NewExecRunner(cmd.OutOrStdout(), cmd.ErrOrStderr())
	ports := port.NewAllocator(port.NewProber())

	_, err = bootstrap.New(cfg, logger, runner, ports).Run(cmd.Context(), opts)
	return err
}
