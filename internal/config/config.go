package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/fsutil"
)

// DefaultFile is looked up under the project root when --config is not given.
const DefaultFile = "bootstrap.toml"

type Config struct {
	Paths    PathsConfig    `toml:"paths"`
	Profiles ProfilesConfig `toml:"profiles"`
	Ports    PortsConfig    `toml:"ports"`
	Commands CommandsConfig `toml:"commands"`
	Engine   EngineConfig   `toml:"engine"`
	Asterisk AsteriskConfig `toml:"asterisk"`

	// Runtime (not from TOML)
	Root string `toml:"-"`
}

// PathsConfig paths are relative to the project root. EngineLog and
// EnginePID are relative to LogDir unless absolute.
type PathsConfig struct {
	ActiveConfig   string `toml:"active_config"`
	Secrets        string `toml:"secrets"`
	SecretsExample string `toml:"secrets_example"`
	LogDir         string `toml:"log_dir"`
	EngineLog      string `toml:"engine_log"`
	EnginePID      string `toml:"engine_pid"`
}

type ProfilesConfig struct {
	OpenAI   string `toml:"openai"`
	Deepgram string `toml:"deepgram"`
	Local    string `toml:"local"`
}

type PortsConfig struct {
	AudioSocketStart int `toml:"audiosocket_start"`
	AudioSocketEnd   int `toml:"audiosocket_end"`
	RTPStart         int `toml:"rtp_start"`
	RTPEnd           int `toml:"rtp_end"`
}

type CommandsConfig struct {
	Install []string `toml:"install"`
	CLI     []string `toml:"cli"`
	Engine  []string `toml:"engine"`
}

type EngineConfig struct {
	HealthURL  string `toml:"health_url"`
	MetricsURL string `toml:"metrics_url"`
}

type AsteriskConfig struct {
	AppName string `toml:"app_name"`
}

func Default() *Config {
	return &Config{
		Root: ".",
		Paths: PathsConfig{
			ActiveConfig:   filepath.Join("config", "ai-agent.yaml"),
			Secrets:        ".env",
			SecretsExample: ".env.example",
			LogDir:         "logs",
			EngineLog:      "ai-engine.log",
			EnginePID:      "ai-engine.pid",
		},
		Profiles: ProfilesConfig{
			OpenAI:   filepath.Join("config", "ai-agent.golden-openai.yaml"),
			Deepgram: filepath.Join("config", "ai-agent.golden-deepgram.yaml"),
			Local:    filepath.Join("config", "ai-agent.golden-local.yaml"),
		},
		Ports: PortsConfig{
			AudioSocketStart: 8090,
			AudioSocketEnd:   8100,
			RTPStart:         18080,
			RTPEnd:           18099,
		},
		Commands: CommandsConfig{
			Install: []string{"./install.sh"},
			CLI:     []string{"agent"},
			Engine:  []string{"python3", "main.py"},
		},
		Engine: EngineConfig{
			HealthURL:  "http://127.0.0.1:15000/health",
			MetricsURL: "http://127.0.0.1:15000/metrics",
		},
		Asterisk: AsteriskConfig{
			AppName: "asterisk-ai-voice-agent",
		},
	}
}

// Load returns the defaults overlaid with path, if it exists. An empty path
// means <root>/bootstrap.toml.
func Load(path, root string) (*Config, error) {
	cfg := Default()
	if root != "" {
		cfg.Root = root
	}

	if path == "" {
		path = filepath.Join(cfg.Root, DefaultFile)
	}
	if fsutil.Exists(path) {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	ranges := []struct {
		name       string
		start, end int
	}{
		{"audiosocket", c.Ports.AudioSocketStart, c.Ports.AudioSocketEnd},
		{"rtp", c.Ports.RTPStart, c.Ports.RTPEnd},
	}
	for _, r := range ranges {
		if r.start < 1 || r.end > 65535 || r.start > r.end {
			return fmt.Errorf("config: invalid %s port range %d-%d", r.name, r.start, r.end)
		}
	}
	if len(c.Commands.Install) == 0 || len(c.Commands.CLI) == 0 || len(c.Commands.Engine) == 0 {
		return fmt.Errorf("config: commands.install, commands.cli and commands.engine must not be empty")
	}
	return nil
}

// Path resolves p against the project root unless it is already absolute.
func (c *Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

func (c *Config) EngineLogPath() string { return c.logPath(c.Paths.EngineLog) }
func (c *Config) EnginePIDPath() string { return c.logPath(c.Paths.EnginePID) }

func (c *Config) logPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return c.Path(filepath.Join(c.Paths.LogDir, p))
}

// Rel shortens p to a root-relative path for display.
func (c *Config) Rel(p string) string {
	r, err := filepath.Rel(c.Root, p)
	if err != nil || strings.HasPrefix(r, "..") {
		return p
	}
	return r
}
