package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load("", root)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, 8090, cfg.Ports.AudioSocketStart)
	assert.Equal(t, 8100, cfg.Ports.AudioSocketEnd)
	assert.Equal(t, 18080, cfg.Ports.RTPStart)
	assert.Equal(t, 18099, cfg.Ports.RTPEnd)
	assert.Equal(t, filepath.Join(root, "config", "ai-agent.yaml"), cfg.Path(cfg.Paths.ActiveConfig))
}

func TestLoadOverlaysToml(t *testing.T) {
	root := t.TempDir()
	body := `
[ports]
audiosocket_start = 9000
audiosocket_end = 9005

[commands]
cli = ["/usr/local/bin/agent"]

[asterisk]
app_name = "my-agent"
`
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultFile), []byte(body), 0644))

	cfg, err := Load("", root)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Ports.AudioSocketStart)
	assert.Equal(t, 9005, cfg.Ports.AudioSocketEnd)
	assert.Equal(t, 18080, cfg.Ports.RTPStart, "untouched keys keep defaults")
	assert.Equal(t, []string{"/usr/local/bin/agent"}, cfg.Commands.CLI)
	assert.Equal(t, "my-agent", cfg.Asterisk.AppName)
}

func TestLoadRejectsInvertedRange(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ports]\nrtp_start = 20000\nrtp_end = 19000\n"), 0644))

	_, err := Load(path, root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rtp port range")
}

func TestLoadParseError(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ports\n"), 0644))

	_, err := Load(path, root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestPathKeepsAbsolute(t *testing.T) {
	cfg := Default()
	cfg.Root = "/srv/agent"
	assert.Equal(t, "/etc/agent.yaml", cfg.Path("/etc/agent.yaml"))
	assert.Equal(t, "/srv/agent/.env", cfg.Path(".env"))
}

func TestEnginePathsFollowLogDir(t *testing.T) {
	cfg := Default()
	cfg.Root = "/srv/agent"
	assert.Equal(t, "/srv/agent/logs/ai-engine.log", cfg.EngineLogPath())
	assert.Equal(t, "/srv/agent/logs/ai-engine.pid", cfg.EnginePIDPath())

	cfg.Paths.LogDir = "var/log"
	assert.Equal(t, "/srv/agent/var/log/ai-engine.log", cfg.EngineLogPath())

	cfg.Paths.EnginePID = "/run/ai-engine.pid"
	assert.Equal(t, "/run/ai-engine.pid", cfg.EnginePIDPath())
}
