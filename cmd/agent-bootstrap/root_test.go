package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/bootstrap"
)

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "config"), 0755))
	for _, name := range []string{"openai", "deepgram", "local"} {
		body := "# " + name + "\nactive_pipeline: " + name + "_default\naudiosocket:\n  port: 8090\nexternal_media:\n  rtp_port: 18080\n"
		path := filepath.Join(root, "config", "ai-agent.golden-"+name+".yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	opts = bootstrap.Options{}
	rootDir, configPath, logLevel = ".", "", "warn"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := run(args)
	return out.String(), err
}

func TestRootIgnoresExtraArgsAndUnknownFlags(t *testing.T) {
	root := newProject(t)

	out, err := execute(t, "deepgram", "ignored", "--root", root, "--no-such-flag")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "config", "ai-agent.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# deepgram")
	assert.Contains(t, string(data), "port_range:")

	_, err = os.Stat(filepath.Join(root, ".env"))
	assert.NoError(t, err)
	assert.Contains(t, out, "skipping install (pass --install to enable)")
}

func TestRootUnknownFlagDoesNotSwallowBaseline(t *testing.T) {
	root := newProject(t)

	_, err := execute(t, "--root", root, "--verbose", "local", "-q")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "config", "ai-agent.yaml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# local"), string(data))
}

func TestKnownArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"unknown long flag", []string{"--verbose", "local"}, []string{"local"}},
		{"unknown flag with inline value", []string{"--color=never", "deepgram"}, []string{"deepgram"}},
		{"unknown short flag", []string{"-v", "local"}, []string{"local"}},
		{"known value flag keeps its value", []string{"--pipeline", "hybrid", "local"}, []string{"--pipeline", "hybrid", "local"}},
		{"known value flag inline", []string{"--root=/srv/agent", "local"}, []string{"--root=/srv/agent", "local"}},
		{"known bool flag", []string{"--install", "local"}, []string{"--install", "local"}},
		{"help", []string{"-h"}, []string{"-h"}},
		{"after terminator", []string{"--", "--verbose"}, []string{"--", "--verbose"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, knownArgs(rootCmd, tt.in))
		})
	}
}

func TestRootDefaultsToOpenAI(t *testing.T) {
	root := newProject(t)

	_, err := execute(t, "--root", root)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "config", "ai-agent.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# openai")
}

func TestRootUnknownBaselineFails(t *testing.T) {
	root := newProject(t)

	_, err := execute(t, "azure", "--root", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown baseline")

	_, statErr := os.Stat(filepath.Join(root, "config", "ai-agent.yaml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRootRejectsBadLogLevel(t *testing.T) {
	_, err := execute(t, "--root", newProject(t), "--log-level", "chatty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "agent-bootstrap dev")
}
