package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureBuiltinTemplate(t *testing.T) {
	dir := t.TempDir()
	ini := NewInitializer(filepath.Join(dir, ".env"), filepath.Join(dir, ".env.example"))

	res, err := ini.Ensure()
	require.NoError(t, err)
	assert.Equal(t, Created, res.Status)
	assert.Equal(t, SourceBuiltin, res.Source)

	data, err := os.ReadFile(ini.Path)
	require.NoError(t, err)
	for _, key := range Keys() {
		assert.Contains(t, string(data), "\n"+key+"=", "missing %s", key)
	}
	assert.Contains(t, string(data), "OPENAI_API_KEY=\n")
	assert.Contains(t, string(data), "LOCAL_WS_URL=ws://127.0.0.1:8765\n")
	assert.Contains(t, string(data), "LOCAL_WS_CHUNK_MS=320\n")

	info, err := os.Stat(ini.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestEnsureCopiesExample(t *testing.T) {
	dir := t.TempDir()
	example := "OPENAI_API_KEY=\nCUSTOM=1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.example"), []byte(example), 0644))

	ini := NewInitializer(filepath.Join(dir, ".env"), filepath.Join(dir, ".env.example"))
	res, err := ini.Ensure()
	require.NoError(t, err)
	assert.Equal(t, Created, res.Status)
	assert.Equal(t, SourceExample, res.Source)

	data, err := os.ReadFile(ini.Path)
	require.NoError(t, err)
	assert.Equal(t, example, string(data))
}

func TestEnsureIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ini := NewInitializer(filepath.Join(dir, ".env"), "")

	_, err := ini.Ensure()
	require.NoError(t, err)
	first, err := os.ReadFile(ini.Path)
	require.NoError(t, err)

	res, err := ini.Ensure()
	require.NoError(t, err)
	assert.Equal(t, AlreadyPresent, res.Status)

	second, err := os.ReadFile(ini.Path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnsureNeverTouchesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	stale := "OPENAI_API_KEY=sk-old\n# not even the full key set\n"
	require.NoError(t, os.WriteFile(path, []byte(stale), 0644))
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, past, past))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.example"), []byte("NEW=1\n"), 0644))

	res, err := NewInitializer(path, filepath.Join(dir, ".env.example")).Ensure()
	require.NoError(t, err)
	assert.Equal(t, AlreadyPresent, res.Status)
	assert.Contains(t, res.String(), "already present")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, stale, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past), "file must not be rewritten")
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm(), "mode must not change")
}

func TestRequiredKeys(t *testing.T) {
	keys := RequiredKeys()
	assert.Contains(t, keys, "OPENAI_API_KEY")
	assert.Contains(t, keys, "ASTERISK_ARI_PASSWORD")
	assert.NotContains(t, keys, "ASTERISK_HOST")
	for _, k := range keys {
		assert.False(t, strings.HasPrefix(k, "SMTP_"))
	}
}
