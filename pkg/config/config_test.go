package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEnablesBothTools(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.IsEnabled(ToolPrompt))
	assert.True(t, cfg.IsEnabled(ToolMemo))
}

func TestReadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Read(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.Error(t, err)
	assert.True(t, cfg.IsEnabled(ToolMemo))
}

func TestReadMalformedJSONReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cfg, err := Read(path)
	require.Error(t, err)
	assert.True(t, cfg.IsEnabled(ToolMemo))
}

func TestReadHonorsDisabledMemo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tools":{"memo":false}}`), 0o644))

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.False(t, cfg.IsEnabled(ToolMemo))
}

func TestPromptCannotBeDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tools":{"prompt":false}}`), 0o644))

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.True(t, cfg.IsEnabled(ToolPrompt), "prompt is non-disableable by policy")
}

func TestIsEnabledUnknownToolDefaultsTrue(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.IsEnabled("some-future-tool"))
}
