package pmtoolconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoFileGiven(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(cwd)) }()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDepth, cfg.History.Depth)
	assert.Equal(t, int64(DefaultNewGroupDelay), cfg.History.NewGroupDelay)
	assert.Equal(t, "basic", cfg.Schema)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pmtool.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history:\n  depth: 42\nschema: basic-list\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.History.Depth)
	assert.Equal(t, "basic-list", cfg.Schema)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pmtool.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history:\n  depth: 42\n"), 0o644))

	require.NoError(t, os.Setenv("PMTOOL_HISTORY_DEPTH", "7"))
	defer func() { require.NoError(t, os.Unsetenv("PMTOOL_HISTORY_DEPTH")) }()

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.History.Depth)
}

func TestLoadMissingExplicitFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "explicit path that does not exist should still fail, unlike the implicit default")
}
