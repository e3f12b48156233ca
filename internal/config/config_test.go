package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := defaults()
	assert.Equal(t, ".inkwell/cache", cfg.CacheDir)
	assert.Equal(t, 1024, cfg.ValidatorMaxDepth)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestApplyEnvOverridesDefaults(t *testing.T) {
	t.Setenv("INKWELL_CACHE_DIR", "/tmp/custom-cache")
	t.Setenv("INKWELL_VALIDATOR_MAX_DEPTH", "64")
	t.Setenv("INKWELL_LOG_LEVEL", "debug")

	cfg := defaults()
	applyEnv(cfg)

	assert.Equal(t, "/tmp/custom-cache", cfg.CacheDir)
	assert.Equal(t, 64, cfg.ValidatorMaxDepth)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestApplyEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("INKWELL_VALIDATOR_MAX_DEPTH", "not-a-number")

	cfg := defaults()
	applyEnv(cfg)

	assert.Equal(t, 1024, cfg.ValidatorMaxDepth)
}

func TestApplyFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inkwell.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache_dir: /var/lib/inkwell\nvalidator_max_depth: 32\n"), 0o644))

	cfg := defaults()
	applyFile(cfg, path)

	assert.Equal(t, "/var/lib/inkwell", cfg.CacheDir)
	assert.Equal(t, 32, cfg.ValidatorMaxDepth)
}

func TestApplyFileMissingIsNoop(t *testing.T) {
	cfg := defaults()
	applyFile(cfg, filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Equal(t, defaults(), cfg)
}

func TestEnvTakesPrecedenceOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inkwell.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache_dir: /from-file\n"), 0o644))
	t.Setenv("INKWELL_CACHE_DIR", "/from-env")

	cfg := defaults()
	applyFile(cfg, path)
	applyEnv(cfg)

	assert.Equal(t, "/from-env", cfg.CacheDir)
}
