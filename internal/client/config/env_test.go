package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODE", "development")
	t.Setenv("API_URL", "https://fallback")
	t.Setenv("ZB_API_URL", "https://preferred")
	t.Setenv("ZB_ONLINE_CHECK_INTERVAL", "7s")
	t.Setenv("ZB_EPHEMERAL", "true")

	cfg := defaults()
	require.NoError(t, parseEnv(&cfg))

	assert.Equal(t, ModeDevelopment, cfg.Mode)
	assert.Equal(t, "https://preferred", cfg.APIURL)
	assert.Equal(t, 7*time.Second, cfg.OnlineCheckInterval)
	assert.True(t, cfg.Ephemeral)
	assert.Equal(t, "data", cfg.DataDir)
}

func TestParseEnv_InvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("ZB_ONLINE_CHECK_INTERVAL", "soon")

	cfg := defaults()
	err := parseEnv(&cfg)
	require.ErrorContains(t, err, "parse env:")
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ZB_DATA_DIR=dotenv\nZB_DB_FILE=dotenv.db\n"), 0o600))
	t.Setenv("ZB_DATA_DIR", "real")

	require.NoError(t, loadDotEnv(dir, ""))
	t.Cleanup(func() { _ = os.Unsetenv("ZB_DB_FILE") })

	assert.Equal(t, "real", os.Getenv("ZB_DATA_DIR"))
	assert.Equal(t, "dotenv.db", os.Getenv("ZB_DB_FILE"))
}

func TestLoadDotEnv_MissingFilesAreSkipped(t *testing.T) {
	require.NoError(t, loadDotEnv(t.TempDir(), ModeProduction))
}

func TestModeHint(t *testing.T) {
	clearEnv(t)
	assert.Empty(t, modeHint(nil))

	t.Setenv("MODE", "production")
	assert.Equal(t, "production", modeHint(nil))

	t.Setenv("ZB_MODE", "development")
	assert.Equal(t, "development", modeHint(nil))

	assert.Equal(t, "production", modeHint([]string{"-a", "http://x", "-m", "production"}))
}
