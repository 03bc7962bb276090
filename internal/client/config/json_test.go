package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"api_url":               "https://api.example.com",
		"online_check_interval": "10s",
		"ephemeral":             true,
	})

	t.Run("loads from flags", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJSON(&cfg, []string{"-config", pathFlag}))

		assert.Equal(t, "https://api.example.com", cfg.APIURL)
		assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
		assert.True(t, cfg.Ephemeral)
		assert.Equal(t, "data", cfg.DataDir, "absent keys keep their value")
	})

	t.Run("short flag and nanoseconds", func(t *testing.T) {
		p := writeTempJSON(t, dir, "ns.json", map[string]any{"online_check_interval": 2_000_000_000})
		cfg := defaults()
		require.NoError(t, parseJSON(&cfg, []string{"-c", p}))
		assert.Equal(t, 2*time.Second, cfg.OnlineCheckInterval)
	})

	t.Run("no flags → no changes", func(t *testing.T) {
		cfg := Config{DataDir: "defaults", OnlineCheckInterval: 42 * time.Second}
		require.NoError(t, parseJSON(&cfg, nil))

		assert.Equal(t, "defaults", cfg.DataDir)
		assert.Equal(t, 42*time.Second, cfg.OnlineCheckInterval)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := defaults()
		require.Error(t, parseJSON(&cfg, []string{"-config", bad}))
	})

	t.Run("missing file → error", func(t *testing.T) {
		cfg := defaults()
		require.ErrorContains(t, parseJSON(&cfg, []string{"-c", filepath.Join(dir, "nope.json")}), "read config file")
	})
}
