package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":9876", cfg.Listen)
	assert.Equal(t, "/api", cfg.BasePath)
	assert.Equal(t, time.Minute, cfg.PreviewTTL)
	assert.Equal(t, 10*time.Second, cfg.SpaceConnector.Timeout)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":8080"
log_level: debug
preview_ttl: 30s
space_connector:
  base_url: https://console.example.com/api
  api_key: secret
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "/api", cfg.BasePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.PreviewTTL)
	assert.Equal(t, "https://console.example.com/api", cfg.SpaceConnector.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.SpaceConnector.Timeout)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unterminated"), 0o600))
	_, err = LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestConfigNewLogger(t *testing.T) {
	logger, err := Config{LogLevel: "warn"}.NewLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))

	_, err = Config{LogLevel: "loud"}.NewLogger()
	assert.Error(t, err)
}

func TestServeApplyOverrides(t *testing.T) {
	cmd := serveCmd{Listen: ":7000", Upstream: "http://upstream", Fixtures: "fixtures"}
	cfg := cmd.apply(defaultConfig())
	assert.Equal(t, ":7000", cfg.Listen)
	assert.Equal(t, "http://upstream", cfg.SpaceConnector.BaseURL)
	assert.Equal(t, "fixtures", cfg.FixturesDir)
	assert.Empty(t, cfg.ManifestPath)
}
