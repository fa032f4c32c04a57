package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the dashctl configuration file.
type Config struct {
	Listen         string               `yaml:"listen"`
	BasePath       string               `yaml:"base_path"`
	LogLevel       string               `yaml:"log_level"`
	ManifestPath   string               `yaml:"manifest_path"`
	FixturesDir    string               `yaml:"fixtures_dir"`
	PreviewTTL     time.Duration        `yaml:"preview_ttl"`
	SpaceConnector SpaceConnectorConfig `yaml:"space_connector"`
}

// SpaceConnectorConfig configures the remote dashboard API.
type SpaceConnectorConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

func defaultConfig() Config {
	return Config{
		Listen:     ":9876",
		BasePath:   "/api",
		LogLevel:   "info",
		PreviewTTL: time.Minute,
		SpaceConnector: SpaceConnectorConfig{
			Timeout: 10 * time.Second,
		},
	}
}

// LoadConfig reads the YAML config at path over the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("dashctl: config %s not found", path)
		}
		return cfg, fmt.Errorf("dashctl: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("dashctl: parse config: %w", err)
	}
	return cfg, nil
}

// NewLogger builds a production zap logger at the configured level.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("dashctl: log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = level
	zcfg.Encoding = "console"
	return zcfg.Build()
}
