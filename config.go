package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is read from config.yaml, then environment overrides are applied
type Config struct {
	CatalogPath string        `yaml:"catalog_path"`
	LogDir      string        `yaml:"log_dir"`
	LatestLog   string        `yaml:"latest_log"`
	Logging     LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

func DefaultConfigPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "protrack", "config.yaml")
}

func DefaultConfig() *Config {
	return &Config{
		CatalogPath: "protein_config.json",
		LogDir:      ".",
		LatestLog:   DefaultLatestLog,
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadConfig reads a YAML config file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PROTRACK_CATALOG"); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv("PROTRACK_LOG_DIR"); v != "" {
		c.LogDir = v
	}
	if v := os.Getenv("PROTRACK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	if c.CatalogPath == "" {
		return fmt.Errorf("catalog_path is required")
	}
	if c.LogDir == "" {
		return fmt.Errorf("log_dir is required")
	}
	if strings.ContainsRune(c.LatestLog, os.PathSeparator) {
		return fmt.Errorf("latest_log must be a file name, got %q", c.LatestLog)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
