package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level poon.yaml configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	MockAPI   MockAPIConfig   `yaml:"mock_api"`
	Seed      SeedConfig      `yaml:"seed"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds the listen addresses and the gRPC token.
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"`
	APIToken string `yaml:"api_token"`
}

// MockAPIConfig toggles the mock network layer.
type MockAPIConfig struct {
	Enabled bool          `yaml:"enabled"`
	Latency time.Duration `yaml:"latency"` // simulated per-request delay
	BaseURL string        `yaml:"base_url,omitempty"` // remote mock API; empty means in-process
}

// SeedConfig controls the synthetic data set.
type SeedConfig struct {
	Value  uint64 `yaml:"value"`
	Months int    `yaml:"months"`
}

// WorkspaceConfig controls store coordination.
type WorkspaceConfig struct {
	CascadePolicy string `yaml:"cascade_policy"` // "orphan" or "cascade"
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a Config with sensible defaults for local development.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr: ":8081",
			GRPCAddr: ":8080",
			APIToken: "dev-token",
		},
		MockAPI: MockAPIConfig{
			Enabled: true,
			Latency: 0,
		},
		Seed: SeedConfig{
			Value:  42,
			Months: 6,
		},
		Workspace: WorkspaceConfig{
			CascadePolicy: "orphan",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a poon.yaml file from disk on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault reads path when it exists and falls back to the defaults otherwise,
// then applies environment overrides.
func LoadOrDefault(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from POON_* environment variables read through getenv
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("POON_HTTP_ADDR"); v != "" {
		c.Server.HTTPAddr = v
	}
	if v := getenv("POON_GRPC_ADDR"); v != "" {
		c.Server.GRPCAddr = v
	}
	if v := getenv("POON_API_TOKEN"); v != "" {
		c.Server.APIToken = v
	}
	if v := getenv("POON_MOCK_API"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing POON_MOCK_API: %w", err)
		}
		c.MockAPI.Enabled = enabled
	}
	if v := getenv("POON_MOCK_API_URL"); v != "" {
		c.MockAPI.BaseURL = v
	}
	if v := getenv("POON_MOCK_LATENCY"); v != "" {
		latency, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing POON_MOCK_LATENCY: %w", err)
		}
		c.MockAPI.Latency = latency
	}
	if v := getenv("POON_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing POON_SEED: %w", err)
		}
		c.Seed.Value = seed
	}
	if v := getenv("POON_CASCADE_POLICY"); v != "" {
		c.Workspace.CascadePolicy = v
	}
	if v := getenv("POON_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}
