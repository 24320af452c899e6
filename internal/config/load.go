package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills unset fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.InstanceType == "" {
		cfg.InstanceType = "t3.large"
	}
	if cfg.SSHUser == "" {
		cfg.SSHUser = "ubuntu"
	}
	if cfg.AllowedCIDR == "" {
		cfg.AllowedCIDR = "0.0.0.0/0"
	}
	if cfg.WebUIPort == 0 {
		cfg.WebUIPort = WebUIPort
	}
	if cfg.Repo.Branch == "" {
		cfg.Repo.Branch = "main"
	}
	if cfg.Repo.RemotePath == "" {
		cfg.Repo.RemotePath = "airflow"
	}
	if cfg.Repo.ComposeFile == "" {
		cfg.Repo.ComposeFile = "docker-compose.yaml"
	}
	if cfg.Repo.Image == "" {
		cfg.Repo.Image = "airflow"
	}
	if cfg.Metadata.Port == 0 {
		cfg.Metadata.Port = MetadataDBPort
	}
	if cfg.Metadata.SSLMode == "" {
		cfg.Metadata.SSLMode = "require"
	}
	if cfg.Metadata.TokenLifetimeSeconds == 0 {
		cfg.Metadata.TokenLifetimeSeconds = 3600
	}
}
