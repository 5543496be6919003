// Package config provides application-wide configuration.
// Values are resolved as defaults < YAML file (ROLODEX_CONFIG) < env vars,
// and all fields have safe defaults so the binary runs locally with no setup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the rolodex server.
type Config struct {
	DBPath     string `yaml:"db"`           // ROLODEX_DB — default: "rolodex.db"
	Transport  string `yaml:"transport"`    // ROLODEX_TRANSPORT — "stdio" (default) or "http"
	Addr       string `yaml:"addr"`         // ROLODEX_ADDR — default: "127.0.0.1:8765"
	APIKeyHash string `yaml:"api_key_hash"` // ROLODEX_API_KEY_HASH — bcrypt hash; empty disables key auth
}

const (
	envKeyConfigFile = "ROLODEX_CONFIG"
	envKeyDBPath     = "ROLODEX_DB"
	envKeyTransport  = "ROLODEX_TRANSPORT"
	envKeyAddr       = "ROLODEX_ADDR"
	envKeyAPIKeyHash = "ROLODEX_API_KEY_HASH"
)

// Load resolves configuration from defaults, an optional YAML file, and
// environment variables. A missing config file is an error only when
// ROLODEX_CONFIG explicitly names one.
func Load() (Config, error) {
	cfg := Config{
		DBPath:    "rolodex.db",
		Transport: "stdio",
		Addr:      "127.0.0.1:8765",
	}

	if path := os.Getenv(envKeyConfigFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	cfg.DBPath = envOr(envKeyDBPath, cfg.DBPath)
	cfg.Transport = envOr(envKeyTransport, cfg.Transport)
	cfg.Addr = envOr(envKeyAddr, cfg.Addr)
	cfg.APIKeyHash = envOr(envKeyAPIKeyHash, cfg.APIKeyHash)

	if cfg.Transport != "stdio" && cfg.Transport != "http" {
		return Config{}, fmt.Errorf("config: unknown transport %q (want stdio or http)", cfg.Transport)
	}

	return cfg, nil
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
