// No t.Parallel() — env vars are process-global and not thread-safe.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{envKeyConfigFile, envKeyDBPath, envKeyTransport, envKeyAddr, envKeyAPIKeyHash} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v; want nil", err)
	}

	if cfg.DBPath != "rolodex.db" {
		t.Errorf("cfg.DBPath = %q; want %q", cfg.DBPath, "rolodex.db")
	}
	if cfg.Transport != "stdio" {
		t.Errorf("cfg.Transport = %q; want %q", cfg.Transport, "stdio")
	}
	if cfg.Addr != "127.0.0.1:8765" {
		t.Errorf("cfg.Addr = %q; want %q", cfg.Addr, "127.0.0.1:8765")
	}
	if cfg.APIKeyHash != "" {
		t.Errorf("cfg.APIKeyHash = %q; want empty", cfg.APIKeyHash)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(envKeyDBPath, "/var/lib/rolodex/people.db")
	t.Setenv(envKeyTransport, "http")
	t.Setenv(envKeyAddr, "0.0.0.0:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v; want nil", err)
	}

	if cfg.DBPath != "/var/lib/rolodex/people.db" {
		t.Errorf("cfg.DBPath = %q; want env override", cfg.DBPath)
	}
	if cfg.Transport != "http" {
		t.Errorf("cfg.Transport = %q; want %q", cfg.Transport, "http")
	}
	if cfg.Addr != "0.0.0.0:9000" {
		t.Errorf("cfg.Addr = %q; want %q", cfg.Addr, "0.0.0.0:9000")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "rolodex.yml")
	content := "db: from-file.db\ntransport: http\naddr: \"127.0.0.1:7777\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(envKeyConfigFile, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v; want nil", err)
	}
	if cfg.DBPath != "from-file.db" {
		t.Errorf("cfg.DBPath = %q; want %q", cfg.DBPath, "from-file.db")
	}
	if cfg.Addr != "127.0.0.1:7777" {
		t.Errorf("cfg.Addr = %q; want %q", cfg.Addr, "127.0.0.1:7777")
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "rolodex.yml")
	if err := os.WriteFile(path, []byte("db: from-file.db\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(envKeyConfigFile, path)
	t.Setenv(envKeyDBPath, "from-env.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v; want nil", err)
	}
	if cfg.DBPath != "from-env.db" {
		t.Errorf("cfg.DBPath = %q; want env to beat file", cfg.DBPath)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(envKeyConfigFile, filepath.Join(t.TempDir(), "nope.yml"))

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil for missing named config file; want error")
	}
}

func TestLoad_BadTransport(t *testing.T) {
	clearEnv(t)
	t.Setenv(envKeyTransport, "carrier-pigeon")

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil for unknown transport; want error")
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("TEST_ENVOR_KEY", "custom-value")
	if got := envOr("TEST_ENVOR_KEY", "fallback"); got != "custom-value" {
		t.Errorf("envOr() = %q; want %q", got, "custom-value")
	}
	t.Setenv("TEST_ENVOR_KEY", "")
	if got := envOr("TEST_ENVOR_KEY", "fallback"); got != "fallback" {
		t.Errorf("envOr() = %q; want %q", got, "fallback")
	}
}
