package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
	if cfg.Pool.CredentialFile != "config_pool.json" {
		t.Errorf("credential file default = %q", cfg.Pool.CredentialFile)
	}
	if cfg.Adapter.MaxRetries != 3 {
		t.Errorf("max retries default = %d", cfg.Adapter.MaxRetries)
	}
	if cfg.Adapter.AcquireRetryDelay != 3*time.Second {
		t.Errorf("acquire retry delay default = %v", cfg.Adapter.AcquireRetryDelay)
	}
	if cfg.Adapter.HTTPTimeout != 60*time.Second {
		t.Errorf("http timeout default = %v", cfg.Adapter.HTTPTimeout)
	}
	if cfg.Monitor.Schedule != "0 8,20 * * *" {
		t.Errorf("monitor schedule default = %q", cfg.Monitor.Schedule)
	}
}

func TestLoadConfig_ParsesYAML(t *testing.T) {
	path := writeFile(t, "polaris.yaml", `
logging:
  level: debug
  format: json
pool:
  credential_file: /etc/polaris/keys.json
  watch: true
adapter:
  max_retries: 5
  acquire_retry_delay: 500ms
  models:
    my-gpt: openai
monitor:
  enabled: true
  schedule: "*/5 * * * *"
  webhook_url: https://hooks.example.com/pool
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if !cfg.Pool.Watch || cfg.Pool.CredentialFile != "/etc/polaris/keys.json" {
		t.Errorf("pool = %+v", cfg.Pool)
	}
	if cfg.Adapter.MaxRetries != 5 {
		t.Errorf("max retries = %d, want 5", cfg.Adapter.MaxRetries)
	}
	if cfg.Adapter.AcquireRetryDelay != 500*time.Millisecond {
		t.Errorf("acquire retry delay = %v, want 500ms", cfg.Adapter.AcquireRetryDelay)
	}
	if cfg.Adapter.Models["my-gpt"] != "openai" {
		t.Errorf("models = %v", cfg.Adapter.Models)
	}
	if !cfg.Monitor.Enabled || cfg.Monitor.WebhookURL != "https://hooks.example.com/pool" {
		t.Errorf("monitor = %+v", cfg.Monitor)
	}
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad level", "logging:\n  level: loud\n"},
		{"bad format", "logging:\n  format: xml\n"},
		{"negative retries", "adapter:\n  max_retries: -1\n"},
		{"unknown vendor", "adapter:\n  models:\n    m: acme\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "polaris.yaml", tt.yaml)
			if _, err := LoadConfig(path); err == nil {
				t.Error("LoadConfig() accepted an invalid configuration")
			}
		})
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeFile(t, "polaris.yaml", "logging:\n  level: info\n")

	t.Setenv("POLARIS_LOGGING_LEVEL", "debug")
	t.Setenv("POLARIS_ADAPTER_MAX_RETRIES", "7")
	t.Setenv("POLARIS_ADAPTER_HTTP_TIMEOUT", "10s")
	t.Setenv("POLARIS_POOL_WATCH", "true")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want env override debug", cfg.Logging.Level)
	}
	if cfg.Adapter.MaxRetries != 7 {
		t.Errorf("max retries = %d, want 7", cfg.Adapter.MaxRetries)
	}
	if cfg.Adapter.HTTPTimeout != 10*time.Second {
		t.Errorf("http timeout = %v, want 10s", cfg.Adapter.HTTPTimeout)
	}
	if !cfg.Pool.Watch {
		t.Error("watch = false, want env override true")
	}
}

func TestLoadConfigWithEnvOverrides_RevalidatesAfterEnv(t *testing.T) {
	path := writeFile(t, "polaris.yaml", "")
	t.Setenv("POLARIS_LOGGING_LEVEL", "loud")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Error("invalid env override passed validation")
	}
}
