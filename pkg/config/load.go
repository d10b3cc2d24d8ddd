package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads the runtime configuration from a YAML file, applies
// defaults, and validates. A missing file yields the pure defaults: the
// module runs fine with nothing but a credential file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads the runtime configuration and applies
// POLARIS_* environment variable overrides on top. Environment always wins
// over the file.
//
// The sequence is: load YAML, apply defaults, apply env overrides,
// re-validate.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies POLARIS_SECTION_FIELD environment variables.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("POLARIS_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("POLARIS_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	if val := os.Getenv("POLARIS_POOL_CREDENTIAL_FILE"); val != "" {
		cfg.Pool.CredentialFile = val
	}
	if val := os.Getenv("POLARIS_POOL_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Pool.Watch = b
		}
	}
	if val := os.Getenv("POLARIS_POOL_SEED"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Pool.Seed = i
		}
	}

	if val := os.Getenv("POLARIS_ADAPTER_MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Adapter.MaxRetries = i
		}
	}
	if val := os.Getenv("POLARIS_ADAPTER_ACQUIRE_RETRY_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Adapter.AcquireRetryDelay = d
		}
	}
	if val := os.Getenv("POLARIS_ADAPTER_HTTP_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Adapter.HTTPTimeout = d
		}
	}

	if val := os.Getenv("POLARIS_MONITOR_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Monitor.Enabled = b
		}
	}
	if val := os.Getenv("POLARIS_MONITOR_SCHEDULE"); val != "" {
		cfg.Monitor.Schedule = val
	}
	if val := os.Getenv("POLARIS_MONITOR_WEBHOOK_URL"); val != "" {
		cfg.Monitor.WebhookURL = val
	}
}
