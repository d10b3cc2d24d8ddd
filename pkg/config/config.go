package config

import (
	"fmt"
	"time"
)

// Config is the runtime configuration (YAML). The credential pool itself
// is loaded from a separate JSON file referenced by Pool.CredentialFile;
// see keys.go.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Pool    PoolConfig    `yaml:"pool"`
	Adapter AdapterConfig `yaml:"adapter"`
	Monitor MonitorConfig `yaml:"monitor"`
}

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, error
	Level string `yaml:"level"`

	// Format is the output format: json or text
	Format string `yaml:"format"`
}

// PoolConfig locates and tunes the credential pool.
type PoolConfig struct {
	// CredentialFile is the JSON credential file path
	CredentialFile string `yaml:"credential_file"`

	// Watch enables the fsnotify reload watcher on the credential file
	Watch bool `yaml:"watch"`

	// Seed seeds the cooldown randomness when non-zero (deterministic
	// windows for staging and tests)
	Seed int64 `yaml:"seed"`
}

// AdapterConfig tunes the retry loop and vendor transport.
type AdapterConfig struct {
	// MaxRetries is the per-call attempt budget
	MaxRetries int `yaml:"max_retries"`

	// AcquireRetryDelay is the sleep before retrying an empty acquire
	AcquireRetryDelay time.Duration `yaml:"acquire_retry_delay"`

	// HTTPTimeout bounds each vendor dispatch
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Models adds or overrides model-to-vendor mappings
	Models map[string]string `yaml:"models"`
}

// MonitorConfig controls the scheduled pool health report.
type MonitorConfig struct {
	// Enabled turns the monitor on
	Enabled bool `yaml:"enabled"`

	// Schedule is a cron expression; default reports at 08:00 and 20:00
	Schedule string `yaml:"schedule"`

	// WebhookURL receives the JSON health summary when non-empty
	WebhookURL string `yaml:"webhook_url"`
}

// ApplyDefaults fills unset fields with production defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Pool.CredentialFile == "" {
		cfg.Pool.CredentialFile = "config_pool.json"
	}
	if cfg.Adapter.MaxRetries == 0 {
		cfg.Adapter.MaxRetries = 3
	}
	if cfg.Adapter.AcquireRetryDelay == 0 {
		cfg.Adapter.AcquireRetryDelay = 3 * time.Second
	}
	if cfg.Adapter.HTTPTimeout == 0 {
		cfg.Adapter.HTTPTimeout = 60 * time.Second
	}
	if cfg.Monitor.Schedule == "" {
		cfg.Monitor.Schedule = "0 8,20 * * *"
	}
}

// Validate rejects configurations that cannot work.
func Validate(cfg *Config) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", cfg.Logging.Level)
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format %q is not one of json, text", cfg.Logging.Format)
	}

	if cfg.Adapter.MaxRetries < 1 {
		return fmt.Errorf("adapter.max_retries must be at least 1, got %d", cfg.Adapter.MaxRetries)
	}
	if cfg.Adapter.AcquireRetryDelay < 0 {
		return fmt.Errorf("adapter.acquire_retry_delay must not be negative")
	}
	if cfg.Adapter.HTTPTimeout <= 0 {
		return fmt.Errorf("adapter.http_timeout must be positive")
	}

	for model, vendor := range cfg.Adapter.Models {
		switch vendor {
		case "openai", "gemini", "bigmodel":
		default:
			return fmt.Errorf("adapter.models[%q]: unsupported vendor %q", model, vendor)
		}
	}

	if cfg.Monitor.Enabled && cfg.Monitor.Schedule == "" {
		return fmt.Errorf("monitor.schedule must be set when the monitor is enabled")
	}

	return nil
}
