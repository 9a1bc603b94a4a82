package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RedisConfig configures the optional redis snapshot store and locker.
type RedisConfig struct {
	Addr   string        `yaml:"addr"`
	Prefix string        `yaml:"prefix"`
	TTL    time.Duration `yaml:"ttl"`

	// EncryptionKey is a base64 AES-256 key; when set, fingerprints are
	// encrypted at rest. FallbackKeys decrypt fingerprints written before
	// a rotation.
	EncryptionKey string   `yaml:"encryption_key"`
	FallbackKeys  []string `yaml:"fallback_keys"`

	// MaskLabels are regular expressions; matching series and category
	// labels are masked before they are stored.
	MaskLabels []string `yaml:"mask_labels"`
}

// Service is the configuration of the sonisync HTTP service.
type Service struct {
	Addr        string      `yaml:"addr"`
	MetricsPath string      `yaml:"metrics_path"`
	LogLevel    string      `yaml:"log_level"`
	Lang        string      `yaml:"lang"`
	Append      bool        `yaml:"append"`
	Redis       RedisConfig `yaml:"redis"`
}

// DefaultService returns the service defaults.
func DefaultService() Service {
	return Service{
		Addr:        ":8080",
		MetricsPath: "/metrics",
		LogLevel:    "info",
		Redis: RedisConfig{
			Prefix: "sonisync:",
		},
	}
}

// Load reads a YAML service config over the defaults. A missing file is
// not an error and yields the defaults.
func Load(path string) (Service, error) {
	cfg := DefaultService()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Level parses the configured log level, defaulting to Info.
func (s Service) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
