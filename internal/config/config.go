package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultPort        = 9118
	DefaultMetricsPath = "/metrics"
	DefaultInterval    = 60 * time.Second
	DefaultTimeout     = 30 * time.Second
	DefaultStaleAfter  = 5 * time.Minute
	DefaultEndpoint    = "https://api-user.e2ro.com/2.2"
	DefaultAPITimeout  = 10 * time.Second
	DefaultUserAgent   = "eero-exporter"
	DefaultSessionFile = "session.yml"
	DefaultLogLevel    = "info"
)

// Config is the exporter configuration. Fields map 1:1 to
// eero-exporter.example.yaml.
type Config struct {
	Listen    ListenConfig    `yaml:"listen"`
	Collector CollectorConfig `yaml:"collector"`
	API       APIConfig       `yaml:"api"`
	Session   SessionConfig   `yaml:"session"`
	Log       LogConfig       `yaml:"log"`
}

// ListenConfig controls the scrape endpoint.
type ListenConfig struct {
	// Port is the TCP port the scrape endpoint binds. The -port flag wins.
	Port int `yaml:"port"`

	// MetricsPath is the only path that serves metrics; everything else 404s.
	MetricsPath string `yaml:"metrics_path"`
}

// CollectorConfig controls the poll loop.
type CollectorConfig struct {
	// Interval is the time between collection passes.
	Interval time.Duration `yaml:"interval"`

	// Timeout bounds one whole pass, across every upstream request in it.
	Timeout time.Duration `yaml:"timeout"`

	// StaleAfter is how long a network's metrics keep being served after the
	// last pass that refreshed them.
	StaleAfter time.Duration `yaml:"stale_after"`
}

// APIConfig configures the eero cloud API client.
type APIConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	Timeout   time.Duration `yaml:"timeout"` // per HTTP request
	UserAgent string        `yaml:"user_agent"`
}

// SessionConfig locates the session file written by eero-login.
type SessionConfig struct {
	File string `yaml:"file"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of: debug | info | warn | error. Applied live on reload.
	Level string `yaml:"level"`
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// Load reads and parses the YAML config file at path. A missing file yields
// the defaults; missing fields are filled with defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a Config pre-populated with default values.
func Defaults() *Config {
	return &Config{
		Listen: ListenConfig{
			Port:        DefaultPort,
			MetricsPath: DefaultMetricsPath,
		},
		Collector: CollectorConfig{
			Interval:   DefaultInterval,
			Timeout:    DefaultTimeout,
			StaleAfter: DefaultStaleAfter,
		},
		API: APIConfig{
			Endpoint:  DefaultEndpoint,
			Timeout:   DefaultAPITimeout,
			UserAgent: DefaultUserAgent,
		},
		Session: SessionConfig{File: DefaultSessionFile},
		Log:     LogConfig{Level: DefaultLogLevel},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Listen.Port < 1 || cfg.Listen.Port > 65535 {
		return fmt.Errorf("listen.port %d out of range", cfg.Listen.Port)
	}
	if !strings.HasPrefix(cfg.Listen.MetricsPath, "/") {
		return fmt.Errorf("listen.metrics_path must start with /")
	}
	if cfg.Collector.Interval <= 0 {
		return fmt.Errorf("collector.interval must be positive")
	}
	if cfg.Collector.Timeout <= 0 {
		return fmt.Errorf("collector.timeout must be positive")
	}
	if cfg.Collector.StaleAfter < cfg.Collector.Interval {
		return fmt.Errorf("collector.stale_after (%v) must be at least collector.interval (%v)",
			cfg.Collector.StaleAfter, cfg.Collector.Interval)
	}
	u, err := url.Parse(cfg.API.Endpoint)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("api.endpoint %q must be an absolute URL", cfg.API.Endpoint)
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if cfg.Session.File == "" {
		return fmt.Errorf("session.file is required")
	}
	if _, err := cfg.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}
