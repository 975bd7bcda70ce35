package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Valid(t *testing.T) {
	yaml := `
listen:
  port: 9200
  metrics_path: /probe
collector:
  interval: 2m
  timeout: 45s
  stale_after: 10m
api:
  endpoint: "https://api.example.com/2.2"
  timeout: 5s
session:
  file: /var/lib/eero/session.yml
log:
  level: debug
`
	cfg := loadFromString(t, yaml)

	if cfg.Listen.Port != 9200 {
		t.Errorf("port: got %d", cfg.Listen.Port)
	}
	if cfg.Listen.MetricsPath != "/probe" {
		t.Errorf("metrics_path: got %q", cfg.Listen.MetricsPath)
	}
	if cfg.Collector.Interval != 2*time.Minute {
		t.Errorf("interval: got %v", cfg.Collector.Interval)
	}
	if cfg.Collector.StaleAfter != 10*time.Minute {
		t.Errorf("stale_after: got %v", cfg.Collector.StaleAfter)
	}
	if cfg.API.Endpoint != "https://api.example.com/2.2" {
		t.Errorf("endpoint: got %q", cfg.API.Endpoint)
	}
	if cfg.Session.File != "/var/lib/eero/session.yml" {
		t.Errorf("session.file: got %q", cfg.Session.File)
	}
	lvl, err := cfg.Log.SlogLevel()
	if err != nil || lvl != slog.LevelDebug {
		t.Errorf("log level: got %v, %v", lvl, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromString(t, "log:\n  level: warn\n")

	if cfg.Listen.Port != DefaultPort {
		t.Errorf("default port: got %d, want %d", cfg.Listen.Port, DefaultPort)
	}
	if cfg.Listen.MetricsPath != DefaultMetricsPath {
		t.Errorf("default metrics_path: got %q", cfg.Listen.MetricsPath)
	}
	if cfg.Collector.Interval != DefaultInterval {
		t.Errorf("default interval: got %v, want %v", cfg.Collector.Interval, DefaultInterval)
	}
	if cfg.Collector.Timeout != DefaultTimeout {
		t.Errorf("default timeout: got %v, want %v", cfg.Collector.Timeout, DefaultTimeout)
	}
	if cfg.API.UserAgent != DefaultUserAgent {
		t.Errorf("default user_agent: got %q", cfg.API.UserAgent)
	}
	if cfg.Session.File != DefaultSessionFile {
		t.Errorf("default session.file: got %q", cfg.Session.File)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}
	if cfg.Listen.Port != DefaultPort || cfg.Collector.StaleAfter != DefaultStaleAfter {
		t.Errorf("missing file did not yield defaults: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"port out of range", "listen:\n  port: 70000\n"},
		{"relative metrics path", "listen:\n  metrics_path: metrics\n"},
		{"zero interval", "collector:\n  interval: 0s\n"},
		{"stale shorter than interval", "collector:\n  interval: 5m\n  stale_after: 1m\n"},
		{"relative endpoint", "api:\n  endpoint: api/2.2\n"},
		{"empty session file", "session:\n  file: \"\"\n"},
		{"unknown log level", "log:\n  level: chatty\n"},
		{"bad yaml", "listen: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := loadStringErr(t, tc.yaml); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestWatch_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eero-exporter.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan *Config, 1)
	go func() {
		_ = Watch(ctx, path, func(c *Config) {
			select {
			case got <- c:
			default:
			}
		})
	}()

	// The file does not exist yet; keep saving until the watcher is up. Each
	// save is a rename so the watcher never reads a half-written file.
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, []byte("log:\n  level: debug\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if err := os.Rename(tmp, path); err != nil {
			t.Fatal(err)
		}
		select {
		case cfg := <-got:
			if cfg.Log.Level != "debug" {
				t.Errorf("reloaded level = %q, want debug", cfg.Log.Level)
			}
			return
		case <-tick.C:
		case <-ctx.Done():
			t.Fatal("watcher never reported the reload")
		}
	}
}

// loadFromString writes yaml to a temp file and calls Load, failing on error.
func loadFromString(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, content)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	return cfg
}

// loadStringErr writes yaml to a temp file and calls Load, returning any error.
func loadStringErr(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eero-exporter.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return Load(path)
}
