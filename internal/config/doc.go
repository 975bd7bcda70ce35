// Package config loads and watches the exporter configuration file
// (eero-exporter.yaml).
//
// Top-level types:
//   - Config{Listen, Collector, API, Session, Log} parsed from YAML
//   - ListenConfig: port, metrics_path
//   - CollectorConfig: interval, timeout, stale_after
//   - APIConfig: endpoint, timeout, user_agent
//   - SessionConfig: file (written by eero-login)
//   - LogConfig: level, parsed by SlogLevel
//
// Load(path) applies defaults (port 9118, 60s interval, 30s pass timeout,
// 5m staleness), overlays the file if it exists, then validates. The
// exporter runs without any config file at all.
//
// Watch(ctx, path, onChange) uses fsnotify on the file's directory and calls
// onChange with the newly parsed Config. Only log.level is applied live by
// the exporter; other keys take effect on restart.
package config
