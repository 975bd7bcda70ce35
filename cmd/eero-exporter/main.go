package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eero-exporter/eero-exporter/internal/collector"
	"github.com/eero-exporter/eero-exporter/internal/config"
	"github.com/eero-exporter/eero-exporter/internal/eero"
	"github.com/eero-exporter/eero-exporter/internal/exposition"
	"github.com/eero-exporter/eero-exporter/internal/session"
)

// options holds the command-line flags. portSet distinguishes an explicit
// -port from the default so listen.port in the config still applies.
type options struct {
	port       int
	portSet    bool
	configPath string
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var opts options
	fs.IntVar(&opts.port, "port", config.DefaultPort, "port for the scrape endpoint; overrides listen.port from config")
	fs.StringVar(&opts.configPath, "config", "eero-exporter.yaml", "path to config file; missing file means defaults")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "port" {
			opts.portSet = true
		}
	})
	return opts, nil
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("eero-exporter starting", "config", opts.configPath)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if opts.portSet {
		cfg.Listen.Port = opts.port
	}
	lvl, _ := cfg.Log.SlogLevel()
	level.Set(lvl)

	slog.Info("config loaded",
		"port", cfg.Listen.Port,
		"metrics_path", cfg.Listen.MetricsPath,
		"interval", cfg.Collector.Interval,
		"stale_after", cfg.Collector.StaleAfter,
		"session_file", cfg.Session.File,
	)

	sess, err := session.Load(cfg.Session.File)
	if err != nil {
		slog.Error("failed to read session file", "err", err)
		os.Exit(1)
	}

	client, err := eero.New(sess, eero.Options{
		Endpoint:  cfg.API.Endpoint,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	})
	if err != nil {
		slog.Error("failed to build API client", "err", err)
		os.Exit(1)
	}
	if client.NeedsLogin() {
		slog.Warn("no session stored, run eero-login; serving self metrics only until then",
			"session_file", sess.Path())
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Listen.Port))
	if err != nil {
		slog.Error("failed to listen on scrape port", "port", cfg.Listen.Port, "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Snapshot store with background TTL eviction.
	st := exposition.NewStore(cfg.Collector.StaleAfter)
	slog.Info("snapshot store ready", "ttl", st.TTL())
	go st.Run(ctx)

	coll := collector.New(client, st, collector.Options{
		Interval: cfg.Collector.Interval,
		Timeout:  cfg.Collector.Timeout,
	})
	go coll.Run(ctx)

	// A session written by eero-login is picked up without a restart.
	go func() {
		if err := sess.Watch(ctx, coll.SessionChanged); err != nil {
			slog.Error("session watcher stopped", "err", err)
		}
	}()

	// Hot reload applies the log level only.
	go func() {
		if err := config.Watch(ctx, opts.configPath, func(updated *config.Config) {
			if lvl, err := updated.Log.SlogLevel(); err == nil {
				level.Set(lvl)
			}
			slog.Info("config hot-reloaded", "log_level", updated.Log.Level)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	httpSrv := &http.Server{
		Handler:           exposition.NewHandler(st, cfg.Listen.MetricsPath),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("scrape endpoint listening", "port", cfg.Listen.Port, "path", cfg.Listen.MetricsPath)
		if err := httpSrv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("eero-exporter shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}
