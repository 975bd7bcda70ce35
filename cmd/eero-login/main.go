package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/eero-exporter/eero-exporter/internal/config"
	"github.com/eero-exporter/eero-exporter/internal/eero"
	"github.com/eero-exporter/eero-exporter/internal/session"
)

func main() {
	login := flag.String("l", "", "email address or phone number of the eero account (prompted if empty)")
	sessionPath := flag.String("session", "", "session file to write (default session.file from config)")
	configPath := flag.String("config", "eero-exporter.yaml", "path to config file; missing file means defaults")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdin, os.Stdout, *configPath, *sessionPath, *login); err != nil {
		slog.Error("eero-login failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer, configPath, sessionPath, login string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if sessionPath == "" {
		sessionPath = cfg.Session.File
	}

	sess, err := session.Load(sessionPath)
	if err != nil {
		return err
	}
	client, err := eero.New(sess, eero.Options{
		Endpoint:  cfg.API.Endpoint,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	})
	if err != nil {
		return err
	}

	if !client.NeedsLogin() {
		_, err := client.Account(ctx)
		switch {
		case err == nil:
			fmt.Fprintf(out, "Session in %s is valid, nothing to do.\n", sess.Path())
			return nil
		case !errors.Is(err, eero.ErrAuthRequired):
			return fmt.Errorf("check existing session: %w", err)
		}
		fmt.Fprintln(out, "Stored session was rejected, signing in again.")
	}

	r := bufio.NewReader(in)
	if login == "" {
		if login, err = prompt(r, out, "Email or phone number: "); err != nil {
			return err
		}
	}

	userToken, err := client.Login(ctx, login)
	if err != nil {
		return fmt.Errorf("start login: %w", err)
	}

	code, err := prompt(r, out, "Verification code: ")
	if err != nil {
		return err
	}
	if err := client.VerifyLogin(ctx, userToken, code); err != nil {
		return fmt.Errorf("verify login: %w", err)
	}

	fmt.Fprintf(out, "Session saved to %s.\n", sess.Path())
	return nil
}

func prompt(r *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("no input for %q", strings.TrimSuffix(label, ": "))
	}
	return line, nil
}
