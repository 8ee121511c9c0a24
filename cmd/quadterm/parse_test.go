package main

import (
	"bytes"
	"errors"
	"flag"
	"strings"
	"testing"
	"time"

	"quadterm/internal/config"
	"quadterm/internal/logging"
)

func noEnv(string) string {
	return ""
}

func TestParseArgsDefaults(t *testing.T) {
	var stderr bytes.Buffer
	cfg, err := parseArgs(nil, &stderr, noEnv)
	if err != nil {
		t.Fatalf("parse args: %v", err)
	}
	if cfg.DryRun || cfg.Watch || cfg.Reflow || cfg.CleanupOnFailure {
		t.Fatalf("expected all switches off, got %+v", cfg)
	}
	if cfg.Timeout != 0 {
		t.Fatalf("expected no timeout override, got %s", cfg.Timeout)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("expected info level, got %q", cfg.LogLevel)
	}
}

func TestParseArgsFlags(t *testing.T) {
	var stderr bytes.Buffer
	cfg, err := parseArgs([]string{
		"--config", "layout.yaml",
		"--dryrun",
		"--timeout", "3s",
		"--log-level", "debug",
		"--cleanup-on-failure",
		"--reflow",
	}, &stderr, noEnv)
	if err != nil {
		t.Fatalf("parse args: %v", err)
	}
	if cfg.ConfigPath != "layout.yaml" || !cfg.DryRun || !cfg.CleanupOnFailure || !cfg.Reflow {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", cfg.Timeout)
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("expected debug level, got %q", cfg.LogLevel)
	}
}

func TestParseArgsLogLevelFromEnv(t *testing.T) {
	getenv := func(key string) string {
		if key == envLogLevel {
			return "warn"
		}
		return ""
	}
	var stderr bytes.Buffer
	cfg, err := parseArgs(nil, &stderr, getenv)
	if err != nil {
		t.Fatalf("parse args: %v", err)
	}
	if cfg.LogLevel != logging.LevelWarning {
		t.Fatalf("expected warning level, got %q", cfg.LogLevel)
	}
}

func TestParseArgsPrintConfig(t *testing.T) {
	var stderr bytes.Buffer
	cfg, err := parseArgs([]string{"--print-config", "yml"}, &stderr, noEnv)
	if err != nil {
		t.Fatalf("parse args: %v", err)
	}
	if cfg.PrintConfig != config.FormatYAML {
		t.Fatalf("expected yaml, got %q", cfg.PrintConfig)
	}
	if _, err := parseArgs([]string{"--print-config", "json"}, &stderr, noEnv); err == nil {
		t.Fatalf("expected error for json")
	}
}

func TestParseArgsRejects(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "positional", args: []string{"extra"}, want: "unexpected arguments"},
		{name: "negative timeout", args: []string{"--timeout", "-1s"}, want: "negative"},
		{name: "watch dryrun", args: []string{"--watch", "--dryrun"}, want: "--watch"},
		{name: "bad level", args: []string{"--log-level", "loud"}, want: "unknown log level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stderr bytes.Buffer
			_, err := parseArgs(tc.args, &stderr, noEnv)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestParseArgsHelp(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseArgs([]string{"-h"}, &stderr, noEnv)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
	if !strings.Contains(stderr.String(), "Usage: quadterm") {
		t.Fatalf("expected help output, got %q", stderr.String())
	}
}

func TestParseArgsVersion(t *testing.T) {
	var stderr bytes.Buffer
	cfg, err := parseArgs([]string{"-v"}, &stderr, noEnv)
	if err != nil {
		t.Fatalf("parse args: %v", err)
	}
	if !cfg.ShowVersion {
		t.Fatalf("expected version flag")
	}
}
