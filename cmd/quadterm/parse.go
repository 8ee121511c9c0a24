package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"quadterm/internal/cli"
	"quadterm/internal/config"
	"quadterm/internal/logging"
)

type Config struct {
	ConfigPath       string
	DryRun           bool
	Timeout          time.Duration
	LogLevel         logging.Level
	Watch            bool
	CleanupOnFailure bool
	Reflow           bool
	PrintConfig      config.Format
	ShowVersion      bool
}

func parseArgs(args []string, errOut io.Writer, getenv func(string) string) (Config, error) {
	fs := flag.NewFlagSet("quadterm", flag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", "", "Layout config file (.toml, .yaml)")
	dryRun := fs.Bool("dryrun", false, "Print the commands without executing them")
	timeout := fs.Duration("timeout", 0, "How long to wait for each window to appear")
	watch := fs.Bool("watch", false, "Keep running and re-apply the layout when the config file changes")
	cleanup := fs.Bool("cleanup-on-failure", false, "Close windows opened by this run if a later one fails")
	reflow := fs.Bool("reflow", false, "Move already open windows instead of launching new ones")
	printConfig := fs.String("print-config", "", "Print the effective config as toml or yaml and exit")
	level := cli.AddLogLevelFlag(fs, defaultLogLevel(getenv))
	helper := cli.AddHelpVersionFlags(fs, "Show this help message", "Print version and exit")
	fs.Usage = func() {
		printHelp(fs.Output())
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if helper.Help {
		fs.Usage()
		return Config{}, flag.ErrHelp
	}

	if helper.Version {
		return Config{ShowVersion: true}, nil
	}

	if fs.NArg() > 0 {
		fs.Usage()
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if *timeout < 0 {
		return Config{}, fmt.Errorf("--timeout must not be negative")
	}

	cfg := Config{
		ConfigPath:       strings.TrimSpace(*configPath),
		DryRun:           *dryRun,
		Timeout:          *timeout,
		LogLevel:         level.Level,
		Watch:            *watch,
		CleanupOnFailure: *cleanup,
		Reflow:           *reflow,
	}
	if strings.TrimSpace(*printConfig) != "" {
		format, err := config.ParseFormat(*printConfig)
		if err != nil {
			return Config{}, fmt.Errorf("--print-config: %w", err)
		}
		cfg.PrintConfig = format
	}
	if cfg.Watch && cfg.DryRun {
		return Config{}, fmt.Errorf("--watch cannot be combined with --dryrun")
	}
	return cfg, nil
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Usage: quadterm [options]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Open terminal windows, send each its keystroke and tile them on the screen")
	fmt.Fprintln(out, "Requires xdotool, wmctrl and a terminal emulator on PATH")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Options:")
	writeOption(out, "--config", "Layout config file (env: "+config.EnvConfigPath+")")
	writeOption(out, "--dryrun", "Print the commands without executing them")
	writeOption(out, "--timeout", "Window lookup timeout, e.g. 5s (default from config)")
	writeOption(out, "--log-level", "debug, info, warning or error (env: "+envLogLevel+")")
	writeOption(out, "--watch", "Re-apply the layout when the config file changes")
	writeOption(out, "--cleanup-on-failure", "Close this run's windows when a launch fails")
	writeOption(out, "--reflow", "Move open windows into place, launch only missing ones")
	writeOption(out, "--print-config", "Print the effective config (toml or yaml) and exit")
	writeOption(out, "--help", "Show this help message")
	writeOption(out, "--version", "Print version and exit")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Config search order:")
	fmt.Fprintln(out, "  --config, $"+config.EnvConfigPath+", $XDG_CONFIG_HOME/quadterm/quadterm.toml,")
	fmt.Fprintln(out, "  ~/.config/quadterm/quadterm.toml, then the built-in four-quadrant layout")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Exit codes:")
	fmt.Fprintln(out, "  0 ok, 1 usage, 2 config, 3 missing tool, 4 launch failed, 130 interrupted")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Examples:")
	fmt.Fprintln(out, "  quadterm")
	fmt.Fprintln(out, "  quadterm --dryrun")
	fmt.Fprintln(out, "  quadterm --config ~/layouts/bench.yaml --watch")
}

func writeOption(out io.Writer, name, desc string) {
	fmt.Fprintf(out, "  %-20s %s\n", name, desc)
}
