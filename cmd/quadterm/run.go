package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"quadterm/internal/config"
	"quadterm/internal/desktop"
	"quadterm/internal/desktop/x11"
	"quadterm/internal/launcher"
	"quadterm/internal/layout"
	"quadterm/internal/logging"
	"quadterm/internal/notify"
	"quadterm/internal/process"
	"quadterm/internal/version"
	"quadterm/internal/watcher"
)

// display is the part of the X connection quadterm uses: window lookup and
// screen size.
type display interface {
	Search(ctx context.Context, title string) ([]desktop.WindowID, error)
	ScreenSize() (layout.Screen, error)
	Close()
}

type environment struct {
	getenv      func(string) string
	lookPath    func(string) (string, error)
	runner      desktop.CommandRunner
	spawner     desktop.Spawner
	openDisplay func() (display, error)
	notifier    notify.Sink
	signals     <-chan os.Signal
}

func defaultEnvironment(signals <-chan os.Signal) environment {
	return environment{
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		runner:   desktop.NewRunner(),
		spawner:  desktop.NewSpawner(),
		openDisplay: func() (display, error) {
			finder, err := x11.Open("")
			if err != nil {
				return nil, err
			}
			return finder, nil
		},
		signals: signals,
	}
}

func runWithEnv(args []string, out io.Writer, errOut io.Writer, env environment) int {
	cfg, err := parseArgs(args, errOut, env.getenv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(errOut, err)
		return exitUsage
	}
	if cfg.ShowVersion {
		fmt.Fprintln(out, version.Banner("quadterm"))
		return exitOK
	}

	logger := logging.New(errOut, cfg.LogLevel)

	conf, source, err := config.LoadSource(config.Locate(cfg.ConfigPath, env.getenv))
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitConfig
	}
	logger.Debug("config loaded", map[string]string{"source": source.String()})

	if cfg.PrintConfig != "" {
		if err := config.Encode(out, conf, cfg.PrintConfig); err != nil {
			fmt.Fprintln(errOut, err)
			return exitConfig
		}
		return exitOK
	}
	if cfg.Watch && source.Path == "" {
		fmt.Fprintln(errOut, "--watch needs a config file; pass --config or set "+config.EnvConfigPath)
		return exitUsage
	}

	var x display
	defer func() {
		if x != nil {
			x.Close()
		}
	}()
	openDisplay := func() (display, error) {
		if x != nil {
			return x, nil
		}
		if env.openDisplay == nil {
			return nil, errors.New("no X display available")
		}
		opened, err := env.openDisplay()
		if err != nil {
			return nil, err
		}
		x = opened
		return x, nil
	}

	screen, err := resolveScreen(conf, cfg.DryRun, openDisplay, logger)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitConfig
	}
	targets, err := prepareTargets(conf, screen, logger)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitConfig
	}

	runner := env.runner
	spawner := env.spawner
	if cfg.DryRun {
		dry := desktop.NewDryRun(out)
		runner = dry
		spawner = dry
	} else {
		tools := []string{conf.Terminal.Program, "xdotool", "wmctrl"}
		if err := desktop.CheckTools(env.lookPath, tools...); err != nil {
			fmt.Fprintln(errOut, err)
			return exitMissingTool
		}
	}

	terminal, err := desktop.NewTerminal(conf.Terminal.Program, conf.Terminal.Args, conf.Terminal.Shell, spawner)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitConfig
	}
	xdotool := desktop.NewXDoTool(runner)
	var finder launcher.WindowFinder = xdotool
	if strings.EqualFold(strings.TrimSpace(conf.Lookup), config.LookupX11) && !cfg.DryRun {
		opened, err := openDisplay()
		if err != nil {
			fmt.Fprintln(errOut, err)
			return exitConfig
		}
		finder = opened
	}

	notifier := env.notifier
	if notifier == nil {
		notifier = notify.Nop{}
		if conf.Notify && !cfg.DryRun {
			notifier = notify.NewDesktopSink()
		}
	}

	opts := launcher.OptionsFromTiming(conf.Timing)
	if cfg.Timeout > 0 {
		opts.LookupTimeout = cfg.Timeout
	}
	opts.DryRun = cfg.DryRun
	opts.CleanupOnFailure = cfg.CleanupOnFailure

	l, err := launcher.New(launcher.Deps{
		Terminal: terminal,
		Finder:   finder,
		Input:    xdotool,
		Geometry: desktop.NewWMCtrl(runner),
		Tracker:  process.NewRegistry(),
		Logger:   logger,
		Notifier: notifier,
	}, opts)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitConfig
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopSignals := watchSignals(logger, cancel, env.signals)
	defer stopSignals()

	if cfg.Reflow {
		_, err = l.Reflow(ctx, targets)
	} else {
		_, err = l.Run(ctx, targets)
	}
	if err != nil {
		fmt.Fprintln(errOut, err)
		if ctx.Err() != nil {
			return exitInterrupted
		}
		if errors.Is(err, desktop.ErrToolMissing) {
			return exitMissingTool
		}
		return exitLaunch
	}

	if !cfg.Watch {
		return exitOK
	}
	return watchConfig(ctx, source.Path, screen, l, logger, errOut)
}

func resolveScreen(conf config.Config, dryRun bool, openDisplay func() (display, error), logger *logging.Logger) (layout.Screen, error) {
	screen, auto, err := conf.ScreenSize()
	if err != nil {
		return layout.Screen{}, err
	}
	if !auto {
		return screen, nil
	}
	x, err := openDisplay()
	if err == nil {
		screen, err = x.ScreenSize()
	}
	if err != nil {
		if dryRun {
			logger.Warn("screen size unavailable; using default", map[string]string{
				"screen": layout.DefaultScreen.String(),
				"error":  err.Error(),
			})
			return layout.DefaultScreen, nil
		}
		return layout.Screen{}, fmt.Errorf("screen = %q: %w", config.ScreenAuto, err)
	}
	logger.Debug("screen detected", map[string]string{"screen": screen.String()})
	return screen, nil
}

func prepareTargets(conf config.Config, screen layout.Screen, logger *logging.Logger) ([]config.Target, error) {
	if err := conf.Validate(screen); err != nil {
		return nil, fmt.Errorf("invalid config:\n%s", indent(err.Error()))
	}
	targets, err := conf.Targets(screen)
	if err != nil {
		return nil, err
	}
	for _, warning := range config.OverlapWarnings(targets) {
		logger.Warn(warning, nil)
	}
	return targets, nil
}

func watchConfig(ctx context.Context, path string, screen layout.Screen, l *launcher.Launcher, logger *logging.Logger, errOut io.Writer) int {
	fileWatcher, err := watcher.WatchFile(path, watcher.Options{Logger: logger})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitConfig
	}
	defer fileWatcher.Close()
	logger.Info("watching config", map[string]string{"path": fileWatcher.Path()})

	err = watcher.Serve(ctx, fileWatcher, func(ctx context.Context, _ watcher.Event) error {
		conf, err := config.Load(path)
		if err != nil {
			return err
		}
		current, auto, err := conf.ScreenSize()
		if err != nil {
			return err
		}
		if auto {
			current = screen
		}
		targets, err := prepareTargets(conf, current, logger)
		if err != nil {
			return err
		}
		_, err = l.Reflow(ctx, targets)
		return err
	})
	if errors.Is(err, context.Canceled) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitLaunch
	}
	return exitOK
}

func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
