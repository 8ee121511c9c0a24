// Package launcher opens terminal windows and puts each one in its place:
// spawn, wait for the window, focus it, type the keystroke, confirm, then
// move and resize it.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"quadterm/internal/config"
	"quadterm/internal/desktop"
	"quadterm/internal/layout"
	"quadterm/internal/logging"
	"quadterm/internal/notify"
	"quadterm/internal/process"
)

const (
	ConfirmKey = "Return"

	defaultPollInitial   = 50 * time.Millisecond
	defaultPollMax       = 500 * time.Millisecond
	defaultLookupTimeout = 10 * time.Second
	cleanupTimeout       = 5 * time.Second

	// dryRunWindowBase is where synthesized dry-run window ids start.
	dryRunWindowBase = 0x04000001
)

type TerminalLauncher interface {
	Launch(title, command string) (desktop.Process, error)
}

type WindowFinder interface {
	Search(ctx context.Context, title string) ([]desktop.WindowID, error)
}

type InputDriver interface {
	Activate(ctx context.Context, id desktop.WindowID) error
	Type(ctx context.Context, text string) error
	Key(ctx context.Context, name string) error
}

type Geometry interface {
	MoveResize(ctx context.Context, id desktop.WindowID, rect layout.Rect) error
	Close(ctx context.Context, id desktop.WindowID) error
}

type ProcessTracker interface {
	Register(entry process.Entry)
	StopAll(ctx context.Context) error
}

type Deps struct {
	Terminal TerminalLauncher
	Finder   WindowFinder
	Input    InputDriver
	Geometry Geometry
	Tracker  ProcessTracker
	Logger   *logging.Logger
	Notifier notify.Sink
}

type Options struct {
	Settle           time.Duration
	PollInitial      time.Duration
	PollMax          time.Duration
	LookupTimeout    time.Duration
	Stagger          time.Duration
	DryRun           bool
	CleanupOnFailure bool
}

// OptionsFromTiming copies the configured timings.
func OptionsFromTiming(timing config.Timing) Options {
	return Options{
		Settle:        timing.Settle.Std(),
		PollInitial:   timing.PollInitial.Std(),
		PollMax:       timing.PollMax.Std(),
		LookupTimeout: timing.LookupTimeout.Std(),
		Stagger:       timing.Stagger.Std(),
	}
}

// Placement is a window that was opened and moved.
type Placement struct {
	Title    string
	WindowID desktop.WindowID
	Rect     layout.Rect
	PID      int
	Reused   bool
}

type Launcher struct {
	terminal TerminalLauncher
	finder   WindowFinder
	input    InputDriver
	geometry Geometry
	tracker  ProcessTracker
	logger   *logging.Logger
	notifier notify.Sink
	opts     Options
	limiter  *rate.Limiter

	mu        sync.Mutex
	nextDryID desktop.WindowID
}

func New(deps Deps, opts Options) (*Launcher, error) {
	if deps.Terminal == nil {
		return nil, errors.New("terminal launcher is required")
	}
	if deps.Finder == nil {
		return nil, errors.New("window finder is required")
	}
	if deps.Input == nil {
		return nil, errors.New("input driver is required")
	}
	if deps.Geometry == nil {
		return nil, errors.New("geometry driver is required")
	}
	if deps.Tracker == nil {
		deps.Tracker = process.NewRegistry()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Nop{}
	}
	opts = normalizeOptions(opts)

	limit := rate.Inf
	if opts.Stagger > 0 {
		limit = rate.Every(opts.Stagger)
	}
	return &Launcher{
		terminal:  deps.Terminal,
		finder:    deps.Finder,
		input:     deps.Input,
		geometry:  deps.Geometry,
		tracker:   deps.Tracker,
		logger:    deps.Logger,
		notifier:  deps.Notifier,
		opts:      opts,
		limiter:   rate.NewLimiter(limit, 1),
		nextDryID: dryRunWindowBase,
	}, nil
}

func normalizeOptions(opts Options) Options {
	if opts.PollInitial <= 0 {
		opts.PollInitial = defaultPollInitial
	}
	if opts.PollMax <= 0 {
		opts.PollMax = defaultPollMax
	}
	if opts.PollMax < opts.PollInitial {
		opts.PollMax = opts.PollInitial
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = defaultLookupTimeout
	}
	return opts
}

func (l *Launcher) Options() Options {
	return l.opts
}

// Place opens one terminal and moves it into target.Rect. Windows that
// already carry the title before the launch are never picked.
func (l *Launcher) Place(ctx context.Context, target config.Target) (Placement, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := l.logger.With(map[string]string{"title": target.Title})
	var id desktop.WindowID
	fail := func(step string, err error) (Placement, error) {
		return Placement{}, &PlaceError{Title: target.Title, Step: step, WindowID: id, Err: err}
	}

	var existing []desktop.WindowID
	if !l.opts.DryRun {
		ids, err := l.finder.Search(ctx, target.Title)
		if err != nil {
			return fail(StepLookup, err)
		}
		existing = ids
		if len(existing) > 0 {
			logger.Debug("ignoring existing windows with the same title", map[string]string{
				"count": strconv.Itoa(len(existing)),
			})
		}
	}

	proc, err := l.terminal.Launch(target.Title, target.Command)
	if err != nil {
		return fail(StepLaunch, err)
	}
	l.tracker.Register(process.Entry{PID: proc.PID, PGID: proc.PGID, Title: target.Title, Wait: proc.Wait})
	logger.Info("terminal started", map[string]string{
		"command": target.Command,
		"pid":     strconv.Itoa(proc.PID),
	})

	if err := sleepContext(ctx, l.opts.Settle); err != nil {
		return fail(StepLookup, err)
	}

	found, err := l.findWindow(ctx, target.Title, existing, logger)
	if err != nil {
		return fail(StepLookup, err)
	}
	id = found
	if err := l.activate(ctx, id); err != nil {
		return fail(StepActivate, err)
	}
	if err := l.input.Type(ctx, target.Keystroke); err != nil {
		return fail(StepType, err)
	}
	for i := 0; i < target.ConfirmPresses; i++ {
		if err := l.input.Key(ctx, ConfirmKey); err != nil {
			return fail(StepConfirm, err)
		}
	}
	if err := l.geometry.MoveResize(ctx, id, target.Rect); err != nil {
		return fail(StepMove, err)
	}

	logger.Info("window placed", map[string]string{
		"window": id.String(),
		"rect":   target.Rect.String(),
	})
	return Placement{
		Title:    target.Title,
		WindowID: id,
		Rect:     target.Rect,
		PID:      proc.PID,
	}, nil
}

// activate gives the window manager up to the lookup timeout to focus the
// window; xdotool --sync otherwise waits forever on some window managers.
func (l *Launcher) activate(ctx context.Context, id desktop.WindowID) error {
	activateCtx, cancel := context.WithTimeout(ctx, l.opts.LookupTimeout)
	defer cancel()
	err := l.input.Activate(activateCtx, id)
	if err != nil && ctx.Err() == nil && errors.Is(activateCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("window %s not active within %s: %w", id, l.opts.LookupTimeout, context.DeadlineExceeded)
	}
	return err
}

func (l *Launcher) findWindow(ctx context.Context, title string, existing []desktop.WindowID, logger *logging.Logger) (desktop.WindowID, error) {
	if !l.opts.DryRun {
		return l.waitForWindow(ctx, title, existing, logger)
	}
	// Dry runs print the lookup but no window will ever appear.
	if _, err := l.finder.Search(ctx, title); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextDryID
	l.nextDryID++
	return id, nil
}

// Run places targets one after another in list order. The first failure
// stops the run. Windows placed before it stay open unless CleanupOnFailure
// is set.
func (l *Launcher) Run(ctx context.Context, targets []config.Target) ([]Placement, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	placements := make([]Placement, 0, len(targets))
	for _, target := range targets {
		if err := l.limiter.Wait(ctx); err != nil {
			return placements, l.failed(ctx, placements, &PlaceError{Title: target.Title, Step: StepLaunch, Err: err})
		}
		placement, err := l.Place(ctx, target)
		if err != nil {
			return placements, l.failed(ctx, placements, err)
		}
		placements = append(placements, placement)
	}
	l.logger.Info("layout complete", map[string]string{"windows": strconv.Itoa(len(placements))})
	return placements, nil
}

func (l *Launcher) failed(ctx context.Context, placements []Placement, err error) error {
	l.logger.Error("launch failed", map[string]string{
		"error":  err.Error(),
		"placed": strconv.Itoa(len(placements)),
	})
	if notifyErr := l.notifier.Emit(ctx, notify.Event{
		Title:      "launch failed",
		Message:    err.Error(),
		Level:      notify.LevelError,
		OccurredAt: time.Now().UTC(),
	}); notifyErr != nil {
		l.logger.Warn("notification failed", map[string]string{"error": notifyErr.Error()})
	}
	if !l.opts.CleanupOnFailure || l.opts.DryRun {
		return err
	}
	var stranded *PlaceError
	if !errors.As(err, &stranded) || stranded.WindowID == 0 {
		stranded = nil
	}
	if cleanupErr := l.cleanup(ctx, placements, stranded); cleanupErr != nil {
		return errors.Join(err, cleanupErr)
	}
	return err
}

// cleanup closes the window that failed mid-placement, then placed windows
// newest first, then stops tracked processes. It runs even when ctx was
// canceled by a signal.
func (l *Launcher) cleanup(ctx context.Context, placements []Placement, stranded *PlaceError) error {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	var errs []error
	if stranded != nil {
		placements = append(append([]Placement(nil), placements...), Placement{Title: stranded.Title, WindowID: stranded.WindowID})
	}
	for i := len(placements) - 1; i >= 0; i-- {
		placement := placements[i]
		if err := l.geometry.Close(cleanupCtx, placement.WindowID); err != nil {
			errs = append(errs, &PlaceError{Title: placement.Title, Step: "close", Err: err})
			continue
		}
		l.logger.Info("window closed", map[string]string{"title": placement.Title, "window": placement.WindowID.String()})
	}
	if err := l.tracker.StopAll(cleanupCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Reflow moves windows that are already open to their targets and launches
// the ones that are missing. It keeps going past failures and returns them
// joined.
func (l *Launcher) Reflow(ctx context.Context, targets []config.Target) ([]Placement, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var (
		placements []Placement
		errs       []error
	)
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return placements, errors.Join(append(errs, err)...)
		}
		ids, err := l.finder.Search(ctx, target.Title)
		if err != nil {
			errs = append(errs, &PlaceError{Title: target.Title, Step: StepLookup, Err: err})
			continue
		}
		if len(ids) == 0 || l.opts.DryRun {
			placement, err := l.Place(ctx, target)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			placements = append(placements, placement)
			continue
		}
		if len(ids) > 1 {
			l.logger.Warn("several windows share a title; moving all of them", map[string]string{
				"title": target.Title,
				"count": strconv.Itoa(len(ids)),
			})
		}
		for _, id := range ids {
			if err := l.geometry.MoveResize(ctx, id, target.Rect); err != nil {
				errs = append(errs, &PlaceError{Title: target.Title, Step: StepMove, Err: err})
				continue
			}
			placements = append(placements, Placement{Title: target.Title, WindowID: id, Rect: target.Rect, Reused: true})
		}
	}
	return placements, errors.Join(errs...)
}
