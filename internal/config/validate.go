package config

import (
	"errors"
	"fmt"
	"strings"

	"quadterm/internal/layout"
)

type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks the configuration against a concrete screen and returns
// every problem found, joined.
func (c Config) Validate(screen layout.Screen) error {
	var errs []error
	add := func(path, format string, args ...any) {
		errs = append(errs, &ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if !screen.Valid() {
		add("screen", "invalid screen size %s", screen)
	}
	switch strings.ToLower(strings.TrimSpace(c.Lookup)) {
	case "", LookupXDoTool, LookupX11:
	default:
		add("lookup", "unknown lookup %q (want %s or %s)", c.Lookup, LookupXDoTool, LookupX11)
	}
	if strings.TrimSpace(c.Terminal.Program) == "" {
		add("terminal.program", "terminal program is required")
	}
	timings := []struct {
		key   string
		value Duration
	}{
		{"timing.settle", c.Timing.Settle},
		{"timing.poll_initial", c.Timing.PollInitial},
		{"timing.poll_max", c.Timing.PollMax},
		{"timing.lookup_timeout", c.Timing.LookupTimeout},
		{"timing.stagger", c.Timing.Stagger},
	}
	for _, timing := range timings {
		if timing.value < 0 {
			add(timing.key, "must not be negative, got %s", timing.value.Std())
		}
	}
	if c.Timing.PollMax > 0 && c.Timing.PollInitial > c.Timing.PollMax {
		add("timing.poll_initial", "must not exceed timing.poll_max")
	}

	if len(c.Windows) == 0 {
		add("window", "no windows configured")
	}
	seen := make(map[string]int, len(c.Windows))
	for i, window := range c.Windows {
		title := strings.TrimSpace(window.Title)
		if title == "" {
			add(windowPath(i, "title"), "title is required")
		} else if first, ok := seen[title]; ok {
			add(windowPath(i, "title"), "duplicate title %q (also window[%d])", title, first)
		} else {
			seen[title] = i
		}
		if strings.TrimSpace(window.Command) == "" {
			add(windowPath(i, "command"), "command is required")
		}
		if window.ConfirmPresses != nil && *window.ConfirmPresses < 0 {
			add(windowPath(i, "confirm_presses"), "must not be negative")
		}
	}
	if len(errs) > 0 || !screen.Valid() {
		return errors.Join(errs...)
	}

	targets, err := c.Targets(screen)
	if err != nil {
		return err
	}
	for i, target := range targets {
		if target.Rect.Empty() {
			add(windowPath(i, "rect"), "rect %s is empty", target.Rect)
			continue
		}
		if !target.Rect.Within(screen) {
			add(windowPath(i, "rect"), "rect %s is outside screen %s", target.Rect, screen)
		}
	}
	return errors.Join(errs...)
}

// OverlapWarnings describes windows whose rectangles overlap. Overlap is
// allowed but usually a mistake.
func OverlapWarnings(targets []Target) []string {
	rects := make([]layout.Rect, len(targets))
	for i, target := range targets {
		rects[i] = target.Rect
	}
	var warnings []string
	for _, pair := range layout.Overlapping(rects) {
		a, b := targets[pair[0]], targets[pair[1]]
		warnings = append(warnings, fmt.Sprintf("%q (%s) overlaps %q (%s)", a.Title, a.Rect, b.Title, b.Rect))
	}
	return warnings
}
