// Package config describes which terminals quadterm opens and where they go.
//
// Configuration is read from TOML or YAML. Without a file the embedded
// defaults apply: four terminals, one per quadrant of a 1920x1080 screen.
package config

import (
	"fmt"
	"strings"
	"time"

	"quadterm/internal/layout"
)

const (
	LookupXDoTool = "xdotool"
	LookupX11     = "x11"

	// ScreenAuto asks the X server for the root window size.
	ScreenAuto = "auto"

	DefaultConfirmPresses = 2
)

type Config struct {
	Screen   string   `toml:"screen" yaml:"screen"`
	Lookup   string   `toml:"lookup" yaml:"lookup"`
	Notify   bool     `toml:"notify" yaml:"notify"`
	Terminal Terminal `toml:"terminal" yaml:"terminal"`
	Timing   Timing   `toml:"timing" yaml:"timing"`
	Windows  []Window `toml:"window" yaml:"windows"`
}

// Terminal selects the emulator. Args is an argv template; see desktop.Terminal.
type Terminal struct {
	Program string   `toml:"program" yaml:"program"`
	Args    []string `toml:"args,omitempty" yaml:"args,omitempty"`
	Shell   string   `toml:"shell" yaml:"shell"`
}

type Timing struct {
	Settle        Duration `toml:"settle" yaml:"settle"`
	PollInitial   Duration `toml:"poll_initial" yaml:"poll_initial"`
	PollMax       Duration `toml:"poll_max" yaml:"poll_max"`
	LookupTimeout Duration `toml:"lookup_timeout" yaml:"lookup_timeout"`
	Stagger       Duration `toml:"stagger" yaml:"stagger"`
}

// Window is one terminal to open. Rect takes precedence over Slot; with
// neither set the window gets the quadrant matching its position in the list.
type Window struct {
	Title          string       `toml:"title" yaml:"title"`
	Command        string       `toml:"command" yaml:"command"`
	Keystroke      string       `toml:"keystroke" yaml:"keystroke"`
	Slot           string       `toml:"slot,omitempty" yaml:"slot,omitempty"`
	Rect           *layout.Rect `toml:"rect,omitempty" yaml:"rect,omitempty"`
	ConfirmPresses *int         `toml:"confirm_presses,omitempty" yaml:"confirm_presses,omitempty"`
}

// Target is a window with its rectangle resolved against a screen.
type Target struct {
	Title          string
	Command        string
	Keystroke      string
	Rect           layout.Rect
	ConfirmPresses int
}

// Duration reads and writes Go duration strings such as "250ms".
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q", raw)
	}
	*d = Duration(parsed)
	return nil
}

// ScreenSize parses Screen. For "auto" it reports true and leaves detection
// to the caller.
func (c Config) ScreenSize() (layout.Screen, bool, error) {
	value := strings.TrimSpace(c.Screen)
	if value == "" {
		return layout.DefaultScreen, false, nil
	}
	if strings.EqualFold(value, ScreenAuto) {
		return layout.Screen{}, true, nil
	}
	screen, err := layout.ParseScreen(value)
	if err != nil {
		return layout.Screen{}, false, err
	}
	return screen, false, nil
}

// Targets resolves every window's rectangle for the given screen, in list order.
func (c Config) Targets(screen layout.Screen) ([]Target, error) {
	quadrants := layout.Quadrants(screen)
	targets := make([]Target, 0, len(c.Windows))
	for i, window := range c.Windows {
		rect, err := window.resolveRect(screen, i, quadrants)
		if err != nil {
			return nil, &ValidationError{Path: windowPath(i, "slot"), Message: err.Error()}
		}
		presses := DefaultConfirmPresses
		if window.ConfirmPresses != nil {
			presses = *window.ConfirmPresses
		}
		targets = append(targets, Target{
			Title:          strings.TrimSpace(window.Title),
			Command:        window.Command,
			Keystroke:      window.Keystroke,
			Rect:           rect,
			ConfirmPresses: presses,
		})
	}
	return targets, nil
}

func (w Window) resolveRect(screen layout.Screen, index int, quadrants [4]layout.Rect) (layout.Rect, error) {
	if w.Rect != nil {
		return *w.Rect, nil
	}
	if strings.TrimSpace(w.Slot) != "" {
		return layout.Slot(screen, w.Slot)
	}
	if index < len(quadrants) {
		return quadrants[index], nil
	}
	return layout.Rect{}, fmt.Errorf("no rect or slot and no quadrant left for window %d", index+1)
}

func windowPath(index int, key string) string {
	return fmt.Sprintf("window[%d].%s", index, key)
}
