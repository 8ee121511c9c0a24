package desktop

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const xdotoolBinary = "xdotool"

// XDoTool finds windows and injects keyboard input through xdotool.
type XDoTool struct {
	runner CommandRunner
}

func NewXDoTool(runner CommandRunner) *XDoTool {
	if runner == nil {
		runner = NewRunner()
	}
	return &XDoTool{runner: runner}
}

// TitlePattern anchors the title so "Terminal 1" does not match "Terminal 10".
func TitlePattern(title string) string {
	return "^" + regexp.QuoteMeta(title) + "$"
}

// Search returns the windows whose name equals title. No match is not an error.
func (x *XDoTool) Search(ctx context.Context, title string) ([]WindowID, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("window title is required")
	}
	output, err := runTool(ctx, x.runner, xdotoolBinary, []string{"search", "--name", TitlePattern(title)})
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) && toolErr.ExitCode() == 1 && toolErr.Output == "" {
			return nil, nil
		}
		return nil, err
	}
	ids, err := parseWindowIDs(output)
	if err != nil {
		return nil, fmt.Errorf("xdotool search: %w", err)
	}
	return ids, nil
}

// Activate raises and focuses the window, waiting until the window manager agrees.
func (x *XDoTool) Activate(ctx context.Context, id WindowID) error {
	_, err := runTool(ctx, x.runner, xdotoolBinary, []string{"windowactivate", "--sync", id.String()})
	return err
}

// Type sends text to the focused window as keystrokes.
func (x *XDoTool) Type(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	_, err := runTool(ctx, x.runner, xdotoolBinary, []string{"type", "--clearmodifiers", "--", text})
	return err
}

// Key presses a named key such as Return.
func (x *XDoTool) Key(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("key name is required")
	}
	_, err := runTool(ctx, x.runner, xdotoolBinary, []string{"key", "--clearmodifiers", name})
	return err
}
