// Package desktop drives the external programs quadterm relies on: a
// terminal emulator, xdotool and wmctrl.
package desktop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var ErrToolMissing = errors.New("required tool not found on PATH")

// CommandRunner runs a short-lived command and returns its combined output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string) ([]byte, error)
}

// NewRunner returns a runner backed by os/exec.
func NewRunner() CommandRunner {
	return execRunner{}
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args []string) ([]byte, error) {
	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if errors.Is(err, exec.ErrNotFound) {
		return output, fmt.Errorf("%w: %s", ErrToolMissing, name)
	}
	return output, err
}

// ToolError is a failed external command together with what it printed.
type ToolError struct {
	Tool    string
	Command string
	Output  string
	Err     error
}

func (e *ToolError) Error() string {
	if e == nil {
		return ""
	}
	if e.Output != "" {
		return fmt.Sprintf("%s %s failed: %s", e.Tool, e.Command, e.Output)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Tool, e.Command, e.Err)
}

func (e *ToolError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExitCode returns the tool's exit status, or -1 when it never ran.
func (e *ToolError) ExitCode() int {
	var exitErr *exec.ExitError
	if e != nil && errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func runTool(ctx context.Context, runner CommandRunner, tool string, args []string) ([]byte, error) {
	if runner == nil {
		return nil, fmt.Errorf("%s runner unavailable", tool)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	output, err := runner.Run(ctx, tool, args)
	if err != nil {
		if errors.Is(err, ErrToolMissing) {
			return output, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return output, ctxErr
		}
		command := ""
		if len(args) > 0 {
			command = args[0]
		}
		return output, &ToolError{
			Tool:    tool,
			Command: command,
			Output:  string(bytes.TrimSpace(output)),
			Err:     err,
		}
	}
	return output, nil
}

// CheckTools reports every named program missing from PATH.
func CheckTools(lookPath func(string) (string, error), names ...string) error {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	var missing []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if _, err := lookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrToolMissing, strings.Join(missing, ", "))
	}
	return nil
}
