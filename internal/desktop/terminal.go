package desktop

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

const (
	PlaceholderTitle        = "{title}"
	PlaceholderCommand      = "{command}"
	PlaceholderShell        = "{shell}"
	PlaceholderShellCommand = "{shell_command}"

	defaultShell = "bash"
)

// terminalPresets are argv templates for emulators that need no configuration.
var terminalPresets = map[string][]string{
	"gnome-terminal": {"--title", PlaceholderTitle, "--", PlaceholderShell, "-c", PlaceholderShellCommand},
	"xterm":          {"-T", PlaceholderTitle, "-e", PlaceholderShell, "-c", PlaceholderShellCommand},
	"kitty":          {"--title", PlaceholderTitle, PlaceholderShell, "-c", PlaceholderShellCommand},
	"alacritty":      {"--title", PlaceholderTitle, "-e", PlaceholderShell, "-c", PlaceholderShellCommand},
}

// TerminalPresets lists emulators with a built-in argv template.
func TerminalPresets() []string {
	names := make([]string, 0, len(terminalPresets))
	for name := range terminalPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Terminal opens emulator windows running a command in a shell that stays
// open after the command exits.
type Terminal struct {
	Program string
	Args    []string
	Shell   string
	spawner Spawner
}

// NewTerminal resolves the argv template. Programs without a preset must
// supply args.
func NewTerminal(program string, args []string, shell string, spawner Spawner) (*Terminal, error) {
	program = strings.TrimSpace(program)
	if program == "" {
		return nil, errors.New("terminal program is required")
	}
	if len(args) == 0 {
		preset, ok := terminalPresets[filepath.Base(program)]
		if !ok {
			return nil, fmt.Errorf("terminal %q has no preset; set terminal.args (presets: %s)", program, strings.Join(TerminalPresets(), ", "))
		}
		args = preset
	}
	if !containsPlaceholder(args, PlaceholderShellCommand) && !containsPlaceholder(args, PlaceholderCommand) {
		return nil, fmt.Errorf("terminal args must reference %s or %s", PlaceholderShellCommand, PlaceholderCommand)
	}
	if strings.TrimSpace(shell) == "" {
		shell = defaultShell
	}
	if spawner == nil {
		spawner = NewSpawner()
	}
	return &Terminal{
		Program: program,
		Args:    append([]string(nil), args...),
		Shell:   strings.TrimSpace(shell),
		spawner: spawner,
	}, nil
}

// Argv expands the template for one window.
func (t *Terminal) Argv(title, command string) []string {
	replacer := strings.NewReplacer(
		PlaceholderTitle, title,
		PlaceholderShellCommand, ShellCommand(command, t.Shell),
		PlaceholderCommand, command,
		PlaceholderShell, t.Shell,
	)
	argv := make([]string, 0, len(t.Args))
	for _, arg := range t.Args {
		argv = append(argv, replacer.Replace(arg))
	}
	return argv
}

// Launch starts a window titled title running command.
func (t *Terminal) Launch(title, command string) (Process, error) {
	if t == nil || t.spawner == nil {
		return Process{}, errors.New("terminal unavailable")
	}
	return t.spawner.Spawn(t.Program, t.Argv(title, command))
}

// ShellCommand keeps the shell alive after command finishes.
func ShellCommand(command, shell string) string {
	if strings.TrimSpace(shell) == "" {
		shell = defaultShell
	}
	return command + "; exec " + shell
}

func containsPlaceholder(args []string, placeholder string) bool {
	for _, arg := range args {
		if strings.Contains(arg, placeholder) {
			return true
		}
	}
	return false
}
