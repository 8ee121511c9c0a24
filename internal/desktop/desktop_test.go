package desktop

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"quadterm/internal/layout"
)

type toolCall struct {
	name string
	args []string
}

type fakeRunner struct {
	calls  []toolCall
	output []byte
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string) ([]byte, error) {
	f.calls = append(f.calls, toolCall{name: name, args: append([]string(nil), args...)})
	return f.output, f.err
}

func equalArgs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// exitError produces a real *exec.ExitError with the given status.
func exitError(t *testing.T, code string) error {
	t.Helper()
	err := exec.Command("sh", "-c", "exit "+code).Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected exit error, got %v", err)
	}
	return err
}

func TestXDoToolSearchParsesIDs(t *testing.T) {
	runner := &fakeRunner{output: []byte("62914563\n\n62914571\n")}
	xdo := NewXDoTool(runner)

	ids, err := xdo.Search(context.Background(), "Terminal 1")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(ids) != 2 || ids[0] != 62914563 || ids[1] != 62914571 {
		t.Fatalf("unexpected ids %v", ids)
	}
	want := []string{"search", "--name", `^Terminal 1$`}
	if runner.calls[0].name != "xdotool" || !equalArgs(runner.calls[0].args, want) {
		t.Fatalf("unexpected call %#v", runner.calls[0])
	}
}

func TestXDoToolSearchNoMatch(t *testing.T) {
	runner := &fakeRunner{err: exitError(t, "1")}
	ids, err := NewXDoTool(runner).Search(context.Background(), "Terminal 1")
	if err != nil {
		t.Fatalf("expected no error for empty search, got %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no ids, got %v", ids)
	}
}

func TestXDoToolSearchFailure(t *testing.T) {
	runner := &fakeRunner{output: []byte("Error: Can't open display: (null)\n"), err: exitError(t, "1")}
	_, err := NewXDoTool(runner).Search(context.Background(), "Terminal 1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "xdotool search failed: Error: Can't open display") {
		t.Fatalf("unexpected error %q", err)
	}
}

func TestXDoToolSearchUnparsableOutput(t *testing.T) {
	runner := &fakeRunner{output: []byte("not-a-window\n")}
	if _, err := NewXDoTool(runner).Search(context.Background(), "Terminal 1"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTitlePatternEscapes(t *testing.T) {
	if got := TitlePattern("build (x86)"); got != `^build \(x86\)$` {
		t.Fatalf("unexpected pattern %q", got)
	}
}

func TestXDoToolInput(t *testing.T) {
	runner := &fakeRunner{}
	xdo := NewXDoTool(runner)
	ctx := context.Background()

	if err := xdo.Activate(ctx, 42); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := xdo.Type(ctx, "b"); err != nil {
		t.Fatalf("type: %v", err)
	}
	if err := xdo.Type(ctx, ""); err != nil {
		t.Fatalf("type empty: %v", err)
	}
	if err := xdo.Key(ctx, "Return"); err != nil {
		t.Fatalf("key: %v", err)
	}

	expected := [][]string{
		{"windowactivate", "--sync", "42"},
		{"type", "--clearmodifiers", "--", "b"},
		{"key", "--clearmodifiers", "Return"},
	}
	if len(runner.calls) != len(expected) {
		t.Fatalf("expected %d calls, got %d", len(expected), len(runner.calls))
	}
	for i, want := range expected {
		if !equalArgs(runner.calls[i].args, want) {
			t.Fatalf("call %d: unexpected args %#v", i, runner.calls[i].args)
		}
	}
}

func TestWMCtrl(t *testing.T) {
	runner := &fakeRunner{}
	wm := NewWMCtrl(runner)
	ctx := context.Background()

	if err := wm.MoveResize(ctx, 0x3c00003, layout.Rect{X: 960, Y: 540, Width: 960, Height: 540}); err != nil {
		t.Fatalf("move resize: %v", err)
	}
	if err := wm.Close(ctx, 0x3c00003); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !equalArgs(runner.calls[0].args, []string{"-i", "-r", "0x03c00003", "-e", "0,960,540,960,540"}) {
		t.Fatalf("unexpected move args %#v", runner.calls[0].args)
	}
	if !equalArgs(runner.calls[1].args, []string{"-i", "-c", "0x03c00003"}) {
		t.Fatalf("unexpected close args %#v", runner.calls[1].args)
	}
}

func TestRunToolMissing(t *testing.T) {
	runner := &fakeRunner{err: errors.Join(ErrToolMissing, errors.New("wmctrl"))}
	err := NewWMCtrl(runner).Close(context.Background(), 1)
	if !errors.Is(err, ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
}

func TestRunToolCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &fakeRunner{err: errors.New("signal: killed")}
	err := NewXDoTool(runner).Activate(ctx, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCheckTools(t *testing.T) {
	lookPath := func(name string) (string, error) {
		if name == "xdotool" {
			return "/usr/bin/xdotool", nil
		}
		return "", exec.ErrNotFound
	}
	err := CheckTools(lookPath, "xdotool", "wmctrl", "gnome-terminal", "wmctrl")
	if !errors.Is(err, ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
	if !strings.HasSuffix(err.Error(), ": wmctrl, gnome-terminal") {
		t.Fatalf("unexpected error %q", err)
	}
	if err := CheckTools(lookPath, "xdotool"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestParseWindowID(t *testing.T) {
	cases := map[string]WindowID{"62914563": 62914563, "0x03c00003": 0x3c00003, " 7 ": 7}
	for raw, want := range cases {
		got, err := ParseWindowID(raw)
		if err != nil || got != want {
			t.Fatalf("parse %q: expected %d, got %d (%v)", raw, want, got, err)
		}
	}
	if _, err := ParseWindowID("0x1ffffffff"); err == nil {
		t.Fatalf("expected overflow error")
	}
}

type fakeSpawner struct {
	name string
	args []string
}

func (f *fakeSpawner) Spawn(name string, args []string) (Process, error) {
	f.name = name
	f.args = append([]string(nil), args...)
	return Process{Name: name, PID: 4242}, nil
}

func TestTerminalGnomePreset(t *testing.T) {
	spawner := &fakeSpawner{}
	term, err := NewTerminal("gnome-terminal", nil, "", spawner)
	if err != nil {
		t.Fatalf("new terminal: %v", err)
	}
	proc, err := term.Launch("Terminal 1", "tmotorui 29 vcan0")
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	if proc.PID != 4242 {
		t.Fatalf("unexpected pid %d", proc.PID)
	}
	want := []string{"--title", "Terminal 1", "--", "bash", "-c", "tmotorui 29 vcan0; exec bash"}
	if spawner.name != "gnome-terminal" || !equalArgs(spawner.args, want) {
		t.Fatalf("unexpected argv %s %#v", spawner.name, spawner.args)
	}
}

func TestTerminalCustomArgs(t *testing.T) {
	spawner := &fakeSpawner{}
	term, err := NewTerminal("/opt/bin/wezterm", []string{"start", "--class", "{title}", "--", "{shell}", "-lc", "{command}"}, "zsh", spawner)
	if err != nil {
		t.Fatalf("new terminal: %v", err)
	}
	got := term.Argv("logs", "tail -f /var/log/syslog")
	want := []string{"start", "--class", "logs", "--", "zsh", "-lc", "tail -f /var/log/syslog"}
	if !equalArgs(got, want) {
		t.Fatalf("unexpected argv %#v", got)
	}
}

func TestTerminalRejectsUnknownProgramWithoutArgs(t *testing.T) {
	if _, err := NewTerminal("wezterm", nil, "", nil); err == nil {
		t.Fatalf("expected error for unknown terminal")
	}
	if _, err := NewTerminal("xterm", []string{"-T", "{title}"}, "", nil); err == nil {
		t.Fatalf("expected error for args without a command placeholder")
	}
	if _, err := NewTerminal(" ", nil, "", nil); err == nil {
		t.Fatalf("expected error for empty program")
	}
}

func TestDryRunPrintsCommands(t *testing.T) {
	var out bytes.Buffer
	dry := NewDryRun(&out)
	term, err := NewTerminal("xterm", nil, "bash", dry)
	if err != nil {
		t.Fatalf("new terminal: %v", err)
	}
	if _, err := term.Launch("Terminal 2", "tmotorui 20 vcan0"); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if err := NewWMCtrl(dry).MoveResize(context.Background(), 1, layout.Rect{Width: 10, Height: 10}); err != nil {
		t.Fatalf("move: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out.String())
	}
	if lines[0] != `xterm -T "Terminal 2" -e bash -c "tmotorui 20 vcan0; exec bash"` {
		t.Fatalf("unexpected spawn line %q", lines[0])
	}
	if lines[1] != "wmctrl -i -r 0x00000001 -e 0,0,0,10,10" {
		t.Fatalf("unexpected wmctrl line %q", lines[1])
	}
}
