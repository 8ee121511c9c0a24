package desktop

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// DryRun prints commands instead of running them. It satisfies both
// CommandRunner and Spawner; every command succeeds with empty output.
type DryRun struct {
	mu      sync.Mutex
	out     io.Writer
	nextPID int
}

func NewDryRun(out io.Writer) *DryRun {
	if out == nil {
		out = io.Discard
	}
	return &DryRun{out: out, nextPID: 1000}
}

func (d *DryRun) Run(_ context.Context, name string, args []string) ([]byte, error) {
	d.print(name, args)
	return nil, nil
}

func (d *DryRun) Spawn(name string, args []string) (Process, error) {
	d.print(name, args)
	d.mu.Lock()
	d.nextPID++
	pid := d.nextPID
	d.mu.Unlock()
	return Process{Name: name, PID: pid}, nil
}

func (d *DryRun) print(name string, args []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, FormatCommand(name, args))
}

// FormatCommand renders argv for display, quoting where a shell would need it.
func FormatCommand(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteForDisplay(name))
	for _, arg := range args {
		parts = append(parts, quoteForDisplay(arg))
	}
	return strings.Join(parts, " ")
}

func quoteForDisplay(value string) string {
	if value == "" {
		return `""`
	}
	if !needsDisplayQuoting(value) {
		return value
	}
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + replacer.Replace(value) + `"`
}

func needsDisplayQuoting(value string) bool {
	for _, r := range value {
		switch r {
		case ' ', '\t', '\n', '\r', '"', '\\', ';', '$', '\'', '&', '|':
			return true
		}
	}
	return false
}
