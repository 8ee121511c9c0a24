package desktop

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Process is a started program quadterm does not wait for.
type Process struct {
	Name string
	PID  int
	PGID int
	wait func(context.Context) error
}

// Wait blocks until the process exits or ctx is done.
func (p Process) Wait(ctx context.Context) error {
	if p.wait == nil {
		return nil
	}
	return p.wait(ctx)
}

// Spawner starts detached processes.
type Spawner interface {
	Spawn(name string, args []string) (Process, error)
}

func NewSpawner() Spawner {
	return execSpawner{}
}

type execSpawner struct{}

// Spawn starts name in its own process group so it survives quadterm and
// signals aimed at it. The child is reaped in the background.
func (execSpawner) Spawn(name string, args []string) (Process, error) {
	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = detachedAttr()
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return Process{}, fmt.Errorf("%w: %s", ErrToolMissing, name)
		}
		return Process{}, fmt.Errorf("start %s: %w", name, err)
	}

	done := make(chan struct{})
	var waitErr error
	go func() {
		waitErr = cmd.Wait()
		close(done)
	}()

	pid := cmd.Process.Pid
	return Process{
		Name: name,
		PID:  pid,
		PGID: groupOf(pid),
		wait: func(ctx context.Context) error {
			if ctx == nil {
				ctx = context.Background()
			}
			select {
			case <-done:
				return waitErr
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}, nil
}
