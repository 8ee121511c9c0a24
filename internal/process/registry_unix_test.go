//go:build !windows

package process

import (
	"context"
	"errors"
	"os/exec"
	"syscall"
	"testing"
	"time"
)

func startSleep(t *testing.T, duration string) *exec.Cmd {
	t.Helper()
	cmd := exec.Command("sleep", duration)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	return cmd
}

func TestRegistryStopsProcessGroup(t *testing.T) {
	cmd := startSleep(t, "10")
	defer func() {
		_ = cmd.Process.Kill()
	}()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	registry := NewRegistry()
	registry.Register(Entry{
		PID:   cmd.Process.Pid,
		PGID:  cmd.Process.Pid,
		Title: "Terminal 1",
		Wait: func(ctx context.Context) error {
			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := registry.StopAll(ctx); err != nil {
		t.Fatalf("stop all: %v", err)
	}
	if registry.Len() != 0 {
		t.Fatalf("expected registry to be empty")
	}
	if err := syscall.Kill(cmd.Process.Pid, 0); err == nil || errors.Is(err, syscall.EPERM) {
		t.Fatalf("expected process to exit")
	}
}

func TestRegistryIgnoresExitedProcess(t *testing.T) {
	cmd := startSleep(t, "0.1")
	_ = cmd.Wait()

	registry := NewRegistry()
	registry.Register(Entry{PID: cmd.Process.Pid, Title: "gone"})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := registry.StopAll(ctx); err != nil {
		t.Fatalf("stop all: %v", err)
	}
}
