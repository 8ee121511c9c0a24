//go:build windows

package process

import (
	"context"
	"os"
)

func stopProcess(ctx context.Context, pid, _ int, wait func(context.Context) error) error {
	if pid <= 0 {
		return nil
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return ErrProcessNotFound
	}
	if err := proc.Kill(); err != nil {
		return ErrProcessNotFound
	}
	if wait != nil {
		return wait(ctx)
	}
	return nil
}
