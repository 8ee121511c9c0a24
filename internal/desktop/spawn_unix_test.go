//go:build !windows

package desktop

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSpawnDetachesAndReaps(t *testing.T) {
	proc, err := NewSpawner().Spawn("sh", []string{"-c", "exit 0"})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if proc.PID <= 0 {
		t.Fatalf("expected pid, got %d", proc.PID)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := proc.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestSpawnMissingBinary(t *testing.T) {
	_, err := NewSpawner().Spawn("quadterm-definitely-missing-terminal", nil)
	if !errors.Is(err, ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
}
