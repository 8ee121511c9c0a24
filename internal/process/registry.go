// Package process tracks the terminals quadterm started so a failed run can
// take them down again.
package process

import (
	"context"
	"errors"
	"sync"
	"time"
)

const defaultStopTimeout = 3 * time.Second

var ErrProcessNotFound = errors.New("process not running")

type Entry struct {
	PID   int
	PGID  int
	Title string
	Wait  func(context.Context) error
}

type Registry struct {
	mu      sync.Mutex
	order   []int
	entries map[int]Entry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[int]Entry),
	}
}

func (r *Registry) Register(entry Entry) {
	if r == nil || entry.PID <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[entry.PID]; !exists {
		r.order = append(r.order, entry.PID)
	}
	r.entries[entry.PID] = entry
}

func (r *Registry) Unregister(pid int) {
	if r == nil || pid <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(pid)
}

// Entries returns registered processes in registration order.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0, len(r.order))
	for _, pid := range r.order {
		out = append(out, r.entries[pid])
	}
	return out
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// StopAll terminates every registered process group, newest first. Processes
// that already exited are not errors.
func (r *Registry) StopAll(ctx context.Context) error {
	if r == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	entries := r.Entries()

	var stopErr error
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if err := stopProcess(ctx, entry.PID, entry.PGID, entry.Wait); err != nil && !errors.Is(err, ErrProcessNotFound) {
			stopErr = errors.Join(stopErr, err)
		}
		r.Unregister(entry.PID)
	}
	return stopErr
}

func (r *Registry) removeLocked(pid int) {
	if _, ok := r.entries[pid]; !ok {
		return
	}
	delete(r.entries, pid)
	for i, candidate := range r.order {
		if candidate == pid {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
