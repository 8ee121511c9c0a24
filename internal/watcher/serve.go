package watcher

import (
	"context"
)

// Handler reacts to a change of the watched file. A returned error is
// logged and the watcher keeps running.
type Handler func(ctx context.Context, event Event) error

// Serve calls handle for every event until ctx is done or the watcher is
// closed. It returns ctx.Err() or ErrClosed.
func Serve(ctx context.Context, watcher *FileWatcher, handle Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-watcher.done:
			return ErrClosed
		case event := <-watcher.events:
			if err := handle(ctx, event); err != nil {
				watcher.logger.Warn("change ignored", map[string]string{"error": err.Error()})
				continue
			}
			watcher.logger.Info("change applied", nil)
		}
	}
}
