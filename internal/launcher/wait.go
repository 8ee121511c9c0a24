package launcher

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"quadterm/internal/desktop"
	"quadterm/internal/logging"
)

// waitForWindow polls finder until exactly one window titled title appears
// that was not in existing. Zero matches keep polling until the lookup
// timeout; several new matches fail at once.
func (l *Launcher) waitForWindow(ctx context.Context, title string, existing []desktop.WindowID, logger *logging.Logger) (desktop.WindowID, error) {
	known := make(map[desktop.WindowID]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = l.opts.PollInitial
	policy.MaxInterval = l.opts.PollMax
	policy.MaxElapsedTime = l.opts.LookupTimeout
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.Reset()

	var (
		found    desktop.WindowID
		attempts int
	)
	lookup := func() error {
		attempts++
		ids, err := l.finder.Search(ctx, title)
		if err != nil {
			var toolErr *desktop.ToolError
			if errors.As(err, &toolErr) {
				return err
			}
			return backoff.Permanent(err)
		}
		var fresh []desktop.WindowID
		for _, id := range ids {
			if !known[id] {
				fresh = append(fresh, id)
			}
		}
		switch len(fresh) {
		case 0:
			return ErrWindowNotFound
		case 1:
			found = fresh[0]
			return nil
		default:
			return backoff.Permanent(fmt.Errorf("%w: %d windows titled %q", ErrAmbiguousWindow, len(fresh), title))
		}
	}
	onRetry := func(err error, next time.Duration) {
		logger.Debug("window not ready", map[string]string{
			"attempt": strconv.Itoa(attempts),
			"retry":   next.String(),
			"reason":  err.Error(),
		})
	}

	err := backoff.RetryNotify(lookup, backoff.WithContext(policy, ctx), onRetry)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		if errors.Is(err, ErrWindowNotFound) {
			return 0, fmt.Errorf("%w: %w: no window titled %q within %s (%d lookups)",
				ErrWindowTimeout, ErrWindowNotFound, title, l.opts.LookupTimeout, attempts)
		}
		return 0, err
	}
	logger.Debug("window found", map[string]string{
		"window":   found.String(),
		"attempts": strconv.Itoa(attempts),
	})
	return found, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
