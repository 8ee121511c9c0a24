package watcher

import (
	"time"
)

// debouncer holds the latest event until duration passes without another.
// Callers serialize access.
type debouncer struct {
	duration time.Duration
	timer    *time.Timer
	event    Event
	pending  bool
}

func newDebouncer(duration time.Duration) *debouncer {
	return &debouncer{duration: duration}
}

// schedule records event and restarts the quiet period. It reports whether
// an earlier pending event was replaced.
func (debouncer *debouncer) schedule(event Event, flush func()) bool {
	if debouncer == nil {
		return false
	}
	replaced := debouncer.pending
	debouncer.event = event
	debouncer.pending = true
	if debouncer.timer == nil {
		debouncer.timer = time.AfterFunc(debouncer.duration, flush)
	} else {
		debouncer.timer.Reset(debouncer.duration)
	}
	return replaced
}

func (debouncer *debouncer) pop() (Event, bool) {
	if debouncer == nil || !debouncer.pending {
		return Event{}, false
	}
	debouncer.pending = false
	return debouncer.event, true
}

func (debouncer *debouncer) stop() {
	if debouncer == nil {
		return
	}
	if debouncer.timer != nil {
		debouncer.timer.Stop()
	}
	debouncer.pending = false
}
