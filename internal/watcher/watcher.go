// Package watcher reports changes to a single file. It watches the parent
// directory so editors that replace the file by renaming are still seen.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"quadterm/internal/logging"
)

const defaultDebounce = 150 * time.Millisecond

var ErrClosed = errors.New("watcher closed")

// Event is one debounced change to the watched file.
type Event struct {
	Path      string
	Op        fsnotify.Op
	Timestamp time.Time
}

type Options struct {
	Logger   *logging.Logger
	Debounce time.Duration
}

type Metrics struct {
	EventsDelivered uint64
	EventsDropped   uint64
	Errors          uint64
}

// FileWatcher delivers debounced events for one path on Events.
type FileWatcher struct {
	path      string
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	logger    *logging.Logger
	events    chan Event
	done      chan struct{}

	mutex  sync.Mutex
	closed bool

	eventsDelivered uint64
	eventsDropped   uint64
	errorCount      uint64
}

// WatchFile starts watching path. The file does not need to exist yet but
// its directory does.
func WatchFile(path string, options Options) (*FileWatcher, error) {
	if path == "" {
		return nil, errors.New("watch path is required")
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	source, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := source.Add(filepath.Dir(absolute)); err != nil {
		_ = source.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(absolute), err)
	}

	logger := options.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	debounce := options.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	instance := &FileWatcher{
		path:      absolute,
		watcher:   source,
		debouncer: newDebouncer(debounce),
		logger:    logger.With(map[string]string{"path": absolute}),
		events:    make(chan Event, 1),
		done:      make(chan struct{}),
	}
	go instance.run()
	return instance, nil
}

func (watcher *FileWatcher) Path() string {
	return watcher.path
}

// Events yields debounced changes. Changes that arrive while an event is
// still unread are folded into it.
func (watcher *FileWatcher) Events() <-chan Event {
	return watcher.events
}

// Close stops the watcher. It is safe to call more than once.
func (watcher *FileWatcher) Close() error {
	if watcher == nil {
		return nil
	}
	watcher.mutex.Lock()
	if watcher.closed {
		watcher.mutex.Unlock()
		return nil
	}
	watcher.closed = true
	watcher.debouncer.stop()
	watcher.mutex.Unlock()

	close(watcher.done)
	return watcher.watcher.Close()
}

func (watcher *FileWatcher) Metrics() Metrics {
	return Metrics{
		EventsDelivered: atomic.LoadUint64(&watcher.eventsDelivered),
		EventsDropped:   atomic.LoadUint64(&watcher.eventsDropped),
		Errors:          atomic.LoadUint64(&watcher.errorCount),
	}
}

func (watcher *FileWatcher) run() {
	for {
		select {
		case event, ok := <-watcher.watcher.Events:
			if !ok {
				return
			}
			watcher.handleEvent(event)
		case err, ok := <-watcher.watcher.Errors:
			if !ok {
				return
			}
			atomic.AddUint64(&watcher.errorCount, 1)
			watcher.logger.Warn("watch error", map[string]string{"error": err.Error()})
		case <-watcher.done:
			return
		}
	}
}

func (watcher *FileWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != watcher.path {
		return
	}
	if event.Op == fsnotify.Chmod {
		return
	}

	watcher.mutex.Lock()
	defer watcher.mutex.Unlock()
	if watcher.closed {
		return
	}
	entry := Event{
		Path:      watcher.path,
		Op:        event.Op,
		Timestamp: time.Now().UTC(),
	}
	if watcher.debouncer.schedule(entry, watcher.flush) {
		atomic.AddUint64(&watcher.eventsDropped, 1)
	}
}

func (watcher *FileWatcher) flush() {
	watcher.mutex.Lock()
	if watcher.closed {
		watcher.mutex.Unlock()
		return
	}
	event, ok := watcher.debouncer.pop()
	watcher.mutex.Unlock()
	if !ok {
		return
	}

	select {
	case watcher.events <- event:
		atomic.AddUint64(&watcher.eventsDelivered, 1)
		watcher.logger.Debug("file changed", map[string]string{"op": event.Op.String()})
	default:
		dropped := atomic.AddUint64(&watcher.eventsDropped, 1)
		watcher.logger.Debug("change folded into pending event", map[string]string{
			"dropped": strconv.FormatUint(dropped, 10),
		})
	}
}
