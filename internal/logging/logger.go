// Package logging writes leveled key/value log lines:
//
//	2026/10/17 09:12:44 level=info msg="window placed" rect="960x540+0+0" title="Terminal 1"
package logging

import (
	"io"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"
)

const timeLayout = "2006/01/02 15:04:05"

// Logger is safe for concurrent use. Loggers derived with With share the
// writer and its lock.
type Logger struct {
	sink   *sink
	min    Level
	fields map[string]string
}

type sink struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewLogger logs to stderr so stdout stays free for dry-run output.
func NewLogger(minLevel Level) *Logger {
	return New(os.Stderr, minLevel)
}

func New(w io.Writer, minLevel Level) *Logger {
	if w == nil {
		w = io.Discard
	}
	if !minLevel.known() {
		minLevel = LevelInfo
	}
	return &Logger{sink: &sink{w: w, now: time.Now}, min: minLevel}
}

func Discard() *Logger {
	return New(io.Discard, LevelError)
}

// With returns a logger that adds fields to every line.
func (l *Logger) With(fields map[string]string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sink: l.sink, min: l.min, fields: merge(l.fields, fields)}
}

func (l *Logger) Debug(message string, fields map[string]string) {
	l.write(LevelDebug, message, fields)
}

func (l *Logger) Info(message string, fields map[string]string) {
	l.write(LevelInfo, message, fields)
}

func (l *Logger) Warn(message string, fields map[string]string) {
	l.write(LevelWarning, message, fields)
}

func (l *Logger) Error(message string, fields map[string]string) {
	l.write(LevelError, message, fields)
}

func (l *Logger) Enabled(level Level) bool {
	return l != nil && level.severity() >= l.min.severity()
}

func (l *Logger) write(level Level, message string, fields map[string]string) {
	if !l.Enabled(level) {
		return
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	line := appendLine(nil, l.sink.now(), level, message, merge(l.fields, fields))
	_, _ = l.sink.w.Write(line)
}

func merge(base, extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return base
	}
	merged := make(map[string]string, len(base)+len(extra))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range extra {
		merged[key] = value
	}
	return merged
}

// appendLine renders one line; fields are sorted by key.
func appendLine(buf []byte, at time.Time, level Level, message string, fields map[string]string) []byte {
	buf = at.AppendFormat(buf, timeLayout)
	buf = append(buf, " level="...)
	buf = append(buf, string(level)...)
	buf = append(buf, " msg="...)
	buf = strconv.AppendQuote(buf, message)

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		buf = append(buf, ' ')
		buf = append(buf, key...)
		buf = append(buf, '=')
		buf = strconv.AppendQuote(buf, fields[key])
	}
	return append(buf, '\n')
}
