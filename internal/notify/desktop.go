package notify

import (
	"context"
	"strings"

	"github.com/gen2brain/beeep"
)

const appName = "quadterm"

// DesktopSink shows events as desktop notifications through beeep.
// Errors use beeep.Alert, which also plays the system sound.
type DesktopSink struct {
	notify func(title, message string) error
	alert  func(title, message string) error
}

func NewDesktopSink() *DesktopSink {
	return &DesktopSink{
		notify: func(title, message string) error { return beeep.Notify(title, message, "") },
		alert:  func(title, message string) error { return beeep.Alert(title, message, "") },
	}
}

func (sink *DesktopSink) Emit(ctx context.Context, event Event) error {
	if sink == nil {
		return nil
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	title := strings.TrimSpace(event.Title)
	if title == "" {
		title = appName
	} else {
		title = appName + ": " + title
	}
	if event.Level == LevelError {
		return sink.alert(title, event.Message)
	}
	return sink.notify(title, event.Message)
}
