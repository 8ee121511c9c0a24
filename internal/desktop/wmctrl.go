package desktop

import (
	"context"

	"quadterm/internal/layout"
)

const (
	wmctrlBinary = "wmctrl"

	// GravityDefault keeps the window's own gravity.
	GravityDefault = 0
)

// WMCtrl moves and closes windows through wmctrl.
type WMCtrl struct {
	runner CommandRunner
}

func NewWMCtrl(runner CommandRunner) *WMCtrl {
	if runner == nil {
		runner = NewRunner()
	}
	return &WMCtrl{runner: runner}
}

func (w *WMCtrl) MoveResize(ctx context.Context, id WindowID, rect layout.Rect) error {
	_, err := runTool(ctx, w.runner, wmctrlBinary, []string{"-i", "-r", id.Hex(), "-e", rect.WMCtrlSpec(GravityDefault)})
	return err
}

// Close asks the window to close gracefully.
func (w *WMCtrl) Close(ctx context.Context, id WindowID) error {
	_, err := runTool(ctx, w.runner, wmctrlBinary, []string{"-i", "-c", id.Hex()})
	return err
}
