package launcher

import (
	"errors"
	"fmt"

	"quadterm/internal/desktop"
)

var (
	ErrWindowNotFound  = errors.New("window not found")
	ErrWindowTimeout   = errors.New("timed out waiting for window")
	ErrAmbiguousWindow = errors.New("more than one new window matches title")
)

const (
	StepLaunch   = "launch"
	StepLookup   = "lookup"
	StepActivate = "activate"
	StepType     = "type"
	StepConfirm  = "confirm"
	StepMove     = "move"
)

// PlaceError records which step of placing a window failed. WindowID is
// set once the window was found, so it can still be closed.
type PlaceError struct {
	Title    string
	Step     string
	WindowID desktop.WindowID
	Err      error
}

func (e *PlaceError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %q: %v", e.Step, e.Title, e.Err)
}

func (e *PlaceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
