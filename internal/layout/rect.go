// Package layout computes the screen rectangles windows are placed into.
package layout

import (
	"fmt"
	"strings"
)

// DefaultScreen is the resolution assumed when none is configured.
var DefaultScreen = Screen{Width: 1920, Height: 1080}

// Screen is the size of the drawable area in pixels.
type Screen struct {
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
}

func (s Screen) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Screen) Bounds() Rect {
	return Rect{Width: s.Width, Height: s.Height}
}

func (s Screen) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect is a window rectangle in screen coordinates.
type Rect struct {
	X      int `toml:"x" yaml:"x"`
	Y      int `toml:"y" yaml:"y"`
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
}

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) Right() int {
	return r.X + r.Width
}

func (r Rect) Bottom() int {
	return r.Y + r.Height
}

func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Within reports whether r lies entirely inside the screen.
func (r Rect) Within(screen Screen) bool {
	if r.Empty() {
		return false
	}
	return r.X >= 0 && r.Y >= 0 && r.Right() <= screen.Width && r.Bottom() <= screen.Height
}

// Overlaps reports whether r and other share any pixel. Touching edges do not overlap.
func (r Rect) Overlaps(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X < other.Right() && other.X < r.Right() &&
		r.Y < other.Bottom() && other.Y < r.Bottom()
}

// WMCtrlSpec renders the rectangle as a wmctrl -e argument: gravity,x,y,w,h.
func (r Rect) WMCtrlSpec(gravity int) string {
	return fmt.Sprintf("%d,%d,%d,%d,%d", gravity, r.X, r.Y, r.Width, r.Height)
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// ParseScreen parses "1920x1080".
func ParseScreen(value string) (Screen, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	var screen Screen
	if _, err := fmt.Sscanf(trimmed, "%dx%d", &screen.Width, &screen.Height); err != nil {
		return Screen{}, fmt.Errorf("invalid screen size %q: want WIDTHxHEIGHT", value)
	}
	if !screen.Valid() {
		return Screen{}, fmt.Errorf("invalid screen size %q: dimensions must be positive", value)
	}
	return screen, nil
}
