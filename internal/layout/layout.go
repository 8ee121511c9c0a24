package layout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	SlotTopLeft     = "top-left"
	SlotTopRight    = "top-right"
	SlotBottomLeft  = "bottom-left"
	SlotBottomRight = "bottom-right"
	SlotLeft        = "left"
	SlotRight       = "right"
	SlotTop         = "top"
	SlotBottom      = "bottom"
	SlotFull        = "full"
)

var ErrUnknownSlot = errors.New("unknown slot")

// Quadrants splits the screen into four equal rectangles ordered
// top-left, top-right, bottom-left, bottom-right.
func Quadrants(screen Screen) [4]Rect {
	w := screen.Width / 2
	h := screen.Height / 2
	return [4]Rect{
		{X: 0, Y: 0, Width: w, Height: h},
		{X: w, Y: 0, Width: w, Height: h},
		{X: 0, Y: h, Width: w, Height: h},
		{X: w, Y: h, Width: w, Height: h},
	}
}

// Grid splits the screen into cols*rows cells in row-major order. The last
// column and row absorb any remainder so the cells always cover the screen.
func Grid(screen Screen, cols, rows int) ([]Rect, error) {
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("grid %dx%d: cols and rows must be at least 1", cols, rows)
	}
	if !screen.Valid() {
		return nil, fmt.Errorf("grid on invalid screen %s", screen)
	}
	cellW := screen.Width / cols
	cellH := screen.Height / rows
	if cellW == 0 || cellH == 0 {
		return nil, fmt.Errorf("grid %dx%d does not fit screen %s", cols, rows, screen)
	}
	cells := make([]Rect, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cell := Rect{X: col * cellW, Y: row * cellH, Width: cellW, Height: cellH}
			if col == cols-1 {
				cell.Width = screen.Width - cell.X
			}
			if row == rows-1 {
				cell.Height = screen.Height - cell.Y
			}
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

// Slot resolves a named screen region.
func Slot(screen Screen, name string) (Rect, error) {
	q := Quadrants(screen)
	halfW := screen.Width / 2
	halfH := screen.Height / 2
	switch strings.ToLower(strings.TrimSpace(name)) {
	case SlotTopLeft:
		return q[0], nil
	case SlotTopRight:
		return q[1], nil
	case SlotBottomLeft:
		return q[2], nil
	case SlotBottomRight:
		return q[3], nil
	case SlotLeft:
		return Rect{Width: halfW, Height: screen.Height}, nil
	case SlotRight:
		return Rect{X: halfW, Width: screen.Width - halfW, Height: screen.Height}, nil
	case SlotTop:
		return Rect{Width: screen.Width, Height: halfH}, nil
	case SlotBottom:
		return Rect{Y: halfH, Width: screen.Width, Height: screen.Height - halfH}, nil
	case SlotFull:
		return screen.Bounds(), nil
	default:
		return Rect{}, fmt.Errorf("%w %q", ErrUnknownSlot, name)
	}
}

// SlotNames lists the names accepted by Slot.
func SlotNames() []string {
	names := []string{
		SlotTopLeft, SlotTopRight, SlotBottomLeft, SlotBottomRight,
		SlotLeft, SlotRight, SlotTop, SlotBottom, SlotFull,
	}
	sort.Strings(names)
	return names
}

// Tiles reports whether rects cover the screen exactly once: every rect is
// inside the screen, no two overlap, and the areas sum to the screen area.
func Tiles(screen Screen, rects []Rect) bool {
	total := 0
	for i, r := range rects {
		if !r.Within(screen) {
			return false
		}
		for _, other := range rects[i+1:] {
			if r.Overlaps(other) {
				return false
			}
		}
		total += r.Area()
	}
	return total == screen.Width*screen.Height
}

// Overlapping returns index pairs of rects that overlap.
func Overlapping(rects []Rect) [][2]int {
	var pairs [][2]int
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].Overlaps(rects[j]) {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}
