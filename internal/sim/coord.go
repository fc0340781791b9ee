// Package sim implements the grid simulation core for A Walk in the Park:
// a deterministic cell grid, typed placeable blocks, autonomous walking
// agents (Lems) and the inventory arbitration between them.
// This package is host-agnostic and deterministic: it never logs, never
// touches the terminal and never reads the clock.
package sim

import "fmt"

// Dims describes the immutable geometry of a loaded grid.
// Cells are addressed row-major: index = y*W + x. Y increases upward,
// so gravity decreases Y; renderers that draw top-down flip the rows.
type Dims struct {
	W        int
	H        int
	CellSize float64
}

// CellCount returns the number of addressable cells.
func (d Dims) CellCount() int {
	return d.W * d.H
}

// InBounds returns true if (x, y) addresses a valid cell.
func (d Dims) InBounds(x, y int) bool {
	return x >= 0 && x < d.W && y >= 0 && y < d.H
}

// IndexInBounds returns true if idx addresses a valid cell.
func (d Dims) IndexInBounds(idx int) bool {
	return idx >= 0 && idx < d.W*d.H
}

// Index converts (x, y) to a flat cell index.
// Fails with ErrOutOfBounds; it never clamps.
func (d Dims) Index(x, y int) (int, error) {
	if !d.InBounds(x, y) {
		return 0, fmt.Errorf("cell (%d,%d) in %dx%d grid: %w", x, y, d.W, d.H, ErrOutOfBounds)
	}
	return y*d.W + x, nil
}

// Coords converts a flat cell index back to (x, y).
// Fails with ErrOutOfBounds; it never clamps.
func (d Dims) Coords(idx int) (x, y int, err error) {
	if !d.IndexInBounds(idx) {
		return 0, 0, fmt.Errorf("index %d in %dx%d grid: %w", idx, d.W, d.H, ErrOutOfBounds)
	}
	return idx % d.W, idx / d.W, nil
}

// WorldPosition returns the world-space center of a cell. The origin is
// auto-centered: the whole grid is symmetric around world-space zero.
func (d Dims) WorldPosition(idx int) (wx, wy float64, err error) {
	x, y, err := d.Coords(idx)
	if err != nil {
		return 0, 0, err
	}
	ox := -float64(d.W)*d.CellSize/2 + d.CellSize/2
	oy := -float64(d.H)*d.CellSize/2 + d.CellSize/2
	return ox + float64(x)*d.CellSize, oy + float64(y)*d.CellSize, nil
}

// Dir is one of the four cardinal directions used by transporter routes.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// String returns the lowercase route-step name of the direction.
func (dir Dir) String() string {
	switch dir {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Delta returns the (dx, dy) offset for one step in this direction.
// Up increases Y (the grid is Y-up).
func (dir Dir) Delta() (dx, dy int) {
	switch dir {
	case DirUp:
		return 0, 1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, -1
	case DirLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction.
func (dir Dir) Opposite() Dir {
	switch dir {
	case DirUp:
		return DirDown
	case DirRight:
		return DirLeft
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return dir
	}
}

// ParseDir parses a route-step direction name.
func ParseDir(s string) (Dir, bool) {
	switch s {
	case "up":
		return DirUp, true
	case "right":
		return DirRight, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	default:
		return DirUp, false
	}
}
