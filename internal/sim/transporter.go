package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// RouteStep is one leg of a transporter route: a direction and a cell count.
// Level files write steps as "up 4", "left 2".
type RouteStep struct {
	Dir   Dir
	Count int
}

// String returns the level-file form of the step.
func (s RouteStep) String() string {
	return fmt.Sprintf("%s %d", s.Dir, s.Count)
}

// ParseRouteSteps parses the level-file route form. An empty route is
// rejected: a transporter that goes nowhere is a malformed level.
func ParseRouteSteps(steps []string) ([]RouteStep, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("empty route: %w", ErrBadRoute)
	}
	route := make([]RouteStep, 0, len(steps))
	for _, raw := range steps {
		fields := strings.Fields(raw)
		if len(fields) != 2 {
			return nil, fmt.Errorf("step %q: %w", raw, ErrBadRoute)
		}
		dir, ok := ParseDir(fields[0])
		if !ok {
			return nil, fmt.Errorf("step %q: bad direction: %w", raw, ErrBadRoute)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("step %q: bad count: %w", raw, ErrBadRoute)
		}
		route = append(route, RouteStep{Dir: dir, Count: n})
	}
	return route, nil
}

// sweepPath expands a route into the ordered list of cells it physically
// sweeps through, starting from (and including) the home cell. A route
// that leaves the grid fails with ErrOutOfBounds.
func sweepPath(dims Dims, start int, route []RouteStep) ([]int, error) {
	x, y, err := dims.Coords(start)
	if err != nil {
		return nil, err
	}
	path := []int{start}
	for _, st := range route {
		dx, dy := st.Dir.Delta()
		for i := 0; i < st.Count; i++ {
			x += dx
			y += dy
			idx, err := dims.Index(x, y)
			if err != nil {
				return nil, fmt.Errorf("route leaves grid at (%d,%d): %w", x, y, ErrOutOfBounds)
			}
			path = append(path, idx)
		}
	}
	return path, nil
}

// beginTraversal starts the ride. The session flips the riding Lem into
// external control; advanceTraversal then drives both each tick.
func (b *Block) beginTraversal() {
	if b.Kind != KindTransporter || b.Moving {
		return
	}
	b.Moving = true
	b.progress = 0
}

// advanceTraversal moves the platform by speed*dt cells along its path in
// the current direction. Returns the platform's (possibly new) cell and
// whether the traversal completed this tick. On completion the direction
// flips for the next use.
func (b *Block) advanceTraversal(speed, dt float64) (cell int, done bool) {
	if !b.Moving {
		return b.Index, true
	}
	b.progress += speed * dt
	for b.progress >= 1 {
		b.progress -= 1
		if b.Reversed {
			b.PathPos--
		} else {
			b.PathPos++
		}
		b.Index = b.Path[b.PathPos]
		if b.atRouteEnd() {
			b.Moving = false
			b.progress = 0
			b.Reversed = !b.Reversed
			return b.Index, true
		}
	}
	return b.Index, false
}

func (b *Block) atRouteEnd() bool {
	if b.Reversed {
		return b.PathPos == 0
	}
	return b.PathPos == len(b.Path)-1
}
