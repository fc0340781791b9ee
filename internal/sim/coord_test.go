package sim

import (
	"errors"
	"math"
	"testing"
)

func TestIndexCoordsRoundTrip(t *testing.T) {
	d := Dims{W: 7, H: 5, CellSize: 1}
	for y := 0; y < d.H; y++ {
		for x := 0; x < d.W; x++ {
			idx, err := d.Index(x, y)
			if err != nil {
				t.Fatalf("Index(%d,%d) failed: %v", x, y, err)
			}
			gx, gy, err := d.Coords(idx)
			if err != nil {
				t.Fatalf("Coords(%d) failed: %v", idx, err)
			}
			if gx != x || gy != y {
				t.Errorf("round trip (%d,%d) -> %d -> (%d,%d)", x, y, idx, gx, gy)
			}
		}
	}
}

func TestIndexOutOfBounds(t *testing.T) {
	d := Dims{W: 4, H: 4, CellSize: 1}
	cases := [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}, {4, 4}}
	for _, c := range cases {
		if _, err := d.Index(c[0], c[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Index(%d,%d): expected ErrOutOfBounds, got %v", c[0], c[1], err)
		}
	}
	if _, _, err := d.Coords(16); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Coords(16): expected ErrOutOfBounds, got %v", err)
	}
	if _, _, err := d.Coords(-1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Coords(-1): expected ErrOutOfBounds, got %v", err)
	}
}

func TestWorldPositionCentered(t *testing.T) {
	// A 4x2 grid of unit cells centers on world zero: the mean of all
	// cell centers must be the origin.
	d := Dims{W: 4, H: 2, CellSize: 1}
	var sx, sy float64
	for i := 0; i < d.CellCount(); i++ {
		wx, wy, err := d.WorldPosition(i)
		if err != nil {
			t.Fatalf("WorldPosition(%d) failed: %v", i, err)
		}
		sx += wx
		sy += wy
	}
	n := float64(d.CellCount())
	if math.Abs(sx/n) > 1e-9 || math.Abs(sy/n) > 1e-9 {
		t.Errorf("grid not centered: mean center (%f, %f)", sx/n, sy/n)
	}
}

func TestWorldPositionCellSize(t *testing.T) {
	d := Dims{W: 3, H: 3, CellSize: 2.5}
	x0, _, err := d.WorldPosition(0)
	if err != nil {
		t.Fatalf("WorldPosition(0) failed: %v", err)
	}
	x1, _, err := d.WorldPosition(1)
	if err != nil {
		t.Fatalf("WorldPosition(1) failed: %v", err)
	}
	if math.Abs((x1-x0)-2.5) > 1e-9 {
		t.Errorf("adjacent cell centers %f apart, want 2.5", x1-x0)
	}
}

func TestDirDeltaOpposite(t *testing.T) {
	for _, dir := range []Dir{DirUp, DirRight, DirDown, DirLeft} {
		dx, dy := dir.Delta()
		ox, oy := dir.Opposite().Delta()
		if dx != -ox || dy != -oy {
			t.Errorf("%s: opposite delta mismatch", dir)
		}
		parsed, ok := ParseDir(dir.String())
		if !ok || parsed != dir {
			t.Errorf("%s: parse round trip failed", dir)
		}
	}
}
