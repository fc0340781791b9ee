package sim

import (
	"errors"
	"testing"
)

func testDims() Dims {
	return Dims{W: 5, H: 5, CellSize: 1}
}

func TestPlaceAndOccupant(t *testing.T) {
	g := NewGrid(testDims())
	b, err := g.Place(BlockDescriptor{Kind: KindWalk, Index: 7}, false)
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if got := g.Occupant(7); got != b {
		t.Errorf("Occupant(7) = %v, want placed block", got)
	}
	if !b.Permanent {
		t.Error("designer placement should be permanent")
	}
	if err := g.CheckConsistency(); err != nil {
		t.Errorf("consistency: %v", err)
	}
}

func TestPlaceOccupied(t *testing.T) {
	g := NewGrid(testDims())
	if _, err := g.Place(BlockDescriptor{Kind: KindWalk, Index: 3}, false); err != nil {
		t.Fatalf("first place failed: %v", err)
	}
	_, err := g.Place(BlockDescriptor{Kind: KindCrumbler, Index: 3}, false)
	if !errors.Is(err, ErrCellOccupied) {
		t.Errorf("expected ErrCellOccupied, got %v", err)
	}
}

func TestPlaceOutOfBounds(t *testing.T) {
	g := NewGrid(testDims())
	if _, err := g.Place(BlockDescriptor{Kind: KindWalk, Index: 25}, false); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
	if _, err := g.Place(BlockDescriptor{Kind: KindWalk, Index: -1}, false); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestPlayerPlaceNeedsPlaceableFlag(t *testing.T) {
	g := NewGrid(testDims())
	if _, err := g.Place(BlockDescriptor{Kind: KindWalk, Index: 2}, true); !errors.Is(err, ErrNotPlaceable) {
		t.Errorf("expected ErrNotPlaceable, got %v", err)
	}
	if err := g.SetPlaceable(2, true); err != nil {
		t.Fatalf("SetPlaceable failed: %v", err)
	}
	b, err := g.Place(BlockDescriptor{Kind: KindWalk, Index: 2}, true)
	if err != nil {
		t.Fatalf("player place failed: %v", err)
	}
	if b.Permanent {
		t.Error("player placement must not be permanent")
	}
}

func TestPermanentBypassesPlaceableFlag(t *testing.T) {
	g := NewGrid(testDims())
	if _, err := g.Place(BlockDescriptor{Kind: KindLock, Index: 4}, false); err != nil {
		t.Errorf("permanent place on non-placeable cell failed: %v", err)
	}
}

func TestRemove(t *testing.T) {
	g := NewGrid(testDims())
	g.SetPlaceable(6, true)
	if _, err := g.Place(BlockDescriptor{Kind: KindCrumbler, Index: 6}, true); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	d, err := g.Remove(6, false)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if d.Kind != KindCrumbler || d.Index != 6 {
		t.Errorf("descriptor mismatch: %+v", d)
	}
	if g.Occupant(6) != nil {
		t.Error("cell should be empty after removal")
	}
	if _, err := g.Remove(6, false); !errors.Is(err, ErrEmptyCell) {
		t.Errorf("expected ErrEmptyCell, got %v", err)
	}
}

func TestRemovePermanentRefused(t *testing.T) {
	g := NewGrid(testDims())
	if _, err := g.Place(BlockDescriptor{Kind: KindWalk, Index: 8}, false); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if _, err := g.Remove(8, false); !errors.Is(err, ErrPermanentBlock) {
		t.Errorf("expected ErrPermanentBlock, got %v", err)
	}
	// The self-destruct override goes through.
	if _, err := g.Remove(8, true); err != nil {
		t.Errorf("override removal failed: %v", err)
	}
}

func TestTransporterRouteReservation(t *testing.T) {
	g := NewGrid(testDims())
	desc := BlockDescriptor{Kind: KindTransporter, Index: 0, RouteSteps: []string{"up 4"}}
	b, err := g.Place(desc, false)
	if err != nil {
		t.Fatalf("transporter place failed: %v", err)
	}
	// "up 4" from index 0 sweeps 5, 10, 15, 20.
	for _, idx := range []int{5, 10, 15, 20} {
		if got := g.Occupant(idx); got != b {
			t.Errorf("Occupant(%d) = %v, want reserving transporter", idx, got)
		}
		if _, err := g.Place(BlockDescriptor{Kind: KindWalk, Index: idx}, false); !errors.Is(err, ErrCellOccupied) {
			t.Errorf("reserved index %d: expected ErrCellOccupied, got %v", idx, err)
		}
	}
	if err := g.CheckConsistency(); err != nil {
		t.Errorf("consistency: %v", err)
	}

	// Removing the transporter (by a swept index, even) frees the route.
	if _, err := g.Remove(10, true); err != nil {
		t.Fatalf("remove via path index failed: %v", err)
	}
	for _, idx := range []int{0, 5, 10, 15, 20} {
		if g.Occupant(idx) != nil {
			t.Errorf("index %d still held after removal", idx)
		}
	}
}

func TestTransporterRouteBlocked(t *testing.T) {
	g := NewGrid(testDims())
	if _, err := g.Place(BlockDescriptor{Kind: KindWalk, Index: 10}, false); err != nil {
		t.Fatalf("obstacle place failed: %v", err)
	}
	desc := BlockDescriptor{Kind: KindTransporter, Index: 0, RouteSteps: []string{"up 4"}}
	if _, err := g.Place(desc, false); !errors.Is(err, ErrRouteBlocked) {
		t.Errorf("expected ErrRouteBlocked, got %v", err)
	}
	// The failed placement must leave nothing behind.
	if g.Occupant(0) != nil || g.Occupant(5) != nil {
		t.Error("failed placement leaked state")
	}
}

func TestTransporterRouteLeavesGrid(t *testing.T) {
	g := NewGrid(testDims())
	desc := BlockDescriptor{Kind: KindTransporter, Index: 22, RouteSteps: []string{"up 4"}}
	if _, err := g.Place(desc, false); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestTeleporterGroupValidation(t *testing.T) {
	g := NewGrid(testDims())
	if _, err := g.Place(BlockDescriptor{Kind: KindTeleporter, Index: 1, Flavor: "A"}, false); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if err := g.ValidateTeleporterGroups(nil); !errors.Is(err, ErrPairingInvalid) {
		t.Errorf("lone teleporter: expected ErrPairingInvalid, got %v", err)
	}
	// Mid-pair transactions are tolerated for open flavors.
	if err := g.ValidateTeleporterGroups(map[string]bool{"A": true}); err != nil {
		t.Errorf("open unit should allow lone member: %v", err)
	}
	if _, err := g.Place(BlockDescriptor{Kind: KindTeleporter, Index: 3, Flavor: "A"}, false); err != nil {
		t.Fatalf("second place failed: %v", err)
	}
	if err := g.ValidateTeleporterGroups(nil); err != nil {
		t.Errorf("complete pair should validate: %v", err)
	}
}

func TestResetClearsEverything(t *testing.T) {
	g := NewGrid(testDims())
	g.SetPlaceable(1, true)
	g.Place(BlockDescriptor{Kind: KindWalk, Index: 0}, false)
	g.Reset(Dims{W: 3, H: 3, CellSize: 1})
	if g.Occupant(0) != nil {
		t.Error("block survived reset")
	}
	if g.IsPlaceable(1) {
		t.Error("placeable flag survived reset")
	}
	if len(g.Blocks()) != 0 {
		t.Error("block registry survived reset")
	}
}
