package sim

import (
	"errors"
	"reflect"
	"testing"
)

// walkRow builds a row of permanent walk blocks, leaving out the listed
// columns.
func walkRow(w, row int, skip ...int) []BlockDescriptor {
	skipped := make(map[int]bool)
	for _, c := range skip {
		skipped[c] = true
	}
	var blocks []BlockDescriptor
	for x := 0; x < w; x++ {
		if skipped[x] {
			continue
		}
		blocks = append(blocks, BlockDescriptor{Kind: KindWalk, Index: row*w + x})
	}
	return blocks
}

func loadSession(t *testing.T, d LevelDescription) *Session {
	t.Helper()
	s := NewSession(DefaultParams())
	if _, err := s.LoadLevel(d); err != nil {
		t.Fatalf("LoadLevel failed: %v", err)
	}
	return s
}

func TestLoadLevelBasics(t *testing.T) {
	d := LevelDescription{
		ID: "t1", Width: 10, Height: 10, CellSize: 1,
		Blocks:    walkRow(10, 0),
		Placeable: []int{11, 12},
		Lems:      []LemStart{{Index: 0, FacingRight: true}},
	}
	s := loadSession(t, d)
	if s.Mode() != ModeBuild {
		t.Errorf("fresh session mode = %s, want Build", s.Mode())
	}
	if len(s.Lems()) != 1 {
		t.Fatalf("lem count = %d, want 1", len(s.Lems()))
	}
	if s.Lems()[0].State != LemFrozen {
		t.Errorf("lems should load frozen, got %s", s.Lems()[0].State)
	}
	if !s.Grid().IsPlaceable(11) || !s.Grid().IsPlaceable(12) {
		t.Error("placeable flags not applied")
	}
}

func TestLoadLevelSkipsOutOfFitBlocks(t *testing.T) {
	d := LevelDescription{
		ID: "t2", Width: 4, Height: 4, CellSize: 1,
		Blocks: []BlockDescriptor{
			{Kind: KindWalk, Index: 0},
			{Kind: KindWalk, Index: 99}, // from a larger grid revision
			{Kind: KindTransporter, Index: 1, RouteSteps: []string{"up 9"}},
		},
	}
	s := NewSession(DefaultParams())
	warnings, err := s.LoadLevel(d)
	if err != nil {
		t.Fatalf("LoadLevel failed: %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %d, want 2 (index 99 and oversized route)", len(warnings))
	}
	if s.Grid().Occupant(0) == nil {
		t.Error("fitting block should still load")
	}
}

func TestLoadLevelReportsFailingBlock(t *testing.T) {
	d := LevelDescription{
		ID: "t3", Width: 4, Height: 4, CellSize: 1,
		Blocks: []BlockDescriptor{
			{Kind: KindWalk, Index: 2},
			{Kind: KindCrumbler, Index: 2},
		},
	}
	s := NewSession(DefaultParams())
	_, err := s.LoadLevel(d)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if le.Index != 2 || le.Kind != KindCrumbler {
		t.Errorf("LoadError names %s at %d, want crumbler at 2", le.Kind, le.Index)
	}
	if !errors.Is(err, ErrCellOccupied) {
		t.Errorf("LoadError should wrap ErrCellOccupied, got %v", err)
	}
}

func TestLoadLevelDanglingPermanentTeleporter(t *testing.T) {
	d := LevelDescription{
		ID: "t4", Width: 4, Height: 4, CellSize: 1,
		Blocks: []BlockDescriptor{{Kind: KindTeleporter, Index: 1, Flavor: "A"}},
	}
	s := NewSession(DefaultParams())
	if _, err := s.LoadLevel(d); !errors.Is(err, ErrPairingInvalid) {
		t.Errorf("expected ErrPairingInvalid, got %v", err)
	}
}

func TestPlacementPipeline(t *testing.T) {
	d := LevelDescription{
		ID: "t5", Width: 6, Height: 6, CellSize: 1,
		Placeable: []int{2, 3},
		Inventory: []InventoryEntryDesc{{EntryKey: "walk", Kind: KindWalk, MaxCount: 1}},
	}
	s := loadSession(t, d)

	if err := s.RequestPlace(2, "walk"); err != nil {
		t.Fatalf("RequestPlace failed: %v", err)
	}
	if got := s.Inventory().Remaining("walk"); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
	// Exhausted inventory is checked before the grid is touched.
	if err := s.RequestPlace(3, "walk"); !errors.Is(err, ErrInventoryExhausted) {
		t.Errorf("expected ErrInventoryExhausted, got %v", err)
	}
	// A grid rejection costs nothing.
	if err := s.RequestRemove(2); err != nil {
		t.Fatalf("RequestRemove failed: %v", err)
	}
	if err := s.RequestPlace(5, "walk"); !errors.Is(err, ErrNotPlaceable) {
		t.Errorf("expected ErrNotPlaceable, got %v", err)
	}
	if got := s.Inventory().Remaining("walk"); got != 1 {
		t.Errorf("failed placement should not consume, Remaining = %d", got)
	}
}

// Placing then immediately removing restores both grid occupancy and the
// inventory pool.
func TestPlaceRemoveRoundTrip(t *testing.T) {
	d := LevelDescription{
		ID: "t6", Width: 6, Height: 6, CellSize: 1,
		Placeable: []int{7},
		Inventory: []InventoryEntryDesc{{EntryKey: "crumbler", Kind: KindCrumbler, MaxCount: 2}},
	}
	s := loadSession(t, d)
	before := s.Inventory().Remaining("crumbler")

	if err := s.RequestPlace(7, "crumbler"); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if err := s.RequestRemove(7); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if s.Grid().Occupant(7) != nil {
		t.Error("occupancy not restored")
	}
	if got := s.Inventory().Remaining("crumbler"); got != before {
		t.Errorf("inventory not restored: %d != %d", got, before)
	}
	if err := s.Grid().CheckConsistency(); err != nil {
		t.Errorf("consistency: %v", err)
	}
}

func TestPairedTeleporterPlacementAndSimGate(t *testing.T) {
	d := LevelDescription{
		ID: "t7", Width: 6, Height: 6, CellSize: 1,
		Blocks:    walkRow(6, 0),
		Placeable: []int{8, 10},
		Inventory: []InventoryEntryDesc{
			{EntryKey: "tele-a", Kind: KindTeleporter, Flavor: "A", MaxCount: 1, PairUnit: true, UnitSize: 2},
		},
		Lems: []LemStart{{Index: 0, FacingRight: true}},
	}
	s := loadSession(t, d)

	if err := s.RequestPlace(8, "tele-a"); err != nil {
		t.Fatalf("first teleporter failed: %v", err)
	}
	// Entering simulation with a dangling half pair is refused.
	if err := s.EnterSimulate(); !errors.Is(err, ErrPairingInvalid) {
		t.Errorf("expected ErrPairingInvalid, got %v", err)
	}
	if err := s.RequestPlace(10, "tele-a"); err != nil {
		t.Fatalf("second teleporter failed: %v", err)
	}
	if err := s.EnterSimulate(); err != nil {
		t.Errorf("complete pair should simulate: %v", err)
	}
}

func TestThirdTeleporterOfPairedFlavorRefused(t *testing.T) {
	d := LevelDescription{
		ID: "t17", Width: 6, Height: 6, CellSize: 1,
		Blocks:    walkRow(6, 0),
		Placeable: []int{7, 9, 11},
		Inventory: []InventoryEntryDesc{
			{EntryKey: "tele-a", Kind: KindTeleporter, Flavor: "A", MaxCount: 2, PairUnit: true, UnitSize: 2},
		},
	}
	s := loadSession(t, d)
	if err := s.RequestPlace(7, "tele-a"); err != nil {
		t.Fatalf("first teleporter failed: %v", err)
	}
	if err := s.RequestPlace(9, "tele-a"); err != nil {
		t.Fatalf("second teleporter failed: %v", err)
	}

	// The flavor already resolves to a live pair. A third member is a
	// player mistake and must be a refused placement, never a panic.
	before := s.Inventory().Remaining("tele-a")
	if err := s.RequestPlace(11, "tele-a"); !errors.Is(err, ErrPairingInvalid) {
		t.Errorf("expected ErrPairingInvalid, got %v", err)
	}
	if after := s.Inventory().Remaining("tele-a"); after != before {
		t.Errorf("refused placement changed inventory: %d -> %d", before, after)
	}
	if n := s.Grid().FlavorCount(KindTeleporter, "A"); n != 2 {
		t.Errorf("live teleporters = %d, want 2", n)
	}
	if err := s.Grid().CheckConsistency(); err != nil {
		t.Errorf("grid inconsistent after refusal: %v", err)
	}
	if err := s.EnterSimulate(); err != nil {
		t.Errorf("paired flavor should still simulate: %v", err)
	}
}

func TestRemoveHalfOfPermanentPairRefused(t *testing.T) {
	d := LevelDescription{
		ID: "t8", Width: 6, Height: 6, CellSize: 1,
		Blocks: []BlockDescriptor{
			{Kind: KindTeleporter, Index: 1, Flavor: "A"},
			{Kind: KindTeleporter, Index: 4, Flavor: "A"},
		},
	}
	s := loadSession(t, d)
	if err := s.RequestRemove(1); !errors.Is(err, ErrPermanentBlock) {
		t.Errorf("expected ErrPermanentBlock, got %v", err)
	}
}

func TestModeGating(t *testing.T) {
	d := LevelDescription{
		ID: "t9", Width: 4, Height: 4, CellSize: 1,
		Placeable: []int{1},
		Inventory: []InventoryEntryDesc{{EntryKey: "walk", Kind: KindWalk, MaxCount: 1}},
	}
	s := loadSession(t, d)

	// Author-only operations refuse in build mode.
	if err := s.SetPlaceable(2, true); !errors.Is(err, ErrWrongMode) {
		t.Errorf("SetPlaceable in build: expected ErrWrongMode, got %v", err)
	}
	if err := s.AuthorPlace(BlockDescriptor{Kind: KindWalk, Index: 3}); !errors.Is(err, ErrWrongMode) {
		t.Errorf("AuthorPlace in build: expected ErrWrongMode, got %v", err)
	}

	if err := s.EnterAuthor(); err != nil {
		t.Fatalf("EnterAuthor failed: %v", err)
	}
	if err := s.AuthorPlace(BlockDescriptor{Kind: KindWalk, Index: 3}); err != nil {
		t.Errorf("AuthorPlace failed: %v", err)
	}
	if err := s.SetPlaceable(2, true); err != nil {
		t.Errorf("SetPlaceable failed: %v", err)
	}
	// Player placement refuses in author mode.
	if err := s.RequestPlace(1, "walk"); !errors.Is(err, ErrWrongMode) {
		t.Errorf("RequestPlace in author: expected ErrWrongMode, got %v", err)
	}
}

func TestUnload(t *testing.T) {
	d := LevelDescription{ID: "t10", Width: 4, Height: 4, CellSize: 1}
	s := loadSession(t, d)
	s.Unload()
	if s.Loaded() {
		t.Error("session still loaded after Unload")
	}
	if err := s.RequestPlace(0, "walk"); !errors.Is(err, ErrNoLevel) {
		t.Errorf("expected ErrNoLevel, got %v", err)
	}
	snap := s.Snapshot()
	if snap.LevelID != "" {
		t.Errorf("unloaded snapshot still names level %q", snap.LevelID)
	}
	if s.Level().ID != "" {
		t.Errorf("unloaded session still holds level %q", s.Level().ID)
	}
}

func TestZeroLockLevelNeverWon(t *testing.T) {
	d := LevelDescription{
		ID: "t11", Width: 10, Height: 10, CellSize: 1,
		Blocks: walkRow(10, 0),
		Lems:   []LemStart{{Index: 0, FacingRight: true}},
	}
	s := loadSession(t, d)
	s.EnterSimulate()
	for i := 0; i < 500; i++ {
		if ev := s.Step(); ev.Won {
			t.Fatal("zero-lock level reported win")
		}
	}
	if s.Won() {
		t.Error("Won() must stay false with no locks")
	}
}

func TestResetRunRestoresBoardAndLems(t *testing.T) {
	d := LevelDescription{
		ID: "t12", Width: 10, Height: 10, CellSize: 1,
		Blocks:    walkRow(10, 0, 5),
		Placeable: []int{5},
		Inventory: []InventoryEntryDesc{{EntryKey: "crumbler", Kind: KindCrumbler, MaxCount: 1}},
		Lems:      []LemStart{{Index: 0, FacingRight: true}},
	}
	s := loadSession(t, d)
	if err := s.RequestPlace(5, "crumbler"); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	s.EnterSimulate()

	// Run until the player's crumbler has been crossed and destroyed.
	crumbled := false
	for i := 0; i < 2000 && !crumbled; i++ {
		ev := s.Step()
		crumbled = len(ev.Crumbles) > 0
	}
	if !crumbled {
		t.Fatal("crumbler never destructed")
	}
	if s.Grid().Occupant(5) != nil {
		t.Fatal("crumbler still present after destruct")
	}

	if err := s.ResetRun(); err != nil {
		t.Fatalf("ResetRun failed: %v", err)
	}
	b := s.Grid().Occupant(5)
	if b == nil || b.Kind != KindCrumbler {
		t.Error("player crumbler not restored by ResetRun")
	}
	l := s.Lems()[0]
	if l.column() != 0 || l.Y != 0 || l.Facing != 1 {
		t.Errorf("lem not restored to start: col=%d y=%f facing=%d", l.column(), l.Y, l.Facing)
	}
	// The build still stands, so the inventory stays spent.
	if got := s.Inventory().Remaining("crumbler"); got != 0 {
		t.Errorf("ResetRun must not refund inventory, Remaining = %d", got)
	}
}

func TestStepReportsOccurrenceTick(t *testing.T) {
	d := LevelDescription{
		ID: "t18", Width: 10, Height: 10, CellSize: 1,
		Blocks: walkRow(10, 0),
		Lems:   []LemStart{{Index: 3, FacingRight: true}},
	}
	s := loadSession(t, d)
	s.EnterSimulate()
	for want := uint64(0); want < 3; want++ {
		ev := s.Step()
		if ev.Tick != want {
			t.Fatalf("event tick = %d, want %d", ev.Tick, want)
		}
		if s.Tick() != want+1 {
			t.Fatalf("session tick = %d, want %d", s.Tick(), want+1)
		}
	}
}

func TestStepOutsideSimulateIsNoOp(t *testing.T) {
	d := LevelDescription{
		ID: "t13", Width: 10, Height: 10, CellSize: 1,
		Blocks: walkRow(10, 0),
		Lems:   []LemStart{{Index: 3, FacingRight: true}},
	}
	s := loadSession(t, d)
	l := s.Lems()[0]
	x := l.X
	for i := 0; i < 50; i++ {
		s.Step()
	}
	if l.X != x {
		t.Error("lem moved outside simulation mode")
	}
}

func TestFreezeRestoresPreFreezeState(t *testing.T) {
	d := LevelDescription{
		ID: "t14", Width: 10, Height: 10, CellSize: 1,
		Blocks: walkRow(10, 0, 5), // gap at 5 so the lem ends up falling
		Lems:   []LemStart{{Index: 3, FacingRight: true}},
	}
	s := loadSession(t, d)
	s.EnterSimulate()
	l := s.Lems()[0]
	for i := 0; i < 2000 && l.State != LemFalling; i++ {
		s.Step()
	}
	if l.State != LemFalling {
		t.Fatal("lem never started falling")
	}
	s.ExitSimulate()
	if l.State != LemFrozen {
		t.Fatalf("lem not frozen, state = %s", l.State)
	}
	s.EnterSimulate()
	if l.State != LemFalling {
		t.Errorf("pre-freeze state not restored, got %s", l.State)
	}
}

func TestSnapshotMatchesLiveState(t *testing.T) {
	d := LevelDescription{
		ID: "t15", Width: 10, Height: 10, CellSize: 1,
		Blocks:    walkRow(10, 0),
		Placeable: []int{14},
		Inventory: []InventoryEntryDesc{{Kind: KindWalk, MaxCount: 1}},
		Lems:      []LemStart{{Index: 0, FacingRight: true}},
	}
	s := loadSession(t, d)
	if err := s.RequestPlace(14, s.Inventory().Keys()[0]); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	s.EnterSimulate()
	for i := 0; i < 120; i++ {
		s.Step()
	}

	snap := s.Snapshot()
	if snap.LevelID != "t15" || snap.Mode != ModeSimulate || snap.Tick != 120 {
		t.Errorf("snapshot header = %q/%s/%d", snap.LevelID, snap.Mode, snap.Tick)
	}
	if len(snap.Blocks) != 11 {
		t.Errorf("snapshot blocks = %d, want 11", len(snap.Blocks))
	}
	if len(snap.Lems) != 1 {
		t.Fatalf("snapshot lems = %d, want 1", len(snap.Lems))
	}
	l := s.Lems()[0]
	ls := snap.Lems[0]
	if ls.X != l.X || ls.Y != l.Y || ls.State != l.State || ls.Facing != l.Facing {
		t.Error("lem snapshot diverges from live agent")
	}
	if len(snap.Inventory) != 1 || snap.Inventory[0].Remaining != 0 {
		t.Errorf("inventory snapshot = %+v", snap.Inventory)
	}
}

func TestSnapshotEqualForIdenticalRuns(t *testing.T) {
	d := LevelDescription{
		ID: "t16", Width: 10, Height: 10, CellSize: 1,
		Blocks: walkRow(10, 0),
		Lems:   []LemStart{{Index: 2, FacingRight: true}},
	}
	a := loadSession(t, d)
	b := loadSession(t, d)
	a.EnterSimulate()
	b.EnterSimulate()
	for i := 0; i < 600; i++ {
		a.Step()
		b.Step()
	}
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Error("identically stepped sessions produced different snapshots")
	}
}
