package sim

import (
	"fmt"
	"sort"
)

// cell is one grid slot. A cell is unavailable for placement when it has
// an occupant or when a transporter's route reserves it.
type cell struct {
	occupant   *Block
	reservedBy *Block
	placeable  bool
}

// Grid is the single source of truth for occupancy. It exclusively owns
// block existence; the placement/removal pipeline is the only mutation
// path and everything else reads through queries.
type Grid struct {
	dims   Dims
	cells  []cell
	blocks map[int]*Block // live blocks by ID
	nextID int
}

// NewGrid creates an empty grid. All cells start non-placeable; the level
// loader flags placeable spaces explicitly.
func NewGrid(dims Dims) *Grid {
	g := &Grid{}
	g.Reset(dims)
	return g
}

// Reset clears all cells and destroys all blocks. Dimensions are immutable
// between resets; a dimension change is exactly this full reset.
func (g *Grid) Reset(dims Dims) {
	g.dims = dims
	g.cells = make([]cell, dims.CellCount())
	g.blocks = make(map[int]*Block)
	g.nextID = 1
}

// Dims returns the grid geometry.
func (g *Grid) Dims() Dims {
	return g.dims
}

// Occupant returns the block occupying or reserving idx, or nil. Reserved
// cells count as occupied: they reject placements and report their
// reserving transporter here.
func (g *Grid) Occupant(idx int) *Block {
	if !g.dims.IndexInBounds(idx) {
		return nil
	}
	c := g.cells[idx]
	if c.occupant != nil {
		return c.occupant
	}
	return c.reservedBy
}

// SupportAt returns the block a Lem can stand on at idx, or nil. Unlike
// Occupant, a transporter only supports its current route cell, and
// trigger-volume blocks (key, lock) never support.
func (g *Grid) SupportAt(idx int) *Block {
	b := g.Occupant(idx)
	if b == nil || !b.PresentAt(idx) || !b.Solid() {
		return nil
	}
	return b
}

// TriggerAt returns the trigger-volume block (key or lock) at idx, or nil.
// Lems contact these through their body cell rather than their feet.
func (g *Grid) TriggerAt(idx int) *Block {
	b := g.Occupant(idx)
	if b == nil || !b.PresentAt(idx) || b.Solid() {
		return nil
	}
	return b
}

// IsPlaceable reports whether the player may build at idx.
func (g *Grid) IsPlaceable(idx int) bool {
	if !g.dims.IndexInBounds(idx) {
		return false
	}
	return g.cells[idx].placeable
}

// SetPlaceable flags a cell as player-buildable. Author-time only; the
// session gates the mode.
func (g *Grid) SetPlaceable(idx int, placeable bool) error {
	if !g.dims.IndexInBounds(idx) {
		return fmt.Errorf("index %d: %w", idx, ErrOutOfBounds)
	}
	g.cells[idx].placeable = placeable
	return nil
}

// Place validates and commits a block placement. fromPlayer selects the
// player-build rules: the target must be flagged placeable and the block
// is recorded as removable. Designer placement bypasses the placeable
// check and produces a permanent block.
//
// Checks run in order and short-circuit: bounds, occupancy (including
// reservations), placeable flag, then the kind's own veto.
func (g *Grid) Place(d BlockDescriptor, fromPlayer bool) (*Block, error) {
	if !g.dims.IndexInBounds(d.Index) {
		return nil, fmt.Errorf("index %d: %w", d.Index, ErrOutOfBounds)
	}
	if occ := g.Occupant(d.Index); occ != nil {
		return nil, fmt.Errorf("index %d held by %s: %w", d.Index, occ, ErrCellOccupied)
	}
	if fromPlayer && !g.cells[d.Index].placeable {
		return nil, fmt.Errorf("index %d: %w", d.Index, ErrNotPlaceable)
	}
	d.Permanent = !fromPlayer

	b, err := newBlock(g.nextID, d, g.dims)
	if err != nil {
		return nil, err
	}
	if err := b.canPlaceAt(g); err != nil {
		return nil, err
	}

	// Commit. A non-empty target here means the validation above raced
	// with another writer, which cannot happen in this single-owner
	// design; treat it as pipeline corruption.
	if g.cells[d.Index].occupant != nil {
		panic(fmt.Sprintf("sim: double occupancy at index %d", d.Index))
	}
	g.nextID++
	g.blocks[b.ID] = b
	g.cells[d.Index].occupant = b
	for _, idx := range b.BlockedIndices() {
		if g.cells[idx].occupant != nil || g.cells[idx].reservedBy != nil {
			panic(fmt.Sprintf("sim: reservation clash at index %d", idx))
		}
		g.cells[idx].reservedBy = b
	}
	return b, nil
}

// Remove validates and commits a block removal at idx, returning the
// removed block's descriptor so the inventory can credit it back.
// allowPermanent is the self-destruct override: block behaviors (crumbler,
// key pickup) destroy through here regardless of permanence, while the
// player-removal path keeps it false.
func (g *Grid) Remove(idx int, allowPermanent bool) (BlockDescriptor, error) {
	if !g.dims.IndexInBounds(idx) {
		return BlockDescriptor{}, fmt.Errorf("index %d: %w", idx, ErrOutOfBounds)
	}
	b := g.Occupant(idx)
	if b == nil {
		return BlockDescriptor{}, fmt.Errorf("index %d: %w", idx, ErrEmptyCell)
	}
	if b.Permanent && !allowPermanent {
		return BlockDescriptor{}, fmt.Errorf("index %d: %w", idx, ErrPermanentBlock)
	}
	g.destroy(b)
	return b.Descriptor(), nil
}

// destroy frees the block's cell and every cell it reserves.
func (g *Grid) destroy(b *Block) {
	delete(g.blocks, b.ID)
	if g.cells[b.HomeIndex].occupant == b {
		g.cells[b.HomeIndex].occupant = nil
	}
	for i := range g.cells {
		if g.cells[i].reservedBy == b {
			g.cells[i].reservedBy = nil
		}
	}
}

// Block returns a live block by ID, or nil.
func (g *Grid) Block(id int) *Block {
	return g.blocks[id]
}

// Blocks returns all live blocks ordered by ID, for deterministic
// iteration in the tick pipeline and in snapshots.
func (g *Grid) Blocks() []*Block {
	out := make([]*Block, 0, len(g.blocks))
	for _, b := range g.blocks {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Locks returns all live lock blocks ordered by ID.
func (g *Grid) Locks() []*Block {
	var locks []*Block
	for _, b := range g.Blocks() {
		if b.Kind == KindLock {
			locks = append(locks, b)
		}
	}
	return locks
}

// FlavorCount counts live blocks of a kind sharing a flavor id.
func (g *Grid) FlavorCount(kind BlockKind, flavor string) int {
	n := 0
	for _, b := range g.blocks {
		if b.Kind == kind && b.Flavor == flavor {
			n++
		}
	}
	return n
}

// teleporterFlavors returns the distinct flavor ids of live teleporters.
func (g *Grid) teleporterFlavors() []string {
	seen := make(map[string]bool)
	var flavors []string
	for _, b := range g.Blocks() {
		if b.Kind == KindTeleporter && !seen[b.Flavor] {
			seen[b.Flavor] = true
			flavors = append(flavors, b.Flavor)
		}
	}
	return flavors
}

// ValidateTeleporterGroups checks the pair invariant: every teleporter
// flavor resolves to exactly two live members. Flavors in openUnits are
// mid-transaction (a pair unit partially placed or partially removed) and
// are allowed to sit at one member until the unit closes.
func (g *Grid) ValidateTeleporterGroups(openUnits map[string]bool) error {
	for _, flavor := range g.teleporterFlavors() {
		n := g.FlavorCount(KindTeleporter, flavor)
		switch {
		case n == 2:
		case n == 1 && openUnits[flavor]:
		default:
			return fmt.Errorf("flavor %q has %d live teleporters: %w", flavor, n, ErrPairingInvalid)
		}
	}
	return nil
}

// assertGroupInvariant panics if a dangling teleporter group persists
// past a completed transaction. A half pair the inventory cannot explain
// means the placement pipeline itself corrupted state.
func (g *Grid) assertGroupInvariant(openUnits map[string]bool) {
	if err := g.ValidateTeleporterGroups(openUnits); err != nil {
		panic("sim: " + err.Error())
	}
}

// CheckConsistency verifies the occupancy invariants over the whole grid:
// every occupied cell maps to exactly one live block at its home index,
// and every reserved cell points back to a live transporter whose path
// contains it. Used by tests; a production violation panics earlier, at
// the mutation that caused it.
func (g *Grid) CheckConsistency() error {
	for i, c := range g.cells {
		if c.occupant != nil {
			if g.blocks[c.occupant.ID] != c.occupant {
				return fmt.Errorf("index %d: occupant %s is not a live block", i, c.occupant)
			}
			if c.occupant.HomeIndex != i {
				return fmt.Errorf("index %d: occupant %s home mismatch", i, c.occupant)
			}
		}
		if c.reservedBy != nil {
			if g.blocks[c.reservedBy.ID] != c.reservedBy {
				return fmt.Errorf("index %d: reserver %s is not a live block", i, c.reservedBy)
			}
			found := false
			for _, p := range c.reservedBy.Path {
				if p == i {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("index %d: reserver %s path does not contain it", i, c.reservedBy)
			}
		}
	}
	for _, b := range g.blocks {
		if g.cells[b.HomeIndex].occupant != b {
			return fmt.Errorf("block %s not registered at home index", b)
		}
	}
	return nil
}
