package sim

import "fmt"

// InventoryEntryDesc is one placeable offering from the level description.
type InventoryEntryDesc struct {
	EntryKey   string
	Kind       BlockKind
	Flavor     string
	GroupID    string
	RouteSteps []string
	MaxCount   int
	PairUnit   bool
	UnitSize   int
}

// unitSize returns the number of physical placements that make up one
// inventory-decrementing unit.
func (d InventoryEntryDesc) unitSize() int {
	if d.PairUnit && d.UnitSize > 1 {
		return d.UnitSize
	}
	return 1
}

// poolKey returns the count-pool this entry draws from. Entries sharing a
// group id share one pool; others get their own.
func (d InventoryEntryDesc) poolKey() string {
	if d.GroupID != "" {
		return "group:" + d.GroupID
	}
	return "entry:" + d.EntryKey
}

// pool is a remaining-count pool, shared by grouped entries.
type pool struct {
	max       int
	remaining int
}

// unit tracks one logical placement unit in flight. The pool is charged
// exactly once, when the unit's last physical placement commits, and
// credited exactly once, when its last physical block is removed.
type unit struct {
	id       int
	entryKey string
	size     int
	placed   int
	charged  bool
}

// Reservation is the token handed out by TryReserve and redeemed by
// Commit. Dropping it before Commit costs nothing; Cancel additionally
// discards an empty unit it may have opened.
type Reservation struct {
	EntryKey string
	UnitID   int
}

// EntryState is the read-only per-entry view for UI collaborators.
type EntryState struct {
	EntryKey  string
	Kind      BlockKind
	Flavor    string
	Remaining int
	Max       int
	UnitSize  int
}

// Inventory arbitrates the player's placeable resources. It owns
// remaining-count bookkeeping and nothing else: the grid owns block
// existence, and the two only meet in the session's pipeline.
type Inventory struct {
	entries  map[string]InventoryEntryDesc
	order    []string
	pools    map[string]*pool
	units    map[int]*unit
	nextUnit int
}

// NewInventory builds the inventory from level-description entries.
// When grouped entries disagree on MaxCount, the first-declared entry's
// MaxCount wins for the whole group.
func NewInventory(entries []InventoryEntryDesc) *Inventory {
	inv := &Inventory{
		entries:  make(map[string]InventoryEntryDesc),
		pools:    make(map[string]*pool),
		units:    make(map[int]*unit),
		nextUnit: 1,
	}
	for _, e := range entries {
		if _, dup := inv.entries[e.EntryKey]; dup {
			continue
		}
		inv.entries[e.EntryKey] = e
		inv.order = append(inv.order, e.EntryKey)
		if _, ok := inv.pools[e.poolKey()]; !ok {
			inv.pools[e.poolKey()] = &pool{max: e.MaxCount, remaining: e.MaxCount}
		}
	}
	return inv
}

// Entry returns the declared entry for a key.
func (inv *Inventory) Entry(key string) (InventoryEntryDesc, bool) {
	e, ok := inv.entries[key]
	return e, ok
}

// Keys returns entry keys in declaration order.
func (inv *Inventory) Keys() []string {
	out := make([]string, len(inv.order))
	copy(out, inv.order)
	return out
}

// TryReserve asks for one physical placement from an entry. It succeeds
// while the entry's pool has units left, or while a previously opened
// unit for the entry still has unplaced slots (the second half of a pair
// does not charge the pool again). Fails with ErrInventoryExhausted.
func (inv *Inventory) TryReserve(entryKey string) (Reservation, error) {
	e, ok := inv.entries[entryKey]
	if !ok {
		return Reservation{}, fmt.Errorf("entry %q: %w", entryKey, ErrUnknownEntry)
	}
	if u := inv.openUnit(entryKey); u != nil {
		return Reservation{EntryKey: entryKey, UnitID: u.id}, nil
	}
	if inv.pools[e.poolKey()].remaining <= 0 {
		return Reservation{}, fmt.Errorf("entry %q: %w", entryKey, ErrInventoryExhausted)
	}
	u := &unit{id: inv.nextUnit, entryKey: entryKey, size: e.unitSize()}
	inv.nextUnit++
	inv.units[u.id] = u
	return Reservation{EntryKey: entryKey, UnitID: u.id}, nil
}

// Cancel abandons a reservation before grid commitment. Counts never
// moved, so this only discards the unit if the reservation opened it and
// nothing was placed against it.
func (inv *Inventory) Cancel(r Reservation) {
	if u, ok := inv.units[r.UnitID]; ok && u.placed == 0 && !u.charged {
		delete(inv.units, r.UnitID)
	}
}

// Commit records a grid-accepted placement. The pool decrements only when
// the unit's last physical placement lands.
func (inv *Inventory) Commit(r Reservation) {
	u, ok := inv.units[r.UnitID]
	if !ok {
		panic(fmt.Sprintf("sim: commit against unknown unit %d", r.UnitID))
	}
	u.placed++
	if u.placed > u.size {
		panic(fmt.Sprintf("sim: unit %d overfilled (%d/%d)", u.id, u.placed, u.size))
	}
	if u.placed == u.size && !u.charged {
		e := inv.entries[u.entryKey]
		inv.pools[e.poolKey()].remaining--
		u.charged = true
	}
}

// Credit records a successful non-permanent removal of a block belonging
// to unitID. The pool increments only once the whole unit is off the
// grid, mirroring the commit symmetry.
func (inv *Inventory) Credit(entryKey string, unitID int) {
	u, ok := inv.units[unitID]
	if !ok {
		panic(fmt.Sprintf("sim: credit against unknown unit %d", unitID))
	}
	u.placed--
	if u.placed < 0 {
		panic(fmt.Sprintf("sim: unit %d over-credited", u.id))
	}
	if u.placed == 0 {
		if u.charged {
			e := inv.entries[entryKey]
			inv.pools[e.poolKey()].remaining++
		}
		delete(inv.units, unitID)
	}
}

// Remaining returns the entry's pool count.
func (inv *Inventory) Remaining(entryKey string) int {
	e, ok := inv.entries[entryKey]
	if !ok {
		return 0
	}
	return inv.pools[e.poolKey()].remaining
}

// Snapshot returns per-entry states in declaration order.
func (inv *Inventory) Snapshot() []EntryState {
	out := make([]EntryState, 0, len(inv.order))
	for _, key := range inv.order {
		e := inv.entries[key]
		p := inv.pools[e.poolKey()]
		out = append(out, EntryState{
			EntryKey:  key,
			Kind:      e.Kind,
			Flavor:    e.Flavor,
			Remaining: p.remaining,
			Max:       p.max,
			UnitSize:  e.unitSize(),
		})
	}
	return out
}

// openUnit finds an in-flight unit for the entry with unplaced slots.
func (inv *Inventory) openUnit(entryKey string) *unit {
	var best *unit
	for _, u := range inv.units {
		if u.entryKey == entryKey && u.placed < u.size {
			if best == nil || u.id < best.id {
				best = u
			}
		}
	}
	return best
}

// OpenPairFlavors reports flavors of teleporter entries with a unit in
// flight: partially placed or partially removed. The grid's pair
// invariant tolerates a lone teleporter only for these flavors.
func (inv *Inventory) OpenPairFlavors() map[string]bool {
	open := make(map[string]bool)
	for _, u := range inv.units {
		e := inv.entries[u.entryKey]
		if e.Kind == KindTeleporter && u.placed > 0 && u.placed < u.size {
			open[e.Flavor] = true
		}
	}
	return open
}
