package sim

import (
	"fmt"
	"math"
)

// Mode is the three-phase editing/play workflow.
type Mode uint8

const (
	// ModeAuthor: designer editing. Permanent placement and placeable-flag
	// editing, bypassing the inventory.
	ModeAuthor Mode = iota
	// ModeBuild: player editing. Placement goes through the inventory and
	// only onto placeable cells; agents are frozen.
	ModeBuild
	// ModeSimulate: agents run; editing is disabled.
	ModeSimulate
)

// String returns a display name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeAuthor:
		return "Author"
	case ModeBuild:
		return "Build"
	case ModeSimulate:
		return "Simulate"
	default:
		return "Unknown"
	}
}

// Params are the simulation tunables. All rates are in cells and seconds
// of simulation time; the session converts to per-tick amounts so runs
// are wall-clock independent.
type Params struct {
	TickRate         int     // fixed simulation ticks per second
	WalkSpeed        float64 // cells per second
	FallSpeed        float64 // cells per second
	TransporterSpeed float64 // cells per second along the route
	CrumbleDelay     float64 // seconds from primed to forced destruct
	TeleportCooldown float64 // seconds both ends stay inert after a jump
	CenterRadius     float64 // center-detection radius, fraction of a cell
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		TickRate:         60,
		WalkSpeed:        3.0,
		FallSpeed:        8.0,
		TransporterSpeed: 4.0,
		CrumbleDelay:     0.6,
		TeleportCooldown: 1.0,
		CenterRadius:     0.15,
	}
}

// dt returns the simulation timestep in seconds.
func (p Params) dt() float64 {
	return 1.0 / float64(p.TickRate)
}

// ticks converts a duration in seconds to whole ticks, rounding up so a
// positive delay never truncates to zero.
func (p Params) ticks(seconds float64) int {
	return int(math.Ceil(seconds * float64(p.TickRate)))
}

// placement is the session's record of one player-placed block, kept so
// removal can credit the right unit and ResetRun can rebuild the board.
type placement struct {
	desc     BlockDescriptor
	entryKey string
	unitID   int
	blockID  int
}

// Session owns one level's full simulation state and is the only place
// that sequences the cross-component invariants: grid before inventory on
// removal, inventory before grid on placement, group checks after both.
type Session struct {
	params Params
	grid   *Grid
	inv    *Inventory
	lems   []*Lem
	mode   Mode
	level  LevelDescription
	loaded bool
	tick   uint64

	placements []placement
	nextLemID  int
}

// NewSession creates an empty session. Nothing works until LoadLevel.
func NewSession(p Params) *Session {
	if p.TickRate <= 0 {
		p = DefaultParams()
	}
	return &Session{params: p}
}

// Params returns the session tuning.
func (s *Session) Params() Params {
	return s.params
}

// Loaded reports whether a level is active.
func (s *Session) Loaded() bool {
	return s.loaded
}

// Mode returns the current workflow mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Tick returns the current simulation tick count.
func (s *Session) Tick() uint64 {
	return s.tick
}

// Level returns the loaded level description.
func (s *Session) Level() LevelDescription {
	return s.level
}

// LoadLevel applies a level description: resets the grid, flags placeable
// spaces, places every permanent block through the validated pipeline,
// builds the inventory and registers agents. A validation failure aborts
// the load and reports which block failed, except that blocks which no
// longer fit the grid dimensions are skipped and reported as warnings.
// The session comes up in Build mode with all agents frozen.
func (s *Session) LoadLevel(d LevelDescription) ([]LoadWarning, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("grid %dx%d: %w", d.Width, d.Height, ErrOutOfBounds)
	}
	if d.CellSize <= 0 {
		d.CellSize = 1
	}
	dims := Dims{W: d.Width, H: d.Height, CellSize: d.CellSize}
	grid := NewGrid(dims)

	var warnings []LoadWarning
	for _, idx := range d.Placeable {
		if err := grid.SetPlaceable(idx, true); err != nil {
			warnings = append(warnings, LoadWarning{Index: idx, Kind: KindWalk})
		}
	}

	for _, bd := range d.Blocks {
		if !dims.IndexInBounds(bd.Index) {
			warnings = append(warnings, LoadWarning{Index: bd.Index, Kind: bd.Kind})
			continue
		}
		if bd.Kind == KindTransporter {
			// A route that walks off the grid means the block no longer
			// fits the dimensions either; same skip rule.
			route, err := ParseRouteSteps(bd.RouteSteps)
			if err != nil {
				return nil, &LoadError{Index: bd.Index, Kind: bd.Kind, Err: err}
			}
			if _, err := sweepPath(dims, bd.Index, route); err != nil {
				warnings = append(warnings, LoadWarning{Index: bd.Index, Kind: bd.Kind})
				continue
			}
		}
		if _, err := grid.Place(bd, false); err != nil {
			return nil, &LoadError{Index: bd.Index, Kind: bd.Kind, Err: err}
		}
	}

	// Permanent teleporters must pair up by the end of the load.
	if err := grid.ValidateTeleporterGroups(nil); err != nil {
		return nil, err
	}

	lems := make([]*Lem, 0, len(d.Lems))
	id := 1
	for _, start := range d.Lems {
		if !dims.IndexInBounds(start.Index) {
			warnings = append(warnings, LoadWarning{Index: start.Index, Kind: KindWalk})
			continue
		}
		lems = append(lems, newLem(id, start, dims))
		id++
	}

	s.grid = grid
	s.inv = NewInventory(d.Inventory)
	s.lems = lems
	s.level = d
	s.loaded = true
	s.mode = ModeBuild
	s.tick = 0
	s.placements = nil
	s.nextLemID = id
	return warnings, nil
}

// Unload tears the level down. All countdowns and in-flight state die
// with it.
func (s *Session) Unload() {
	s.grid = nil
	s.inv = nil
	s.lems = nil
	s.placements = nil
	s.level = LevelDescription{}
	s.loaded = false
	s.tick = 0
	s.mode = ModeBuild
}

// EnterAuthor switches to designer editing.
func (s *Session) EnterAuthor() error {
	if !s.loaded {
		return ErrNoLevel
	}
	s.freezeAll()
	s.mode = ModeAuthor
	return nil
}

// EnterBuild switches to player editing.
func (s *Session) EnterBuild() error {
	if !s.loaded {
		return ErrNoLevel
	}
	s.freezeAll()
	s.mode = ModeBuild
	return nil
}

// EnterSimulate starts the run. It refuses with ErrPairingInvalid while
// any teleporter flavor is half-placed: a dangling teleporter must be
// completed or removed first.
func (s *Session) EnterSimulate() error {
	if !s.loaded {
		return ErrNoLevel
	}
	if err := s.grid.ValidateTeleporterGroups(nil); err != nil {
		return err
	}
	s.mode = ModeSimulate
	for _, l := range s.lems {
		l.unfreeze()
	}
	return nil
}

// ExitSimulate freezes all agents in place and returns to Build mode.
// Re-entering restores each agent's pre-freeze state.
func (s *Session) ExitSimulate() {
	if !s.loaded || s.mode != ModeSimulate {
		return
	}
	s.freezeAll()
	s.mode = ModeBuild
}

func (s *Session) freezeAll() {
	for _, l := range s.lems {
		l.freeze()
	}
}

// RequestPlace is the player-build placement pipeline: inventory
// reservation first, then the validated grid placement, then the commit.
// A grid rejection cancels the reservation, which costs nothing.
func (s *Session) RequestPlace(idx int, entryKey string) error {
	if !s.loaded {
		return ErrNoLevel
	}
	if s.mode != ModeBuild {
		return fmt.Errorf("place in %s mode: %w", s.mode, ErrWrongMode)
	}
	entry, ok := s.inv.Entry(entryKey)
	if !ok {
		return fmt.Errorf("entry %q: %w", entryKey, ErrUnknownEntry)
	}
	// A flavor already resolved to a live pair takes no third member. The
	// inventory may still hold charges (a fresh unit would open), so the
	// grid count is the authority here.
	if entry.Kind == KindTeleporter && s.grid.FlavorCount(KindTeleporter, entry.Flavor) >= 2 {
		return fmt.Errorf("flavor %q already paired: %w", entry.Flavor, ErrPairingInvalid)
	}
	res, err := s.inv.TryReserve(entryKey)
	if err != nil {
		return err
	}
	desc := BlockDescriptor{
		Kind:       entry.Kind,
		Index:      idx,
		Flavor:     entry.Flavor,
		RouteSteps: entry.RouteSteps,
	}
	b, err := s.grid.Place(desc, true)
	if err != nil {
		s.inv.Cancel(res)
		return err
	}
	s.inv.Commit(res)
	b.EntryKey = entryKey
	b.UnitID = res.UnitID
	s.placements = append(s.placements, placement{
		desc:     b.Descriptor(),
		entryKey: entryKey,
		unitID:   res.UnitID,
		blockID:  b.ID,
	})
	s.grid.assertGroupInvariant(s.inv.OpenPairFlavors())
	return nil
}

// RequestRemove is the player-build removal pipeline. Permanent blocks
// refuse; successful removals credit the inventory once the whole unit is
// off the grid.
func (s *Session) RequestRemove(idx int) error {
	if !s.loaded {
		return ErrNoLevel
	}
	if s.mode != ModeBuild {
		return fmt.Errorf("remove in %s mode: %w", s.mode, ErrWrongMode)
	}
	b := s.grid.Occupant(idx)
	if b == nil {
		return fmt.Errorf("index %d: %w", idx, ErrEmptyCell)
	}
	if _, err := s.grid.Remove(idx, false); err != nil {
		return err
	}
	s.inv.Credit(b.EntryKey, b.UnitID)
	s.forgetPlacement(b.ID)
	s.grid.assertGroupInvariant(s.inv.OpenPairFlavors())
	return nil
}

// AuthorPlace places a permanent block, bypassing inventory and the
// placeable flag. Author mode only.
func (s *Session) AuthorPlace(desc BlockDescriptor) error {
	if !s.loaded {
		return ErrNoLevel
	}
	if s.mode != ModeAuthor {
		return fmt.Errorf("author place in %s mode: %w", s.mode, ErrWrongMode)
	}
	_, err := s.grid.Place(desc, false)
	return err
}

// AuthorRemove removes any block, permanent included. Author mode only.
func (s *Session) AuthorRemove(idx int) error {
	if !s.loaded {
		return ErrNoLevel
	}
	if s.mode != ModeAuthor {
		return fmt.Errorf("author remove in %s mode: %w", s.mode, ErrWrongMode)
	}
	b := s.grid.Occupant(idx)
	if b == nil {
		return fmt.Errorf("index %d: %w", idx, ErrEmptyCell)
	}
	if _, err := s.grid.Remove(idx, true); err != nil {
		return err
	}
	if !b.Permanent {
		s.inv.Credit(b.EntryKey, b.UnitID)
		s.forgetPlacement(b.ID)
	}
	return nil
}

// SetPlaceable edits the placeable flag. Author mode only.
func (s *Session) SetPlaceable(idx int, placeable bool) error {
	if !s.loaded {
		return ErrNoLevel
	}
	if s.mode != ModeAuthor {
		return fmt.Errorf("set placeable in %s mode: %w", s.mode, ErrWrongMode)
	}
	return s.grid.SetPlaceable(idx, placeable)
}

func (s *Session) forgetPlacement(blockID int) {
	for i, p := range s.placements {
		if p.blockID == blockID {
			s.placements = append(s.placements[:i], s.placements[i+1:]...)
			return
		}
	}
}

// Won reports the win predicate: at least one lock exists and every lock
// is filled. A level with zero locks is never winnable; that matches the
// designed behavior and is deliberately not corrected here.
func (s *Session) Won() bool {
	if !s.loaded {
		return false
	}
	locks := s.grid.Locks()
	if len(locks) == 0 {
		return false
	}
	for _, b := range locks {
		if !b.Filled {
			return false
		}
	}
	return true
}

// ResetRun rebuilds the board for a fresh run: permanents and the
// player's placements are re-placed, consumed keys and crumbled platforms
// come back, locks empty, agents return to their start cells. Inventory
// counts are untouched; the player's build still stands.
func (s *Session) ResetRun() error {
	if !s.loaded {
		return ErrNoLevel
	}
	dims := s.grid.Dims()
	s.grid.Reset(dims)
	for _, idx := range s.level.Placeable {
		if dims.IndexInBounds(idx) {
			s.grid.SetPlaceable(idx, true)
		}
	}
	for _, bd := range s.level.Blocks {
		if !dims.IndexInBounds(bd.Index) {
			continue
		}
		if bd.Kind == KindTransporter {
			route, err := ParseRouteSteps(bd.RouteSteps)
			if err != nil {
				continue
			}
			if _, err := sweepPath(dims, bd.Index, route); err != nil {
				continue
			}
		}
		if _, err := s.grid.Place(bd, false); err != nil {
			return err
		}
	}
	for i := range s.placements {
		p := &s.placements[i]
		b, err := s.grid.Place(p.desc, true)
		if err != nil {
			return err
		}
		b.EntryKey = p.entryKey
		b.UnitID = p.unitID
		p.blockID = b.ID
	}
	for i, start := range s.level.Lems {
		if i < len(s.lems) {
			fresh := newLem(s.lems[i].ID, start, dims)
			*s.lems[i] = *fresh
		}
	}
	s.tick = 0
	s.mode = ModeBuild
	return nil
}

// Lems returns the live agents.
func (s *Session) Lems() []*Lem {
	return s.lems
}

// LemSnapshot is a plain-data copy of one agent's state.
type LemSnapshot struct {
	ID       int
	X        float64
	Y        float64
	Facing   int
	Carrying bool
	State    LemState
	Lost     bool
}

// BlockSnapshot is a plain-data copy of one block, descriptor plus the
// dynamic flags a renderer or replay needs.
type BlockSnapshot struct {
	BlockDescriptor
	CurrentIndex int // equals Index except for moving transporters
	Primed       bool
	Filled       bool
	Reversed     bool
}

// Snapshot is a full plain-data view of the session at one tick.
type Snapshot struct {
	LevelID   string
	Mode      Mode
	Tick      uint64
	Won       bool
	Blocks    []BlockSnapshot
	Lems      []LemSnapshot
	Inventory []EntryState
}

// Snapshot captures the session state without exposing live objects.
// Two sessions stepped identically produce equal snapshots.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		LevelID: s.level.ID,
		Mode:    s.mode,
		Tick:    s.tick,
		Won:     s.Won(),
	}
	if !s.loaded {
		return snap
	}
	for _, b := range s.grid.Blocks() {
		snap.Blocks = append(snap.Blocks, BlockSnapshot{
			BlockDescriptor: b.Descriptor(),
			CurrentIndex:    b.Index,
			Primed:          b.Primed,
			Filled:          b.Filled,
			Reversed:        b.Reversed,
		})
	}
	for _, l := range s.lems {
		snap.Lems = append(snap.Lems, LemSnapshot{
			ID:       l.ID,
			X:        l.X,
			Y:        l.Y,
			Facing:   l.Facing,
			Carrying: l.Carrying,
			State:    l.State,
			Lost:     l.Lost,
		})
	}
	snap.Inventory = s.inv.Snapshot()
	return snap
}

// Grid exposes the grid store for read-only queries by hosts and tests.
func (s *Session) Grid() *Grid {
	return s.grid
}

// Inventory exposes the inventory for read-only queries.
func (s *Session) Inventory() *Inventory {
	return s.inv
}
