package sim

import "fmt"

// BlockKind tags the six block variants. Blocks are a tagged variant over
// the kind rather than an inheritance hierarchy: one struct carries the
// union of per-kind fields and all per-kind behavior dispatches on Kind.
type BlockKind uint8

const (
	KindWalk BlockKind = iota
	KindCrumbler
	KindTransporter
	KindTeleporter
	KindKey
	KindLock
)

// String returns the level-file name of the kind.
func (k BlockKind) String() string {
	switch k {
	case KindWalk:
		return "walk"
	case KindCrumbler:
		return "crumbler"
	case KindTransporter:
		return "transporter"
	case KindTeleporter:
		return "teleporter"
	case KindKey:
		return "key"
	case KindLock:
		return "lock"
	default:
		return "unknown"
	}
}

// ParseBlockKind parses a level-file block kind name.
func ParseBlockKind(s string) (BlockKind, bool) {
	switch s {
	case "walk":
		return KindWalk, true
	case "crumbler":
		return KindCrumbler, true
	case "transporter":
		return KindTransporter, true
	case "teleporter":
		return KindTeleporter, true
	case "key":
		return KindKey, true
	case "lock":
		return KindLock, true
	default:
		return KindWalk, false
	}
}

// BlockDescriptor is the plain-data form of a block: what level files
// declare and what removal hands back for inventory crediting.
type BlockDescriptor struct {
	Kind       BlockKind
	Index      int
	Flavor     string
	Permanent  bool
	RouteSteps []string
}

// Block is a live grid entity. The grid store exclusively owns block
// existence; nothing else creates or destroys one.
type Block struct {
	ID        int
	Kind      BlockKind
	Index     int // current cell; transporters move along their path
	HomeIndex int // placement cell
	Flavor    string
	Permanent bool

	// Inventory bookkeeping for player-placed blocks. Zero for permanents.
	EntryKey string
	UnitID   int

	// Crumbler: primed on center arrival, destructs on exit or when the
	// fallback countdown expires.
	Primed       bool
	CrumbleTicks int

	// Transporter.
	Route    []RouteStep
	Path     []int // swept cells, Path[0] == HomeIndex
	PathPos  int
	Reversed bool
	Moving   bool
	progress float64 // fractional cells moved toward the next path cell

	// Teleporter: re-trigger suppression after a jump.
	CooldownTicks int

	// Lock.
	Filled bool
}

// newBlock builds a live block from a descriptor, parsing and sweeping
// transporter routes. The returned block is not yet committed to a grid.
func newBlock(id int, d BlockDescriptor, dims Dims) (*Block, error) {
	b := &Block{
		ID:        id,
		Kind:      d.Kind,
		Index:     d.Index,
		HomeIndex: d.Index,
		Flavor:    d.Flavor,
		Permanent: d.Permanent,
	}
	if d.Kind == KindTransporter {
		route, err := ParseRouteSteps(d.RouteSteps)
		if err != nil {
			return nil, err
		}
		path, err := sweepPath(dims, d.Index, route)
		if err != nil {
			return nil, err
		}
		b.Route = route
		b.Path = path
	}
	return b, nil
}

// Descriptor returns the plain-data form of the block.
func (b *Block) Descriptor() BlockDescriptor {
	d := BlockDescriptor{
		Kind:      b.Kind,
		Index:     b.HomeIndex,
		Flavor:    b.Flavor,
		Permanent: b.Permanent,
	}
	if b.Kind == KindTransporter {
		d.RouteSteps = make([]string, len(b.Route))
		for i, st := range b.Route {
			d.RouteSteps[i] = st.String()
		}
	}
	return d
}

// BlockedIndices returns the cells this block reserves beyond its own:
// the full swept route for transporters, nothing for everything else.
// Reserved cells reject any other placement for the block's lifetime.
func (b *Block) BlockedIndices() []int {
	if b.Kind != KindTransporter {
		return nil
	}
	blocked := make([]int, 0, len(b.Path)-1)
	for _, idx := range b.Path {
		if idx != b.HomeIndex {
			blocked = append(blocked, idx)
		}
	}
	return blocked
}

// canPlaceAt is the per-kind placement veto, checked by the grid store
// after the generic bounds/occupancy/placeable checks. Only transporters
// veto: every cell their route sweeps must currently be free.
func (b *Block) canPlaceAt(g *Grid) error {
	if b.Kind != KindTransporter {
		return nil
	}
	for _, idx := range b.BlockedIndices() {
		if g.Occupant(idx) != nil {
			return fmt.Errorf("route cell %d: %w", idx, ErrRouteBlocked)
		}
	}
	return nil
}

// PresentAt reports whether the block is physically present at idx.
// A transporter is present only at its current route cell; a reserved
// cell with the platform elsewhere is passable air.
func (b *Block) PresentAt(idx int) bool {
	return idx == b.Index
}

// Solid reports whether the block is a walkable surface. Keys and locks
// are trigger volumes a Lem walks through at body level; the other four
// kinds are platforms that support (and obstruct) an agent.
func (b *Block) Solid() bool {
	return b.Kind != KindKey && b.Kind != KindLock
}

func (b *Block) String() string {
	if b.Flavor != "" {
		return fmt.Sprintf("%s[%s]@%d", b.Kind, b.Flavor, b.Index)
	}
	return fmt.Sprintf("%s@%d", b.Kind, b.Index)
}
