package sim

// LemState enumerates the agent state machine.
type LemState uint8

const (
	// LemIdle: no level running for this agent, or the agent is inert
	// after hitting the fail-safe floor.
	LemIdle LemState = iota
	// LemWalking: normal cell-to-cell walking along the X axis.
	LemWalking
	// LemFalling: no supporting block beneath; descending until support
	// appears or the fail-safe floor is hit.
	LemFalling
	// LemFrozen: the level is outside simulation mode. The pre-freeze
	// state is restored on re-entry.
	LemFrozen
	// LemRiding: under external control of a block (transporter
	// traversal; teleport relocation resolves within the same tick).
	LemRiding
)

// String returns a display name for the state.
func (s LemState) String() string {
	switch s {
	case LemIdle:
		return "Idle"
	case LemWalking:
		return "Walking"
	case LemFalling:
		return "Falling"
	case LemFrozen:
		return "Frozen"
	case LemRiding:
		return "Riding"
	default:
		return "Unknown"
	}
}

// contactPhase is the per-agent contact-episode state machine. It is
// computed from geometric distance once per tick, never from raw
// collision callbacks, so exactly one center arrival and one exit fire
// per physical pass regardless of host physics jitter.
type contactPhase uint8

const (
	contactNone contactPhase = iota
	contactInRange
	contactCentered
	contactExiting
)

// Lem is one autonomous walking agent.
type Lem struct {
	ID int

	// Continuous position in cell units: X in [cx, cx+1) means column cx,
	// Y is the row of the supporting block while grounded.
	X, Y float64

	// Facing along the walking axis: +1 right, -1 left.
	Facing int

	Carrying bool
	State    LemState
	Lost     bool

	// prevState backs the freeze/unfreeze round trip.
	prevState LemState

	// controller is the block driving the agent while riding.
	controller *Block

	// Contact episode: at most one block contact at a time.
	contactBlock *Block
	contactPhase contactPhase

	start LemStart
}

// newLem builds an agent from its level start record. Lems spawn frozen;
// entering simulation mode wakes them into Walking.
func newLem(id int, start LemStart, dims Dims) *Lem {
	x := start.Index % dims.W
	y := start.Index / dims.W
	facing := -1
	if start.FacingRight {
		facing = 1
	}
	return &Lem{
		ID:        id,
		X:         float64(x) + 0.5,
		Y:         float64(y),
		Facing:    facing,
		State:     LemFrozen,
		prevState: LemWalking,
		start:     start,
	}
}

// Cell returns the agent's logical cell index, or -1 below the grid.
func (l *Lem) Cell(dims Dims) int {
	cx := int(l.X)
	cy := int(l.Y)
	if l.Y < 0 || !dims.InBounds(cx, cy) {
		return -1
	}
	return cy*dims.W + cx
}

// column returns the agent's current column.
func (l *Lem) column() int {
	return int(l.X)
}

// freeze parks the agent, remembering the state to restore.
func (l *Lem) freeze() {
	if l.State == LemFrozen {
		return
	}
	l.prevState = l.State
	l.State = LemFrozen
}

// unfreeze restores the pre-freeze state.
func (l *Lem) unfreeze() {
	if l.State != LemFrozen {
		return
	}
	l.State = l.prevState
}

// dropContact force-closes the contact episode without firing events,
// used when the contacted block is destroyed out from under the agent.
func (l *Lem) dropContact() {
	l.contactBlock = nil
	l.contactPhase = contactNone
}
