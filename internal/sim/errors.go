package sim

import (
	"errors"
	"fmt"
)

// Typed failures for placement, removal and inventory operations.
// Callers match with errors.Is; the core returns these for every expected
// failure and reserves panics for pipeline invariant violations.
var (
	// ErrOutOfBounds reports a coordinate or index outside the grid.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrCellOccupied reports a placement into an occupied or reserved cell.
	ErrCellOccupied = errors.New("cell occupied")

	// ErrNotPlaceable reports a player-phase placement onto a cell that is
	// not flagged as placeable space.
	ErrNotPlaceable = errors.New("cell not placeable")

	// ErrPermanentBlock reports an attempt to remove a designer-placed block
	// through the player pipeline.
	ErrPermanentBlock = errors.New("block is permanent")

	// ErrRouteBlocked reports a transporter placement whose swept route
	// touches an occupied cell.
	ErrRouteBlocked = errors.New("transporter route blocked")

	// ErrPairingInvalid reports a teleporter flavor group that does not
	// resolve to exactly zero or two live members.
	ErrPairingInvalid = errors.New("teleporter pairing invalid")

	// ErrInventoryExhausted reports a placement request against an empty
	// inventory pool.
	ErrInventoryExhausted = errors.New("inventory exhausted")

	// ErrEmptyCell reports a removal from an unoccupied cell.
	ErrEmptyCell = errors.New("cell is empty")

	// ErrBadRoute reports an unparseable transporter route step.
	ErrBadRoute = errors.New("malformed route step")

	// ErrNoLevel reports an operation that needs a loaded level.
	ErrNoLevel = errors.New("no level loaded")

	// ErrUnknownEntry reports a placement request naming an inventory entry
	// the level does not offer.
	ErrUnknownEntry = errors.New("unknown inventory entry")

	// ErrWrongMode reports an operation issued outside its editing mode.
	ErrWrongMode = errors.New("operation not allowed in current mode")
)

// LoadError identifies which permanent block failed validation during
// level load. Level load is all-or-nothing apart from the documented
// does-not-fit skip rule.
type LoadError struct {
	Index int
	Kind  BlockKind
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("permanent %s at index %d: %v", e.Kind, e.Index, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadWarning records a permanent block that was skipped because it no
// longer fits the level's grid dimensions. The boundary layer decides how
// to surface it; the core only reports it.
type LoadWarning struct {
	Index int
	Kind  BlockKind
}

func (w LoadWarning) String() string {
	return fmt.Sprintf("skipped %s at index %d: does not fit grid", w.Kind, w.Index)
}
