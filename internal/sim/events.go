package sim

// Per-tick event records. The session appends one entry per state change
// so hosts can render or sound them without re-deriving what happened.

// TeleportEvent records a Lem jump between paired teleporters.
type TeleportEvent struct {
	LemID     int
	FromIndex int
	ToIndex   int
	Flavor    string
}

// CrumbleEvent records a crumbler self-destructing.
type CrumbleEvent struct {
	Index   int
	ByTimer bool // true when the fallback countdown fired instead of the exit
}

// KeyEvent records a key pickup.
type KeyEvent struct {
	LemID int
	Index int
}

// LockEvent records a lock being filled.
type LockEvent struct {
	LemID int
	Index int
}

// TurnEvent records a Lem reversing direction.
type TurnEvent struct {
	LemID  int
	Facing int
}

// RideEvent records a Lem boarding or leaving a transporter.
type RideEvent struct {
	LemID   int
	Index   int
	Boarded bool
}

// TickEvents collects everything that happened during one simulation tick.
type TickEvents struct {
	Tick        uint64 // the tick the events occurred in; Session.Tick() is one past it after Step
	Teleports   []TeleportEvent
	Crumbles    []CrumbleEvent
	KeysPicked  []KeyEvent
	LocksFilled []LockEvent
	Turns       []TurnEvent
	Rides       []RideEvent
	FellLemIDs  []int // Lems that started falling this tick
	LostLemIDs  []int // Lems that hit the fail-safe floor this tick
	Won         bool
}
