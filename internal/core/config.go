package core

// RuntimeConfig contains configuration passed to the board host at
// initialization. The host uses this to adapt to screen size and to run
// the simulation at a fixed rate.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Simulation ticks per second (default 60)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// RunStatus summarizes the state of the current run for the HUD.
type RunStatus struct {
	Tick         uint64 // simulation ticks elapsed
	Won          bool   // every lock filled
	AgentsLost   int    // agents that hit the fail-safe floor
	BlocksPlaced int    // player placements currently on the board
}
