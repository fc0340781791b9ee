package sim

// LevelDescription is the engine-agnostic level record the core consumes
// at load time. Persistence formats (YAML, JSON) live at the boundary in
// internal/levels; the core never sees a file.
type LevelDescription struct {
	ID       string
	Name     string
	Width    int
	Height   int
	CellSize float64

	// Placeable lists cell indices the player may build on.
	Placeable []int

	// Blocks are the designer-placed permanents. Each is validated through
	// the normal placement pipeline at load time.
	Blocks []BlockDescriptor

	// Inventory is the player's per-level build budget.
	Inventory []InventoryEntryDesc

	// Lems are the agent start states.
	Lems []LemStart

	Metadata map[string]string
}

// LemStart is one agent's starting cell and facing.
type LemStart struct {
	Index       int
	FacingRight bool
}
