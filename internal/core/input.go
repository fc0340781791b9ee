package core

// Action represents a semantic editing or playback action, abstracted
// from physical key presses. The platform maps keys to actions so the
// board logic never sees raw input.
type Action int

const (
	ActionNone        Action = iota
	ActionCursorUp           // W, Up arrow - move the cell cursor up
	ActionCursorDown         // S, Down arrow - move the cell cursor down
	ActionCursorLeft         // A, Left arrow - move the cell cursor left
	ActionCursorRight        // D, Right arrow - move the cell cursor right
	ActionPlace              // Space, Enter - place the selected block at the cursor
	ActionRemove             // X, Backspace - remove the block at the cursor
	ActionNextEntry          // Tab - select the next inventory entry
	ActionPrevEntry          // Shift+Tab - select the previous inventory entry
	ActionSimulate           // P - start or stop the simulation
	ActionReset              // R - reset the run, keeping placed blocks
	ActionBack               // B, Escape - back to the level menu
	ActionQuit               // Q, Ctrl+C - exit the session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionCursorUp:
		return "CursorUp"
	case ActionCursorDown:
		return "CursorDown"
	case ActionCursorLeft:
		return "CursorLeft"
	case ActionCursorRight:
		return "CursorRight"
	case ActionPlace:
		return "Place"
	case ActionRemove:
		return "Remove"
	case ActionNextEntry:
		return "NextEntry"
	case ActionPrevEntry:
		return "PrevEntry"
	case ActionSimulate:
		return "Simulate"
	case ActionReset:
		return "Reset"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state for a single simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
