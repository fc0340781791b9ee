package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/parkwalk/internal/core"
	"github.com/vovakirdan/parkwalk/internal/levels"
	"github.com/vovakirdan/parkwalk/internal/sim"
	"github.com/vovakirdan/parkwalk/internal/storage"
)

// Each grid cell renders as two terminal columns so the board reads
// roughly square.
const cellW = 2

// BoardModel is the Bubble Tea model hosting one level: the build
// cursor, the inventory selection, and the running simulation.
type BoardModel struct {
	session   *sim.Session
	level     levels.Level
	store     *storage.Store
	config    core.RuntimeConfig
	screen    *core.Screen
	keyMapper *KeyMapper
	frame     core.InputFrame

	cursorX  int
	cursorY  int
	entryIdx int
	status   string
	loadErr  error

	runSaved   bool
	quitting   bool
	backToMenu bool
}

// NewBoardModel creates a board model and loads the level into a fresh
// session. A load failure is kept on the model so the view can report it
// instead of crashing the program.
func NewBoardModel(level levels.Level, store *storage.Store, cfg core.RuntimeConfig, params sim.Params) BoardModel {
	m := BoardModel{
		session:   sim.NewSession(params),
		level:     level,
		store:     store,
		config:    cfg,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		keyMapper: NewKeyMapper(),
		frame:     core.NewInputFrame(),
	}
	if _, err := m.session.LoadLevel(level.LevelDescription); err != nil {
		m.loadErr = err
	}
	return m
}

// Init starts the tick loop.
func (m BoardModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey collects actions into the input frame; the tick handler
// applies them so input and simulation stay in step.
func (m BoardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.MapKeyToFrame(msg, &m.frame) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleTick applies the collected input and advances the simulation.
func (m BoardModel) handleTick() (tea.Model, tea.Cmd) {
	if m.loadErr != nil {
		if m.frame.Has(core.ActionBack) {
			m.backToMenu = true
		}
		m.frame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	m.applyFrame()
	m.frame.Clear()

	if m.session.Mode() == sim.ModeSimulate {
		ev := m.session.Step()
		m.noteEvents(ev)
		m.recordFinishedRun()
	}

	return m, tickCmd(m.config.TickRate)
}

// applyFrame translates this tick's actions into session calls.
func (m *BoardModel) applyFrame() {
	dims := m.session.Grid().Dims()

	if m.frame.Has(core.ActionCursorLeft) {
		m.cursorX = core.Clamp(m.cursorX-1, 0, dims.W-1)
	}
	if m.frame.Has(core.ActionCursorRight) {
		m.cursorX = core.Clamp(m.cursorX+1, 0, dims.W-1)
	}
	if m.frame.Has(core.ActionCursorUp) {
		m.cursorY = core.Clamp(m.cursorY+1, 0, dims.H-1)
	}
	if m.frame.Has(core.ActionCursorDown) {
		m.cursorY = core.Clamp(m.cursorY-1, 0, dims.H-1)
	}

	if m.frame.Has(core.ActionNextEntry) {
		m.cycleEntry(1)
	}
	if m.frame.Has(core.ActionPrevEntry) {
		m.cycleEntry(-1)
	}

	if m.frame.Has(core.ActionPlace) {
		m.placeAtCursor(dims)
	}
	if m.frame.Has(core.ActionRemove) {
		m.removeAtCursor(dims)
	}

	if m.frame.Has(core.ActionSimulate) {
		m.toggleSimulate()
	}
	if m.frame.Has(core.ActionReset) {
		if err := m.session.ResetRun(); err == nil {
			m.runSaved = false
			m.status = "run reset"
		}
	}
	if m.frame.Has(core.ActionBack) {
		if m.session.Mode() == sim.ModeSimulate {
			m.session.ExitSimulate()
			m.status = "paused, back in build mode"
		} else {
			m.backToMenu = true
		}
	}
}

func (m *BoardModel) cycleEntry(delta int) {
	keys := m.session.Inventory().Keys()
	if len(keys) == 0 {
		return
	}
	m.entryIdx = (m.entryIdx + delta + len(keys)) % len(keys)
}

func (m *BoardModel) selectedEntry() string {
	keys := m.session.Inventory().Keys()
	if len(keys) == 0 {
		return ""
	}
	if m.entryIdx >= len(keys) {
		m.entryIdx = 0
	}
	return keys[m.entryIdx]
}

func (m *BoardModel) placeAtCursor(dims sim.Dims) {
	key := m.selectedEntry()
	if key == "" {
		m.status = "nothing to place"
		return
	}
	idx, err := dims.Index(m.cursorX, m.cursorY)
	if err != nil {
		return
	}
	if err := m.session.RequestPlace(idx, key); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("placed %s", key)
}

func (m *BoardModel) removeAtCursor(dims sim.Dims) {
	idx, err := dims.Index(m.cursorX, m.cursorY)
	if err != nil {
		return
	}
	if err := m.session.RequestRemove(idx); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "removed"
}

func (m *BoardModel) toggleSimulate() {
	if m.session.Mode() == sim.ModeSimulate {
		m.session.ExitSimulate()
		m.status = "paused, back in build mode"
		return
	}
	if err := m.session.EnterSimulate(); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "simulating"
}

// noteEvents turns this tick's simulation events into a status line.
func (m *BoardModel) noteEvents(ev sim.TickEvents) {
	switch {
	case ev.Won:
		m.status = "all locks filled!"
	case len(ev.LostLemIDs) > 0:
		m.status = "an agent fell out of the park"
	case len(ev.Teleports) > 0:
		m.status = "teleported"
	case len(ev.Crumbles) > 0:
		m.status = "a platform crumbled"
	case len(ev.KeysPicked) > 0:
		m.status = "key picked up"
	case len(ev.LocksFilled) > 0:
		m.status = "lock filled"
	}
}

// recordFinishedRun saves the run once it is decided: either every lock
// is filled, or every agent is lost.
func (m *BoardModel) recordFinishedRun() {
	if m.runSaved || m.store == nil {
		return
	}
	won := m.session.Won()
	if !won && !m.allAgentsLost() {
		return
	}
	//nolint:errcheck // Best-effort save, play continues regardless
	m.store.SaveRun(m.level.ID, int(m.session.Tick()), m.playerBlockCount(), won)
	m.runSaved = true
}

func (m *BoardModel) allAgentsLost() bool {
	lems := m.session.Lems()
	if len(lems) == 0 {
		return false
	}
	for _, l := range lems {
		if !l.Lost {
			return false
		}
	}
	return true
}

// Status summarizes the current run for the HUD and for callers that
// poll the board from outside the Bubble Tea loop.
func (m *BoardModel) Status() core.RunStatus {
	lost := 0
	for _, l := range m.session.Lems() {
		if l.Lost {
			lost++
		}
	}
	return core.RunStatus{
		Tick:         m.session.Tick(),
		Won:          m.session.Won(),
		AgentsLost:   lost,
		BlocksPlaced: m.playerBlockCount(),
	}
}

func (m *BoardModel) playerBlockCount() int {
	n := 0
	for _, b := range m.session.Grid().Blocks() {
		if !b.Permanent {
			n++
		}
	}
	return n
}

// View renders the board, the inventory panel and the HUD.
func (m BoardModel) View() string {
	if m.quitting {
		return ""
	}
	m.screen.Clear()

	if m.loadErr != nil {
		m.screen.DrawTextCentered(m.screen.Height()/2, fmt.Sprintf("level %s failed to load: %v", m.level.ID, m.loadErr))
		m.screen.DrawTextCentered(m.screen.Height()/2+2, "Esc: back")
		return RenderScreen(m.screen)
	}

	m.drawBoard()
	m.drawPanel()
	m.drawHUD()
	return RenderScreen(m.screen)
}

// IsQuitting returns true if the user requested to quit entirely.
func (m BoardModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user requested the level menu.
func (m BoardModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a local Bubble Tea program hosting the given level.
func Run(level levels.Level, store *storage.Store, cfg core.RuntimeConfig, params sim.Params) error {
	model := NewBoardModel(level, store, cfg, params)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
