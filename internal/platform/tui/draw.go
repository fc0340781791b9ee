package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/parkwalk/internal/core"
	"github.com/vovakirdan/parkwalk/internal/sim"
)

// boardOrigin returns the top-left screen cell of the board, leaving a
// one-line margin for the HUD.
func (m BoardModel) boardOrigin() (x, y int) {
	return 2, 2
}

// screenPos maps a grid cell to its screen column and row. Grid rows
// grow upward, screen rows grow downward.
func (m BoardModel) screenPos(gx, gy int) (sx, sy int) {
	bx, by := m.boardOrigin()
	dims := m.session.Grid().Dims()
	return bx + gx*cellW, by + (dims.H - 1 - gy)
}

func blockGlyph(b *sim.Block, atIdx int) (rune, core.Color) {
	switch b.Kind {
	case sim.KindWalk:
		if b.Permanent {
			return '█', core.ColorGreen
		}
		return '█', core.ColorBrightGreen
	case sim.KindCrumbler:
		if b.Primed {
			return '▒', core.ColorBrightRed
		}
		return '▓', core.ColorOrange
	case sim.KindTransporter:
		if !b.PresentAt(atIdx) {
			// Reserved route cell the platform is not currently on.
			return '·', core.ColorGray
		}
		return '■', core.ColorCyan
	case sim.KindTeleporter:
		return '◊', core.ColorBrightMagenta
	case sim.KindKey:
		return '♦', core.ColorBrightYellow
	case sim.KindLock:
		if b.Filled {
			return '◙', core.ColorBrightBlue
		}
		return '◘', core.ColorBlue
	}
	return '?', core.ColorWhite
}

// drawBoard paints the grid frame, every block, the agents and the
// build cursor.
func (m *BoardModel) drawBoard() {
	dims := m.session.Grid().Dims()
	bx, by := m.boardOrigin()
	m.screen.DrawBox(core.NewRect(bx-1, by-1, dims.W*cellW+2, dims.H+2))

	grid := m.session.Grid()
	for gy := 0; gy < dims.H; gy++ {
		for gx := 0; gx < dims.W; gx++ {
			idx := gy*dims.W + gx
			sx, sy := m.screenPos(gx, gy)
			if b := grid.Occupant(idx); b != nil {
				glyph, color := blockGlyph(b, idx)
				m.screen.SetColored(sx, sy, glyph, color)
				if b.PresentAt(idx) && b.Solid() {
					m.screen.SetColored(sx+1, sy, glyph, color)
				}
			} else if grid.IsPlaceable(idx) {
				m.screen.SetColored(sx, sy, '_', core.ColorGray)
				m.screen.SetColored(sx+1, sy, '_', core.ColorGray)
			}
		}
	}

	for _, l := range m.session.Lems() {
		m.drawLem(l, dims)
	}

	// Cursor brackets in the spare columns around the selected cell.
	cx, cy := m.screenPos(m.cursorX, m.cursorY)
	m.screen.SetColored(cx-1, cy, '[', core.ColorBrightYellow)
	m.screen.SetColored(cx+cellW-1, cy, ']', core.ColorBrightYellow)
}

// drawLem paints one agent. The body sits one row above the supporting
// cell, so a grounded agent reads as standing on its block.
func (m *BoardModel) drawLem(l *sim.Lem, dims sim.Dims) {
	if l.Lost {
		return
	}
	col := int(math.Round(l.X))
	row := int(math.Floor(l.Y)) + 1
	if col < 0 || col >= dims.W || row < 0 || row >= dims.H {
		return
	}
	sx, sy := m.screenPos(col, row)

	glyph := '>'
	if l.Facing < 0 {
		glyph = '<'
	}
	color := core.ColorBrightWhite
	switch {
	case l.Carrying:
		color = core.ColorBrightYellow
	case l.State == sim.LemRiding:
		color = core.ColorBrightCyan
	case l.State == sim.LemFalling:
		glyph = 'v'
	case l.State == sim.LemFrozen:
		color = core.ColorGray
	}
	m.screen.SetColored(sx, sy, '@', color)
	m.screen.SetColored(sx+1, sy, glyph, color)
}

// drawPanel paints the inventory to the right of the board.
func (m *BoardModel) drawPanel() {
	dims := m.session.Grid().Dims()
	bx, by := m.boardOrigin()
	px := bx + dims.W*cellW + 3
	if px+20 > m.screen.Width() {
		return
	}

	m.screen.DrawText(px, by-1, "Inventory")
	states := m.session.Inventory().Snapshot()
	if len(states) == 0 {
		m.screen.SetColoredText(px, by, "(empty)", core.ColorGray)
		return
	}
	selected := m.selectedEntry()
	for i, st := range states {
		marker := ' '
		color := core.ColorDefault
		if st.EntryKey == selected {
			marker = '>'
			color = core.ColorBrightYellow
		}
		label := fmt.Sprintf("%c %-18s %d/%d", marker, entryLabel(st), st.Remaining, st.Max)
		m.screen.SetColoredText(px, by+i, label, color)
	}
}

func entryLabel(st sim.EntryState) string {
	if st.Flavor != "" {
		return fmt.Sprintf("%s (%s)", st.Kind, st.Flavor)
	}
	return st.Kind.String()
}

// drawHUD paints the status bar and key hints.
func (m *BoardModel) drawHUD() {
	mode := m.session.Mode()
	st := m.Status()
	top := fmt.Sprintf("%s  [%s]  tick %d  blocks %d", m.level.Name, mode, st.Tick, st.BlocksPlaced)
	if st.Won {
		top += "  WON"
	} else if st.AgentsLost > 0 {
		top += fmt.Sprintf("  lost %d", st.AgentsLost)
	}
	m.screen.DrawText(1, 0, top)

	hints := "wasd: cursor  space: place  x: remove  tab: entry  p: simulate  r: reset  esc: back  q: quit"
	if mode == sim.ModeSimulate {
		hints = "p: pause  r: reset  esc: back to build  q: quit"
	}
	m.screen.DrawText(1, m.screen.Height()-1, hints)

	if m.status != "" {
		m.screen.SetColoredText(1, m.screen.Height()-2, m.status, core.ColorBrightCyan)
	}
}
