package sim

import "math"

// Step advances the simulation by one fixed tick. Outside Simulate mode
// it is a no-op. Within a tick the order is: block countdowns, then per
// agent position/state advance, then contact-episode transitions and
// their block dispatches. Every mutation is applied immediately, so a
// crumbler destroyed under one agent is already gone when the next
// agent's support check runs in the same tick.
func (s *Session) Step() TickEvents {
	ev := TickEvents{Tick: s.tick}
	if !s.loaded || s.mode != ModeSimulate {
		return ev
	}
	dt := s.params.dt()

	s.tickBlocks(&ev)

	for _, l := range s.lems {
		switch l.State {
		case LemWalking:
			s.stepWalking(l, dt, &ev)
		case LemFalling:
			s.stepFalling(l, dt, &ev)
		case LemRiding:
			s.stepRiding(l, dt, &ev)
		}
		if l.State == LemWalking {
			s.stepContact(l, &ev)
		}
	}

	s.tick++
	ev.Won = s.Won()
	return ev
}

// tickBlocks advances teleporter cooldowns and crumbler fallback timers.
// An expired fallback destroys the crumbler even though no exit fired,
// so a stuck primed state cannot outlive its delay.
func (s *Session) tickBlocks(ev *TickEvents) {
	for _, b := range s.grid.Blocks() {
		switch b.Kind {
		case KindTeleporter:
			b.tickCooldown()
		case KindCrumbler:
			if b.Primed && b.tickCrumble() {
				s.destroyBlock(b)
				ev.Crumbles = append(ev.Crumbles, CrumbleEvent{Index: b.HomeIndex, ByTimer: true})
			}
		}
	}
}

// destroyBlock is the behavior self-destruct path: removal with the
// permanent check overridden, plus closing any contact episodes that
// referenced the block.
func (s *Session) destroyBlock(b *Block) {
	s.grid.Remove(b.HomeIndex, true)
	for _, l := range s.lems {
		if l.contactBlock == b {
			l.dropContact()
		}
		if l.controller == b {
			l.controller = nil
			l.State = LemWalking
		}
	}
}

// stepWalking advances a walking agent. The forward probe reverses the
// agent at the grid boundary or at a body-level obstruction; a missing
// floor ahead is walked into and handled by the support check, which is
// what lets an agent fall through a destroyed crumbler.
func (s *Session) stepWalking(l *Lem, dt float64, ev *TickEvents) {
	dims := s.grid.Dims()
	newX := l.X + s.params.WalkSpeed*dt*float64(l.Facing)
	curCol := l.column()
	newCol := int(math.Floor(newX))

	if newCol != curCol {
		next := curCol + l.Facing
		if next < 0 || next >= dims.W || s.obstructed(next, int(l.Y)) {
			// Reverse in place; no position change this tick.
			l.Facing = -l.Facing
			ev.Turns = append(ev.Turns, TurnEvent{LemID: l.ID, Facing: l.Facing})
			return
		}
	}
	l.X = newX

	if s.grid.SupportAt(l.Cell(dims)) == nil {
		l.dropContact()
		l.State = LemFalling
		ev.FellLemIDs = append(ev.FellLemIDs, l.ID)
	}
}

// obstructed reports a solid block at body level in the target column.
func (s *Session) obstructed(col, row int) bool {
	dims := s.grid.Dims()
	if !dims.InBounds(col, row+1) {
		return false
	}
	return s.grid.SupportAt((row+1)*dims.W+col) != nil
}

// stepFalling descends the agent until a supporting cell appears or the
// fail-safe floor below the grid is hit, which makes the agent inert.
func (s *Session) stepFalling(l *Lem, dt float64, ev *TickEvents) {
	dims := s.grid.Dims()
	cx := l.column()
	startRow := int(math.Floor(l.Y))
	newY := l.Y - s.params.FallSpeed*dt

	for row := startRow; row >= 0; row-- {
		if float64(row) < newY {
			break
		}
		if row == startRow && l.Y == float64(startRow) {
			// The row the agent just lost its footing in.
			continue
		}
		if s.grid.SupportAt(row*dims.W+cx) != nil {
			l.Y = float64(row)
			l.State = LemWalking
			return
		}
	}

	l.Y = newY
	if l.Y < -1 {
		l.Y = -1
		l.State = LemIdle
		l.Lost = true
		ev.LostLemIDs = append(ev.LostLemIDs, l.ID)
	}
}

// stepRiding follows the controlling transporter along its route. When
// the traversal completes the agent resumes walking at the destination
// cell with its prior facing; the contact episode stays at
// center-reached so the platform does not re-trigger until the agent
// fully leaves it.
func (s *Session) stepRiding(l *Lem, dt float64, ev *TickEvents) {
	b := l.controller
	if b == nil {
		l.State = LemWalking
		return
	}
	dims := s.grid.Dims()
	cell, done := b.advanceTraversal(s.params.TransporterSpeed, dt)
	cx := cell % dims.W
	cy := cell / dims.W
	l.X = float64(cx) + 0.5
	l.Y = float64(cy)
	if done {
		l.controller = nil
		l.State = LemWalking
		l.contactBlock = b
		l.contactPhase = contactCentered
		ev.Rides = append(ev.Rides, RideEvent{LemID: l.ID, Index: cell, Boarded: false})
	}
}

// stepContact runs the per-agent contact-episode state machine from
// geometric distance. Exactly one center arrival fires per pass (when
// the ground point enters the block's center radius) and exactly one
// exit fires per pass (when the episode closes), however the host's
// physics would have reported the overlap.
func (s *Session) stepContact(l *Lem, ev *TickEvents) {
	if l.contactBlock != nil && s.grid.Block(l.contactBlock.ID) == nil {
		l.dropContact()
	}

	support := s.contactCandidate(l)
	if support != l.contactBlock {
		if prev := l.contactBlock; prev != nil && l.contactPhase >= contactCentered {
			l.dropContact()
			s.onExit(prev, ev)
		} else {
			l.dropContact()
		}
		if support != nil {
			l.contactBlock = support
			l.contactPhase = contactInRange
		}
	}
	if l.contactBlock == nil {
		return
	}

	center := float64(l.column()) + 0.5
	dist := math.Abs(l.X - center)
	switch l.contactPhase {
	case contactInRange:
		if dist <= s.params.CenterRadius {
			l.contactPhase = contactCentered
			s.onCenterArrival(l, l.contactBlock, ev)
		}
	case contactCentered:
		if dist > s.params.CenterRadius {
			l.contactPhase = contactExiting
		}
	}
}

// onCenterArrival dispatches the per-kind center-arrival behavior.
func (s *Session) onCenterArrival(l *Lem, b *Block, ev *TickEvents) {
	switch b.Kind {
	case KindCrumbler:
		b.prime(s.params.ticks(s.params.CrumbleDelay))

	case KindTransporter:
		if b.Moving {
			return
		}
		b.beginTraversal()
		l.State = LemRiding
		l.controller = b
		l.X = float64(b.Index%s.grid.Dims().W) + 0.5
		ev.Rides = append(ev.Rides, RideEvent{LemID: l.ID, Index: b.Index, Boarded: true})

	case KindTeleporter:
		if !b.ready() {
			return
		}
		dest := s.grid.pairOf(b)
		if dest == nil {
			return
		}
		dims := s.grid.Dims()
		from := b.Index
		l.X = float64(dest.Index%dims.W) + 0.5
		l.Y = float64(dest.Index / dims.W)
		cooldown := s.params.ticks(s.params.TeleportCooldown)
		b.startCooldown(cooldown)
		dest.startCooldown(cooldown)
		// The arrival event is consumed by the jump: the destination
		// episode starts at center-reached so nothing re-fires until the
		// agent fully exits and re-enters.
		l.contactBlock = dest
		l.contactPhase = contactCentered
		ev.Teleports = append(ev.Teleports, TeleportEvent{
			LemID: l.ID, FromIndex: from, ToIndex: dest.Index, Flavor: b.Flavor,
		})

	case KindKey:
		if l.Carrying {
			return
		}
		l.Carrying = true
		idx := b.HomeIndex
		s.destroyBlock(b)
		ev.KeysPicked = append(ev.KeysPicked, KeyEvent{LemID: l.ID, Index: idx})

	case KindLock:
		if !l.Carrying || b.Filled {
			return
		}
		l.Carrying = false
		b.Filled = true
		ev.LocksFilled = append(ev.LocksFilled, LockEvent{LemID: l.ID, Index: b.HomeIndex})
	}
}

// contactCandidate picks the single block the agent is in contact with.
// A trigger volume at body level (key, lock) wins over the floor beneath
// the feet, preserving the at-most-one-contact invariant.
func (s *Session) contactCandidate(l *Lem) *Block {
	dims := s.grid.Dims()
	col, row := l.column(), int(l.Y)
	if dims.InBounds(col, row+1) {
		if t := s.grid.TriggerAt((row+1)*dims.W + col); t != nil {
			return t
		}
	}
	return s.grid.SupportAt(l.Cell(dims))
}

// onExit dispatches the per-kind exit behavior when an episode closes.
// Dispatching twice for one episode is harmless: a dead block is skipped.
func (s *Session) onExit(b *Block, ev *TickEvents) {
	if s.grid.Block(b.ID) == nil {
		return
	}
	if b.Kind == KindCrumbler && b.Primed {
		s.destroyBlock(b)
		ev.Crumbles = append(ev.Crumbles, CrumbleEvent{Index: b.HomeIndex})
	}
}
