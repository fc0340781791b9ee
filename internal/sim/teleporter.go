package sim

// Teleporter behavior: two live teleporters sharing a flavor form a pair.
// Center arrival on one end relocates the rider to the other, then both
// ends cool down so the rider cannot ping-pong straight back.

// pairOf resolves the partner lazily from live grid state: the one other
// live teleporter with the same flavor, or nil if the pair is incomplete.
func (g *Grid) pairOf(b *Block) *Block {
	if b.Kind != KindTeleporter {
		return nil
	}
	for _, other := range g.blocks {
		if other.ID != b.ID && other.Kind == KindTeleporter && other.Flavor == b.Flavor {
			return other
		}
	}
	return nil
}

// startCooldown arms the re-trigger suppression window on one end.
func (b *Block) startCooldown(ticks int) {
	if b.Kind == KindTeleporter {
		b.CooldownTicks = ticks
	}
}

// ready reports whether the teleporter may fire.
func (b *Block) ready() bool {
	return b.Kind == KindTeleporter && b.CooldownTicks <= 0
}

// tickCooldown counts the suppression window down by one tick.
func (b *Block) tickCooldown() {
	if b.CooldownTicks > 0 {
		b.CooldownTicks--
	}
}
