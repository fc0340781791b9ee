package sim

// Crumbler behavior: a one-shot platform. Center arrival primes it; the
// rider's exit (or the fallback countdown, should the exit never fire)
// destroys it. Crumblers break even when designer-placed, so their
// self-destruct goes through the removal path with the permanent check
// overridden.

// prime arms the crumbler and starts the fallback countdown.
func (b *Block) prime(fallbackTicks int) {
	if b.Kind != KindCrumbler || b.Primed {
		return
	}
	b.Primed = true
	b.CrumbleTicks = fallbackTicks
}

// tickCrumble counts the fallback window down. Returns true when the
// countdown expires and the block must self-destruct this tick. Destroying
// the block by any other means first cancels the countdown implicitly,
// because the block no longer exists to be ticked.
func (b *Block) tickCrumble() bool {
	if b.Kind != KindCrumbler || !b.Primed {
		return false
	}
	if b.CrumbleTicks > 0 {
		b.CrumbleTicks--
	}
	return b.CrumbleTicks == 0
}
