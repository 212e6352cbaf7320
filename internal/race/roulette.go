package race

// rouletteFlip is how many ticks each candidate stays on display.
const rouletteFlip = 6

// Roulette cycles through candidate events for a fixed number of ticks
// before revealing the one already drawn.
type Roulette struct {
	candidates []EventSpec
	chosen     int
	shown      int
	ticksLeft  int
	elapsed    int
}

// Start begins spinning. chosen indexes candidates.
func (r *Roulette) Start(candidates []EventSpec, chosen, ticks int) {
	r.candidates = candidates
	r.chosen = chosen
	r.shown = 0
	r.ticksLeft = ticks
	r.elapsed = 0
}

// Spinning reports whether the roulette is still running.
func (r *Roulette) Spinning() bool {
	return r.ticksLeft > 0
}

// Step advances the roulette by one tick. It returns the drawn spec and
// true on the tick the roulette stops.
func (r *Roulette) Step() (EventSpec, bool) {
	if r.ticksLeft <= 0 {
		return EventSpec{}, false
	}
	r.ticksLeft--
	r.elapsed++
	if r.ticksLeft == 0 {
		r.shown = r.chosen
		return r.candidates[r.chosen], true
	}
	if r.elapsed%rouletteFlip == 0 {
		r.shown = (r.shown + 1) % len(r.candidates)
	}
	return EventSpec{}, false
}

// Shown returns the candidate currently on display.
func (r *Roulette) Shown() (EventSpec, bool) {
	if len(r.candidates) == 0 {
		return EventSpec{}, false
	}
	return r.candidates[r.shown], true
}

// Reset stops the roulette.
func (r *Roulette) Reset() {
	*r = Roulette{}
}
