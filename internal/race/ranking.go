package race

import (
	"cmp"
	"math"
	"slices"
)

// anyReversed reports whether the field is running toward the reversed
// finish. Reversal always flips every actor together.
func (r *Race) anyReversed() bool {
	for _, a := range r.actors {
		if a.Reversed {
			return true
		}
	}
	return false
}

// activeActors returns the unfinished actors in roster order.
func (r *Race) activeActors() []*Actor {
	out := make([]*Actor, 0, len(r.actors))
	for _, a := range r.actors {
		if !a.Finished {
			out = append(out, a)
		}
	}
	return out
}

func (r *Race) activeCount() int {
	n := 0
	for _, a := range r.actors {
		if !a.Finished {
			n++
		}
	}
	return n
}

// rank orders the unfinished actors finish-ward and refreshes the leader,
// the leader's remaining distance and the gap to second place.
func (r *Race) rank() {
	reversed := r.anyReversed()
	active := r.activeActors()
	slices.SortStableFunc(active, func(a, b *Actor) int {
		if reversed {
			return cmp.Compare(b.Z, a.Z)
		}
		return cmp.Compare(a.Z, b.Z)
	})
	for i, a := range active {
		a.Rank = i + 1
	}

	r.leader = nil
	r.gap = 0
	r.gapWarning = false
	if len(active) == 0 {
		return
	}
	r.leader = active[0]

	r.distance = int(math.Floor(math.Abs(r.finishZ - r.leader.Z)))
	if r.leader.Crossed(r.finishZ) {
		r.distance = 0
	}

	if len(active) > 1 {
		r.gap = math.Abs(active[1].Z - r.leader.Z)
		r.gapWarning = r.gap > r.cfg.Race.GapWarning
	}
}
