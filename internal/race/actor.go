package race

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-derby/internal/core"
)

// Actor is a single race participant.
type Actor struct {
	Name  string
	Lane  int
	Color core.Color

	X, Z           float64 // Lateral lane centre and position along the track
	BaseSpeed      float64 // Drawn once at setup
	Speed          float64 // Rubber-banded speed of the last tick
	EffectiveSpeed float64 // Signed displacement of the last tick

	Status        Status
	StatusTimer   int
	SkillCooldown int // Only counts down while running

	Rank       int // 1-based among unfinished runners, 0 before the first ranking
	Finished   bool
	Place      int
	FinishTick int // Ticks since the start when the line was crossed

	Reversed bool
	Heading  float64 // Radians; turns toward pi while reversed
	WalkUsed bool

	wobble float64 // Phase offset of the pacing oscillation
}

// Crossed reports whether z is past the finish line in the actor's
// direction of travel.
func (a *Actor) Crossed(finishZ float64) bool {
	if a.Reversed {
		return a.Z >= finishZ
	}
	return a.Z <= finishZ
}

// Pos returns the actor position on the track plane.
func (a *Actor) Pos() core.Vec3 {
	return core.V3(a.X, 0, a.Z)
}

// force puts the actor into status for ticks, replacing any running timer.
func (a *Actor) force(status Status, ticks int) {
	a.Status = status
	a.StatusTimer = ticks
}

func (a *Actor) resetStatus(cooldown int) {
	a.Status = StatusRun
	a.StatusTimer = 0
	a.SkillCooldown = cooldown
}

// reverse flips the direction of travel and restarts the visual turn.
func (a *Actor) reverse() {
	a.Reversed = !a.Reversed
	if a.Reversed {
		a.Heading = 0
	}
}

// canWalk reports whether the one-shot walk is still available.
func (a *Actor) canWalk() bool {
	return !a.WalkUsed
}

// update advances one unfinished actor by a single tick.
func (a *Actor) update(r *Race) {
	if a.Finished {
		return
	}

	if a.StatusTimer > 0 {
		a.StatusTimer--
		if a.StatusTimer == 0 {
			a.resetStatus(r.cfg.Skills.CooldownTicks)
		}
	}

	if active := r.activeCount(); active > 1 && a.Rank > 0 {
		ratio := core.ClampF(float64(a.Rank-1)/float64(active-1), 0, 1)
		a.Speed = a.BaseSpeed * (r.cfg.RubberBand.Floor + ratio*r.cfg.RubberBand.Span)
	}

	paced := a.Speed * r.pacing(a)
	v := r.skills.SpeedMultiplier(a.Status, paced)

	if r.skills.Sways(a.Status) {
		r.checkZigzagCollision(a)
		v = r.skills.SpeedMultiplier(a.Status, paced)
	}

	if a.Reversed {
		a.Heading = core.LerpAngle(a.Heading, math.Pi, 0.15, 0.01)
		a.Z += v
	} else {
		a.Z -= v
	}
	a.EffectiveSpeed = v

	if a.SkillCooldown > 0 && a.Status == StatusRun {
		a.SkillCooldown--
	}

	r.maybeTriggerSkill(a)

	if a.Crossed(r.finishZ) {
		r.finish(a)
	}
}

// pacing returns the organic speed factor for an actor on the current
// frame. Time is simulated so replays are exact.
func (r *Race) pacing(a *Actor) float64 {
	amp := r.cfg.Actors.Pacing
	if amp == 0 {
		return 1
	}
	t := float64(r.frame)/float64(r.rt.TickRate) + a.wobble
	return 1 + (math.Sin(t*0.5)*0.1+math.Sin(t*1.3)*0.05)*amp
}

func (r *Race) maybeTriggerSkill(a *Actor) {
	sc := r.cfg.Skills
	if a.Status != StatusRun || a.SkillCooldown > 0 || r.frame-r.startFrame < sc.DelayTicks {
		return
	}
	if r.rng.Float64() >= sc.TriggerChance {
		return
	}

	if a.canWalk() && r.rng.Float64() < sc.WalkChance {
		a.WalkUsed = true
		r.activate(a, StatusWalk)
		r.knockdownAdjacent(a)
		return
	}

	status, _, ok := r.skills.PickRandomSkill(r.rng.Float64())
	if !ok {
		return
	}
	r.activate(a, status)
	if status == StatusBoost {
		r.audio.Play(CueBoost)
	}
}

// activate starts a self-triggered skill.
func (r *Race) activate(a *Actor, status Status) {
	a.force(status, r.skills.Duration(status))
	a.SkillCooldown = r.cfg.Skills.CooldownTicks
	r.announce(r.skills.Message(status, a.Name))
}

// knockdownAdjacent fells unfinished actors in the neighbouring lanes that
// are close to a walking actor.
func (r *Race) knockdownAdjacent(walker *Actor) {
	for _, h := range r.actors {
		if h == walker || h.Finished {
			continue
		}
		if h.Lane != walker.Lane-1 && h.Lane != walker.Lane+1 {
			continue
		}
		if math.Abs(h.Z-walker.Z) < r.cfg.Skills.KnockdownRange {
			r.Fell(h, r.skills.Duration(StatusFallen))
		}
	}
}

// checkZigzagCollision fells a staggering actor together with the first
// standing actor inside its collision box.
func (r *Race) checkZigzagCollision(a *Actor) {
	zc := r.cfg.Skills.Zigzag
	for _, h := range r.actors {
		if h == a || h.Finished || h.Status == StatusFallen {
			continue
		}
		if math.Abs(h.X-a.X) < zc.LateralRange && math.Abs(h.Z-a.Z) < zc.LongitudinalRange {
			a.force(StatusFallen, zc.FallTicks)
			h.force(StatusFallen, zc.FallTicks)
			r.announce(fmt.Sprintf("%s and %s collided! Both are down!", a.Name, h.Name))
			r.audio.Play(CueCollision)
		}
	}
}

// Strike hits an actor with lightning. It bypasses skill gating and
// restarts the shock timer if the actor is already shocked.
func (r *Race) Strike(a *Actor) {
	if a.Finished {
		return
	}
	a.force(StatusShock, r.skills.Duration(StatusShock))
	r.announce(r.skills.Message(StatusShock, a.Name))
}

// Fell knocks an actor down for ticks, restarting any fall in progress.
func (r *Race) Fell(a *Actor, ticks int) {
	a.force(StatusFallen, ticks)
	r.announce(r.skills.Message(StatusFallen, a.Name))
}

// finish records an actor crossing the line.
func (r *Race) finish(a *Actor) {
	r.placements = append(r.placements, a)
	finished := len(r.placements)
	a.Finished = true
	a.Place = finished
	a.FinishTick = r.frame - r.startFrame
	a.Rank = 0
	r.announce(fmt.Sprintf("%s crosses the line!", a.Name))

	if finished == 1 {
		r.celebrate(a)
		r.announce(fmt.Sprintf("%s wins the race!!!", a.Name))
	}

	if finished >= r.podium && r.state == StateRunning {
		r.state = StateFinished
		r.sched.At(r.frame+r.cfg.Race.FinishDelayTicks, func() {
			r.over = true
			r.announce(fmt.Sprintf("Race over! The top %d are decided!", r.podium))
		})
	}
}

func (r *Race) celebrate(a *Actor) {
	id := r.addObject(ObjectFirework, core.V3(a.X, 40, a.Z), a.Name)
	r.audio.Play(CueCelebration)
	r.sched.At(r.frame+r.rt.TickRate*2, func() { r.removeObject(id) })
}
