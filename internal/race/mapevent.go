package race

import (
	"github.com/vovakirdan/tui-derby/internal/core"
)

// EventManager tracks the single halfway event of a race.
type EventManager struct {
	catalog     *EventCatalog
	triggered   bool
	roulette    Roulette
	active      *EventSpec // committed event, nil until the roulette stops
	cameraTimer int
}

func newEventManager(c *EventCatalog) EventManager {
	return EventManager{catalog: c}
}

func (m *EventManager) reset() {
	m.triggered = false
	m.roulette.Reset()
	m.active = nil
	m.cameraTimer = 0
}

// Triggered reports whether the event has been drawn this race.
func (m *EventManager) Triggered() bool {
	return m.triggered
}

// Active returns the committed event.
func (m *EventManager) Active() (EventSpec, bool) {
	if m.active == nil {
		return EventSpec{}, false
	}
	return *m.active, true
}

// CameraActive reports whether the event camera window is open.
func (m *EventManager) CameraActive() bool {
	return m.cameraTimer > 0
}

// CheckHalfwayReached reports whether every unfinished actor has passed
// half of the original distance. It is always false once the event has
// been triggered.
func (m *EventManager) CheckHalfwayReached(actors []*Actor, originalFinishZ float64) bool {
	if m.triggered {
		return false
	}
	half := originalFinishZ * 0.5
	for _, a := range actors {
		if a.Finished {
			continue
		}
		if originalFinishZ < 0 && a.Z > half || originalFinishZ >= 0 && a.Z < half {
			return false
		}
	}
	return true
}

// ObstacleCount returns how many obstacles drop for n active actors.
func ObstacleCount(n int) int {
	return core.Max(1, n/2-1)
}

// triggerEvent draws the halfway event. The one-shot flag is set before
// anything else, so a second trigger during the roulette is a no-op.
func (r *Race) triggerEvent() {
	if r.events.triggered {
		return
	}
	r.events.triggered = true

	specs := r.events.catalog.Specs()
	if len(specs) == 0 {
		return
	}
	idx := r.rng.Intn(len(specs))

	if ticks := r.cfg.Events.RouletteTicks; ticks > 0 {
		r.events.roulette.Start(specs, idx, ticks)
		r.announce("Halfway! The event roulette is spinning...")
		return
	}
	r.commitEvent(specs[idx])
}

// stepEvents advances the roulette and the event camera window.
func (r *Race) stepEvents() {
	if spec, done := r.events.roulette.Step(); done {
		r.commitEvent(spec)
	}
	if r.events.cameraTimer > 0 {
		r.events.cameraTimer--
	}
}

// commitEvent applies an event's effect exactly once.
func (r *Race) commitEvent(spec EventSpec) {
	if r.events.active != nil {
		return
	}
	r.events.active = &spec
	r.events.cameraTimer = spec.CameraTicks
	r.announce(spec.Message)

	switch spec.Kind {
	case EventLightning:
		r.lightning(spec)
	case EventReverseGoal:
		r.reverseGoal()
	case EventObstacleDrop:
		r.dropObstacles()
	}
}

func (r *Race) lightning(spec EventSpec) {
	active := r.activeActors()
	targets := r.pick(active, core.Min(spec.TargetCount, len(active)))
	stagger := r.rt.Ticks(r.cfg.Events.Lightning.StaggerMs)
	for k, a := range targets {
		r.after(k*stagger, func() { r.strikeWithBolt(a) })
	}
}

// strikeWithBolt is a staggered effect; it does nothing once the podium
// has been decided.
func (r *Race) strikeWithBolt(a *Actor) {
	if a.Finished || r.state != StateRunning {
		return
	}
	id := r.addObject(ObjectBolt, core.V3(a.X, 0, a.Z), a.Name)
	r.Strike(a)
	r.audio.Play(CueStrike)
	r.camera.requestCloseUp(a, r.frame+r.skills.Duration(StatusShock))
	r.after(r.cfg.Events.Lightning.BoltTicks, func() { r.removeObject(id) })
}

func (r *Race) reverseGoal() {
	r.finishZ = r.cfg.Track.ReverseFinishZ
	r.placeFinishLine("REVERSE")
	for _, a := range r.actors {
		if !a.Finished {
			a.reverse()
		}
	}
}

func (r *Race) dropObstacles() {
	active := r.activeActors()
	if len(active) == 0 {
		return
	}
	targets := r.pick(active, ObstacleCount(len(active)))
	stagger := r.rt.Ticks(r.cfg.Events.ObstacleDrop.StaggerMs)
	for k, a := range targets {
		r.after(k*stagger, func() { r.dropObstacle(a) })
	}
}

// pick returns n distinct actors chosen uniformly at random.
func (r *Race) pick(from []*Actor, n int) []*Actor {
	pool := make([]*Actor, len(from))
	copy(pool, from)
	if n > len(pool) {
		n = len(pool)
	}
	for i := 0; i < n; i++ {
		j := i + r.rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
