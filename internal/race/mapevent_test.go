package race

import (
	"testing"

	"github.com/vovakirdan/tui-derby/internal/config"
)

func catalogOf(kinds ...EventKind) *EventCatalog {
	specs := DefaultEventSpecs(config.DefaultRaceConfig().Events)
	c := NewEventCatalog()
	for _, k := range kinds {
		c.Register(specs[k])
	}
	return c
}

// pastHalfway places every runner just beyond the midpoint.
func pastHalfway(r *Race) {
	for _, a := range r.Actors() {
		a.Z = -1800
	}
}

func TestCheckHalfwayReached(t *testing.T) {
	m := newEventManager(NewEventCatalog())
	tests := []struct {
		name string
		zs   []float64
		done []bool
		want bool
	}{
		{"all past", []float64{-1750, -2000}, []bool{false, false}, true},
		{"one behind", []float64{-1749, -2000}, []bool{false, false}, false},
		{"straggler finished", []float64{-100, -2000}, []bool{true, false}, true},
	}
	for _, tt := range tests {
		actors := make([]*Actor, len(tt.zs))
		for i := range tt.zs {
			actors[i] = &Actor{Z: tt.zs[i], Finished: tt.done[i]}
		}
		if got := m.CheckHalfwayReached(actors, -3500); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}

	m.triggered = true
	if m.CheckHalfwayReached([]*Actor{{Z: -3000}}, -3500) {
		t.Error("halfway check must be false once triggered")
	}
}

func TestObstacleCount(t *testing.T) {
	tests := []struct{ n, want int }{
		{2, 1}, {3, 1}, {4, 1}, {5, 1}, {10, 4}, {20, 9},
	}
	for _, tt := range tests {
		if got := ObstacleCount(tt.n); got != tt.want {
			t.Errorf("ObstacleCount(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestEventFiresExactlyOncePerRace(t *testing.T) {
	cfg := config.DefaultRaceConfig()
	cfg.Race.CountdownStepTicks = 0
	specs := DefaultEventSpecs(cfg.Events)

	for seed := int64(1); seed <= 6; seed++ {
		rec := &recorder{}
		r := newRace(t, cfg, seed, rec, nil, names(6))
		r.Start()
		flips := 0
		was := r.EventTriggered()
		for i := 0; i < 20000 && r.State() == StateRunning; i++ {
			r.Step()
			if now := r.EventTriggered(); now != was {
				flips++
				if !now {
					t.Fatalf("seed %d: event flag went back to false", seed)
				}
				was = now
			}
		}
		if r.State() != StateFinished {
			t.Fatalf("seed %d: race did not finish", seed)
		}
		if flips != 1 {
			t.Errorf("seed %d: event flag flipped %d times, want 1", seed, flips)
		}
		commits := 0
		for _, s := range specs {
			commits += rec.said(s.Message)
		}
		if commits != 1 {
			t.Errorf("seed %d: %d events committed, want 1", seed, commits)
		}
	}
}

func TestRetriggerIsNoop(t *testing.T) {
	cfg := quietConfig()
	cfg.Events.RouletteTicks = 0
	rec := &recorder{}
	r := newRace(t, cfg, 1, rec, catalogOf(EventReverseGoal), names(3))
	r.Start()
	pastHalfway(r)
	r.Step()
	if !r.EventTriggered() || r.FinishZ() != 500 {
		t.Fatal("event did not fire")
	}

	r.triggerEvent()
	spec, _ := r.Events().Active()
	r.commitEvent(spec)
	for _, a := range r.Actors() {
		if !a.Reversed {
			t.Error("second trigger toggled the direction back")
		}
	}
	if n := rec.said(spec.Message); n != 1 {
		t.Errorf("event announced %d times", n)
	}
}

func TestRouletteDelaysCommit(t *testing.T) {
	cfg := quietConfig()
	cfg.Events.RouletteTicks = 120
	r := newRace(t, cfg, 1, nil, catalogOf(EventLightning, EventReverseGoal, EventObstacleDrop), names(4))
	r.Start()
	pastHalfway(r)

	r.Step()
	if !r.EventTriggered() {
		t.Fatal("roulette did not start")
	}
	snap := r.Snapshot()
	if !snap.Event.Spinning || snap.Event.Shown == "" || snap.Event.Committed != "" {
		t.Fatalf("snapshot during roulette = %+v", snap.Event)
	}
	steps := 1
	for {
		if _, ok := r.Events().Active(); ok {
			break
		}
		if steps > 500 {
			t.Fatal("roulette never committed")
		}
		r.Step()
		steps++
	}
	if steps != 120 {
		t.Errorf("committed after %d ticks, want 120", steps)
	}
	snap = r.Snapshot()
	if snap.Event.Spinning || snap.Event.Committed == "" {
		t.Errorf("snapshot after roulette = %+v", snap.Event)
	}
}

func TestEmptyCatalogIsSilent(t *testing.T) {
	rec := &recorder{}
	r := newRace(t, quietConfig(), 1, rec, nil, names(3))
	r.Start()
	pastHalfway(r)
	r.Step()
	if !r.EventTriggered() {
		t.Error("one-shot flag should still be set")
	}
	if _, ok := r.Events().Active(); ok {
		t.Error("empty catalog committed an event")
	}
	if r.Events().CameraActive() {
		t.Error("empty catalog opened the event camera")
	}
}

func TestReverseGoal(t *testing.T) {
	cfg := quietConfig()
	cfg.Events.RouletteTicks = 0
	rec := &recorder{}
	r := newRace(t, cfg, 1, rec, catalogOf(EventReverseGoal), names(3))
	r.Start()
	pastHalfway(r)
	r.Step()

	if r.FinishZ() != 500 {
		t.Errorf("finish = %v, want 500", r.FinishZ())
	}
	for _, a := range r.Actors() {
		if !a.Reversed {
			t.Errorf("%s not reversed", a.Name)
		}
	}
	labels := 0
	for _, o := range rec.added {
		if o.Kind == ObjectFinishLine && o.Label == "REVERSE" && o.Pos.Z == 500 {
			labels++
		}
	}
	if labels != 1 {
		t.Error("finish line was not moved")
	}

	before := r.Actors()[0].Z
	r.Step()
	if r.Actors()[0].Z <= before {
		t.Error("reversed runner should move toward +Z")
	}
	if h := r.Actors()[0].Heading; h <= 0 {
		t.Errorf("heading = %v, want turning toward pi", h)
	}
}

func TestLightningStrikesStaggered(t *testing.T) {
	cfg := quietConfig()
	cfg.Events.RouletteTicks = 0
	rec := &recorder{}
	r := newRace(t, cfg, 9, rec, catalogOf(EventLightning), names(5))
	r.Start()
	pastHalfway(r)

	shocked := func() int {
		n := 0
		for _, a := range r.Actors() {
			if a.Status == StatusShock {
				n++
			}
		}
		return n
	}

	r.Step()
	if got := shocked(); got != 1 {
		t.Fatalf("after trigger: %d shocked, want 1", got)
	}
	for i := 0; i < 17; i++ {
		r.Step()
	}
	if got := shocked(); got != 1 {
		t.Fatalf("before second strike: %d shocked, want 1", got)
	}
	r.Step()
	if got := shocked(); got != 2 {
		t.Fatalf("after 18 ticks: %d shocked, want 2", got)
	}
	for i := 0; i < 60; i++ {
		r.Step()
	}
	if got := shocked(); got != 3 {
		t.Errorf("final: %d shocked, want 3", got)
	}
	if rec.count(CueStrike) != 3 {
		t.Errorf("strike cues = %d, want 3", rec.count(CueStrike))
	}
	bolts := 0
	for _, o := range rec.added {
		if o.Kind == ObjectBolt {
			bolts++
		}
	}
	if bolts != 3 {
		t.Errorf("bolts = %d, want 3", bolts)
	}
}

func TestLightningCappedByField(t *testing.T) {
	cfg := quietConfig()
	cfg.Events.RouletteTicks = 0
	rec := &recorder{}
	r := newRace(t, cfg, 2, rec, catalogOf(EventLightning), names(2))
	r.Start()
	pastHalfway(r)
	for i := 0; i < 100; i++ {
		r.Step()
	}
	if rec.count(CueStrike) != 2 {
		t.Errorf("strikes = %d, want 2", rec.count(CueStrike))
	}
}

func TestCatalogFromConfig(t *testing.T) {
	cfg := config.DefaultRaceConfig().Events
	c, err := CatalogFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 3 {
		t.Errorf("catalog len = %d, want 3", c.Len())
	}

	cfg.Enabled = []string{"reverse", "reverse_goal"}
	c, err = CatalogFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Errorf("duplicate registration: len = %d", c.Len())
	}

	cfg.Enabled = []string{"meteor"}
	if _, err := CatalogFromConfig(cfg); err == nil {
		t.Error("unknown event should be rejected")
	}
}

// finishTwo puts the first two runners not in skip one step from the line.
func finishTwo(r *Race, skip func(*Actor) bool) {
	n := 0
	for _, a := range r.Actors() {
		if n == 2 {
			return
		}
		if skip(a) {
			continue
		}
		a.Z = r.FinishZ() + 0.5
		n++
	}
}

func TestStaggeredEffectsStopAtFinish(t *testing.T) {
	cfg := quietConfig()
	cfg.Events.RouletteTicks = 0

	t.Run("lightning", func(t *testing.T) {
		rec := &recorder{}
		r := newRace(t, cfg, 9, rec, catalogOf(EventLightning), names(5))
		r.Start()
		pastHalfway(r)
		r.Step()
		if rec.count(CueStrike) != 1 {
			t.Fatalf("strikes after trigger = %d, want 1", rec.count(CueStrike))
		}

		finishTwo(r, func(a *Actor) bool { return a.Status == StatusShock })
		r.Step()
		if r.State() != StateFinished {
			t.Fatalf("state = %v, want finished", r.State())
		}
		for i := 0; i < 120; i++ {
			r.Step()
		}

		if rec.count(CueStrike) != 1 {
			t.Errorf("strikes after finish = %d, want 1", rec.count(CueStrike))
		}
		shocked := 0
		for _, a := range r.Actors() {
			if a.Status == StatusShock {
				shocked++
			}
		}
		if shocked != 1 {
			t.Errorf("shocked = %d, want 1", shocked)
		}
		bolts := 0
		for _, o := range rec.added {
			if o.Kind == ObjectBolt {
				bolts++
			}
		}
		if bolts != 1 || len(rec.removed) == 0 {
			t.Errorf("bolts added = %d, removed = %d; want 1 added and cleaned up", bolts, len(rec.removed))
		}
	})

	t.Run("obstacles", func(t *testing.T) {
		r := newRace(t, cfg, 3, nil, catalogOf(EventObstacleDrop), names(10))
		r.Start()
		pastHalfway(r)
		r.Step()
		dropped := len(r.Obstacles())
		if dropped != 1 {
			t.Fatalf("obstacles after trigger = %d, want 1", dropped)
		}

		finishTwo(r, func(*Actor) bool { return false })
		r.Step()
		if r.State() != StateFinished {
			t.Fatalf("state = %v, want finished", r.State())
		}
		for i := 0; i < 120; i++ {
			r.Step()
		}
		if got := len(r.Obstacles()); got != dropped {
			t.Errorf("obstacles after finish = %d, want %d", got, dropped)
		}
	})
}
