package race

import "testing"

func TestCameraFinishFramingWins(t *testing.T) {
	cfg := quietConfig()
	cfg.Events.RouletteTicks = 0
	r := newRace(t, cfg, 1, nil, catalogOf(EventLightning), names(3))
	r.Start()
	for _, a := range r.Actors() {
		a.Z = -3200
	}
	r.Step()
	if got := r.Camera().Framing; got != FramingFinish {
		t.Errorf("framing = %v, want finish (event camera is also open)", got)
	}
}

func TestCameraEventAerial(t *testing.T) {
	cfg := quietConfig()
	cfg.Events.RouletteTicks = 0
	r := newRace(t, cfg, 1, nil, catalogOf(EventReverseGoal), names(3))
	r.Start()
	pastHalfway(r)
	r.Step()
	if got := r.Camera().Framing; got != FramingEvent {
		t.Fatalf("framing = %v, want aerial", got)
	}
	for i := 0; i < 180; i++ {
		r.Step()
	}
	if got := r.Camera().Framing; got == FramingEvent {
		t.Error("event camera outlived its window")
	}
}

func TestCameraRotatesWithCooldown(t *testing.T) {
	r := newRace(t, quietConfig(), 1, nil, nil, names(4))
	r.Start()
	for r.Frame() < 349 {
		r.Step()
	}
	if c := r.Camera(); c.Mode != 0 || c.Framing != FramingRotate {
		t.Fatalf("camera before 350 = %+v", c)
	}
	r.Step()
	if c := r.Camera(); c.Mode != 1 {
		t.Errorf("mode at 350 = %d, want 1", c.Mode)
	}
}

func TestCameraSmooths(t *testing.T) {
	r := newRace(t, quietConfig(), 1, nil, nil, names(4))
	start := r.Camera().Pos
	r.Start()
	r.Step()
	c := r.Camera()
	if c.Pos == start {
		t.Error("camera did not move")
	}
	// Mode 0 wants z = leader+150; one tick only covers 2% of the way.
	if want := r.Leader().Z + 150; c.Pos.Z == want {
		t.Error("camera snapped instead of easing")
	}
}

func TestCameraCloseUpAfterStrike(t *testing.T) {
	r := newRace(t, quietConfig(), 1, nil, nil, names(4))
	r.Start()
	for r.Frame() < 200 {
		r.Step()
	}
	victim := r.Actors()[2]
	r.camera.requestCloseUp(victim, r.Frame()+300)
	r.Step()
	if got := r.Camera().Framing; got != FramingCloseUp {
		t.Errorf("framing = %v, want close-up", got)
	}
}
