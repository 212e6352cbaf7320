package race

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-derby/internal/config"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPickRandomSkillCutoffs(t *testing.T) {
	s := NewSkills(config.DefaultRaceConfig().Skills)

	tests := []struct {
		r      float64
		want   Status
		wantOK bool
	}{
		{0, StatusBoost, true},
		{0.2999, StatusBoost, true},
		{0.3, StatusStun, true},
		{0.4999, StatusStun, true},
		{0.5, StatusBack, true},
		{0.6999, StatusBack, true},
		{0.7, StatusRun, false},
		{0.9999, StatusRun, false},
	}
	for _, tt := range tests {
		got, dur, ok := s.PickRandomSkill(tt.r)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("PickRandomSkill(%v) = %v, %v; want %v, %v", tt.r, got, ok, tt.want, tt.wantOK)
		}
		if ok && dur != s.Duration(got) {
			t.Errorf("PickRandomSkill(%v) duration = %d, want %d", tt.r, dur, s.Duration(got))
		}
	}
}

func TestPickRandomSkillZigzagSlice(t *testing.T) {
	cfg := config.DefaultRaceConfig().Skills
	cfg.ZigzagWeight = 0.1
	s := NewSkills(cfg)

	if got, _, ok := s.PickRandomSkill(0.75); !ok || got != StatusZigzag {
		t.Errorf("0.75 = %v, %v; want ZIGZAG", got, ok)
	}
	if _, _, ok := s.PickRandomSkill(0.8); ok {
		t.Error("0.8 should be past the zigzag slice")
	}
	if got, _, _ := s.PickRandomSkill(0.65); got != StatusBack {
		t.Errorf("back cutoff moved: 0.65 = %v", got)
	}
}

func TestSpeedMultiplier(t *testing.T) {
	s := NewSkills(config.DefaultRaceConfig().Skills)

	tests := []struct {
		status Status
		speed  float64
		want   float64
	}{
		{StatusRun, 1.3, 1.3},
		{StatusIdle, 1.3, 1.3},
		{StatusBoost, 1.4, 3.5},
		{StatusStun, 1.4, 0},
		{StatusShock, 1.4, 0},
		{StatusFallen, 1.4, 0},
		{StatusBack, 1.4, -0.2},
		{StatusWalk, 1.4, 2.5},
		{StatusZigzag, 1.3, 1.3},
	}
	for _, tt := range tests {
		if got := s.SpeedMultiplier(tt.status, tt.speed); !approx(got, tt.want) {
			t.Errorf("SpeedMultiplier(%v, %v) = %v, want %v", tt.status, tt.speed, got, tt.want)
		}
	}
}

func TestZigzagFactorIsConfigurable(t *testing.T) {
	cfg := config.DefaultRaceConfig().Skills
	cfg.Effects.ZigzagFactor = 0.8
	s := NewSkills(cfg)
	if got := s.SpeedMultiplier(StatusZigzag, 1.0); !approx(got, 0.8) {
		t.Errorf("SpeedMultiplier(ZIGZAG, 1.0) = %v, want 0.8", got)
	}
}

func TestStatusTable(t *testing.T) {
	s := NewSkills(config.DefaultRaceConfig().Skills)

	durations := map[Status]int{
		StatusBoost:  100,
		StatusStun:   100,
		StatusBack:   120,
		StatusShock:  300,
		StatusWalk:   80,
		StatusFallen: 120,
		StatusZigzag: 120,
	}
	for st, want := range durations {
		if got := s.Duration(st); got != want {
			t.Errorf("Duration(%v) = %d, want %d", st, got, want)
		}
		if s.Message(st, "Dobbin") == "" {
			t.Errorf("%v has no announcement", st)
		}
	}

	if s.Message(StatusRun, "Dobbin") != "" {
		t.Error("RUN should not be announced")
	}
	for _, st := range []Status{StatusStun, StatusShock, StatusFallen} {
		if !st.Halted() {
			t.Errorf("%v should halt", st)
		}
	}
	if StatusBack.Halted() || StatusRun.Halted() {
		t.Error("BACK and RUN move")
	}
	if !s.Grounded(StatusFallen) || s.Grounded(StatusShock) {
		t.Error("only fallen runners are passed over by obstacles")
	}
	if !s.Sways(StatusZigzag) || s.Sways(StatusRun) {
		t.Error("only zigzag sways")
	}
	if Status(42).String() != "Status(42)" {
		t.Errorf("unknown status string = %q", Status(42).String())
	}
}
