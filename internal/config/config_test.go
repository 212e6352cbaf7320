package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEmbeddedMatchesDefaults(t *testing.T) {
	got := Embedded()
	want := DefaultRaceConfig().Normalize()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("embedded race.yaml drifted from DefaultRaceConfig:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadCustomPathOverridesKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "race.yaml")
	data := []byte("race:\n  podium: 3\nrubber_band:\n  floor: 0.8\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Race.Podium != 3 {
		t.Errorf("podium = %d, want 3", cfg.Race.Podium)
	}
	if cfg.RubberBand.Floor != 0.8 {
		t.Errorf("floor = %v, want 0.8", cfg.RubberBand.Floor)
	}
	if cfg.Track.FinishZ != -3500 {
		t.Errorf("unset key lost its default: finish_z = %v", cfg.Track.FinishZ)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("race: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestNormalizeClamps(t *testing.T) {
	cfg := DefaultRaceConfig()
	cfg.Race.Podium = 0
	cfg.Skills.StunCutoff = 0.1 // below boost cutoff
	cfg.Skills.ZigzagWeight = 0.9
	cfg.Actors.MaxParticipants = 50
	cfg.Events.RouletteTicks = -5

	n := cfg.Normalize()
	if n.Race.Podium != 1 {
		t.Errorf("podium = %d, want 1", n.Race.Podium)
	}
	if n.Skills.StunCutoff != n.Skills.BoostCutoff {
		t.Errorf("stun cutoff = %v, want raised to %v", n.Skills.StunCutoff, n.Skills.BoostCutoff)
	}
	if limit := 1 - n.Skills.BackCutoff; n.Skills.ZigzagWeight > limit+1e-9 {
		t.Errorf("zigzag weight = %v, want <= %v", n.Skills.ZigzagWeight, limit)
	}
	if n.Actors.MaxParticipants != n.Track.MaxLanes {
		t.Errorf("max participants = %d, want %d", n.Actors.MaxParticipants, n.Track.MaxLanes)
	}
	if n.Events.RouletteTicks != 0 {
		t.Errorf("roulette ticks = %d, want 0", n.Events.RouletteTicks)
	}
}

func TestProfiles(t *testing.T) {
	tests := []struct {
		in      string
		want    Profile
		wantErr bool
	}{
		{"", ProfileStandard, false},
		{"Legacy", ProfileLegacy, false},
		{" chaos ", ProfileChaos, false},
		{"turbo", "", true},
	}
	for _, tt := range tests {
		got, err := ParseProfile(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseProfile(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseProfile(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	cfg := DefaultRaceConfig()
	ApplyProfile(&cfg, ProfileLegacy)
	if cfg.RubberBand.Floor != 0.9 || cfg.RubberBand.Span != 0.4 {
		t.Errorf("legacy rubber band = %+v", cfg.RubberBand)
	}

	cfg = DefaultRaceConfig()
	ApplyProfile(&cfg, ProfileChaos)
	if cfg.Skills.ZigzagWeight <= 0 {
		t.Error("chaos should enable zigzag")
	}
	if cfg.Skills.Effects.ZigzagFactor != 0.8 {
		t.Errorf("chaos zigzag factor = %v, want 0.8", cfg.Skills.Effects.ZigzagFactor)
	}

	for _, p := range AllProfiles() {
		if p.Description() == "" {
			t.Errorf("profile %s has no description", p)
		}
	}
}
