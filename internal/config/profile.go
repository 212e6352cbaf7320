package config

import (
	"fmt"
	"strings"
)

// Profile is a named set of tuning overrides.
type Profile string

const (
	ProfileStandard Profile = "standard"
	ProfileLegacy   Profile = "legacy" // Wider rubber band of the first release
	ProfileChaos    Profile = "chaos"  // Frequent skills, staggering enabled, short roulette
)

// AllProfiles returns all available profiles.
func AllProfiles() []Profile {
	return []Profile{ProfileStandard, ProfileLegacy, ProfileChaos}
}

// ParseProfile converts a string to a Profile.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "default":
		return ProfileStandard, nil
	case "legacy", "classic":
		return ProfileLegacy, nil
	case "chaos", "wild":
		return ProfileChaos, nil
	default:
		return "", fmt.Errorf("unknown profile: %s (valid: standard, legacy, chaos)", s)
	}
}

// String returns the profile name.
func (p Profile) String() string {
	return string(p)
}

// Description returns a human-readable description of the profile.
func (p Profile) Description() string {
	switch p {
	case ProfileStandard:
		return "Balanced field, tight rubber band"
	case ProfileLegacy:
		return "Looser rubber band, more comebacks"
	case ProfileChaos:
		return "Skills everywhere, horses stagger into each other"
	default:
		return ""
	}
}

// ApplyProfile modifies the config based on a profile.
func ApplyProfile(cfg *RaceConfig, p Profile) {
	switch p {
	case ProfileLegacy:
		cfg.RubberBand.Floor = 0.9
		cfg.RubberBand.Span = 0.4
	case ProfileChaos:
		cfg.Skills.TriggerChance = 0.004
		cfg.Skills.WalkChance = 0.3
		cfg.Skills.ZigzagWeight = 0.1
		cfg.Skills.Effects.ZigzagFactor = 0.8
		cfg.Skills.CooldownTicks = 60
		cfg.Events.RouletteTicks = 60
	}
	*cfg = cfg.Normalize()
}
