package config

import (
	_ "embed"
)

//go:embed defaults/race.yaml
var defaultRaceYAML []byte

// DefaultRaceConfig returns the hard-coded race configuration. It mirrors
// defaults/race.yaml and is used when the embedded file cannot be parsed.
func DefaultRaceConfig() RaceConfig {
	return RaceConfig{
		Track: TrackConfig{
			FinishZ:        -3500,
			ReverseFinishZ: 500,
			LaneWidth:      30,
			MinLanes:       8,
			MaxLanes:       20,
		},
		Actors: ActorConfig{
			MinBaseSpeed:    1.2,
			MaxBaseSpeed:    1.6,
			MaxParticipants: 20,
			Pacing:          1,
		},
		Skills: SkillConfig{
			TriggerChance:  0.0015,
			DelayTicks:     180,
			CooldownTicks:  90,
			WalkChance:     0.1,
			BoostCutoff:    0.3,
			StunCutoff:     0.5,
			BackCutoff:     0.7,
			ZigzagWeight:   0,
			KnockdownRange: 50,
			Durations: StatusDurations{
				Boost:  100,
				Stun:   100,
				Back:   120,
				Shock:  300,
				Walk:   80,
				Fallen: 120,
				Zigzag: 120,
			},
			Effects: StatusEffects{
				BoostFactor:  2.5,
				BackSpeed:    -0.2,
				WalkSpeed:    2.5,
				ZigzagFactor: 1.0,
			},
			Zigzag: ZigzagConfig{
				LateralRange:      15,
				LongitudinalRange: 30,
				FallTicks:         90,
			},
		},
		RubberBand: RubberBandConfig{
			Floor: 0.92,
			Span:  0.3,
		},
		Events: EventsConfig{
			Enabled:       []string{"lightning", "reverse_goal", "obstacle_drop"},
			RouletteTicks: 120,
			Lightning: LightningConfig{
				TargetCount: 3,
				StaggerMs:   300,
				CameraTicks: 180,
				BoltTicks:   20,
			},
			ReverseGoal: ReverseGoalConfig{
				CameraTicks: 180,
			},
			ObstacleDrop: ObstacleDropConfig{
				Distance:        200,
				DistanceJitter:  100,
				LateralJitter:   50,
				FallHeight:      300,
				FallSpeed:       5,
				FallSpeedJitter: 2,
				StaggerMs:       200,
				CameraTicks:     240,
			},
		},
		Obstacles: ObstacleConfig{
			Gravity: 0.3,
			LandY:   15,
			FloorY:  -10,
			Radius:  25,
		},
		Camera: CameraConfig{
			FinishRange: 500,
			Smoothing:   0.02,
			RotateEvery: 350,
			Cooldown:    120,
			Modes:       6,
		},
		Race: RaceRules{
			Podium:             2,
			FinishDelayTicks:   90,
			CountdownStepTicks: 48,
			GapWarning:         300,
		},
	}
}

// DefaultYAML returns the embedded default race YAML.
func DefaultYAML() []byte {
	return defaultRaceYAML
}
