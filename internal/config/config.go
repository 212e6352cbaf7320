// Package config provides YAML-based race configuration loading and
// named tuning profiles for the derby simulator.
package config

// RaceConfig contains every tunable constant of the race simulation.
type RaceConfig struct {
	Track      TrackConfig      `yaml:"track"`
	Actors     ActorConfig      `yaml:"actors"`
	Skills     SkillConfig      `yaml:"skills"`
	RubberBand RubberBandConfig `yaml:"rubber_band"`
	Events     EventsConfig     `yaml:"events"`
	Obstacles  ObstacleConfig   `yaml:"obstacles"`
	Camera     CameraConfig     `yaml:"camera"`
	Race       RaceRules        `yaml:"race"`
}

// TrackConfig defines the track geometry.
type TrackConfig struct {
	FinishZ        float64 `yaml:"finish_z"`         // Original finish line (negative = ahead of start)
	ReverseFinishZ float64 `yaml:"reverse_finish_z"` // Finish line after the reverse-goal event
	LaneWidth      float64 `yaml:"lane_width"`
	MinLanes       int     `yaml:"min_lanes"`
	MaxLanes       int     `yaml:"max_lanes"`
}

// ActorConfig defines runner creation parameters.
type ActorConfig struct {
	MinBaseSpeed    float64 `yaml:"min_base_speed"`
	MaxBaseSpeed    float64 `yaml:"max_base_speed"`
	MaxParticipants int     `yaml:"max_participants"`
	Pacing          float64 `yaml:"pacing"` // Scale of the organic speed oscillation; 0 disables it
}

// SkillConfig defines random skill triggering and status effects.
type SkillConfig struct {
	TriggerChance  float64 `yaml:"trigger_chance"` // Per-tick chance while eligible
	DelayTicks     int     `yaml:"delay_ticks"`    // No skills before this many ticks of racing
	CooldownTicks  int     `yaml:"cooldown_ticks"`
	WalkChance     float64 `yaml:"walk_chance"` // Inner chance of the one-shot walk
	BoostCutoff    float64 `yaml:"boost_cutoff"`
	StunCutoff     float64 `yaml:"stun_cutoff"`
	BackCutoff     float64 `yaml:"back_cutoff"`
	ZigzagWeight   float64 `yaml:"zigzag_weight"`   // Carved out of the no-skill remainder
	KnockdownRange float64 `yaml:"knockdown_range"` // Longitudinal reach of the walk knockdown

	Durations StatusDurations `yaml:"durations"`
	Effects   StatusEffects   `yaml:"effects"`
	Zigzag    ZigzagConfig    `yaml:"zigzag"`
}

// StatusDurations are status lifetimes in ticks.
type StatusDurations struct {
	Boost  int `yaml:"boost"`
	Stun   int `yaml:"stun"`
	Back   int `yaml:"back"`
	Shock  int `yaml:"shock"`
	Walk   int `yaml:"walk"`
	Fallen int `yaml:"fallen"`
	Zigzag int `yaml:"zigzag"`
}

// StatusEffects are the speed rules attached to statuses.
type StatusEffects struct {
	BoostFactor  float64 `yaml:"boost_factor"`  // Multiplies current speed
	BackSpeed    float64 `yaml:"back_speed"`    // Absolute per-tick speed
	WalkSpeed    float64 `yaml:"walk_speed"`    // Absolute per-tick speed
	ZigzagFactor float64 `yaml:"zigzag_factor"` // Multiplies current speed
}

// ZigzagConfig is the stagger collision box.
type ZigzagConfig struct {
	LateralRange      float64 `yaml:"lateral_range"`
	LongitudinalRange float64 `yaml:"longitudinal_range"`
	FallTicks         int     `yaml:"fall_ticks"`
}

// RubberBandConfig scales speed by rank: floor + ratio*span.
type RubberBandConfig struct {
	Floor float64 `yaml:"floor"`
	Span  float64 `yaml:"span"`
}

// EventsConfig defines the halfway map event.
type EventsConfig struct {
	Enabled       []string           `yaml:"enabled"` // Event kinds in the catalog; empty = no event
	RouletteTicks int                `yaml:"roulette_ticks"`
	Lightning     LightningConfig    `yaml:"lightning"`
	ReverseGoal   ReverseGoalConfig  `yaml:"reverse_goal"`
	ObstacleDrop  ObstacleDropConfig `yaml:"obstacle_drop"`
}

// LightningConfig defines the lightning strike event.
type LightningConfig struct {
	TargetCount int `yaml:"target_count"`
	StaggerMs   int `yaml:"stagger_ms"`
	CameraTicks int `yaml:"camera_ticks"`
	BoltTicks   int `yaml:"bolt_ticks"`
}

// ReverseGoalConfig defines the reverse-goal event.
type ReverseGoalConfig struct {
	CameraTicks int `yaml:"camera_ticks"`
}

// ObstacleDropConfig defines where dropped obstacles appear.
type ObstacleDropConfig struct {
	Distance        float64 `yaml:"distance"`
	DistanceJitter  float64 `yaml:"distance_jitter"`
	LateralJitter   float64 `yaml:"lateral_jitter"`
	FallHeight      float64 `yaml:"fall_height"`
	FallSpeed       float64 `yaml:"fall_speed"`
	FallSpeedJitter float64 `yaml:"fall_speed_jitter"`
	StaggerMs       int     `yaml:"stagger_ms"`
	CameraTicks     int     `yaml:"camera_ticks"`
}

// ObstacleConfig defines obstacle physics.
type ObstacleConfig struct {
	Gravity float64 `yaml:"gravity"`
	LandY   float64 `yaml:"land_y"`
	FloorY  float64 `yaml:"floor_y"` // Discard bound for obstacles that never land
	Radius  float64 `yaml:"radius"`
}

// CameraConfig defines camera framing.
type CameraConfig struct {
	FinishRange float64 `yaml:"finish_range"`
	Smoothing   float64 `yaml:"smoothing"`
	RotateEvery int     `yaml:"rotate_every"`
	Cooldown    int     `yaml:"cooldown"`
	Modes       int     `yaml:"modes"`
}

// RaceRules defines start and end conditions.
type RaceRules struct {
	Podium             int     `yaml:"podium"` // Finishers needed to end the race
	FinishDelayTicks   int     `yaml:"finish_delay_ticks"`
	CountdownStepTicks int     `yaml:"countdown_step_ticks"`
	GapWarning         float64 `yaml:"gap_warning"`
}

// Normalize clamps out-of-range values instead of rejecting them.
func (c RaceConfig) Normalize() RaceConfig {
	if c.Track.MinLanes < 2 {
		c.Track.MinLanes = 2
	}
	if c.Track.MaxLanes < c.Track.MinLanes {
		c.Track.MaxLanes = c.Track.MinLanes
	}
	if c.Track.LaneWidth <= 0 {
		c.Track.LaneWidth = 30
	}
	if c.Actors.MaxParticipants < 2 {
		c.Actors.MaxParticipants = 2
	}
	if c.Actors.MaxParticipants > c.Track.MaxLanes {
		c.Actors.MaxParticipants = c.Track.MaxLanes
	}
	if c.Actors.Pacing < 0 {
		c.Actors.Pacing = 0
	}
	if c.Actors.MaxBaseSpeed < c.Actors.MinBaseSpeed {
		c.Actors.MaxBaseSpeed = c.Actors.MinBaseSpeed
	}

	s := &c.Skills
	s.TriggerChance = clampF(s.TriggerChance, 0, 1)
	s.WalkChance = clampF(s.WalkChance, 0, 1)
	s.BoostCutoff = clampF(s.BoostCutoff, 0, 1)
	s.StunCutoff = clampF(s.StunCutoff, s.BoostCutoff, 1)
	s.BackCutoff = clampF(s.BackCutoff, s.StunCutoff, 1)
	s.ZigzagWeight = clampF(s.ZigzagWeight, 0, 1-s.BackCutoff)
	if s.CooldownTicks < 0 {
		s.CooldownTicks = 0
	}
	for _, d := range []*int{
		&s.Durations.Boost, &s.Durations.Stun, &s.Durations.Back, &s.Durations.Shock,
		&s.Durations.Walk, &s.Durations.Fallen, &s.Durations.Zigzag,
	} {
		if *d < 1 {
			*d = 1
		}
	}

	if c.Events.RouletteTicks < 0 {
		c.Events.RouletteTicks = 0
	}
	if c.Events.Lightning.TargetCount < 1 {
		c.Events.Lightning.TargetCount = 1
	}
	c.Camera.Smoothing = clampF(c.Camera.Smoothing, 0.001, 1)
	if c.Camera.Modes < 1 {
		c.Camera.Modes = 1
	}
	if c.Camera.RotateEvery < 1 {
		c.Camera.RotateEvery = 1
	}
	if c.Race.Podium < 1 {
		c.Race.Podium = 1
	}
	if c.Race.CountdownStepTicks < 0 {
		c.Race.CountdownStepTicks = 0
	}
	return c
}

func clampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
