package core

// RuntimeConfig contains configuration passed to a race at setup.
// The simulation uses TickRate to convert seconds into ticks and Seed
// for deterministic replays.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic races
}

// Tick rate bounds accepted by Normalize.
const (
	MinTickRate = 10
	MaxTickRate = 240
)

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Normalize clamps out-of-range values instead of rejecting them.
func (c RuntimeConfig) Normalize() RuntimeConfig {
	if c.TickRate == 0 {
		c.TickRate = 60
	}
	c.TickRate = Clamp(c.TickRate, MinTickRate, MaxTickRate)
	if c.ScreenW < 20 {
		c.ScreenW = 20
	}
	if c.ScreenH < 10 {
		c.ScreenH = 10
	}
	return c
}

// Ticks converts a duration in milliseconds to simulation ticks at this rate.
// Used for staggered effects authored in wall-clock units.
func (c RuntimeConfig) Ticks(ms int) int {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return ms * rate / 1000
}
