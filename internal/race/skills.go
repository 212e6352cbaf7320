package race

import (
	"fmt"

	"github.com/vovakirdan/tui-derby/internal/config"
)

// Skills holds the status table and the random skill picker.
type Skills struct {
	table statusTable
	cfg   config.SkillConfig
}

// NewSkills builds the skill system from configuration.
func NewSkills(cfg config.SkillConfig) *Skills {
	return &Skills{table: newStatusTable(cfg), cfg: cfg}
}

// PickRandomSkill maps a uniform draw r in [0,1) onto the cumulative skill
// table. ok is false when no skill fires.
func (s *Skills) PickRandomSkill(r float64) (status Status, duration int, ok bool) {
	switch {
	case r < s.cfg.BoostCutoff:
		status = StatusBoost
	case r < s.cfg.StunCutoff:
		status = StatusStun
	case r < s.cfg.BackCutoff:
		status = StatusBack
	case r < s.cfg.BackCutoff+s.cfg.ZigzagWeight:
		status = StatusZigzag
	default:
		return StatusRun, 0, false
	}
	return status, s.table[status].duration, true
}

// SpeedMultiplier returns the signed per-tick displacement of an actor in
// the given status moving at speed.
func (s *Skills) SpeedMultiplier(status Status, speed float64) float64 {
	if status < 0 || status >= statusCount {
		return speed
	}
	e := s.table[status]
	switch e.rule {
	case ruleScale:
		return speed * e.value
	case ruleFixed:
		return e.value
	case ruleHalt:
		return 0
	default:
		return speed
	}
}

// Duration returns the configured lifetime of a status in ticks.
func (s *Skills) Duration(status Status) int {
	if status < 0 || status >= statusCount {
		return 0
	}
	return s.table[status].duration
}

// Message formats the announcement for an actor entering status. It is
// empty for statuses that are not announced.
func (s *Skills) Message(status Status, name string) string {
	if status < 0 || status >= statusCount || s.table[status].message == "" {
		return ""
	}
	return fmt.Sprintf(s.table[status].message, name)
}

// Sways reports whether the status takes part in the stagger collision check.
func (s *Skills) Sways(status Status) bool {
	return status >= 0 && status < statusCount && s.table[status].sways
}

// Grounded reports whether obstacles pass over an actor in this status.
func (s *Skills) Grounded(status Status) bool {
	return status >= 0 && status < statusCount && s.table[status].grounded
}
