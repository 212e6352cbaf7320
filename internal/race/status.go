// Package race implements the derby simulation core: runners, their
// transient statuses, rubber-banded pacing, ranking, camera framing, the
// one-shot halfway map event and falling obstacles.
//
// A Race is single-threaded. Step advances it by exactly one tick and is
// the only place race state changes; deferred effects are queued on a
// Scheduler keyed by frame, so a run is fully determined by its seed.
package race

import (
	"fmt"

	"github.com/vovakirdan/tui-derby/internal/config"
)

// Status is the transient behavioral mode of an actor.
type Status int

const (
	StatusRun Status = iota
	StatusBoost
	StatusStun
	StatusBack
	StatusShock
	StatusWalk
	StatusFallen
	StatusZigzag
	StatusIdle

	statusCount
)

// speedRule selects how a status turns the current speed into displacement.
type speedRule int

const (
	ruleKeep  speedRule = iota // speed unchanged
	ruleScale                  // speed * value
	ruleFixed                  // value, regardless of speed
	ruleHalt                   // zero
)

// statusDef is the static part of a status: its name, speed rule and
// announcement template.
type statusDef struct {
	name     string
	rule     speedRule
	message  string
	sways    bool // takes part in the stagger collision check
	grounded bool // ignored by obstacles
}

var statusDefs = [statusCount]statusDef{
	StatusRun:    {name: "RUN", rule: ruleKeep},
	StatusBoost:  {name: "BOOST", rule: ruleScale, message: "%s kicks into a sprint!"},
	StatusStun:   {name: "STUN", rule: ruleHalt, message: "%s zones out for a moment."},
	StatusBack:   {name: "BACK", rule: ruleFixed, message: "%s is going backwards?!"},
	StatusShock:  {name: "SHOCK", rule: ruleHalt, message: "BOOM! %s got struck by lightning!"},
	StatusWalk:   {name: "WALK", rule: ruleFixed, message: "%s marches out, shoving both neighbours!"},
	StatusFallen: {name: "FALLEN", rule: ruleHalt, message: "%s took a tumble!", grounded: true},
	StatusZigzag: {name: "ZIGZAG", rule: ruleScale, message: "%s is staggering all over the lane!", sways: true},
	StatusIdle:   {name: "IDLE", rule: ruleKeep},
}

// String returns the status name.
func (s Status) String() string {
	if s < 0 || s >= statusCount {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusDefs[s].name
}

// Halted reports whether the status pins effective speed to zero.
func (s Status) Halted() bool {
	return s >= 0 && s < statusCount && statusDefs[s].rule == ruleHalt
}

// statusEntry is a statusDef combined with the configured duration and
// speed value.
type statusEntry struct {
	statusDef
	duration int
	value    float64
}

// statusTable is indexed by Status.
type statusTable [statusCount]statusEntry

func newStatusTable(cfg config.SkillConfig) statusTable {
	var t statusTable
	for s := Status(0); s < statusCount; s++ {
		t[s].statusDef = statusDefs[s]
	}
	d, e := cfg.Durations, cfg.Effects
	t[StatusBoost].duration, t[StatusBoost].value = d.Boost, e.BoostFactor
	t[StatusStun].duration = d.Stun
	t[StatusBack].duration, t[StatusBack].value = d.Back, e.BackSpeed
	t[StatusShock].duration = d.Shock
	t[StatusWalk].duration, t[StatusWalk].value = d.Walk, e.WalkSpeed
	t[StatusFallen].duration = d.Fallen
	t[StatusZigzag].duration, t[StatusZigzag].value = d.Zigzag, e.ZigzagFactor
	return t
}
