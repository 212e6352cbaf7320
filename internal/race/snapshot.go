package race

import (
	"cmp"
	"slices"
)

// ActorView is an immutable copy of an actor.
type ActorView struct {
	Name           string  `json:"name"`
	Lane           int     `json:"lane"`
	X              float64 `json:"x"`
	Z              float64 `json:"z"`
	Status         Status  `json:"status"`
	StatusTimer    int     `json:"status_timer"`
	EffectiveSpeed float64 `json:"speed"`
	Rank           int     `json:"rank"`
	Finished       bool    `json:"finished"`
	Place          int     `json:"place,omitempty"`
	Reversed       bool    `json:"reversed"`
	Pose           Pose    `json:"-"`
	Color          uint8   `json:"-"`
}

// ObstacleView is an immutable copy of an obstacle.
type ObstacleView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Landed bool    `json:"landed"`
}

// EventView describes the halfway event as seen by spectators.
type EventView struct {
	Triggered bool   `json:"triggered"`
	Spinning  bool   `json:"spinning"`
	Shown     string `json:"shown,omitempty"` // Candidate on the roulette
	Committed string `json:"committed,omitempty"`
	Camera    bool   `json:"camera"`
}

// Snapshot is a point-in-time copy of a race that is safe to share
// between goroutines.
type Snapshot struct {
	Frame           int            `json:"frame"`
	Elapsed         int            `json:"elapsed"`
	State           State          `json:"state"`
	Countdown       string         `json:"countdown,omitempty"`
	FinishZ         float64        `json:"finish_z"`
	OriginalFinishZ float64        `json:"original_finish_z"`
	TrackWidth      float64        `json:"track_width"`
	Reversed        bool           `json:"reversed"`
	Actors          []ActorView    `json:"actors"`
	Obstacles       []ObstacleView `json:"obstacles"`
	Leader          string         `json:"leader,omitempty"`
	Distance        int            `json:"distance"`
	Gap             float64        `json:"gap"`
	GapWarning      bool           `json:"gap_warning"`
	Event           EventView      `json:"event"`
	Framing         Framing        `json:"framing"`
	CameraZ         float64        `json:"camera_z"`
	Placements      []string       `json:"placements"`
	Over            bool           `json:"over"`
}

// Snapshot copies the current race state.
func (r *Race) Snapshot() Snapshot {
	s := Snapshot{
		Frame:           r.frame,
		Elapsed:         r.Elapsed(),
		State:           r.state,
		Countdown:       r.countdown,
		FinishZ:         r.finishZ,
		OriginalFinishZ: r.cfg.Track.FinishZ,
		TrackWidth:      r.trackWidth,
		Reversed:        r.anyReversed(),
		Actors:          make([]ActorView, len(r.actors)),
		Obstacles:       make([]ObstacleView, len(r.obstacles)),
		Distance:        r.distance,
		Gap:             r.gap,
		GapWarning:      r.gapWarning,
		Framing:         r.camera.Framing,
		CameraZ:         r.camera.Target.Z,
		Placements:      make([]string, len(r.placements)),
		Over:            r.over,
	}
	for i, a := range r.actors {
		s.Actors[i] = ActorView{
			Name:           a.Name,
			Lane:           a.Lane,
			X:              a.X,
			Z:              a.Z,
			Status:         a.Status,
			StatusTimer:    a.StatusTimer,
			EffectiveSpeed: a.EffectiveSpeed,
			Rank:           a.Rank,
			Finished:       a.Finished,
			Place:          a.Place,
			Reversed:       a.Reversed,
			Pose:           PoseAt(a, r.frame),
			Color:          uint8(a.Color),
		}
	}
	for i, o := range r.obstacles {
		s.Obstacles[i] = ObstacleView{X: o.X, Y: o.Y, Z: o.Z, Landed: o.Landed}
	}
	for i, a := range r.placements {
		s.Placements[i] = a.Name
	}
	if r.leader != nil {
		s.Leader = r.leader.Name
	}

	s.Event = EventView{
		Triggered: r.events.Triggered(),
		Spinning:  r.events.roulette.Spinning(),
		Camera:    r.events.CameraActive(),
	}
	if s.Event.Spinning {
		if spec, ok := r.events.roulette.Shown(); ok {
			s.Event.Shown = spec.Name
		}
	}
	if spec, ok := r.events.Active(); ok {
		s.Event.Committed = spec.Name
	}
	return s
}

// Placement is one line of the final ranking.
type Placement struct {
	Name       string `json:"name"`
	Lane       int    `json:"lane"`
	Place      int    `json:"place"`
	Finished   bool   `json:"finished"`
	FinishTick int    `json:"finish_tick,omitempty"`
}

// Result is the outcome of a race.
type Result struct {
	Seed       int64       `json:"seed"`
	Ticks      int         `json:"ticks"`
	Event      string      `json:"event,omitempty"`
	Reversed   bool        `json:"reversed"`
	Placements []Placement `json:"placements"`
}

// Result ranks every actor: finishers in crossing order, then the rest of
// the field by their last rank.
func (r *Race) Result() Result {
	res := Result{
		Seed:       r.rt.Seed,
		Ticks:      r.Elapsed(),
		Reversed:   r.anyReversed(),
		Placements: make([]Placement, 0, len(r.actors)),
	}
	if spec, ok := r.events.Active(); ok {
		res.Event = spec.Kind.String()
	}

	for _, a := range r.placements {
		res.Placements = append(res.Placements, Placement{
			Name: a.Name, Lane: a.Lane, Place: a.Place, Finished: true, FinishTick: a.FinishTick,
		})
	}

	rest := r.activeActors()
	slices.SortStableFunc(rest, func(a, b *Actor) int {
		if a.Rank == 0 || b.Rank == 0 {
			return cmp.Compare(b.Rank, a.Rank)
		}
		return cmp.Compare(a.Rank, b.Rank)
	})
	for _, a := range rest {
		res.Placements = append(res.Placements, Placement{
			Name: a.Name, Lane: a.Lane, Place: len(res.Placements) + 1,
		})
	}
	return res
}
