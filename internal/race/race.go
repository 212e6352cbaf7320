package race

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/core"
)

// State is the lifecycle phase of a race.
type State int

const (
	StateNotStarted State = iota
	StateCountdown
	StateRunning
	StateFinished
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateCountdown:
		return "countdown"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText encodes the state as its name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MarshalText encodes the status as its name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const hoofEvery = 8

// Options configures a Race. Nil collaborators are replaced by no-ops.
type Options struct {
	Config    config.RaceConfig
	Runtime   core.RuntimeConfig
	Catalog   *EventCatalog // nil builds one from Config.Events.Enabled
	Scene     Scene
	Audio     AudioCue
	Announcer Announcer
	Logger    *log.Logger
}

// Race is the simulation context. It owns the roster, the finish line,
// the frame counter and every pending effect.
type Race struct {
	cfg       config.RaceConfig
	rt        core.RuntimeConfig
	skills    *Skills
	rng       *rand.Rand
	sched     Scheduler
	events    EventManager
	camera    Camera
	obstacles []*Obstacle

	scene     Scene
	audio     AudioCue
	announcer Announcer
	log       *log.Logger

	actors     []*Actor
	placements []*Actor
	state      State
	frame      int
	startFrame int
	podium     int
	over       bool
	countdown  string

	finishZ      float64
	trackWidth   float64
	nextID       ObjectID
	live         map[ObjectID]struct{}
	finishLineID ObjectID

	leader     *Actor
	distance   int
	gap        float64
	gapWarning bool
}

// New creates a race with no roster. Call Setup before Start.
func New(opts Options) (*Race, error) {
	cfg := opts.Config.Normalize()
	catalog := opts.Catalog
	if catalog == nil {
		c, err := CatalogFromConfig(cfg.Events)
		if err != nil {
			return nil, fmt.Errorf("race: %w", err)
		}
		catalog = c
	}

	r := &Race{
		cfg:       cfg,
		rt:        opts.Runtime.Normalize(),
		skills:    NewSkills(cfg.Skills),
		events:    newEventManager(catalog),
		scene:     opts.Scene,
		audio:     opts.Audio,
		announcer: opts.Announcer,
		log:       opts.Logger,
		live:      make(map[ObjectID]struct{}),
		finishZ:   cfg.Track.FinishZ,
	}
	r.rng = rand.New(rand.NewSource(r.rt.Seed))
	if r.scene == nil {
		r.scene = NopScene{}
	}
	if r.audio == nil {
		r.audio = NopAudio{}
	}
	if r.announcer == nil {
		r.announcer = NopAnnouncer{}
	}
	if r.log == nil {
		r.log = log.New(io.Discard)
	}
	r.camera.reset()
	return r, nil
}

// Setup discards any previous race and lines up a new roster. Names past
// the participant limit are dropped.
func (r *Race) Setup(names []string) error {
	limit := core.Min(r.cfg.Actors.MaxParticipants, MaxParticipants)
	if len(names) > limit {
		names = names[:limit]
	}
	if len(names) < 2 {
		return ErrTooFewActors
	}

	for id := range r.live {
		r.scene.RemoveObject(id)
	}
	clear(r.live)
	r.sched.Reset()
	r.events.reset()
	r.obstacles = nil
	r.placements = nil
	r.state = StateNotStarted
	r.startFrame = r.frame
	r.over = false
	r.countdown = ""
	r.leader = nil
	r.distance = 0
	r.gap = 0
	r.gapWarning = false
	r.finishZ = r.cfg.Track.FinishZ
	r.podium = core.Clamp(r.cfg.Race.Podium, 1, len(names))
	r.camera.reset()

	lanes := core.Clamp(len(names), r.cfg.Track.MinLanes, r.cfg.Track.MaxLanes)
	r.trackWidth = r.cfg.Track.LaneWidth * float64(lanes)
	laneW := r.trackWidth / float64(len(names))
	ac := r.cfg.Actors

	r.actors = make([]*Actor, len(names))
	for i, name := range names {
		base := ac.MinBaseSpeed + r.rng.Float64()*(ac.MaxBaseSpeed-ac.MinBaseSpeed)
		r.actors[i] = &Actor{
			Name:      name,
			Lane:      i,
			Color:     core.LaneColor(i),
			X:         float64(i)*laneW - r.trackWidth/2 + laneW/2,
			BaseSpeed: base,
			Speed:     base,
			Status:    StatusRun,
			wobble:    r.rng.Float64() * 100,
		}
	}
	r.placeFinishLine("FINISH")
	return nil
}

// Start begins the countdown. It reports false if the race has no roster
// or has already started.
func (r *Race) Start() bool {
	if r.state != StateNotStarted || len(r.actors) == 0 {
		return false
	}
	r.state = StateCountdown

	step := r.cfg.Race.CountdownStepTicks
	if step == 0 {
		r.beginRunning()
		return true
	}
	for i, label := range []string{"3", "2", "1", "GO!"} {
		cue := CueCountdown
		if label == "GO!" {
			cue = CueGo
		}
		r.sched.At(r.frame+i*step, func() {
			r.countdown = label
			r.audio.Play(cue)
		})
	}
	r.sched.At(r.frame+4*step, r.beginRunning)
	return true
}

func (r *Race) beginRunning() {
	r.state = StateRunning
	r.countdown = ""
	r.startFrame = r.frame
	r.finishZ = r.cfg.Track.FinishZ
	r.events.reset()
	for _, o := range r.obstacles {
		r.removeObject(o.ID)
	}
	r.obstacles = nil
	r.announce(fmt.Sprintf("%d runners are off! An event awaits at the halfway mark!", len(r.actors)))
}

// Step advances the race by one tick.
func (r *Race) Step() {
	r.frame++
	r.sched.RunDue(r.frame)
	if r.state != StateRunning {
		return
	}

	for _, a := range r.actors {
		if r.state != StateRunning {
			break
		}
		r.updateActor(a)
	}
	if r.state == StateRunning {
		r.direct()
	}
	r.stepObstacles()
	r.hoof()
}

// Run steps a started race until it is over or maxFrames ticks have
// passed, and reports whether it ended. Headless callers use it in place
// of a ticker.
func (r *Race) Run(maxFrames int) bool {
	for i := 0; i < maxFrames && !r.over; i++ {
		r.Step()
	}
	return r.over
}

// updateActor isolates a single actor update so a failure cannot stop
// the rest of the field.
func (r *Race) updateActor(a *Actor) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("actor update failed", "actor", a.Name, "frame", r.frame, "err", rec)
		}
	}()
	a.update(r)
}

// direct is the per-tick director pass: ranking, the halfway event and
// the camera.
func (r *Race) direct() {
	r.rank()
	if r.leader == nil {
		return
	}
	if r.events.CheckHalfwayReached(r.actors, r.cfg.Track.FinishZ) {
		r.triggerEvent()
	}
	r.stepEvents()
	r.updateCamera()
}

func (r *Race) hoof() {
	if r.frame%hoofEvery != 0 || r.state != StateRunning {
		return
	}
	for _, a := range r.actors {
		if !a.Finished && (a.Status == StatusRun || a.Status == StatusBoost) {
			if r.rng.Float64() < 0.5 {
				r.audio.Play(CueHoof)
			}
			return
		}
	}
}

// after runs fn now when delay is not positive, otherwise delay ticks later.
func (r *Race) after(delay int, fn func()) {
	if delay <= 0 {
		fn()
		return
	}
	r.sched.At(r.frame+delay, fn)
}

func (r *Race) announce(msg string) {
	if msg == "" {
		return
	}
	r.announcer.Announce(msg)
}

func (r *Race) addObject(kind ObjectKind, pos core.Vec3, label string) ObjectID {
	r.nextID++
	id := r.nextID
	r.live[id] = struct{}{}
	r.scene.AddObject(SceneObject{ID: id, Kind: kind, Pos: pos, Label: label})
	return id
}

func (r *Race) removeObject(id ObjectID) {
	if _, ok := r.live[id]; !ok {
		return
	}
	delete(r.live, id)
	r.scene.RemoveObject(id)
}

func (r *Race) placeFinishLine(label string) {
	if r.finishLineID != 0 {
		r.removeObject(r.finishLineID)
	}
	r.finishLineID = r.addObject(ObjectFinishLine, core.V3(0, 0, r.finishZ), label)
}

// Accessors.

// State returns the lifecycle phase.
func (r *Race) State() State { return r.state }

// Frame returns the tick counter.
func (r *Race) Frame() int { return r.frame }

// Elapsed returns ticks since the race entered Running.
func (r *Race) Elapsed() int {
	if r.state < StateRunning {
		return 0
	}
	return r.frame - r.startFrame
}

// Actors returns the roster in lane order.
func (r *Race) Actors() []*Actor { return r.actors }

// FinishedCount returns how many actors have crossed the line.
func (r *Race) FinishedCount() int { return len(r.placements) }

// FinishZ returns the current finish line.
func (r *Race) FinishZ() float64 { return r.finishZ }

// EventTriggered reports whether the halfway event has fired.
func (r *Race) EventTriggered() bool { return r.events.Triggered() }

// Events returns the event manager.
func (r *Race) Events() *EventManager { return &r.events }

// Camera returns the current camera.
func (r *Race) Camera() Camera { return r.camera }

// Leader returns the rank-1 actor, or nil before the first ranking.
func (r *Race) Leader() *Actor { return r.leader }

// Over reports whether the race-over announcement has been made.
func (r *Race) Over() bool { return r.over }

// Seed returns the RNG seed.
func (r *Race) Seed() int64 { return r.rt.Seed }

// Obstacles returns the live obstacles.
func (r *Race) Obstacles() []*Obstacle { return r.obstacles }

// Skills returns the skill system.
func (r *Race) Skills() *Skills { return r.skills }

// Config returns the normalized configuration.
func (r *Race) Config() config.RaceConfig { return r.cfg }
