package race

import (
	"errors"
	"strings"

	"github.com/vovakirdan/tui-derby/internal/core"
)

// MaxParticipants is the hard upper bound on roster size.
const MaxParticipants = 20

// ErrTooFewActors is returned when a race is set up with fewer than two names.
var ErrTooFewActors = errors.New("race: at least 2 participants are required")

// ObjectID identifies a scene object within one race.
type ObjectID int

// ObjectKind is the kind of a scene object.
type ObjectKind int

const (
	ObjectFinishLine ObjectKind = iota
	ObjectFirework
	ObjectBolt
	ObjectObstacle
)

// String returns a short name for the kind.
func (k ObjectKind) String() string {
	switch k {
	case ObjectFinishLine:
		return "finish"
	case ObjectFirework:
		return "firework"
	case ObjectBolt:
		return "bolt"
	case ObjectObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// SceneObject is an opaque handle the race attaches to the scene.
type SceneObject struct {
	ID    ObjectID
	Kind  ObjectKind
	Pos   core.Vec3
	Label string
}

// Scene receives objects the race adds and removes.
type Scene interface {
	AddObject(obj SceneObject)
	RemoveObject(id ObjectID)
}

// Cue is a named audio cue.
type Cue int

const (
	CueStrike Cue = iota
	CueCelebration
	CueCollision
	CueLand
	CueCountdown
	CueGo
	CueBoost
	CueHoof
)

// String returns the cue name.
func (c Cue) String() string {
	switch c {
	case CueStrike:
		return "strike"
	case CueCelebration:
		return "celebration"
	case CueCollision:
		return "collision"
	case CueLand:
		return "land"
	case CueCountdown:
		return "countdown"
	case CueGo:
		return "go"
	case CueBoost:
		return "boost"
	case CueHoof:
		return "hoof"
	default:
		return "unknown"
	}
}

// AudioCue plays fire-and-forget cues.
type AudioCue interface {
	Play(cue Cue)
}

// Announcer receives every state-changing event as a line of text.
type Announcer interface {
	Announce(msg string)
}

// NopScene discards scene objects.
type NopScene struct{}

func (NopScene) AddObject(SceneObject) {}
func (NopScene) RemoveObject(ObjectID) {}

// NopAudio discards cues.
type NopAudio struct{}

func (NopAudio) Play(Cue) {}

// NopAnnouncer discards announcements.
type NopAnnouncer struct{}

func (NopAnnouncer) Announce(string) {}

// AnnouncerFunc adapts a function to Announcer.
type AnnouncerFunc func(msg string)

// Announce calls f(msg).
func (f AnnouncerFunc) Announce(msg string) { f(msg) }

// Announcers fans an announcement out to several announcers.
type Announcers []Announcer

// Announce forwards msg to every non-nil announcer in order.
func (a Announcers) Announce(msg string) {
	for _, an := range a {
		if an != nil {
			an.Announce(msg)
		}
	}
}

// ParseNames splits text on newlines and commas, trims each name, drops
// empty entries and truncates the result to MaxParticipants.
func ParseNames(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ',' || r == '\r'
	})
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		names = append(names, f)
		if len(names) == MaxParticipants {
			break
		}
	}
	return names
}
