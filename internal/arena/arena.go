// Package arena runs one shared race after another and publishes every
// frame to connected spectators.
package arena

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/core"
	"github.com/vovakirdan/tui-derby/internal/race"
)

// ResultSaver persists finished races.
// storage.Store satisfies it; the arena does not depend on storage directly.
type ResultSaver interface {
	SaveRace(res race.Result, profile string) (string, error)
}

// Config holds configuration for the arena loop.
type Config struct {
	Race         config.RaceConfig
	Runtime      core.RuntimeConfig
	Profile      string        // Stored alongside each result
	Names        []string      // Roster for every race; DefaultNames when empty
	Intermission time.Duration // Pause on the final standings before the next race
}

// DefaultNames returns the roster used when none is configured.
func DefaultNames() []string {
	return []string{
		"Thunderhoof", "Midnight Dash", "Copper Comet", "Lucky Clover",
		"Silver Streak", "Dust Devil", "Old Reliable", "Night Mare",
	}
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Race:         config.DefaultRaceConfig(),
		Runtime:      core.DefaultConfig(),
		Profile:      config.ProfileStandard.String(),
		Intermission: 5 * time.Second,
	}
}

// Options wires the arena's optional collaborators.
type Options struct {
	Registry  *Registry      // nil creates a private registry
	Saver     ResultSaver    // nil skips persistence
	Announcer race.Announcer // Receives every announcement besides spectators
	Logger    *log.Logger
}

// Arena owns a race and steps it on a ticker. Only the loop goroutine
// touches the race; spectators only ever see copies.
type Arena struct {
	cfg       Config
	registry  *Registry
	saver     ResultSaver
	announcer race.Announcer
	log       *log.Logger
	seeds     *rand.Rand

	mu        sync.RWMutex
	latest    Update
	hasLatest bool

	race     *race.Race
	raceID   string
	number   int
	pending  []string
	saved    string
	recorded bool
	idle     int

	done     chan struct{}
	doneOnce sync.Once
}

// New creates an arena and lines up its first race.
func New(cfg Config, opts Options) (*Arena, error) {
	cfg.Runtime = cfg.Runtime.Normalize()
	if len(cfg.Names) == 0 {
		cfg.Names = DefaultNames()
	}
	seed := cfg.Runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a := &Arena{
		cfg:       cfg,
		registry:  opts.Registry,
		saver:     opts.Saver,
		announcer: opts.Announcer,
		log:       opts.Logger,
		seeds:     rand.New(rand.NewSource(seed)),
		done:      make(chan struct{}),
	}
	if a.registry == nil {
		a.registry = NewRegistry()
	}
	if a.log == nil {
		a.log = log.New(io.Discard)
	}
	if err := a.next(); err != nil {
		return nil, err
	}
	a.publish()
	return a, nil
}

// Start begins the arena's background loop.
func (a *Arena) Start() {
	go a.run()
}

// Stop shuts the loop down. Safe to call multiple times.
func (a *Arena) Stop() {
	a.doneOnce.Do(func() {
		close(a.done)
	})
}

func (a *Arena) run() {
	ticker := time.NewTicker(time.Second / time.Duration(a.cfg.Runtime.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.tick()
		case <-a.done:
			return
		}
	}
}

// tick advances the current race by one frame, or counts down the
// intermission once it is over.
func (a *Arena) tick() {
	if a.race.Over() {
		if !a.recorded {
			a.record()
		}
		a.idle++
		if a.idle >= a.intermissionTicks() {
			if err := a.next(); err != nil {
				a.log.Error("Cannot start next race", "error", err)
			}
		}
	} else {
		a.race.Step()
	}
	a.publish()
}

func (a *Arena) intermissionTicks() int {
	return int(a.cfg.Intermission * time.Duration(a.cfg.Runtime.TickRate) / time.Second)
}

// next replaces the current race with a fresh one and starts its countdown.
func (a *Arena) next() error {
	rt := a.cfg.Runtime
	rt.Seed = a.seeds.Int63()

	r, err := race.New(race.Options{
		Config:    a.cfg.Race,
		Runtime:   rt,
		Announcer: race.Announcers{race.AnnouncerFunc(a.collect), a.announcer},
		Logger:    a.log,
	})
	if err != nil {
		return fmt.Errorf("arena: %w", err)
	}
	if err := r.Setup(a.cfg.Names); err != nil {
		return fmt.Errorf("arena: %w", err)
	}
	if !r.Start() {
		return errors.New("arena: race refused to start")
	}

	a.race = r
	a.raceID = uuid.New().String()
	a.number++
	a.saved = ""
	a.recorded = false
	a.idle = 0
	a.log.Info("Race started", "race", a.number, "id", a.raceID, "seed", rt.Seed, "runners", len(r.Actors()))
	return nil
}

func (a *Arena) collect(msg string) {
	a.pending = append(a.pending, msg)
}

func (a *Arena) record() {
	a.recorded = true
	res := a.race.Result()
	winner := ""
	if len(res.Placements) > 0 {
		winner = res.Placements[0].Name
	}
	a.log.Info("Race over", "race", a.number, "winner", winner, "ticks", res.Ticks, "event", res.Event)

	if a.saver == nil {
		return
	}
	id, err := a.saver.SaveRace(res, a.cfg.Profile)
	if err != nil {
		a.log.Error("Cannot save race", "race", a.number, "error", err)
		return
	}
	a.saved = id
}

func (a *Arena) publish() {
	u := Update{
		RaceID:   a.raceID,
		Number:   a.number,
		Snapshot: a.race.Snapshot(),
		Messages: a.pending,
		Saved:    a.saved,
	}
	a.pending = nil

	a.mu.Lock()
	a.latest = u
	a.hasLatest = true
	a.mu.Unlock()

	a.registry.Broadcast(u)
}

// Latest returns the most recently published update.
func (a *Arena) Latest() (Update, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latest, a.hasLatest
}

// Subscribe registers a new channel spectator and primes it with the
// latest frame so the first render does not wait for a tick.
func (a *Arena) Subscribe(id SpectatorID, bufferSize int) *ChannelSpectator {
	s := NewChannelSpectator(id, bufferSize)
	if u, ok := a.Latest(); ok {
		u.Messages = nil
		s.Send(u)
	}
	a.registry.Register(s)
	return s
}

// Unsubscribe removes and closes a spectator.
func (a *Arena) Unsubscribe(id SpectatorID) {
	if s, ok := a.registry.Get(id); ok {
		if cs, ok := s.(*ChannelSpectator); ok {
			cs.Close()
		}
	}
	a.registry.Unregister(id)
}

// Spectators returns the number of connected spectators.
func (a *Arena) Spectators() int {
	return a.registry.Count()
}

// Config returns the arena configuration.
func (a *Arena) Config() Config {
	return a.cfg
}
