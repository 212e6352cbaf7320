package arena

import (
	"sync"

	"github.com/vovakirdan/tui-derby/internal/race"
)

// SpectatorID uniquely identifies a watching session (an SSH connection or
// an HTTP stream).
type SpectatorID string

// Update is one frame of the shared race as published to spectators.
type Update struct {
	RaceID   string        `json:"race_id"`
	Number   int           `json:"number"`
	Snapshot race.Snapshot `json:"snapshot"`
	Messages []string      `json:"messages,omitempty"` // Announcements since the previous update
	Saved    string        `json:"saved,omitempty"`    // Storage ID once the result is persisted
}

// Spectator is the transport-neutral handle the arena publishes to.
type Spectator interface {
	// ID returns the unique spectator identifier.
	ID() SpectatorID

	// Send delivers an update. Must not block.
	Send(u Update)

	// Done returns a channel that closes when the spectator leaves.
	Done() <-chan struct{}
}

// ChannelSpectator is a Spectator backed by a buffered channel.
// Used by the TUI layer to bridge Bubble Tea sessions with the arena.
type ChannelSpectator struct {
	id       SpectatorID
	updates  chan Update
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSpectator creates a channel-based spectator.
// bufferSize controls how many updates can queue before old ones are dropped.
func NewChannelSpectator(id SpectatorID, bufferSize int) *ChannelSpectator {
	if bufferSize < 1 {
		bufferSize = 8
	}
	return &ChannelSpectator{
		id:      id,
		updates: make(chan Update, bufferSize),
		done:    make(chan struct{}),
	}
}

// ID returns the spectator identifier.
func (s *ChannelSpectator) ID() SpectatorID {
	return s.id
}

// Send queues an update. When the buffer is full the oldest update is
// dropped, so a slow reader only ever falls behind by bufferSize frames.
func (s *ChannelSpectator) Send(u Update) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.updates <- u:
	default:
		select {
		case <-s.updates:
		default:
		}
		select {
		case s.updates <- u:
		default:
		}
	}
}

// Updates returns the channel to receive updates from.
func (s *ChannelSpectator) Updates() <-chan Update {
	return s.updates
}

// Done returns the done channel.
func (s *ChannelSpectator) Done() <-chan struct{} {
	return s.done
}

// Close marks the spectator as gone. Safe to call multiple times.
func (s *ChannelSpectator) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// Registry tracks connected spectators.
// Thread-safe for concurrent access.
type Registry struct {
	mu         sync.RWMutex
	spectators map[SpectatorID]Spectator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		spectators: make(map[SpectatorID]Spectator),
	}
}

// Register adds a spectator, replacing any previous one with the same ID.
func (r *Registry) Register(s Spectator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spectators[s.ID()] = s
}

// Unregister removes a spectator.
func (r *Registry) Unregister(id SpectatorID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.spectators, id)
}

// Get returns a spectator by ID.
func (r *Registry) Get(id SpectatorID) (Spectator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.spectators[id]
	return s, ok
}

// Count returns the number of registered spectators.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.spectators)
}

// Broadcast sends u to every live spectator and drops the ones that have
// gone away.
func (r *Registry) Broadcast(u Update) {
	r.mu.RLock()
	var gone []SpectatorID
	for id, s := range r.spectators {
		select {
		case <-s.Done():
			gone = append(gone, id)
			continue
		default:
		}
		s.Send(u)
	}
	r.mu.RUnlock()

	if len(gone) == 0 {
		return
	}
	r.mu.Lock()
	for _, id := range gone {
		delete(r.spectators, id)
	}
	r.mu.Unlock()
}
