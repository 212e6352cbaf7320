package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-derby/internal/arena"
	"github.com/vovakirdan/tui-derby/internal/core"
)

func newTestArena(t *testing.T) *arena.Arena {
	t.Helper()
	a, err := arena.New(arena.Config{
		Race:         shortRace(),
		Runtime:      core.RuntimeConfig{TickRate: 60, Seed: 5},
		Profile:      "standard",
		Names:        []string{"Ada", "Bo", "Cy"},
		Intermission: time.Second,
	}, arena.Options{})
	if err != nil {
		t.Fatalf("arena.New() error = %v", err)
	}
	return a
}

func updateSpectator(t *testing.T, m SpectatorModel, msg tea.Msg) (SpectatorModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SpectatorModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sm, cmd
}

func TestSpectatorReceivesPrimedFrame(t *testing.T) {
	a := newTestArena(t)
	m := NewSpectatorModel(a, "viewer", 100, 20)
	if a.Spectators() != 1 {
		t.Fatalf("Spectators() = %d, want 1", a.Spectators())
	}

	msg := m.Init()()
	m, cmd := updateSpectator(t, m, msg)
	u, ok := m.Latest()
	if !ok || u.Number != 1 || cmd == nil {
		t.Fatalf("Latest() = #%d, %v; cmd %v", u.Number, ok, cmd)
	}
	if view := m.View(); view == "" {
		t.Error("empty view with a frame")
	}
}

func TestSpectatorIgnoresStaleFrames(t *testing.T) {
	a := newTestArena(t)
	m := NewSpectatorModel(a, "viewer", 100, 20)
	stale := arena.NewChannelSpectator("old", 1)

	m, cmd := updateSpectator(t, m, liveFrameMsg{from: stale, update: arena.Update{Number: 9}})
	if _, ok := m.Latest(); ok || cmd != nil {
		t.Error("stale frame was applied")
	}
	m, _ = updateSpectator(t, m, feedClosedMsg{from: stale})
	if m.closed {
		t.Error("stale close marked the feed closed")
	}
}

func TestSpectatorLeavesOnResults(t *testing.T) {
	a := newTestArena(t)
	m := NewSpectatorModel(a, "viewer", 100, 20)
	m, _ = updateSpectator(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if !m.WantsResults() {
		t.Error("tab did not ask for results")
	}
	if a.Spectators() != 0 {
		t.Errorf("Spectators() = %d after leaving", a.Spectators())
	}
}

func TestSessionTogglesLiveAndResults(t *testing.T) {
	a := newTestArena(t)
	s := NewSessionModel(a, nil, "viewer", 100, 20)

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = next.(SessionModel)
	if !s.ShowingResults() || a.Spectators() != 0 {
		t.Fatalf("results = %v, spectators = %d", s.ShowingResults(), a.Spectators())
	}

	next, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = next.(SessionModel)
	if s.ShowingResults() || cmd == nil {
		t.Fatal("esc on results did not return to the race")
	}
	if a.Spectators() != 1 {
		t.Errorf("Spectators() = %d after returning", a.Spectators())
	}

	next, _ = s.Update(runeKey("q"))
	s = next.(SessionModel)
	if s.View() != "" || a.Spectators() != 0 {
		t.Error("q did not end the session")
	}
}
