package tui

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/core"
	"github.com/vovakirdan/tui-derby/internal/race"
)

type fakeSaver struct {
	mu    sync.Mutex
	saved []race.Result
	fail  bool
}

func (f *fakeSaver) SaveRace(res race.Result, profile string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("disk full")
	}
	f.saved = append(f.saved, res)
	return fmt.Sprintf("race-%d", len(f.saved)), nil
}

type fakeAudio struct {
	muted bool
	cues  int
}

func (f *fakeAudio) Play(race.Cue)     { f.cues++ }
func (f *fakeAudio) SetMuted(m bool) { f.muted = m }
func (f *fakeAudio) Muted() bool     { return f.muted }

func shortRace() config.RaceConfig {
	rc := config.DefaultRaceConfig()
	rc.Track.FinishZ = -300
	rc.Skills.TriggerChance = 0
	rc.Events.Enabled = nil
	rc.Race.CountdownStepTicks = 0
	return rc
}

func testOptions(saver *fakeSaver) Options {
	opts := Options{
		Config:  shortRace(),
		Runtime: core.RuntimeConfig{ScreenW: 100, ScreenH: 20, TickRate: 60, Seed: 7},
		Profile: "standard",
		Names:   []string{"Ada", "Bo", "Cy"},
	}
	if saver != nil {
		opts.Saver = saver
	}
	return opts
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	m, err := NewModel(opts)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func runToEnd(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 20000 && !m.Race().Over(); i++ {
		m, _ = send(t, m, TickMsg{})
	}
	if !m.Race().Over() {
		t.Fatal("race never finished")
	}
	return m
}

func TestNewModelRejectsShortRoster(t *testing.T) {
	opts := testOptions(nil)
	opts.Names = []string{"Solo"}
	if _, err := NewModel(opts); !errors.Is(err, race.ErrTooFewActors) {
		t.Errorf("NewModel() err = %v, want ErrTooFewActors", err)
	}
}

func TestModelSavesFinishedRaceOnce(t *testing.T) {
	saver := &fakeSaver{}
	m := runToEnd(t, newTestModel(t, testOptions(saver)))
	for i := 0; i < 10; i++ {
		m, _ = send(t, m, TickMsg{})
	}

	if len(saver.saved) != 1 {
		t.Fatalf("saved %d races, want 1", len(saver.saved))
	}
	if m.SavedID() != "race-1" {
		t.Errorf("SavedID() = %q", m.SavedID())
	}
	if got := len(saver.saved[0].Placements); got != 3 {
		t.Errorf("saved %d placements, want 3", got)
	}
	if !strings.Contains(m.View(), "(saved)") {
		t.Error("view does not show the saved marker")
	}
}

func TestModelSaveFailureIsShown(t *testing.T) {
	m := runToEnd(t, newTestModel(t, testOptions(&fakeSaver{fail: true})))
	if m.SavedID() != "" {
		t.Errorf("SavedID() = %q after failure", m.SavedID())
	}
	if !strings.Contains(m.View(), "(not saved)") {
		t.Error("view does not show the failure")
	}
}

func TestModelPlaybackControls(t *testing.T) {
	m := newTestModel(t, testOptions(nil))

	m, _ = send(t, m, runeKey("+"))
	m, _ = send(t, m, TickMsg{})
	m, _ = send(t, m, runeKey("+"))
	m, _ = send(t, m, TickMsg{})
	if m.Speed() != 4 {
		t.Errorf("Speed() = %d, want 4", m.Speed())
	}

	m, _ = send(t, m, runeKey("-"))
	m, _ = send(t, m, TickMsg{})
	if m.Speed() != 2 {
		t.Errorf("Speed() = %d, want 2", m.Speed())
	}

	m, _ = send(t, m, runeKey("p"))
	m, _ = send(t, m, TickMsg{})
	if !m.Paused() {
		t.Fatal("not paused")
	}
	frame := m.Race().Frame()
	m, _ = send(t, m, TickMsg{})
	if m.Race().Frame() != frame {
		t.Errorf("frame advanced while paused: %d -> %d", frame, m.Race().Frame())
	}
}

func TestModelSpeedIsClamped(t *testing.T) {
	m := newTestModel(t, testOptions(nil))
	for i := 0; i < 6; i++ {
		m, _ = send(t, m, runeKey("+"))
		m, _ = send(t, m, TickMsg{})
	}
	if m.Speed() != maxSpeed {
		t.Errorf("Speed() = %d, want %d", m.Speed(), maxSpeed)
	}
	for i := 0; i < 6; i++ {
		m, _ = send(t, m, runeKey("-"))
		m, _ = send(t, m, TickMsg{})
	}
	if m.Speed() != 1 {
		t.Errorf("Speed() = %d, want 1", m.Speed())
	}
}

func TestModelRestartStartsFreshRace(t *testing.T) {
	saver := &fakeSaver{}
	m := runToEnd(t, newTestModel(t, testOptions(saver)))
	old := m.Race()

	m, _ = send(t, m, runeKey("r"))
	m, _ = send(t, m, TickMsg{})
	if m.Race() == old || m.Race().Over() {
		t.Error("restart did not replace the finished race")
	}
	if m.SavedID() != "" {
		t.Errorf("SavedID() = %q after restart", m.SavedID())
	}
	m = runToEnd(t, m)
	if len(saver.saved) != 2 {
		t.Errorf("saved %d races, want 2", len(saver.saved))
	}
}

func TestModelBackAndQuit(t *testing.T) {
	m := newTestModel(t, testOptions(nil))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, cmd := send(t, m, TickMsg{})
	if !m.BackRequested() || cmd == nil {
		t.Error("esc did not request back")
	}

	m = newTestModel(t, testOptions(nil))
	m, cmd = send(t, m, runeKey("q"))
	if !m.IsQuitting() || cmd == nil {
		t.Error("q did not quit")
	}
	if m.View() != "" {
		t.Error("view not empty after quit")
	}
}

func TestModelMuteToggle(t *testing.T) {
	audio := &fakeAudio{}
	opts := testOptions(nil)
	opts.Audio = audio
	m := newTestModel(t, opts)

	m, _ = send(t, m, runeKey("m"))
	if !audio.muted {
		t.Error("m did not mute")
	}
	send(t, m, runeKey("m"))
	if audio.muted {
		t.Error("second m did not unmute")
	}
}

func TestModelResizeKeepsRace(t *testing.T) {
	m := newTestModel(t, testOptions(nil))
	m, _ = send(t, m, TickMsg{})
	r := m.Race()
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 140, Height: 30})
	if m.Race() != r {
		t.Error("resize replaced the race")
	}
	if !strings.Contains(m.View(), "DERBY [standard]") {
		t.Error("status line missing title")
	}
}
