package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-derby/internal/arena"
	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/core"
	"github.com/vovakirdan/tui-derby/internal/race"
	"github.com/vovakirdan/tui-derby/internal/view"
)

// Playback limits.
const (
	maxSpeed     = 8
	feedCapacity = 64
)

// Muter is implemented by audio backends that can be silenced.
type Muter interface {
	SetMuted(bool)
	Muted() bool
}

// Options configures a locally watched race.
type Options struct {
	Config  config.RaceConfig
	Runtime core.RuntimeConfig
	Profile string
	Names   []string
	Saver   arena.ResultSaver // nil disables saving
	Audio   race.AudioCue
	Logger  *log.Logger
}

// Model is the Bubble Tea model for watching a race.
type Model struct {
	opts     Options
	race     *race.Race
	scene    *view.Scene
	feed     *view.Broadcast
	screen   *core.Screen
	keys     *KeyMapper
	help     help.Model
	input    core.InputFrame
	paused   bool
	speed    int
	saved    bool
	savedID  string
	saveErr  error
	quitting bool
	back     bool
}

// NewModel creates a race view and lines up the first race.
func NewModel(opts Options) (Model, error) {
	opts.Runtime = opts.Runtime.Normalize()
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}

	m := Model{
		opts:   opts,
		feed:   view.NewBroadcast(feedCapacity),
		screen: core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH-1),
		keys:   NewKeyMapper(),
		help:   help.New(),
		input:  core.NewInputFrame(),
		speed:  1,
	}
	if err := m.newRace(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// newRace replaces the current race with a fresh one on the current seed.
func (m *Model) newRace() error {
	m.scene = view.NewScene()
	m.feed.Reset()
	r, err := race.New(race.Options{
		Config:    m.opts.Config,
		Runtime:   m.opts.Runtime,
		Scene:     m.scene,
		Audio:     m.opts.Audio,
		Announcer: m.feed,
		Logger:    m.opts.Logger,
	})
	if err != nil {
		return err
	}
	if err := r.Setup(m.opts.Names); err != nil {
		return err
	}
	r.Start()
	m.race = r
	m.saved = false
	m.savedID = ""
	m.saveErr = nil
	return nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	if m.keys.IsMute(msg) {
		if mu, ok := m.opts.Audio.(Muter); ok {
			mu.SetMuted(!mu.Muted())
		}
		return m, nil
	}
	if m.keys.MapKeyToFrame(msg, &m.input) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleTick applies queued input, then advances the race by speed steps.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	in := m.input
	m.input = core.NewInputFrame()

	switch {
	case in.Has(core.ActionBack):
		m.back = true
		return m, tea.Quit
	case in.Has(core.ActionRestart):
		m.opts.Runtime.Seed = time.Now().UnixNano()
		if err := m.newRace(); err != nil {
			m.saveErr = err
		}
		m.paused = false
	}
	if in.Has(core.ActionPause) {
		m.paused = !m.paused
	}
	if in.Has(core.ActionFaster) {
		m.speed = min(m.speed*2, maxSpeed)
	}
	if in.Has(core.ActionSlower) {
		m.speed = max(m.speed/2, 1)
	}

	if !m.paused {
		for i := 0; i < m.speed && !m.race.Over(); i++ {
			m.race.Step()
		}
	}
	if m.race.Over() && !m.saved {
		m.save()
	}

	return m, tickCmd(m.opts.Runtime.TickRate)
}

// save records the finished race once.
func (m *Model) save() {
	m.saved = true
	if m.opts.Saver == nil {
		return
	}
	id, err := m.opts.Saver.SaveRace(m.race.Result(), m.opts.Profile)
	if err != nil {
		m.saveErr = err
		if m.opts.Logger != nil {
			m.opts.Logger.Error("Cannot save race", "error", err)
		}
		return
	}
	m.savedID = id
}

// saveScreenshot saves the current frame to a text file.
func (m *Model) saveScreenshot() {
	m.draw()

	dir := filepath.Join(os.Getenv("HOME"), ".derby", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	name := fmt.Sprintf("race_%d_%s.txt", m.race.Seed(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, the race continues regardless
	os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600)
}

func (m Model) title() string {
	t := "DERBY"
	if m.opts.Profile != "" {
		t += " [" + m.opts.Profile + "]"
	}
	switch {
	case m.saveErr != nil:
		t += " (not saved)"
	case m.savedID != "":
		t += " (saved)"
	}
	return t
}

func (m *Model) draw() {
	view.Draw(m.screen, view.Frame{
		Snapshot: m.race.Snapshot(),
		Objects:  m.scene.Objects(),
		Messages: m.feed.Lines(),
		Title:    m.title(),
		TickRate: m.opts.Runtime.TickRate,
		Paused:   m.paused,
		Speed:    m.speed,
	})
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.draw()
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys.Keys()))
}

// Race returns the race on screen.
func (m Model) Race() *race.Race {
	return m.race
}

// Paused reports whether playback is paused.
func (m Model) Paused() bool {
	return m.paused
}

// Speed returns the playback multiplier.
func (m Model) Speed() int {
	return m.speed
}

// SavedID returns the storage ID of the finished race, if saved.
func (m Model) SavedID() string {
	return m.savedID
}

// BackRequested returns true if the user asked to return to setup.
func (m Model) BackRequested() bool {
	return m.back
}

// IsQuitting returns true if the user asked to exit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run watches one race. It reports whether the user asked to go back to
// the setup form rather than quit.
func Run(opts Options) (goBack bool, err error) {
	model, err := NewModel(opts)
	if err != nil {
		return false, err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	if !ok {
		return false, nil
	}
	return m.BackRequested(), nil
}
