package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-derby/internal/arena"
	"github.com/vovakirdan/tui-derby/internal/core"
	"github.com/vovakirdan/tui-derby/internal/view"
)

// spectatorBuffer is how many frames a slow terminal may lag behind.
const spectatorBuffer = 4

// LiveFeed is the part of the arena a spectator needs.
type LiveFeed interface {
	Subscribe(id arena.SpectatorID, bufferSize int) *arena.ChannelSpectator
	Unsubscribe(id arena.SpectatorID)
	Config() arena.Config
}

// liveFrameMsg carries one arena frame to the spectator that received it.
type liveFrameMsg struct {
	from   *arena.ChannelSpectator
	update arena.Update
}

// feedClosedMsg is sent when a subscription ends.
type feedClosedMsg struct {
	from *arena.ChannelSpectator
}

// SpectateKeyMap defines the key bindings while spectating.
type SpectateKeyMap struct {
	Results key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SpectateKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Results, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k SpectateKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultSpectateKeyMap returns default key bindings.
func DefaultSpectateKeyMap() SpectateKeyMap {
	return SpectateKeyMap{
		Results: key.NewBinding(
			key.WithKeys("tab", "s"),
			key.WithHelp("tab", "results"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SpectatorModel shows the arena's current race as it is published.
type SpectatorModel struct {
	live        LiveFeed
	id          arena.SpectatorID
	spectator   *arena.ChannelSpectator
	latest      arena.Update
	hasFrame    bool
	closed      bool
	feed        *view.Broadcast
	screen      *core.Screen
	tickRate    int
	keys        SpectateKeyMap
	help        help.Model
	wantResults bool
	quitting    bool
}

// NewSpectatorModel subscribes to live under id.
func NewSpectatorModel(live LiveFeed, id arena.SpectatorID, width, height int) SpectatorModel {
	return SpectatorModel{
		live:      live,
		id:        id,
		spectator: live.Subscribe(id, spectatorBuffer),
		feed:      view.NewBroadcast(feedCapacity),
		screen:    core.NewScreen(max(width, 20), max(height-1, 10)),
		tickRate:  live.Config().Runtime.Normalize().TickRate,
		keys:      DefaultSpectateKeyMap(),
		help:      help.New(),
	}
}

// Init starts listening for arena frames.
func (m SpectatorModel) Init() tea.Cmd {
	return m.waitForUpdate()
}

// waitForUpdate returns a command that waits for the next arena frame.
func (m SpectatorModel) waitForUpdate() tea.Cmd {
	sp := m.spectator
	return func() tea.Msg {
		select {
		case u := <-sp.Updates():
			return liveFrameMsg{from: sp, update: u}
		case <-sp.Done():
			return feedClosedMsg{from: sp}
		}
	}
}

// Update handles messages.
func (m SpectatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.leave()
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Results):
			m.leave()
			m.wantResults = true
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case liveFrameMsg:
		// Frames from an earlier subscription of this session are stale.
		if msg.from != m.spectator || m.closed {
			return m, nil
		}
		m.apply(msg.update)
		return m, m.waitForUpdate()

	case feedClosedMsg:
		if msg.from == m.spectator {
			m.closed = true
		}
		return m, nil
	}
	return m, nil
}

// apply takes in one published frame.
func (m *SpectatorModel) apply(u arena.Update) {
	if u.RaceID != m.latest.RaceID {
		m.feed.Reset()
	}
	for _, msg := range u.Messages {
		m.feed.Announce(msg)
	}
	m.latest = u
	m.hasFrame = true
}

// leave unsubscribes from the arena.
func (m *SpectatorModel) leave() {
	if !m.closed {
		m.live.Unsubscribe(m.id)
		m.closed = true
	}
}

// View renders the latest frame.
func (m SpectatorModel) View() string {
	if m.quitting || m.wantResults {
		return ""
	}
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if !m.hasFrame {
		return "\n  Waiting for the next race...\n\n  " + dim.Render(m.help.View(m.keys))
	}

	title := fmt.Sprintf("DERBY LIVE #%d", m.latest.Number)
	if m.closed {
		title += " (off air)"
	}
	view.Draw(m.screen, view.Frame{
		Snapshot: m.latest.Snapshot,
		Messages: m.feed.Lines(),
		Title:    title,
		TickRate: m.tickRate,
		Speed:    1,
	})
	return RenderScreen(m.screen) + "\n" + dim.Render(m.help.View(m.keys))
}

// Latest returns the last frame received.
func (m SpectatorModel) Latest() (arena.Update, bool) {
	return m.latest, m.hasFrame
}

// WantsResults returns true if the user asked for the results board.
func (m SpectatorModel) WantsResults() bool {
	return m.wantResults
}

// IsQuitting returns true if the user asked to exit.
func (m SpectatorModel) IsQuitting() bool {
	return m.quitting
}
