package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/race"
)

// SetupKeyMap defines the key bindings of the setup form.
type SetupKeyMap struct {
	Start   key.Binding
	Profile key.Binding
	Results key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SetupKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Profile, k.Results, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k SetupKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultSetupKeyMap returns default key bindings.
func DefaultSetupKeyMap() SetupKeyMap {
	return SetupKeyMap{
		Start: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "start race"),
		),
		Profile: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "profile"),
		),
		Results: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "results"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// SetupModel is the form where the field is entered before a race.
type SetupModel struct {
	names       textarea.Model
	profiles    []config.Profile
	profile     int
	keys        SetupKeyMap
	help        help.Model
	width       int
	height      int
	err         string
	done        bool
	wantResults bool
	quitting    bool
}

// NewSetupModel creates a setup form prefilled with names, one per line.
func NewSetupModel(names []string, profile config.Profile, width, height int) SetupModel {
	ta := textarea.New()
	ta.Placeholder = "One name per line (or comma separated)"
	ta.ShowLineNumbers = true
	ta.SetWidth(32)
	ta.SetHeight(10)
	ta.SetValue(strings.Join(names, "\n"))
	ta.Focus()

	profiles := config.AllProfiles()
	idx := max(slices.Index(profiles, profile), 0)

	return SetupModel{
		names:    ta,
		profiles: profiles,
		profile:  idx,
		keys:     DefaultSetupKeyMap(),
		help:     help.New(),
		width:    width,
		height:   height,
	}
}

// Init starts the cursor blink.
func (m SetupModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the form.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Results):
			m.wantResults = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Profile):
			m.profile = (m.profile + 1) % len(m.profiles)
			return m, nil

		case key.Matches(msg, m.keys.Start):
			if n := len(m.Names()); n < 2 {
				m.err = fmt.Sprintf("Need at least 2 runners, have %d", n)
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		}
		m.err = ""

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.names, cmd = m.names.Update(msg)
	return m, cmd
}

// View renders the form.
func (m SetupModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  D E R B Y  "), m.width))
	b.WriteString("\n\n")

	p := m.Profile()
	b.WriteString(centerText(fmt.Sprintf("Profile: %s  %s", p, dimStyle.Render(p.Description())), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(boxStyle.Render(m.names.View()), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(fmt.Sprintf("%d runners", len(m.Names()))), m.width))
	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(centerText(errStyle.Render(m.err), m.width))
	}
	b.WriteString("\n\n")
	b.WriteString(centerText(dimStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

// Names returns the parsed roster.
func (m SetupModel) Names() []string {
	return race.ParseNames(m.names.Value())
}

// Profile returns the selected profile.
func (m SetupModel) Profile() config.Profile {
	return m.profiles[m.profile]
}

// SetupResult holds the outcome of the setup form.
type SetupResult struct {
	Names        []string
	Profile      config.Profile
	WantsResults bool
	Quit         bool
}

// Result returns the outcome of the form.
func (m SetupModel) Result() SetupResult {
	res := SetupResult{Profile: m.Profile()}
	switch {
	case m.wantResults:
		res.WantsResults = true
	case m.done:
		res.Names = m.Names()
	default:
		res.Quit = true
	}
	return res
}

// RunSetup shows the setup form and returns what the user chose.
func RunSetup(names []string, profile config.Profile, width, height int) (SetupResult, error) {
	model := NewSetupModel(names, profile, width, height)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return SetupResult{Quit: true}, err
	}

	m, ok := finalModel.(SetupModel)
	if !ok {
		return SetupResult{Quit: true}, nil
	}
	return m.Result(), nil
}
