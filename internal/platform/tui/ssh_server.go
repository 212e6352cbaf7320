package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-derby/internal/arena"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.derby/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer lets remote terminals watch the arena.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	live    LiveFeed
	results ResultsSource
	logger  *log.Logger
}

// NewSSHServer creates a new SSH server. results may be nil.
func NewSSHServer(cfg SSHServerConfig, live LiveFeed, results ResultsSource, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "derby-ssh",
		})
	}

	srv := &SSHServer{
		config:  cfg,
		live:    live,
		results: results,
		logger:  logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".derby", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	id := arena.SpectatorID(fmt.Sprintf("%s-%s", sshSession.User(), uuid.NewString()[:8]))

	// The model unsubscribes when the user quits; a dropped connection
	// never gets that far.
	go func() {
		<-sshSession.Context().Done()
		s.live.Unsubscribe(id)
	}()

	model := NewSessionModel(s.live, s.results, id, pty.Window.Width, pty.Window.Height)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// Serve runs the server until ctx is cancelled.
func (s *SSHServer) Serve(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown()
	}
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages a remote session: live race <-> results board.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	live        LiveFeed
	results     ResultsSource
	id          arena.SpectatorID
	width       int
	height      int
	spectator   SpectatorModel
	board       ScoreboardModel
	showResults bool
	quitting    bool
}

// NewSessionModel creates a session that starts on the live race.
func NewSessionModel(live LiveFeed, results ResultsSource, id arena.SpectatorID, width, height int) SessionModel {
	return SessionModel{
		live:      live,
		results:   results,
		id:        id,
		width:     width,
		height:    height,
		spectator: NewSpectatorModel(live, id, width, height),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.spectator.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	if m.showResults {
		return m.updateResults(msg)
	}
	return m.updateLive(msg)
}

// updateLive handles updates while spectating.
func (m SessionModel) updateLive(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.spectator.Update(msg)
	if sm, ok := next.(SpectatorModel); ok {
		m.spectator = sm
	}

	if m.spectator.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.spectator.WantsResults() {
		m.board = NewScoreboardModel(m.results, m.width, m.height)
		m.showResults = true
		return m, m.board.Init()
	}
	return m, cmd
}

// updateResults handles updates on the results board.
func (m SessionModel) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The board quits its own program when run standalone; here the
	// session decides.
	next, _ := m.board.Update(msg)
	if bm, ok := next.(ScoreboardModel); ok {
		m.board = bm
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.board.IsGoingBack() {
		m.showResults = false
		m.spectator = NewSpectatorModel(m.live, m.id, m.width, m.height)
		return m, m.spectator.Init()
	}
	return m, nil
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.showResults {
		return m.board.View()
	}
	return m.spectator.View()
}

// ShowingResults reports whether the results board is on screen.
func (m SessionModel) ShowingResults() bool {
	return m.showResults
}
