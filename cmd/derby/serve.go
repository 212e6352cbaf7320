package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-derby/internal/api"
	"github.com/vovakirdan/tui-derby/internal/arena"
	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/platform/tui"
	"github.com/vovakirdan/tui-derby/internal/race"
)

type serveFlags struct {
	sshAddr      string
	httpAddr     string
	hostKey      string
	names        string
	idleTimeout  int
	intermission time.Duration
	noSave       bool
	envFile      string
}

func newServeCmd(g *globalFlags) *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the shared arena over SSH and HTTP",
		Long: `Run races back to back in a shared arena. Every SSH connection
watches the same race; the HTTP API serves the live frame, stored results
and headless simulations.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.derby/host_key

HTTP endpoints (under /api/v1):
  GET  /status, /live, /races, /races/{id}, /leaderboard, /events
  GET  /live/ws (websocket stream)
  POST /simulate

Flags not given on the command line fall back to DERBY_SSH_ADDR,
DERBY_HTTP_ADDR, DERBY_HOST_KEY, DERBY_NAMES and DERBY_INTERMISSION, which
may also be set in an env file (./.env by default).

Examples:
  derby serve                           # SSH on :23234, HTTP on :8080
  derby serve --http ""                 # SSH only
  derby serve --ssh "" --http :9000     # HTTP only
  derby serve --names "Ada,Bo,Cy,Di" --intermission 10s

Users can connect with:
  ssh localhost -p 23234`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadEnv(cmd, f); err != nil {
				return err
			}
			return runServe(g, f)
		},
	}
	bindServeFlags(cmd, f)
	return cmd
}

func bindServeFlags(cmd *cobra.Command, f *serveFlags) {
	cmd.Flags().StringVar(&f.sshAddr, "ssh", ":23234", "SSH server address (empty to disable)")
	cmd.Flags().StringVar(&f.httpAddr, "http", ":8080", "HTTP API address (empty to disable)")
	cmd.Flags().StringVar(&f.hostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	cmd.Flags().StringVar(&f.names, "names", "", "Comma-separated roster for every race")
	cmd.Flags().IntVar(&f.idleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	cmd.Flags().DurationVar(&f.intermission, "intermission", 5*time.Second, "Pause between races")
	cmd.Flags().BoolVar(&f.noSave, "no-save", false, "Do not record results")
	cmd.Flags().StringVar(&f.envFile, "env-file", ".env", "Env file with DERBY_* settings")
}

func runServe(g *globalFlags, f *serveFlags) error {
	if f.sshAddr == "" && f.httpAddr == "" {
		return errors.New("nothing to serve: set --ssh or --http")
	}

	cfg, profile, err := g.raceConfig()
	if err != nil {
		return err
	}
	config.ApplyProfile(&cfg, profile)

	logger := g.logger(os.Stderr, "derby")

	opts := arena.Options{Logger: logger.WithPrefix("arena")}
	var history api.History
	var results tui.ResultsSource
	if !f.noSave {
		store, err := g.openStore()
		if err != nil {
			logger.Warn("Continuing without race history", "error", err)
		} else {
			defer store.Close()
			opts.Saver, history, results = store, store, store
		}
	}

	acfg := arena.DefaultConfig()
	acfg.Race = cfg
	acfg.Runtime = g.runtime(0, 0)
	acfg.Profile = profile.String()
	acfg.Names = race.ParseNames(f.names)
	acfg.Intermission = f.intermission

	a, err := arena.New(acfg, opts)
	if err != nil {
		return err
	}
	a.Start()
	defer a.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	running := 0

	if f.sshAddr != "" {
		srv, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     f.sshAddr,
			HostKeyPath: f.hostKey,
			IdleTimeout: time.Duration(f.idleTimeout) * time.Minute,
		}, a, results, logger.WithPrefix("ssh"))
		if err != nil {
			return err
		}
		running++
		go func() { errCh <- srv.Serve(ctx) }()
		fmt.Printf("Arena SSH on %s - connect with: ssh localhost -p %s\n", f.sshAddr, port(f.sshAddr))
	}

	if f.httpAddr != "" {
		handler := api.NewServer(api.Options{
			History: history,
			Live:    a,
			Race:    cfg,
			Runtime: acfg.Runtime,
			Logger:  logger.WithPrefix("http"),
		}).Routes()
		httpSrv := &http.Server{
			Addr:              f.httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		running++
		go func() { errCh <- serveHTTP(ctx, httpSrv) }()
		fmt.Printf("Arena HTTP on %s\n", f.httpAddr)
	}
	fmt.Println("Press Ctrl+C to stop")

	var firstErr error
	for range running {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			stop()
		}
	}
	return firstErr
}

// serveHTTP runs srv until ctx is cancelled, then shuts it down.
func serveHTTP(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// port returns the port part of a listen address.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
