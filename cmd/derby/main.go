// derby is a terminal horse race: a field of runners, random skills, a
// rubber band that keeps the pack close and one map event per race.
//
// Usage:
//
//	derby race               - Enter a field and watch the race
//	derby sim                - Run a race headless and print the result
//	derby results [id]       - Show recent races or one race in detail
//	derby leaderboard        - Show per-runner standings across races
//	derby events             - Show how often each map event fired
//	derby serve              - Run the shared arena over SSH and HTTP
//	derby config             - Print the effective race configuration
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Set RNG seed for reproducible races
//	--db <path>        - Set database path (default: ~/.derby/races.db)
//	--config <path>    - Load race tuning from a YAML file
//	--profile <name>   - Apply a tuning profile (standard, legacy, chaos)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/core"
	"github.com/vovakirdan/tui-derby/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	fps        int
	seed       int64
	dbPath     string
	configPath string
	profile    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "derby",
		Short: "TUI Derby - Horse races in your terminal",
		Long: `TUI Derby simulates a horse race in the terminal. Runners trigger
random skills, the pack is kept together by a rubber band, and halfway
through a roulette picks one map event: lightning, a reversed goal or
falling obstacles.

Available commands:
  race         - Enter a field and watch the race
  sim          - Run a race headless and print the result
  results      - Show stored races
  leaderboard  - Per-runner standings
  events       - Map event frequency
  serve        - Shared arena over SSH and HTTP
  config       - Print the effective configuration

Examples:
  derby race
  derby race --names "Ada,Bo,Cy,Di" --profile chaos
  derby sim --seed 42 --names "Ada,Bo,Cy"
  derby serve --ssh :23234 --http :8080
  derby leaderboard`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.IntVar(&g.fps, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&g.seed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&g.dbPath, "db", "~/.derby/races.db", "Path to race database")
	pf.StringVar(&g.configPath, "config", "", "Path to custom race config YAML")
	pf.StringVar(&g.profile, "profile", "standard", "Tuning profile: standard, legacy, chaos")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newRaceCmd(g),
		newSimCmd(g),
		newResultsCmd(g),
		newLeaderboardCmd(g),
		newEventsCmd(g),
		newServeCmd(g),
		newConfigCmd(g),
	)
	return root
}

// raceConfig loads the tuning file and applies the selected profile.
func (g *globalFlags) raceConfig() (config.RaceConfig, config.Profile, error) {
	profile, err := config.ParseProfile(g.profile)
	if err != nil {
		return config.RaceConfig{}, "", err
	}
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.RaceConfig{}, "", err
	}
	return cfg, profile, nil
}

// runtime builds the runtime config for a screen of the given size.
func (g *globalFlags) runtime(width, height int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: g.fps,
		Seed:     g.seed,
	}.Normalize()
}

func (g *globalFlags) openStore() (*storage.Store, error) {
	store, err := storage.Open(g.dbPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open race database: %w", err)
	}
	return store, nil
}

// logger returns a structured logger writing to w.
func (g *globalFlags) logger(w io.Writer, prefix string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if g.verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (width, height int) {
	width, height = 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}
