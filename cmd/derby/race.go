package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-derby/internal/arena"
	"github.com/vovakirdan/tui-derby/internal/audio"
	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/platform/tui"
	"github.com/vovakirdan/tui-derby/internal/race"
)

type raceFlags struct {
	names   string
	mute    bool
	volume  float64
	noSave  bool
	logFile string
}

func newRaceCmd(g *globalFlags) *cobra.Command {
	f := &raceFlags{}
	cmd := &cobra.Command{
		Use:   "race",
		Short: "Enter a field and watch the race",
		Long: `Open the setup form, enter the runners and watch the race.

Controls:
  P/Space    - Pause
  +/-        - Faster/slower playback
  R          - Rerun with a new seed
  M          - Mute
  Ctrl+S     - Save a text screenshot
  Esc/B      - Back to setup
  Q/Ctrl+C   - Quit

Passing --names skips the form for the first race.

Examples:
  derby race
  derby race --names "Ada,Bo,Cy,Di"
  derby race --profile legacy --mute`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRace(g, f)
		},
	}
	cmd.Flags().StringVar(&f.names, "names", "", "Comma-separated runner names")
	cmd.Flags().BoolVar(&f.mute, "mute", false, "Disable sound")
	cmd.Flags().Float64Var(&f.volume, "volume", 0.5, "Sound volume (0-1)")
	cmd.Flags().BoolVar(&f.noSave, "no-save", false, "Do not record results")
	cmd.Flags().StringVar(&f.logFile, "log", "", "Write debug log to this file")
	return cmd
}

func runRace(g *globalFlags, f *raceFlags) error {
	base, profile, err := g.raceConfig()
	if err != nil {
		return err
	}

	// The alternate screen owns stdout, so logs only go to a file.
	logger := log.New(io.Discard)
	if f.logFile != "" {
		if err := os.MkdirAll(filepath.Dir(f.logFile), 0o755); err != nil {
			return err
		}
		lf, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		defer lf.Close()
		logger = g.logger(lf, "derby")
	}

	var saver arena.ResultSaver
	var source tui.ResultsSource
	if !f.noSave {
		store, err := g.openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		} else {
			defer store.Close()
			saver, source = store, store
		}
	}

	var cue race.AudioCue
	if !f.mute {
		cue = audio.Open(f.volume, logger)
	}

	names := race.ParseNames(f.names)
	skipSetup := len(names) >= 2
	if len(names) == 0 {
		names = arena.DefaultNames()
	}

	for {
		width, height := terminalSize()

		if !skipSetup {
			res, err := tui.RunSetup(names, profile, width, height)
			if err != nil {
				return err
			}
			switch {
			case res.Quit:
				return nil
			case res.WantsResults:
				back, err := tui.RunScoreboard(source, width, height)
				if err != nil || !back {
					return err
				}
				continue
			}
			names, profile = res.Names, res.Profile
		}
		skipSetup = false

		cfg := base
		config.ApplyProfile(&cfg, profile)
		back, err := tui.Run(tui.Options{
			Config:  cfg,
			Runtime: g.runtime(width, height),
			Profile: profile.String(),
			Names:   names,
			Saver:   saver,
			Audio:   cue,
			Logger:  logger,
		})
		if err != nil || !back {
			return err
		}
	}
}
