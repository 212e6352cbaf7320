package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-derby/internal/announce"
	"github.com/vovakirdan/tui-derby/internal/arena"
	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/race"
)

type simFlags struct {
	names      string
	save       bool
	quiet      bool
	jsonOut    bool
	maxSeconds int
}

func newSimCmd(g *globalFlags) *cobra.Command {
	f := &simFlags{}
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run a race headless and print the result",
		Long: `Run a race as fast as possible without a screen. Announcements are
logged to stderr and the final placings are printed to stdout.

The same --seed, --names and --profile always produce the same race.

Examples:
  derby sim --seed 42
  derby sim --names "Ada,Bo,Cy" --profile chaos --save
  derby sim --quiet --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSim(g, f)
		},
	}
	cmd.Flags().StringVar(&f.names, "names", "", "Comma-separated runner names (default roster if empty)")
	cmd.Flags().BoolVar(&f.save, "save", false, "Record the result in the database")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "Do not log announcements")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Print the result as JSON")
	cmd.Flags().IntVar(&f.maxSeconds, "max-seconds", 600, "Give up after this much simulated time")
	return cmd
}

func runSim(g *globalFlags, f *simFlags) error {
	cfg, profile, err := g.raceConfig()
	if err != nil {
		return err
	}
	config.ApplyProfile(&cfg, profile)

	rt := g.runtime(0, 0)
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	names := race.ParseNames(f.names)
	if len(names) == 0 {
		names = arena.DefaultNames()
	}

	logger := g.logger(os.Stderr, "derby")
	var ann race.Announcer
	var announcer *announce.Logger
	if !f.quiet {
		announcer = announce.New(logger)
		ann = announcer
	}

	r, err := race.New(race.Options{
		Config:    cfg,
		Runtime:   rt,
		Announcer: ann,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	if announcer != nil {
		announcer.Bind(r)
	}
	if err := r.Setup(names); err != nil {
		return err
	}
	r.Start()
	finished := r.Run(f.maxSeconds * rt.TickRate)
	res := r.Result()

	if !finished {
		logger.Warn("Race hit the time limit", "seconds", f.maxSeconds)
	}

	if f.save {
		store, err := g.openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.SaveRace(res, profile.String())
		if err != nil {
			return fmt.Errorf("cannot save race: %w", err)
		}
		logger.Info("Race saved", "id", id)
	}

	if f.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printResult(res, rt.TickRate, profile.String())
	return nil
}

// printResult writes a placings table.
func printResult(res race.Result, tickRate int, profile string) {
	fmt.Printf("Race - seed %d, profile %s\n", res.Seed, profile)
	if res.Event != "" {
		event := res.Event
		if res.Reversed {
			event += " (goal reversed)"
		}
		fmt.Printf("Map event: %s\n", event)
	}
	fmt.Println()

	fmt.Printf("  %-5s  %-16s  %-4s  %s\n", "Place", "Runner", "Lane", "Time")
	fmt.Printf("  %-5s  %-16s  %-4s  %s\n", "-----", "------", "----", "----")
	for _, p := range res.Placements {
		t := "DNF"
		if p.Finished {
			t = fmt.Sprintf("%.2fs", float64(p.FinishTick)/float64(tickRate))
		}
		fmt.Printf("  %-5d  %-16s  %-4d  %s\n", p.Place, p.Name, p.Lane+1, t)
	}
}
