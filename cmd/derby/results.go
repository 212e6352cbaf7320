package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-derby/internal/platform/tui"
	"github.com/vovakirdan/tui-derby/internal/storage"
)

func newResultsCmd(g *globalFlags) *cobra.Command {
	var limit int
	var interactive, wipe bool
	cmd := &cobra.Command{
		Use:   "results [id]",
		Short: "Show recent races or one race in detail",
		Long: `List the most recent races, or show the full placings of one race.

Examples:
  derby results
  derby results --limit 50
  derby results 5f0c1b9e-...
  derby results --tui
  derby results --clear`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			switch {
			case wipe:
				if err := store.ClearRaces(); err != nil {
					return fmt.Errorf("cannot clear races: %w", err)
				}
				fmt.Println("Race history cleared.")
				return nil
			case interactive:
				width, height := terminalSize()
				_, err := tui.RunScoreboard(store, width, height)
				return err
			case len(args) == 1:
				return printRace(store, args[0])
			default:
				return printRecent(store, limit)
			}
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of races to list")
	cmd.Flags().BoolVar(&interactive, "tui", false, "Browse results interactively")
	cmd.Flags().BoolVar(&wipe, "clear", false, "Delete all recorded races")
	return cmd
}

func printRecent(store *storage.Store, limit int) error {
	races, err := store.RecentRaces(limit)
	if err != nil {
		return fmt.Errorf("cannot list races: %w", err)
	}

	fmt.Println("Recent Races")
	fmt.Println()
	if len(races) == 0 {
		fmt.Println("No races recorded yet.")
		fmt.Println()
		fmt.Println("Run 'derby race' or 'derby sim --save' to record one!")
		return nil
	}

	fmt.Printf("  %-36s  %-16s  %-16s  %-5s  %s\n", "ID", "Date", "Winner", "Field", "Event")
	fmt.Printf("  %-36s  %-16s  %-16s  %-5s  %s\n", "--", "----", "------", "-----", "-----")
	for _, r := range races {
		fmt.Printf("  %-36s  %-16s  %-16s  %-5d  %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Winner, r.Runners, r.Event)
	}
	return nil
}

func printRace(store *storage.Store, id string) error {
	rec, err := store.RaceByID(id)
	if err != nil {
		return fmt.Errorf("cannot load race: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("race %q not found", id)
	}

	fmt.Printf("Race %s\n", rec.ID)
	fmt.Printf("  Date:    %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Seed:    %d\n", rec.Seed)
	fmt.Printf("  Profile: %s\n", rec.Profile)
	if rec.Event != "" {
		fmt.Printf("  Event:   %s\n", rec.Event)
	}
	if rec.Reversed {
		fmt.Println("  Goal reversed")
	}
	fmt.Println()

	fmt.Printf("  %-5s  %-16s  %-4s  %s\n", "Place", "Runner", "Lane", "Ticks")
	fmt.Printf("  %-5s  %-16s  %-4s  %s\n", "-----", "------", "----", "-----")
	for _, p := range rec.Placements {
		ticks := "DNF"
		if p.Finished {
			ticks = fmt.Sprintf("%d", p.FinishTick)
		}
		fmt.Printf("  %-5d  %-16s  %-4d  %s\n", p.Place, p.Name, p.Lane+1, ticks)
	}
	return nil
}

func newLeaderboardCmd(g *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show per-runner standings across all races",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := g.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Leaderboard(limit)
			if err != nil {
				return fmt.Errorf("cannot build leaderboard: %w", err)
			}

			fmt.Println("Leaderboard")
			fmt.Println()
			if len(stats) == 0 {
				fmt.Println("No races recorded yet.")
				return nil
			}

			fmt.Printf("  %-4s  %-16s  %-5s  %-4s  %-7s  %s\n", "Rank", "Runner", "Races", "Wins", "Podiums", "Avg")
			fmt.Printf("  %-4s  %-16s  %-5s  %-4s  %-7s  %s\n", "----", "------", "-----", "----", "-------", "---")
			for i, s := range stats {
				fmt.Printf("  %-4d  %-16s  %-5d  %-4d  %-7d  %.2f\n", i+1, s.Name, s.Races, s.Wins, s.Podiums, s.AvgPlace)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runners to list")
	return cmd
}

func newEventsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Show how often each map event fired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := g.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			counts, err := store.EventCounts()
			if err != nil {
				return fmt.Errorf("cannot count events: %w", err)
			}

			names := make([]string, 0, len(counts))
			total := 0
			for name, n := range counts {
				names = append(names, name)
				total += n
			}
			slices.SortFunc(names, func(a, b string) int {
				if counts[a] != counts[b] {
					return counts[b] - counts[a]
				}
				return strings.Compare(a, b)
			})

			fmt.Println("Map Events")
			fmt.Println()
			if total == 0 {
				fmt.Println("No races recorded yet.")
				return nil
			}
			for _, name := range names {
				label := name
				if label == "" {
					label = "(none)"
				}
				fmt.Printf("  %-16s  %4d  %5.1f%%\n", label, counts[name], 100*float64(counts[name])/float64(total))
			}
			return nil
		},
	}
}
