package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-derby/internal/config"
)

func newConfigCmd(g *globalFlags) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective race configuration",
		Long: `Print the race configuration as YAML after the config file and the
profile are applied. Redirect it to a file to start a custom config.

Examples:
  derby config > ~/.derby/configs/race.yaml
  derby config --profile chaos
  derby config --defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if raw {
				fmt.Print(string(config.DefaultYAML()))
				return nil
			}
			cfg, profile, err := g.raceConfig()
			if err != nil {
				return err
			}
			config.ApplyProfile(&cfg, profile)
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Printf("# profile: %s\n%s", profile, data)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "defaults", false, "Print the built-in default file")
	return cmd
}
