package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// serveEnv maps serve flags to the variables that can stand in for them.
func serveEnv() []struct{ flag, env string } {
	return []struct{ flag, env string }{
		{"ssh", "DERBY_SSH_ADDR"},
		{"http", "DERBY_HTTP_ADDR"},
		{"host-key", "DERBY_HOST_KEY"},
		{"names", "DERBY_NAMES"},
		{"intermission", "DERBY_INTERMISSION"},
	}
}

// loadEnv reads the env file into the process environment, then sets every
// serve flag that was not passed explicitly from its variable. Variables
// already in the environment win over the file. A missing file is only an
// error when --env-file was given.
func loadEnv(cmd *cobra.Command, f *serveFlags) error {
	if err := godotenv.Load(f.envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("env-file") {
			return fmt.Errorf("cannot load env file %s: %w", f.envFile, err)
		}
	}

	for _, v := range serveEnv() {
		if cmd.Flags().Changed(v.flag) {
			continue
		}
		val, ok := os.LookupEnv(v.env)
		if !ok {
			continue
		}
		if err := cmd.Flags().Set(v.flag, val); err != nil {
			return fmt.Errorf("invalid %s: %w", v.env, err)
		}
	}
	return nil
}
