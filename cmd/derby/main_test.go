package main

import (
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-derby/internal/storage"
)

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"race", "sim", "results", "leaderboard", "events", "serve", "config"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestSimSavesRace(t *testing.T) {
	db := filepath.Join(t.TempDir(), "races.db")
	root := newRootCmd()
	root.SetArgs([]string{"sim", "--seed", "9", "--names", "Ada,Bo,Cy", "--quiet", "--json", "--save", "--db", db})
	if err := root.Execute(); err != nil {
		t.Fatalf("sim: %v", err)
	}

	store, err := storage.Open(db)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	races, err := store.RecentRaces(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(races) != 1 || races[0].Seed != 9 || races[0].Runners != 3 {
		t.Errorf("stored races = %+v", races)
	}
}

func TestSimRejectsBadProfile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"sim", "--profile", "turbo", "--quiet"})
	if err := root.Execute(); err == nil {
		t.Error("unknown profile accepted")
	}
}

func TestServeNeedsAListener(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"serve", "--ssh", "", "--http", ""})
	if err := root.Execute(); err == nil {
		t.Error("serve with no listeners should fail")
	}
}

func TestPort(t *testing.T) {
	tests := []struct{ addr, want string }{
		{":23234", "23234"},
		{"0.0.0.0:2222", "2222"},
		{"[::1]:80", "80"},
		{"bogus", "bogus"},
	}
	for _, tt := range tests {
		if got := port(tt.addr); got != tt.want {
			t.Errorf("port(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestResultsClear(t *testing.T) {
	db := filepath.Join(t.TempDir(), "races.db")
	root := newRootCmd()
	root.SetArgs([]string{"sim", "--seed", "4", "--names", "Ada,Bo", "--quiet", "--json", "--save", "--db", db})
	if err := root.Execute(); err != nil {
		t.Fatalf("sim: %v", err)
	}

	root = newRootCmd()
	root.SetArgs([]string{"results", "--clear", "--db", db})
	if err := root.Execute(); err != nil {
		t.Fatalf("results --clear: %v", err)
	}

	store, err := storage.Open(db)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if races, _ := store.RecentRaces(5); len(races) != 0 {
		t.Errorf("races after clear = %d, want 0", len(races))
	}
}
