package view

import (
	"slices"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-derby/internal/core"
	"github.com/vovakirdan/tui-derby/internal/race"
)

func TestSceneTracksObjects(t *testing.T) {
	s := NewScene()
	s.AddObject(race.SceneObject{ID: 3, Kind: race.ObjectBolt})
	s.AddObject(race.SceneObject{ID: 1, Kind: race.ObjectFinishLine})
	s.AddObject(race.SceneObject{ID: 2, Kind: race.ObjectBolt})
	s.RemoveObject(3)
	s.RemoveObject(99)

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if got := s.Count(race.ObjectBolt); got != 1 {
		t.Errorf("Count(bolt) = %d, want 1", got)
	}
	objs := s.Objects()
	if objs[0].ID != 1 || objs[1].ID != 2 {
		t.Errorf("Objects() order = %v, want IDs [1 2]", objs)
	}
}

func TestBroadcastRing(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"partial", []string{"a", "b"}, []string{"a", "b"}},
		{"exact", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"wrapped", []string{"a", "b", "c", "d", "e"}, []string{"c", "d", "e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBroadcast(3)
			for _, m := range tt.in {
				b.Announce(m)
			}
			got := b.Lines()
			if len(got) != len(tt.want) || (len(got) > 0 && !slices.Equal(got, tt.want)) {
				t.Errorf("Lines() = %v, want %v", got, tt.want)
			}
			if b.Total() != len(tt.in) {
				t.Errorf("Total() = %d, want %d", b.Total(), len(tt.in))
			}
			if len(tt.in) > 0 && b.Last() != tt.in[len(tt.in)-1] {
				t.Errorf("Last() = %q, want %q", b.Last(), tt.in[len(tt.in)-1])
			}
		})
	}
}

func TestBroadcastReset(t *testing.T) {
	b := NewBroadcast(2)
	b.Announce("x")
	b.Reset()
	if b.Last() != "" || len(b.Lines()) != 0 || b.Total() != 0 {
		t.Errorf("Reset left state behind: %q %v %d", b.Last(), b.Lines(), b.Total())
	}
}

func snapshot() race.Snapshot {
	return race.Snapshot{
		State:           race.StateRunning,
		Elapsed:         120,
		FinishZ:         -1000,
		OriginalFinishZ: -1000,
		TrackWidth:      240,
		Leader:          "Ada",
		Distance:        500,
		Actors: []race.ActorView{
			{Name: "Ada", Lane: 0, Z: -500, Rank: 1, Status: race.StatusRun, Pose: race.Pose{Glyph: '»'}},
			{Name: "Bo", Lane: 1, Z: 0, Rank: 2, Status: race.StatusFallen, Pose: race.Pose{Glyph: '_'}},
		},
		Obstacles: []race.ObstacleView{{X: 60, Z: -250, Landed: true}},
	}
}

func TestDrawPlacesRunnersAndFinish(t *testing.T) {
	s := core.NewScreen(12+101, 12)
	snap := snapshot()
	Draw(s, Frame{Snapshot: snap, Messages: []string{"old", "Ada takes the lead"}})

	tr := newTrack(s, snap)
	if tr.col(0) != labelWidth || tr.col(-1000) != s.Width()-2 {
		t.Fatalf("track spans %d..%d, want %d..%d", tr.col(0), tr.col(-1000), labelWidth, s.Width()-2)
	}

	ada := s.GetCell(tr.col(-500), hudRows)
	if ada.Rune != '»' {
		t.Errorf("Ada glyph = %q, want '»'", ada.Rune)
	}
	bo := s.GetCell(tr.col(0), hudRows+1)
	if bo.Rune != '_' || bo.Color != core.ColorGray {
		t.Errorf("Bo cell = %+v, want gray '_'", bo)
	}
	if got := s.Get(tr.col(-1000), hudRows); got != '┃' {
		t.Errorf("finish line = %q, want '┃'", got)
	}
	if got := s.Get(tr.col(-250), hudRows+1); got != 'O' {
		t.Errorf("obstacle = %q, want 'O' in lane 1", got)
	}
	if !strings.HasPrefix(s.Row(0), "DERBY") || !strings.Contains(s.Row(0), "Leader: Ada") {
		t.Errorf("status line = %q", s.Row(0))
	}
	if !strings.Contains(s.Row(hudRows+3), "1.Ada  2.Bo") {
		t.Errorf("standings row = %q", s.Row(hudRows+3))
	}
	if !strings.Contains(s.String(), "Ada takes the lead") {
		t.Error("newest message not drawn")
	}
}

func TestDrawEventLine(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*race.Snapshot)
		want string
	}{
		{"countdown", func(s *race.Snapshot) { s.State = race.StateCountdown; s.Countdown = "3" }, "3"},
		{"roulette", func(s *race.Snapshot) {
			s.Event = race.EventView{Triggered: true, Spinning: true, Shown: "Lightning"}
		}, "> Lightning <"},
		{"committed", func(s *race.Snapshot) {
			s.Event = race.EventView{Triggered: true, Committed: "Reverse Goal", Camera: true}
		}, "EVENT: Reverse Goal"},
		{"reversed", func(s *race.Snapshot) { s.Reversed = true; s.FinishZ = 500 }, "REVERSED!"},
		{"over", func(s *race.Snapshot) { s.Over = true }, "RACE OVER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapshot()
			tt.mod(&snap)
			s := core.NewScreen(100, 12)
			Draw(s, Frame{Snapshot: snap})
			if !strings.Contains(s.Row(1), tt.want) {
				t.Errorf("event line = %q, want it to contain %q", s.Row(1), tt.want)
			}
		})
	}
}

func TestDrawBoltOnStruckRunner(t *testing.T) {
	snap := snapshot()
	s := core.NewScreen(100, 12)
	Draw(s, Frame{Snapshot: snap, Objects: []race.SceneObject{
		{ID: 1, Kind: race.ObjectBolt, Pos: core.V3(0, 0, -500), Label: "Ada"},
	}})
	tr := newTrack(s, snap)
	if got := s.Get(tr.col(-500), hudRows); got != 'ϟ' {
		t.Errorf("bolt cell = %q, want 'ϟ'", got)
	}
}

func TestStandingsPutsFinishersFirst(t *testing.T) {
	snap := race.Snapshot{
		Placements: []string{"Cy"},
		Actors: []race.ActorView{
			{Name: "Ada", Rank: 2},
			{Name: "Bo", Rank: 1},
			{Name: "Cy", Finished: true},
		},
	}
	got := Standings(snap)
	want := []string{"Cy", "Bo", "Ada"}
	if !slices.Equal(got, want) {
		t.Errorf("Standings() = %v, want %v", got, want)
	}
}

func TestLaneAt(t *testing.T) {
	tests := []struct {
		x    float64
		want int
	}{
		{-119, 0},
		{-1, 1},
		{1, 2},
		{119, 3},
		{500, 3},
		{-500, 0},
	}
	for _, tt := range tests {
		if got := laneAt(tt.x, 240, 4); got != tt.want {
			t.Errorf("laneAt(%v) = %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Thunderhoof", 6); got != "Thund…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("Bo", 6); got != "Bo" {
		t.Errorf("truncate = %q", got)
	}
}
