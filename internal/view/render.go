package view

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/vovakirdan/tui-derby/internal/core"
	"github.com/vovakirdan/tui-derby/internal/race"
)

// Layout constants.
const (
	labelWidth = 12 // Runner name column
	hudRows    = 3  // Status line, event line, top border
	minTrack   = 8
)

// Frame is everything drawn in one pass.
type Frame struct {
	Snapshot race.Snapshot
	Objects  []race.SceneObject // Bolts and fireworks; obstacles come from the snapshot
	Messages []string           // Announcements, oldest first
	Title    string
	TickRate int
	Paused   bool
	Speed    int // Playback multiplier, 1 = real time
}

// track maps world Z onto screen columns. The race runs right to left in
// world Z, so larger Z is drawn further left.
type track struct {
	left, right int
	lo, hi      float64
}

func newTrack(s *core.Screen, snap race.Snapshot) track {
	t := track{left: labelWidth, right: core.Max(s.Width()-2, labelWidth+minTrack)}
	t.lo = math.Min(0, math.Min(snap.FinishZ, snap.OriginalFinishZ))
	t.hi = math.Max(0, math.Max(snap.FinishZ, snap.OriginalFinishZ))
	for _, a := range snap.Actors {
		t.lo = math.Min(t.lo, a.Z)
		t.hi = math.Max(t.hi, a.Z)
	}
	if t.hi-t.lo < 1 {
		t.hi = t.lo + 1
	}
	return t
}

func (t track) col(z float64) int {
	span := float64(t.right - t.left)
	return t.left + int(math.Round((t.hi-z)/(t.hi-t.lo)*span))
}

// Draw renders f into s, replacing its previous contents.
func Draw(s *core.Screen, f Frame) {
	s.Clear()
	snap := f.Snapshot
	t := newTrack(s, snap)
	lanes := len(snap.Actors)

	drawStatusLine(s, f)
	drawEventLine(s, snap)

	top := hudRows - 1
	bottom := hudRows + lanes
	s.DrawHLine(0, top, s.Width(), '═', core.ColorGray)
	s.DrawHLine(0, bottom, s.Width(), '═', core.ColorGray)

	for lane := 0; lane < lanes; lane++ {
		y := hudRows + lane
		for x := t.left; x <= t.right; x++ {
			if (x-t.left)%8 == 0 {
				s.SetColored(x, y, '·', core.ColorGray)
			}
		}
		s.SetColored(t.col(0), y, ':', core.ColorGray)
		s.SetColored(t.col(snap.FinishZ), y, '┃', core.ColorBrightWhite)
	}
	if snap.Reversed {
		s.SetColored(t.col(snap.OriginalFinishZ), top, 'x', core.ColorGray)
	}

	for _, o := range snap.Obstacles {
		lane := laneAt(o.X, snap.TrackWidth, lanes)
		glyph, c := 'o', core.ColorOrange
		if o.Landed {
			glyph, c = 'O', core.ColorBrown
		}
		s.SetColored(t.col(o.Z), hudRows+lane, glyph, c)
	}

	for _, a := range snap.Actors {
		y := hudRows + a.Lane
		name := truncate(a.Name, labelWidth-2)
		s.DrawTextColored(0, y, name, core.Color(a.Color))
		x := core.Clamp(t.col(a.Z)+a.Pose.Sway, t.left, t.right)
		s.SetColored(x, y, a.Pose.Glyph, actorColor(a))
	}

	drawObjects(s, t, snap, f.Objects)
	s.SetColored(t.col(snap.CameraZ), bottom, '▲', core.ColorCyan)

	y := bottom + 1
	s.DrawText(0, y, truncate(standingsLine(snap), s.Width()))
	y++

	room := s.Height() - y
	msgs := f.Messages
	if len(msgs) > room {
		msgs = msgs[len(msgs)-room:]
	}
	for i, m := range msgs {
		c := core.ColorGray
		if i == len(msgs)-1 {
			c = core.ColorWhite
		}
		s.DrawTextColored(0, y+i, truncate(m, s.Width()), c)
	}
}

func drawStatusLine(s *core.Screen, f Frame) {
	snap := f.Snapshot
	title := f.Title
	if title == "" {
		title = "DERBY"
	}
	rate := f.TickRate
	if rate <= 0 {
		rate = 60
	}

	parts := []string{title, fmt.Sprintf("%5.1fs", float64(snap.Elapsed)/float64(rate))}
	if snap.Leader != "" {
		parts = append(parts, fmt.Sprintf("Leader: %s", snap.Leader), fmt.Sprintf("%dm to go", snap.Distance))
	}
	if snap.GapWarning {
		parts = append(parts, fmt.Sprintf("breakaway +%.0f", snap.Gap))
	}
	parts = append(parts, "cam: "+snap.Framing.String())
	if f.Speed > 1 {
		parts = append(parts, fmt.Sprintf("x%d", f.Speed))
	}
	if f.Paused {
		parts = append(parts, "[PAUSED]")
	}
	s.DrawTextColored(0, 0, truncate(strings.Join(parts, "  "), s.Width()), core.ColorBrightWhite)
}

func drawEventLine(s *core.Screen, snap race.Snapshot) {
	text, c := "", core.ColorWhite
	switch {
	case snap.Over:
		text, c = "RACE OVER", core.ColorBrightGreen
	case snap.State == race.StateNotStarted:
		text, c = "Waiting for the start...", core.ColorGray
	case snap.State == race.StateCountdown:
		text, c = snap.Countdown, core.ColorBrightYellow
	case snap.Event.Spinning:
		text, c = fmt.Sprintf("EVENT ROULETTE  > %s <", snap.Event.Shown), core.ColorBrightMagenta
	case snap.Event.Committed != "" && snap.Event.Camera:
		text, c = "EVENT: "+snap.Event.Committed, core.ColorBrightMagenta
	case snap.Reversed:
		text, c = "REVERSED! The finish is behind the start!", core.ColorBrightRed
	case snap.State == race.StateFinished:
		text, c = "Podium decided", core.ColorBrightGreen
	}
	if text == "" {
		return
	}
	x := (s.Width() - len([]rune(text))) / 2
	s.DrawTextColored(x, 1, text, c)
}

func drawObjects(s *core.Screen, t track, snap race.Snapshot, objects []race.SceneObject) {
	rows := make(map[string]int, len(snap.Actors))
	for _, a := range snap.Actors {
		rows[a.Name] = hudRows + a.Lane
	}
	for _, o := range objects {
		y, ok := rows[o.Label]
		switch o.Kind {
		case race.ObjectBolt:
			if ok {
				s.SetColored(t.col(o.Pos.Z), y, 'ϟ', core.ColorBrightYellow)
			}
		case race.ObjectFirework:
			x := t.col(o.Pos.Z)
			for dx := -1; dx <= 1; dx++ {
				s.SetColored(x+dx, hudRows-1, '*', core.ColorBrightMagenta)
			}
		}
	}
}

func actorColor(a race.ActorView) core.Color {
	switch a.Status {
	case race.StatusShock:
		return core.ColorBrightYellow
	case race.StatusFallen, race.StatusStun:
		return core.ColorGray
	}
	return core.Color(a.Color)
}

// laneAt returns the lane whose centre is nearest to x.
func laneAt(x, width float64, lanes int) int {
	if lanes < 1 || width <= 0 {
		return 0
	}
	laneW := width / float64(lanes)
	return core.Clamp(int((x+width/2)/laneW), 0, lanes-1)
}

// Standings returns runner names in current order: finishers by place,
// then the field by rank.
func Standings(snap race.Snapshot) []string {
	out := append([]string(nil), snap.Placements...)
	rest := make([]race.ActorView, 0, len(snap.Actors))
	for _, a := range snap.Actors {
		if !a.Finished {
			rest = append(rest, a)
		}
	}
	slices.SortStableFunc(rest, func(a, b race.ActorView) int {
		return cmp.Compare(a.Rank, b.Rank)
	})
	for _, a := range rest {
		out = append(out, a.Name)
	}
	return out
}

func standingsLine(snap race.Snapshot) string {
	names := Standings(snap)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%d.%s", i+1, n)
		if i < len(snap.Placements) {
			parts[i] += "✓"
		}
	}
	return strings.Join(parts, "  ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
