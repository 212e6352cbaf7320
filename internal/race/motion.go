package race

import "math"

// Pose is a cosmetic rendering hint derived from an actor's status. It has
// no effect on the simulation.
type Pose struct {
	Glyph rune
	Sway  int // Lateral offset in cells, -1..1
	Bob   bool
}

var poseGlyphs = [statusCount][2]rune{
	StatusRun:    {'»', '›'},
	StatusBoost:  {'≫', '≫'},
	StatusStun:   {'z', 'Z'},
	StatusBack:   {'«', '‹'},
	StatusShock:  {'#', '*'},
	StatusWalk:   {'w', 'W'},
	StatusFallen: {'_', '_'},
	StatusZigzag: {'~', '≈'},
	StatusIdle:   {'·', '·'},
}

// PoseAt returns the pose of a at frame.
func PoseAt(a *Actor, frame int) Pose {
	if a.Status < 0 || a.Status >= statusCount {
		return Pose{Glyph: '?'}
	}
	phase := (frame + int(a.wobble)) / 6 % 2
	p := Pose{Glyph: poseGlyphs[a.Status][phase], Bob: phase == 1 && a.Status == StatusRun}
	if a.Finished {
		p.Glyph = '✓'
		p.Bob = false
		return p
	}
	if a.Reversed {
		p.Glyph = mirror(p.Glyph)
	}
	if a.Status == StatusZigzag {
		p.Sway = int(math.Round(math.Sin(float64(frame) * 0.3)))
	}
	return p
}

func mirror(r rune) rune {
	switch r {
	case '»':
		return '«'
	case '«':
		return '»'
	case '›':
		return '‹'
	case '‹':
		return '›'
	case '≫':
		return '≪'
	default:
		return r
	}
}
