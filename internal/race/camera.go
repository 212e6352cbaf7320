package race

import "github.com/vovakirdan/tui-derby/internal/core"

// Framing is the reason the camera is placed where it is.
type Framing int

const (
	FramingRotate Framing = iota
	FramingFinish
	FramingEvent
	FramingCloseUp
)

// String returns the framing name.
func (f Framing) String() string {
	switch f {
	case FramingFinish:
		return "finish"
	case FramingEvent:
		return "aerial"
	case FramingCloseUp:
		return "close-up"
	default:
		return "rotate"
	}
}

// MarshalText encodes the framing as its name.
func (f Framing) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Camera is the smoothed viewpoint of the race.
type Camera struct {
	Pos     core.Vec3
	Target  core.Vec3
	Mode    int
	Framing Framing

	lastChange   int
	closeUp      *Actor
	closeUpUntil int
	closeUpOn    bool // close-up currently holds the rotation slot
}

func (c *Camera) reset() {
	*c = Camera{Pos: core.V3(0, 60, 150), Target: core.V3(0, 10, -50)}
}

// requestCloseUp asks for a close-up on a until frame. It takes effect
// when the rotation slot is next free.
func (c *Camera) requestCloseUp(a *Actor, until int) {
	c.closeUp = a
	c.closeUpUntil = until
}

// updateCamera computes the desired framing and moves the camera toward it.
func (r *Race) updateCamera() {
	c := &r.camera
	cc := r.cfg.Camera
	leader := r.leader
	var pos, target core.Vec3

	switch {
	case r.distance > 0 && float64(r.distance) <= cc.FinishRange:
		c.Framing = FramingFinish
		pos = core.V3(400, 80, r.finishZ+50)
		target = core.V3(0, 20, r.finishZ)

	case r.events.CameraActive():
		c.Framing = FramingEvent
		mean := r.meanZ()
		pos = core.V3(0, 350, mean+250)
		target = core.V3(0, 0, mean)

	default:
		since := r.frame - c.lastChange
		if c.closeUp != nil && (c.closeUp.Finished || r.frame >= c.closeUpUntil) {
			c.closeUp = nil
			c.closeUpOn = false
		}
		if since >= cc.Cooldown {
			switch {
			case c.closeUp != nil && !c.closeUpOn:
				c.closeUpOn = true
				c.lastChange = r.frame
			case r.frame%cc.RotateEvery == 0:
				c.closeUpOn = false
				c.closeUp = nil
				c.Mode = (c.Mode + 1) % cc.Modes
				c.lastChange = r.frame
			}
		}

		focus := leader
		if c.closeUpOn {
			focus = c.closeUp
		}
		dir := 1.0
		if focus.Reversed {
			dir = -1
		}
		p := focus.Pos()

		if c.closeUpOn {
			c.Framing = FramingCloseUp
			pos = core.V3(p.X+60, 40, p.Z+80*dir)
			target = core.V3(p.X, 15, p.Z)
			break
		}

		c.Framing = FramingRotate
		switch c.Mode {
		case 0:
			pos = core.V3(0, 60, p.Z+150*dir)
			target = core.V3(0, 10, p.Z-50*dir)
		case 1, 4:
			pos = core.V3(0, 300, p.Z+100*dir)
			target = core.V3(0, 0, p.Z)
		case 2, 5:
			pos = core.V3(r.trackWidth+100, 60, p.Z)
			target = core.V3(0, 10, p.Z)
		default:
			pos = core.V3(p.X+60, 40, p.Z+80*dir)
			target = core.V3(p.X, 15, p.Z)
		}
	}

	c.Pos = c.Pos.Lerp(pos, cc.Smoothing)
	c.Target = c.Target.Lerp(target, cc.Smoothing)
}

// meanZ returns the mean position of the unfinished actors.
func (r *Race) meanZ() float64 {
	sum, n := 0.0, 0
	for _, a := range r.actors {
		if !a.Finished {
			sum += a.Z
			n++
		}
	}
	if n == 0 {
		return r.finishZ
	}
	return sum / float64(n)
}
