package race

import (
	"fmt"

	"github.com/vovakirdan/tui-derby/internal/core"
)

// Obstacle is a rock dropped by the obstacle event.
type Obstacle struct {
	ID        ObjectID
	X, Y, Z   float64
	FallSpeed float64
	Landed    bool
	Radius    float64
}

// Pos returns the obstacle position.
func (o *Obstacle) Pos() core.Vec3 {
	return core.V3(o.X, o.Y, o.Z)
}

// dropObstacle spawns an obstacle ahead of a target in its direction of
// travel.
func (r *Race) dropObstacle(target *Actor) {
	if r.state != StateRunning {
		return
	}
	dc := r.cfg.Events.ObstacleDrop
	ahead := dc.Distance + r.rng.Float64()*dc.DistanceJitter
	z := target.Z - ahead
	if target.Reversed {
		z = target.Z + ahead
	}
	o := &Obstacle{
		X:         target.X + (r.rng.Float64()-0.5)*dc.LateralJitter,
		Y:         dc.FallHeight,
		Z:         z,
		FallSpeed: dc.FallSpeed + r.rng.Float64()*dc.FallSpeedJitter,
		Radius:    r.cfg.Obstacles.Radius,
	}
	o.ID = r.addObject(ObjectObstacle, o.Pos(), "")
	r.obstacles = append(r.obstacles, o)
}

// stepObstacles applies fall physics and resolves collisions.
func (r *Race) stepObstacles() {
	oc := r.cfg.Obstacles
	kept := r.obstacles[:0]
	for _, o := range r.obstacles {
		if !o.Landed {
			o.FallSpeed += oc.Gravity
			o.Y -= o.FallSpeed
			switch {
			case o.Y <= oc.LandY && o.Y >= oc.FloorY:
				o.Y = oc.LandY
				o.Landed = true
				r.audio.Play(CueLand)
			case o.Y < oc.FloorY:
				r.removeObject(o.ID)
				continue
			}
		}

		if o.Landed {
			if hit := r.obstacleHit(o); hit != nil {
				hit.force(StatusFallen, r.skills.Duration(StatusFallen))
				r.announce(fmt.Sprintf("%s slammed into an obstacle!", hit.Name))
				r.audio.Play(CueCollision)
				r.removeObject(o.ID)
				continue
			}
		}
		kept = append(kept, o)
	}
	for i := len(kept); i < len(r.obstacles); i++ {
		r.obstacles[i] = nil
	}
	r.obstacles = kept
}

// obstacleHit returns the first standing, unfinished actor within the
// obstacle radius.
func (r *Race) obstacleHit(o *Obstacle) *Actor {
	p := o.Pos()
	for _, a := range r.actors {
		if a.Finished || r.skills.Grounded(a.Status) {
			continue
		}
		if a.Pos().PlanarDist(p) < o.Radius {
			return a
		}
	}
	return nil
}
