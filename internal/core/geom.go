// Package core provides fundamental types and utilities shared by the race
// simulation and its front ends. It contains no external dependencies
// (especially no Bubble Tea) to keep the simulation pure and testable.
package core

import "math"

// Vec3 is a point in track space. X is lateral, Y is height, Z runs along
// the track (the start line is Z=0 and the original finish is negative).
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for constructing a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Lerp moves v toward target by factor t (0 = stay, 1 = snap).
func (v Vec3) Lerp(target Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (target.X-v.X)*t,
		Y: v.Y + (target.Y-v.Y)*t,
		Z: v.Z + (target.Z-v.Z)*t,
	}
}

// PlanarDist returns the distance between v and o ignoring height.
func (v Vec3) PlanarDist(o Vec3) float64 {
	return math.Hypot(v.X-o.X, v.Z-o.Z)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// LerpAngle moves an angle toward target, snapping once within eps.
func LerpAngle(current, target, t, eps float64) float64 {
	if math.Abs(target-current) <= eps {
		return target
	}
	return current + (target-current)*t
}
