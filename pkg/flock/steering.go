package flock

import "github.com/lao-tseu-is-alive/go-boids/pkg/geometry"

// Blend turns current toward target by strength and returns the new unit heading.
//
// target is normalized first, strength is clamped to [0, 1]. Blend never returns a
// zero vector: a zero target, or an exactly opposite target at strength 0.5, leaves
// current unchanged.
func Blend(current, target geometry.Vector2D, strength float64) geometry.Vector2D {
	dir := target.Normalize()
	if dir.IsZero() || !(strength > 0) {
		return current
	}
	if strength > 1 {
		strength = 1
	}
	next := current.Lerp(dir, strength).Normalize()
	if next.IsZero() {
		return current
	}
	return next
}

// Strength is the blend factor of one rule for one tick.
// Agents with a higher rotation rate turn faster, and the turn scales with frame time.
func Strength(rotationRate, dt, weight float64) float64 {
	return rotationRate * dt * weight
}
