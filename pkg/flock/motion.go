package flock

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
)

// Bounds is the world rectangle [0, Width] x [0, Height].
type Bounds struct {
	Width  float64 `json:"worldWidth"`
	Height float64 `json:"worldHeight"`
}

// Validate rejects empty or non-finite worlds.
func (b Bounds) Validate() error {
	if !(b.Width > 0) || !(b.Height > 0) || !(geometry.Vector2D{X: b.Width, Y: b.Height}).IsFinite() {
		return fmt.Errorf("%w: %vx%v", ErrInvalidBounds, b.Width, b.Height)
	}
	return nil
}

// Contains reports whether p lies inside the closed rectangle.
func (b Bounds) Contains(p geometry.Vector2D) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

// Wrap teleports a point that left the world to the opposite edge.
// Each axis wraps on its own. The far edge counts as outside, so (Width, y) lands on (0, y);
// a point in [0, Width) x [0, Height) is returned as is.
func (b Bounds) Wrap(p geometry.Vector2D) geometry.Vector2D {
	if p.X < 0 {
		p.X = b.Width
	} else if p.X >= b.Width {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = b.Height
	} else if p.Y >= b.Height {
		p.Y = 0
	}
	return p
}

// Integrate moves pos along heading for dt seconds at speed.
// It reports false, leaving pos untouched, when heading has no direction or the
// displacement overflows.
func Integrate(pos, heading geometry.Vector2D, speed, dt float64) (geometry.Vector2D, bool) {
	dir := heading.Normalize()
	if dir.IsZero() {
		return pos, false
	}
	next := pos.Add(dir.Mul(speed * dt))
	if !next.IsFinite() {
		return pos, false
	}
	return next, true
}
