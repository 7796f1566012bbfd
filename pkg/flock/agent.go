package flock

import (
	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids/pkg/spatial"
)

// AgentID is a stable handle assigned in spawn order. Agents are never removed,
// so an ID is also the agent's index in the flock.
type AgentID uint32

type entry = spatial.Entry[AgentID]

// Params are fixed when an agent is spawned.
type Params struct {
	Speed            float64 `json:"speed"`            // world units per second
	RotationRate     float64 `json:"rotationRate"`     // scales every steering strength
	ViewRadius       float64 `json:"viewRadius"`       // cohesion and alignment neighborhood
	SeparationRadius float64 `json:"separationRadius"` // separation neighborhood, usually smaller
}

// DefaultParams returns the reference agent tuning.
func DefaultParams() Params {
	return Params{
		Speed:            20.0,
		RotationRate:     3.0,
		ViewRadius:       50.0,
		SeparationRadius: 20.0,
	}
}

// Agent represents a single boid.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds. https://en.wikipedia.org/wiki/Boids
// Heading is always a unit vector.
type Agent struct {
	ID      AgentID
	Pos     geometry.Vector2D
	Heading geometry.Vector2D
	Params
}

// Targets holds the normalized steering targets an agent blended toward during the last tick.
// A zero vector means the rule produced no signal.
type Targets struct {
	Separation geometry.Vector2D
	Alignment  geometry.Vector2D
	Cohesion   geometry.Vector2D
	Manual     geometry.Vector2D
}

func (t *Targets) set(r Rule, v geometry.Vector2D) {
	switch r {
	case RuleSeparation:
		t.Separation = v
	case RuleAlignment:
		t.Alignment = v
	case RuleCohesion:
		t.Cohesion = v
	case RuleManual:
		t.Manual = v
	}
}
