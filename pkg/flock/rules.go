package flock

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
)

// Rule identifies one steering contribution. Rules run in declaration order.
type Rule uint8

const (
	RuleSeparation Rule = iota
	RuleAlignment
	RuleCohesion
	RuleManual
)

func (r Rule) String() string {
	switch r {
	case RuleSeparation:
		return "separation"
	case RuleAlignment:
		return "alignment"
	case RuleCohesion:
		return "cohesion"
	case RuleManual:
		return "manual"
	}
	return fmt.Sprintf("Rule(%d)", uint8(r))
}

// Steer is the decoded manual control signal, broadcast to every agent.
type Steer int32

const (
	SteerNone Steer = iota
	SteerLeft
	SteerRight
)

func (s Steer) String() string {
	switch s {
	case SteerNone:
		return "none"
	case SteerLeft:
		return "left"
	case SteerRight:
		return "right"
	}
	return fmt.Sprintf("Steer(%d)", int32(s))
}

// SteerFromInput decodes two held controls. Holding both cancels out.
func SteerFromInput(left, right bool) Steer {
	switch {
	case left && !right:
		return SteerLeft
	case right && !left:
		return SteerRight
	}
	return SteerNone
}

// Weights scale each rule's strength. A zero weight disables the rule.
type Weights struct {
	Cohesion   float64 `json:"cohesionWeight"`
	Alignment  float64 `json:"alignmentWeight"`
	Separation float64 `json:"separationWeight"`
	Manual     float64 `json:"manualWeight"`
}

// DefaultWeights returns a tuning where close-range separation dominates.
func DefaultWeights() Weights {
	return Weights{
		Cohesion:   0.1,
		Alignment:  0.3,
		Separation: 0.5,
		Manual:     1.0,
	}
}

func (w Weights) of(r Rule) float64 {
	switch r {
	case RuleSeparation:
		return w.Separation
	case RuleAlignment:
		return w.Alignment
	case RuleCohesion:
		return w.Cohesion
	case RuleManual:
		return w.Manual
	}
	return 0
}

// cohesionTarget points from self toward the mean position of its neighbors.
// found is the raw view-radius query and may contain self.
func cohesionTarget(self *Agent, found []entry) (geometry.Vector2D, bool) {
	var sum geometry.Vector2D
	n := 0
	for _, e := range found {
		if e.ID == self.ID {
			continue
		}
		sum = sum.Add(e.Pos)
		n++
	}
	if n == 0 {
		return geometry.Zero, false
	}
	target := sum.Mul(1 / float64(n)).Sub(self.Pos)
	return target, !target.IsZero()
}

// alignmentTarget is the mean pre-tick heading of the neighbors.
func alignmentTarget(self *Agent, found []entry, heading func(AgentID) geometry.Vector2D) (geometry.Vector2D, bool) {
	var sum geometry.Vector2D
	n := 0
	for _, e := range found {
		if e.ID == self.ID {
			continue
		}
		sum = sum.Add(heading(e.ID))
		n++
	}
	if n == 0 {
		return geometry.Zero, false
	}
	target := sum.Mul(1 / float64(n))
	return target, !target.IsZero()
}

// separationTarget points away from the centroid of the agents inside the separation radius.
func separationTarget(self *Agent, found []entry) (geometry.Vector2D, bool) {
	if len(found) < 2 {
		return geometry.Zero, false
	}
	var sum geometry.Vector2D
	n := 0
	for _, e := range found {
		if e.ID == self.ID {
			continue
		}
		sum = sum.Add(e.Pos.Sub(self.Pos))
		n++
	}
	if n == 0 {
		return geometry.Zero, false
	}
	target := sum.Mul(1 / float64(n)).Neg().Normalize()
	return target, !target.IsZero()
}

// manualTarget is the heading turned a quarter left or right.
func manualTarget(heading geometry.Vector2D, steer Steer) (geometry.Vector2D, bool) {
	switch steer {
	case SteerLeft:
		return heading.Perp(), true
	case SteerRight:
		return heading.PerpRight(), true
	}
	return geometry.Zero, false
}

// radius picks the neighborhood a rule queries.
func (r Rule) radius(a *Agent) float64 {
	if r == RuleSeparation {
		return a.SeparationRadius
	}
	return a.ViewRadius
}
