// Package flock runs the per-tick boids pipeline: spatial refresh, separation, alignment,
// cohesion, manual steering, motion and boundary wrap.
package flock

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids/pkg/spatial"
	"github.com/tochemey/goakt/v3/log"
	"golang.org/x/sync/errgroup"
)

// minAgentsPerWorker keeps small flocks on one goroutine, where fan-out costs more than it saves.
const minAgentsPerWorker = 64

var (
	ErrInvalidBounds   = errors.New("invalid world bounds")
	ErrInvalidParams   = errors.New("invalid agent params")
	ErrInvalidPosition = errors.New("invalid spawn position")
	ErrZeroHeading     = errors.New("heading has no direction")
)

// Settings are the fixed inputs of a Flock.
type Settings struct {
	Bounds   Bounds
	Defaults Params // applied to every spawned agent
	Weights  Weights
}

// Validate checks bounds and agent defaults.
func (s Settings) Validate() error {
	if err := s.Bounds.Validate(); err != nil {
		return err
	}
	p := s.Defaults
	if !(p.Speed >= 0) || !(p.RotationRate >= 0) || !(p.ViewRadius > 0) || !(p.SeparationRadius > 0) {
		return fmt.Errorf("%w: %+v", ErrInvalidParams, p)
	}
	return nil
}

// Metrics summarize the flock after the last tick.
type Metrics struct {
	Agents       int
	Tick         uint64
	Centroid     geometry.Vector2D
	Polarization float64 // length of the mean heading: 0 scattered, 1 fully aligned
}

// Flock owns the agents and the spatial index. It is not safe for concurrent use;
// callers serialize Spawn, Step and the read accessors.
type Flock struct {
	settings Settings
	agents   []Agent
	index    spatial.Index[AgentID]

	// rebuilt by refresh at the start of every tick, read-only afterwards
	entries  []entry
	headings []geometry.Vector2D

	targets []Targets
	buffers [][]entry

	rng     *rand.Rand
	logger  log.Logger
	workers int
	seed    uint64
	seeded  bool
	manual  bool
	debug   bool
	tick    uint64
}

// New creates an empty flock.
func New(settings Settings, opts ...Option) (*Flock, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	f := &Flock{
		settings: settings,
		logger:   log.DiscardLogger,
		workers:  1,
		manual:   true,
	}
	for _, opt := range opts {
		opt(f)
	}
	if !f.seeded {
		f.seed = uint64(time.Now().UnixNano())
	}
	f.rng = rand.New(rand.NewPCG(f.seed, f.seed^0x9e3779b97f4a7c15))

	cellSize := math.Max(settings.Defaults.ViewRadius, settings.Defaults.SeparationRadius)
	f.index = spatial.NewGrid[AgentID](cellSize)
	f.buffers = make([][]entry, f.workers)
	return f, nil
}

// Settings returns the flock configuration.
func (f *Flock) Settings() Settings {
	return f.settings
}

// Len returns the number of agents.
func (f *Flock) Len() int {
	return len(f.agents)
}

// Tick returns how many steps have been applied.
func (f *Flock) Tick() uint64 {
	return f.tick
}

// Spawn adds an agent at pos with a uniformly random heading in [0°, 360°).
func (f *Flock) Spawn(pos geometry.Vector2D) (AgentID, error) {
	return f.SpawnHeading(pos, geometry.FromDegrees(f.rng.Float64()*360))
}

// SpawnHeading adds an agent at pos facing heading. The heading is normalized.
func (f *Flock) SpawnHeading(pos, heading geometry.Vector2D) (AgentID, error) {
	if !pos.IsFinite() {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
	}
	dir := heading.Normalize()
	if !heading.IsFinite() || dir.IsZero() {
		return 0, fmt.Errorf("%w: %v", ErrZeroHeading, heading)
	}
	id := AgentID(len(f.agents))
	f.agents = append(f.agents, Agent{
		ID:      id,
		Pos:     pos,
		Heading: dir,
		Params:  f.settings.Defaults,
	})
	f.logger.Debugf("spawned agent %d at %s heading %s", id, pos, dir)
	return id, nil
}

// Scatter spawns n agents at uniformly random positions inside the bounds.
func (f *Flock) Scatter(n int) []AgentID {
	ids := make([]AgentID, 0, max(n, 0))
	b := f.settings.Bounds
	for range n {
		id, err := f.Spawn(geometry.NewVector(f.rng.Float64()*b.Width, f.rng.Float64()*b.Height))
		if err != nil {
			f.logger.Warnf("scatter: %v", err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Step advances the flock by dt seconds with the given manual input.
// A dt that is not a positive finite number leaves the flock untouched and returns false.
func (f *Flock) Step(dt float64, steer Steer) bool {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return false
	}
	f.refresh()

	f.applyRule(RuleSeparation, dt)
	f.applyRule(RuleAlignment, dt)
	f.applyRule(RuleCohesion, dt)
	if f.manual {
		f.applyManual(steer, dt)
	}
	f.move(dt)

	f.tick++
	return true
}

// refresh snapshots positions into the index and headings into the alignment table.
func (f *Flock) refresh() {
	f.entries = f.entries[:0]
	f.headings = f.headings[:0]
	for i := range f.agents {
		a := &f.agents[i]
		f.entries = append(f.entries, entry{ID: a.ID, Pos: a.Pos})
		f.headings = append(f.headings, a.Heading)
	}
	f.index.Refresh(f.entries)

	if f.debug {
		f.targets = append(f.targets[:0], make([]Targets, len(f.agents))...)
	}
}

// snapshotHeading returns a neighbor's heading as it was when the tick started.
// A miss means the index and the snapshot disagree on the agent set: a tick-ordering bug.
func (f *Flock) snapshotHeading(id AgentID) geometry.Vector2D {
	if int(id) >= len(f.headings) {
		panic(fmt.Sprintf("flock: agent %d missing from heading snapshot of %d agents at tick %d", id, len(f.headings), f.tick))
	}
	return f.headings[id]
}

func (f *Flock) applyRule(r Rule, dt float64) {
	weight := f.settings.Weights.of(r)
	if weight == 0 {
		return
	}
	f.forEach(func(a *Agent, buf []entry) []entry {
		buf = f.index.QueryWithin(a.Pos, r.radius(a), buf[:0])

		var target geometry.Vector2D
		var ok bool
		switch r {
		case RuleSeparation:
			target, ok = separationTarget(a, buf)
		case RuleAlignment:
			target, ok = alignmentTarget(a, buf, f.snapshotHeading)
		case RuleCohesion:
			target, ok = cohesionTarget(a, buf)
		}
		if ok {
			f.steer(a, r, target, Strength(a.RotationRate, dt, weight))
		}
		return buf
	})
}

func (f *Flock) applyManual(steer Steer, dt float64) {
	if steer == SteerNone || f.settings.Weights.Manual == 0 {
		return
	}
	for i := range f.agents {
		a := &f.agents[i]
		if target, ok := manualTarget(a.Heading, steer); ok {
			f.steer(a, RuleManual, target, Strength(a.RotationRate, dt, f.settings.Weights.Manual))
		}
	}
}

func (f *Flock) steer(a *Agent, r Rule, target geometry.Vector2D, strength float64) {
	if f.debug {
		f.targets[a.ID].set(r, target.Normalize())
	}
	a.Heading = Blend(a.Heading, target, strength)
}

func (f *Flock) move(dt float64) {
	for i := range f.agents {
		a := &f.agents[i]
		next, ok := Integrate(a.Pos, a.Heading, a.Speed, dt)
		if !ok {
			f.logger.Warnf("agent %d cannot move along %s for %vs, holding position", a.ID, a.Heading, dt)
			continue
		}
		a.Pos = f.settings.Bounds.Wrap(next)
	}
}

// forEach runs fn once per agent. Each call may only write its own agent.
// With several workers the agents are cut into contiguous chunks, one goroutine each,
// and forEach returns once every chunk is done.
func (f *Flock) forEach(fn func(a *Agent, buf []entry) []entry) {
	n := len(f.agents)
	workers := f.workers
	if limit := n / minAgentsPerWorker; workers > limit {
		workers = limit
	}
	if workers <= 1 {
		buf := f.buffers[0]
		for i := range f.agents {
			buf = fn(&f.agents[i], buf)
		}
		f.buffers[0] = buf
		return
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start, end := w*chunk, min((w+1)*chunk, n)
		if start >= end {
			break
		}
		g.Go(func() error {
			buf := f.buffers[w]
			for i := start; i < end; i++ {
				buf = fn(&f.agents[i], buf)
			}
			f.buffers[w] = buf
			return nil
		})
	}
	_ = g.Wait()
}

// Agents returns a copy of every agent, in ID order.
func (f *Flock) Agents() []Agent {
	out := make([]Agent, len(f.agents))
	copy(out, f.agents)
	return out
}

// Agent returns one agent by ID.
func (f *Flock) Agent(id AgentID) (Agent, bool) {
	if int(id) >= len(f.agents) {
		return Agent{}, false
	}
	return f.agents[id], true
}

// Targets returns the rule targets recorded during the last tick, in ID order.
// It is nil unless the flock was built WithDebugTargets(true).
func (f *Flock) Targets() []Targets {
	if !f.debug {
		return nil
	}
	out := make([]Targets, len(f.targets))
	copy(out, f.targets)
	return out
}

// Metrics computes the flock summary.
func (f *Flock) Metrics() Metrics {
	m := Metrics{Agents: len(f.agents), Tick: f.tick}
	if m.Agents == 0 {
		return m
	}
	var pos, heading geometry.Vector2D
	for _, a := range f.agents {
		pos = pos.Add(a.Pos)
		heading = heading.Add(a.Heading)
	}
	inv := 1 / float64(m.Agents)
	m.Centroid = pos.Mul(inv)
	m.Polarization = heading.Mul(inv).Len()
	return m
}
