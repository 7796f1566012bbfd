// Package host runs the flock in an ebiten window: it decodes input into actor messages
// and draws the latest snapshot.
package host

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-boids/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
)

const (
	scatterBatch = 25
	targetLength = 20.0 // length of the debug target lines, in world units
)

var (
	backgroundColor = color.RGBA{R: 10, G: 10, B: 30, A: 255}
	viewColor       = color.RGBA{R: 50, G: 100, B: 255, A: 60}
	separationColor = color.RGBA{R: 255, G: 50, B: 50, A: 80}
	targetColors    = [...]color.RGBA{
		flock.RuleSeparation: {R: 255, G: 80, B: 80, A: 255},
		flock.RuleAlignment:  {R: 80, G: 255, B: 80, A: 255},
		flock.RuleCohesion:   {R: 80, G: 160, B: 255, A: 255},
		flock.RuleManual:     {R: 255, G: 220, B: 0, A: 255},
	}
)

type Game struct {
	ctx        context.Context
	System     actor.ActorSystem
	flockPID   *actor.PID
	snapshotCh chan *simulation.Snapshot
	lastState  *simulation.Snapshot
	cfg        *simulation.Config

	// UI Controls
	panel              *ui.Panel
	widgetTimeScale    *ui.Slider
	widgetPaused       *ui.Checkbox
	widgetDebugTargets *ui.Checkbox
	widgetRadii        *ui.Checkbox
	scatterRequested   bool

	steer flock.Steer // last steer sent to the flock actor

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// NewGame spawns the flock actor on system and builds the control panel.
func NewGame(ctx context.Context, cfg *simulation.Config, system actor.ActorSystem) (*Game, error) {
	// 1. Channel for snapshots, buffered to avoid blocking the actor
	snapshotCh := make(chan *simulation.Snapshot, 10)

	// 2. Spawn the flock actor, it pushes a snapshot after every tick
	pid, err := system.Spawn(ctx, "flock", simulation.NewFlockActor(snapshotCh, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn flock actor: %w", err)
	}

	g := &Game{
		ctx:        ctx,
		System:     system,
		flockPID:   pid,
		snapshotCh: snapshotCh,
		lastState:  &simulation.Snapshot{}, // Avoid nil pointer
		cfg:        cfg,
	}

	// 3. Control panel
	g.panel = ui.NewPanel("Flock", 10, 10, 220, 250)
	g.panel.AddSection("Simulation")
	g.widgetTimeScale = g.panel.AddSlider("Time scale", 0.1, 5, cfg.TimeScale)
	g.widgetPaused = g.panel.AddCheckbox("Paused", false)
	g.panel.AddButton(fmt.Sprintf("Scatter %d boids", scatterBatch), func() { g.scatterRequested = true })
	g.panel.AddSection("Visualization")
	g.widgetDebugTargets = g.panel.AddCheckbox("Rule targets", cfg.DisplayDebugTargets)
	g.widgetRadii = g.panel.AddCheckbox("View/separation radii", cfg.DisplayRadii)
	return g, nil
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	// 1. Update UI Panel
	g.panel.Update()

	// 2. Retrieve latest state (non-blocking)
	select {
	case snap := <-g.snapshotCh:
		g.lastState = snap
	default:
		// Use previous state if new one isn't ready
	}

	// 3. Spawn requests
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if !g.panel.Contains(mx, my) {
			if err := actor.Tell(g.ctx, g.flockPID, simulation.NewSpawn(g.toWorld(mx, my))); err != nil {
				return fmt.Errorf("spawn: %w", err)
			}
		}
	}
	if g.scatterRequested {
		g.scatterRequested = false
		if err := actor.Tell(g.ctx, g.flockPID, simulation.NewScatter(scatterBatch)); err != nil {
			return fmt.Errorf("scatter: %w", err)
		}
	}

	// 4. Steering, only sent when it changes
	steer := flock.SteerFromInput(
		ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	)
	if steer != g.steer {
		if err := actor.Tell(g.ctx, g.flockPID, simulation.NewSteer(steer)); err != nil {
			return fmt.Errorf("steer: %w", err)
		}
		g.steer = steer
	}

	// 5. Trigger simulation step
	if g.widgetPaused.Value {
		return nil
	}
	elapsed := time.Duration(float64(time.Second) / float64(ebiten.TPS()) * g.widgetTimeScale.Value)
	if err := actor.Tell(g.ctx, g.flockPID, simulation.NewTick(elapsed)); err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	return nil
}

// toScreen maps a world point, y pointing up, onto the window, y pointing down.
func (g *Game) toScreen(p geometry.Vector2D) (float32, float32) {
	return float32(p.X), float32(g.cfg.WorldHeight - p.Y)
}

func (g *Game) toWorld(x, y int) geometry.Vector2D {
	return geometry.NewVector(float64(x), g.cfg.WorldHeight-float64(y))
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(backgroundColor)

	// 1. Draw all agents from the last known snapshot
	w, h := boidSprite.Bounds().Dx(), boidSprite.Bounds().Dy()
	for i, a := range g.lastState.Agents {
		x, y := g.toScreen(a.Pos)

		if g.widgetRadii.Value {
			vector.StrokeCircle(screen, x, y, float32(a.ViewRadius), 1, viewColor, true)
			vector.StrokeCircle(screen, x, y, float32(a.SeparationRadius), 1, separationColor, true)
		}
		if g.widgetDebugTargets.Value && i < len(g.lastState.Targets) {
			g.drawTargets(screen, a.Pos, g.lastState.Targets[i])
		}

		op := &ebiten.DrawImageOptions{}
		// Center the origin of the image
		op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
		// The sprite faces up; the screen flips y, so the heading angle is negated
		op.GeoM.Rotate(-a.Heading.Angle() + math.Pi/2)
		op.GeoM.Translate(float64(x), float64(y))
		screen.DrawImage(boidSprite, op)
	}

	// 2. Draw UI Panel
	g.panel.Draw(screen)

	// 3. Display performance stats on the right side
	m := g.lastState.Metrics
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nAgents: %d\nTick:   %d\nPolar.: %.2f\nSteer:  %s\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		m.Agents,
		m.Tick,
		m.Polarization,
		g.lastState.Steer,
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, screen.Bounds().Dx()-150, 10)
}

func (g *Game) drawTargets(screen *ebiten.Image, pos geometry.Vector2D, t flock.Targets) {
	x0, y0 := g.toScreen(pos)
	for r, target := range [...]geometry.Vector2D{
		flock.RuleSeparation: t.Separation,
		flock.RuleAlignment:  t.Alignment,
		flock.RuleCohesion:   t.Cohesion,
		flock.RuleManual:     t.Manual,
	} {
		if target.IsZero() {
			continue
		}
		x1, y1 := g.toScreen(pos.Add(target.Mul(targetLength)))
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, targetColors[r], true)
	}
}

func (g *Game) Layout(w, h int) (int, int) { return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight) }
