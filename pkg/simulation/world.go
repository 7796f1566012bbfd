package simulation

import (
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-boids/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Snapshot is what the renderer sees after a tick. It shares nothing with the live flock.
type Snapshot struct {
	Tick    uint64
	Agents  []flock.Agent
	Targets []flock.Targets // same order as Agents
	Metrics flock.Metrics
	Steer   flock.Steer
}

// FlockActor owns the flock. Its mailbox serializes spawns, steer changes and ticks,
// so every tick runs start to finish without anything else touching the agents.
type FlockActor struct {
	cfg        *Config
	flock      *flock.Flock
	steer      flock.Steer
	snapshotCh chan<- *Snapshot
	// --- Benchmark Stats ---
	tickCount   int
	spawnCount  int
	dropCount   int
	lastLogTime time.Time
}

var _ actor.Actor = (*FlockActor)(nil)

// NewFlockActor creates the flock logic unit. Snapshots are pushed to snapshotCh
// without blocking; a nil channel disables them.
func NewFlockActor(snapshotCh chan<- *Snapshot, cfg *Config) *FlockActor {
	return &FlockActor{
		cfg:        cfg,
		snapshotCh: snapshotCh,
	}
}

func (w *FlockActor) PreStart(ctx *actor.Context) error {
	f, err := flock.New(w.cfg.FlockSettings(), w.cfg.FlockOptions(ctx.ActorSystem().Logger())...)
	if err != nil {
		return fmt.Errorf("failed to create flock: %w", err)
	}
	w.flock = f
	w.lastLogTime = time.Now()
	return nil
}

func (w *FlockActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Infof("Flock started in a %vx%v world, spawning %d agents...",
			w.cfg.WorldWidth, w.cfg.WorldHeight, w.cfg.InitialAgents)
		w.scatter(ctx, w.cfg.InitialAgents)
		w.pushSnapshot()

	case *durationpb.Duration:
		w.step(ctx, msg.AsDuration())

	case *wrapperspb.Int32Value:
		steer, err := decodeSteer(msg)
		if err != nil {
			ctx.Logger().Warnf("dropping steer message: %v", err)
			return
		}
		if steer != w.steer {
			ctx.Logger().Debugf("steer %s -> %s", w.steer, steer)
		}
		w.steer = steer

	case *structpb.Struct:
		req, err := decodeSpawn(msg)
		if err != nil {
			ctx.Logger().Warnf("dropping spawn message: %v", err)
			return
		}
		if req.scatter > 0 {
			w.scatter(ctx, req.scatter)
			return
		}
		w.spawn(ctx, req.pos)

	default:
		ctx.Unhandled()
	}
}

func (w *FlockActor) step(ctx *actor.ReceiveContext, elapsed time.Duration) {
	if !w.flock.Step(elapsed.Seconds(), w.steer) {
		ctx.Logger().Warnf("ignoring tick with elapsed time %s", elapsed)
		return
	}
	w.tickCount++
	w.logBenchmarks(ctx)
	w.pushSnapshot()
}

func (w *FlockActor) spawn(ctx *actor.ReceiveContext, pos geometry.Vector2D) {
	id, err := w.flock.Spawn(pos)
	if err != nil {
		ctx.Logger().Warnf("spawn at %s refused: %v", pos, err)
		return
	}
	w.spawnCount++
	ctx.Logger().Debugf("Born: agent %d at %s", id, pos)
}

func (w *FlockActor) scatter(ctx *actor.ReceiveContext, n int) {
	ids := w.flock.Scatter(n)
	w.spawnCount += len(ids)
	ctx.Logger().Debugf("Scattered %d agents", len(ids))
}

func (w *FlockActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) < time.Second {
		return
	}
	m := w.flock.Metrics()
	ctx.Logger().Infof("📊 TICKS: %d/sec | Agents: %d (+%d) | Polarization: %.2f | Centroid: %s | Dropped frames: %d",
		w.tickCount, m.Agents, w.spawnCount, m.Polarization, m.Centroid, w.dropCount)
	w.tickCount = 0
	w.spawnCount = 0
	w.dropCount = 0
	w.lastLogTime = time.Now()
}

func (w *FlockActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.buildSnapshot():
	default:
		// UI busy, skip frame
		w.dropCount++
	}
}

func (w *FlockActor) buildSnapshot() *Snapshot {
	return &Snapshot{
		Tick:    w.flock.Tick(),
		Agents:  w.flock.Agents(),
		Targets: w.flock.Targets(),
		Metrics: w.flock.Metrics(),
		Steer:   w.steer,
	}
}

func (w *FlockActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info(w.shutdownMessage())
	return nil
}

// shutdownMessage also covers an actor whose PreStart never built the flock.
func (w *FlockActor) shutdownMessage() string {
	if w.flock == nil {
		return "Flock is shutdown before it started..."
	}
	return fmt.Sprintf("Flock is shutdown after %d ticks...", w.flock.Tick())
}
