package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-boids/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestDecodeSpawn(t *testing.T) {
	req, err := decodeSpawn(NewSpawn(geometry.Vector2D{X: 12.5, Y: 40}))
	require.NoError(t, err)
	assert.Equal(t, spawnRequest{pos: geometry.Vector2D{X: 12.5, Y: 40}}, req)

	req, err = decodeSpawn(NewScatter(25))
	require.NoError(t, err)
	assert.Equal(t, spawnRequest{scatter: 25}, req)

	bad := []*structpb.Struct{
		{},
		{Fields: map[string]*structpb.Value{fieldX: structpb.NewNumberValue(1)}},
		{Fields: map[string]*structpb.Value{fieldScatter: structpb.NewNumberValue(-3)}},
		{Fields: map[string]*structpb.Value{fieldScatter: structpb.NewNumberValue(1.5)}},
	}
	for _, msg := range bad {
		_, err := decodeSpawn(msg)
		assert.Error(t, err, "%v", msg)
	}
}

func TestDecodeSteer(t *testing.T) {
	for _, s := range []flock.Steer{flock.SteerNone, flock.SteerLeft, flock.SteerRight} {
		got, err := decodeSteer(NewSteer(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := decodeSteer(wrapperspb.Int32(7))
	assert.Error(t, err)
}

func TestNewTick(t *testing.T) {
	assert.Equal(t, 16*time.Millisecond, NewTick(16*time.Millisecond).AsDuration())
}

func startFlockActor(t *testing.T, cfg *Config) (context.Context, *actor.PID, <-chan *Snapshot) {
	t.Helper()
	ctx := context.Background()

	system, err := actor.NewActorSystem("FlockTest", actor.WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	require.NoError(t, system.Start(ctx))
	t.Cleanup(func() { _ = system.Stop(ctx) })

	snapshotCh := make(chan *Snapshot, 10)
	pid, err := system.Spawn(ctx, "flock", NewFlockActor(snapshotCh, cfg))
	require.NoError(t, err)
	return ctx, pid, snapshotCh
}

func nextSnapshot(t *testing.T, ch <-chan *Snapshot) *Snapshot {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot from the flock actor")
		return nil
	}
}

func TestFlockActor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialAgents = 20
	cfg.Seed = 42

	ctx, pid, snapshots := startFlockActor(t, cfg)

	start := nextSnapshot(t, snapshots)
	assert.Equal(t, uint64(0), start.Tick)
	require.Len(t, start.Agents, 20)
	bounds := cfg.FlockSettings().Bounds
	for _, a := range start.Agents {
		assert.True(t, bounds.Contains(a.Pos), "agent %d spawned outside the world at %s", a.ID, a.Pos)
	}

	require.NoError(t, actor.Tell(ctx, pid, NewSpawn(geometry.Vector2D{X: 10, Y: 10})))
	require.NoError(t, actor.Tell(ctx, pid, NewScatter(4)))
	require.NoError(t, actor.Tell(ctx, pid, NewTick(100*time.Millisecond)))

	snap := nextSnapshot(t, snapshots)
	assert.Equal(t, uint64(1), snap.Tick)
	assert.Len(t, snap.Agents, 25)
	assert.Len(t, snap.Targets, 25)
	assert.Equal(t, 25, snap.Metrics.Agents)
	assert.Equal(t, flock.SteerNone, snap.Steer)

	// bad messages are dropped, the actor keeps going
	require.NoError(t, actor.Tell(ctx, pid, wrapperspb.Int32(9)))
	require.NoError(t, actor.Tell(ctx, pid, &structpb.Struct{}))
	require.NoError(t, actor.Tell(ctx, pid, NewTick(-time.Second)))
	require.NoError(t, actor.Tell(ctx, pid, NewSteer(flock.SteerLeft)))
	require.NoError(t, actor.Tell(ctx, pid, NewTick(100*time.Millisecond)))

	snap = nextSnapshot(t, snapshots)
	assert.Equal(t, uint64(2), snap.Tick)
	assert.Len(t, snap.Agents, 25)
	assert.Equal(t, flock.SteerLeft, snap.Steer)
	for _, tg := range snap.Targets {
		assert.False(t, tg.Manual.IsZero(), "manual target recorded while steering left")
	}
}

func TestFlockActor_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorldWidth = 0

	ctx := context.Background()
	system, err := actor.NewActorSystem("FlockTestInvalid", actor.WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	require.NoError(t, system.Start(ctx))
	t.Cleanup(func() { _ = system.Stop(ctx) })

	_, err = system.Spawn(ctx, "flock", NewFlockActor(nil, cfg))
	assert.Error(t, err)
}

func TestFlockActor_ShutdownWithoutFlock(t *testing.T) {
	w := NewFlockActor(nil, DefaultConfig())
	assert.NotPanics(t, func() {
		assert.Equal(t, "Flock is shutdown before it started...", w.shutdownMessage())
	})

	f, err := flock.New(DefaultConfig().FlockSettings())
	require.NoError(t, err)
	w.flock = f
	assert.Equal(t, "Flock is shutdown after 0 ticks...", w.shutdownMessage())
}
