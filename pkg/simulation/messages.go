package simulation

import (
	"fmt"
	"math"
	"time"

	"github.com/lao-tseu-is-alive/go-boids/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The flock actor speaks protobuf well-known types:
//
//	*durationpb.Duration     tick, carrying the elapsed simulation time
//	*wrapperspb.Int32Value   manual steer signal (flock.Steer)
//	*structpb.Struct         spawn request, {"x", "y"} or {"scatter": n}

const (
	fieldX       = "x"
	fieldY       = "y"
	fieldScatter = "scatter"
)

// NewTick builds the message advancing the flock by elapsed.
func NewTick(elapsed time.Duration) *durationpb.Duration {
	return durationpb.New(elapsed)
}

// NewSteer builds the message replacing the broadcast steer signal.
func NewSteer(s flock.Steer) *wrapperspb.Int32Value {
	return wrapperspb.Int32(int32(s))
}

// NewSpawn builds the message spawning one agent at p.
func NewSpawn(p geometry.Vector2D) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldX: structpb.NewNumberValue(p.X),
		fieldY: structpb.NewNumberValue(p.Y),
	}}
}

// NewScatter builds the message spawning n agents at random positions.
func NewScatter(n int) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldScatter: structpb.NewNumberValue(float64(n)),
	}}
}

type spawnRequest struct {
	scatter int
	pos     geometry.Vector2D
}

func decodeSpawn(msg *structpb.Struct) (spawnRequest, error) {
	fields := msg.GetFields()
	if n, ok := fields[fieldScatter]; ok {
		count := n.GetNumberValue()
		if count < 0 || count != math.Trunc(count) {
			return spawnRequest{}, fmt.Errorf("invalid scatter count %v", count)
		}
		return spawnRequest{scatter: int(count)}, nil
	}

	x, okX := fields[fieldX]
	y, okY := fields[fieldY]
	if !okX || !okY {
		return spawnRequest{}, fmt.Errorf("spawn request needs %q and %q, got %v", fieldX, fieldY, msg)
	}
	return spawnRequest{pos: geometry.Vector2D{X: x.GetNumberValue(), Y: y.GetNumberValue()}}, nil
}

func decodeSteer(msg *wrapperspb.Int32Value) (flock.Steer, error) {
	s := flock.Steer(msg.GetValue())
	switch s {
	case flock.SteerNone, flock.SteerLeft, flock.SteerRight:
		return s, nil
	}
	return flock.SteerNone, fmt.Errorf("unknown steer value %d", msg.GetValue())
}
