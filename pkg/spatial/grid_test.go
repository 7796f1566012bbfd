package spatial

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(entries []Entry[string]) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	slices.Sort(out)
	return out
}

// bruteForce is the O(n) reference the grid must agree with.
func bruteForce(entries []Entry[int], p geometry.Vector2D, radius float64) []int {
	var out []int
	for _, e := range entries {
		if e.Pos.DistanceSquaredTo(p) < radius*radius {
			out = append(out, e.ID)
		}
	}
	slices.Sort(out)
	return out
}

func TestNewGrid_CellSizeFloor(t *testing.T) {
	assert.Equal(t, MinCellSize, NewGrid[int](0).CellSize())
	assert.Equal(t, MinCellSize, NewGrid[int](-5).CellSize())
	assert.Equal(t, 50.0, NewGrid[int](50).CellSize())
}

func TestGrid_Refresh(t *testing.T) {
	g := NewGrid[string](100)

	g.Refresh([]Entry[string]{
		{ID: "a1", Pos: geometry.Vector2D{X: 50, Y: 50}},   // cell 0,0
		{ID: "a2", Pos: geometry.Vector2D{X: 150, Y: 50}},  // cell 1,0
		{ID: "a3", Pos: geometry.Vector2D{X: 50, Y: 150}},  // cell 0,1
		{ID: "a4", Pos: geometry.Vector2D{X: -10, Y: -10}}, // cell -1,-1
	})

	require.Equal(t, 4, g.Len())
	assert.Equal(t, []string{"a1"}, ids(g.cells[cellKey{0, 0}]))
	assert.Equal(t, []string{"a2"}, ids(g.cells[cellKey{1, 0}]))
	assert.Equal(t, []string{"a3"}, ids(g.cells[cellKey{0, 1}]))
	assert.Equal(t, []string{"a4"}, ids(g.cells[cellKey{-1, -1}]))

	// A second refresh drops everything from the first one.
	g.Refresh([]Entry[string]{{ID: "b1", Pos: geometry.Vector2D{X: 150, Y: 150}}})
	require.Equal(t, 1, g.Len())
	assert.Empty(t, g.cells[cellKey{0, 0}])
	assert.Equal(t, []string{"b1"}, ids(g.cells[cellKey{1, 1}]))
}

func TestGrid_QueryWithin(t *testing.T) {
	g := NewGrid[string](50)
	g.Refresh([]Entry[string]{
		{ID: "self", Pos: geometry.Vector2D{X: 100, Y: 100}},
		{ID: "near", Pos: geometry.Vector2D{X: 110, Y: 100}},
		{ID: "edge", Pos: geometry.Vector2D{X: 120, Y: 100}},
		{ID: "otherCell", Pos: geometry.Vector2D{X: 100, Y: 81}},
		{ID: "far", Pos: geometry.Vector2D{X: 300, Y: 300}},
	})

	tests := []struct {
		name   string
		radius float64
		want   []string
	}{
		{"includes self", 5, []string{"self"}},
		{"boundary is exclusive", 20, []string{"near", "otherCell", "self"}},
		{"just past boundary", 20.0001, []string{"edge", "near", "otherCell", "self"}},
		{"zero radius", 0, []string{}},
		{"negative radius", -1, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.QueryWithin(geometry.Vector2D{X: 100, Y: 100}, tt.radius, nil)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestGrid_QueryAppendsToOut(t *testing.T) {
	g := NewGrid[string](10)
	g.Refresh([]Entry[string]{{ID: "a", Pos: geometry.Vector2D{X: 1, Y: 1}}})

	out := []Entry[string]{{ID: "existing"}}
	out = g.QueryWithin(geometry.Vector2D{X: 0, Y: 0}, 5, out)
	assert.Equal(t, []string{"a", "existing"}, ids(out))
}

func TestGrid_EmptyQuery(t *testing.T) {
	g := NewGrid[int](10)
	assert.Empty(t, g.QueryWithin(geometry.Vector2D{}, 100, nil))
}

func TestGrid_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	entries := make([]Entry[int], 500)
	for i := range entries {
		entries[i] = Entry[int]{ID: i, Pos: geometry.Vector2D{X: rng.Float64()*1000 - 20, Y: rng.Float64()*800 - 20}}
	}

	// radius larger than cell size on purpose: the covering block must grow with it
	for _, cell := range []float64{20, 50, 200} {
		g := NewGrid[int](cell)
		g.Refresh(entries)
		for q := 0; q < 50; q++ {
			p := geometry.Vector2D{X: rng.Float64() * 1000, Y: rng.Float64() * 800}
			radius := rng.Float64() * 120
			var got []int
			for _, e := range g.QueryWithin(p, radius, nil) {
				got = append(got, e.ID)
			}
			slices.Sort(got)
			require.Equal(t, bruteForce(entries, p, radius), got, "cell=%v p=%v r=%v", cell, p, radius)
		}
	}
}

func BenchmarkGrid_Refresh(b *testing.B) {
	g := NewGrid[int](50)
	entries := make([]Entry[int], 1000)
	for i := range entries {
		entries[i] = Entry[int]{ID: i, Pos: geometry.Vector2D{X: float64(i), Y: float64(i % 800)}}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Refresh(entries)
	}
}

func BenchmarkGrid_QueryWithin(b *testing.B) {
	g := NewGrid[int](50)
	entries := make([]Entry[int], 1000)
	for i := range entries {
		entries[i] = Entry[int]{ID: i, Pos: geometry.Vector2D{X: float64(i), Y: float64(i % 800)}}
	}
	g.Refresh(entries)
	var out []Entry[int]

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = g.QueryWithin(geometry.Vector2D{X: 500, Y: 500}, 50, out[:0])
	}
}
