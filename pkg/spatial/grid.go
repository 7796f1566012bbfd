// Package spatial answers "who is near this point" queries over a set of positions
// that is rebuilt once per simulation tick.
package spatial

import (
	"math"

	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
)

// MinCellSize keeps the grid from degenerating into tiny cells (or dividing by zero).
const MinCellSize = 10.0

// Entry is a position snapshot keyed by the owner's identity.
type Entry[K comparable] struct {
	ID  K
	Pos geometry.Vector2D
}

// Index is a read-mostly structure over the positions of the current tick.
//
// QueryWithin appends to out every entry strictly closer than radius to p and returns the
// extended slice. Results come in no particular order. The querying owner is NOT filtered:
// an entry sitting at p itself is always part of the result, callers exclude themselves.
type Index[K comparable] interface {
	Refresh(entries []Entry[K])
	QueryWithin(p geometry.Vector2D, radius float64, out []Entry[K]) []Entry[K]
	Len() int
}

type cellKey struct {
	x, y int
}

// Grid is a uniform spatial hash. Each cell is cellSize wide, so a query of radius r
// only visits the block of cells overlapping the square [p-r, p+r].
type Grid[K comparable] struct {
	cellSize float64
	cells    map[cellKey][]Entry[K]
	count    int
}

var _ Index[int] = (*Grid[int])(nil)

// NewGrid creates a grid. The cell size should be close to the largest query radius;
// values below MinCellSize are raised to it.
func NewGrid[K comparable](cellSize float64) *Grid[K] {
	if math.IsNaN(cellSize) || cellSize < MinCellSize {
		cellSize = MinCellSize
	}
	return &Grid[K]{
		cellSize: cellSize,
		cells:    make(map[cellKey][]Entry[K]),
	}
}

// CellSize returns the edge length of a grid cell.
func (g *Grid[K]) CellSize() float64 {
	return g.cellSize
}

// Len returns the number of entries indexed by the last Refresh.
func (g *Grid[K]) Len() int {
	return g.count
}

// Refresh replaces the indexed set with entries.
func (g *Grid[K]) Refresh(entries []Entry[K]) {
	// Reset slices to length 0 but keep their capacity, so a steady population
	// re-fills the same backing arrays every tick instead of allocating.
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	for _, e := range entries {
		key := g.keyOf(e.Pos)
		g.cells[key] = append(g.cells[key], e)
	}
	g.count = len(entries)
}

// QueryWithin implements Index.
func (g *Grid[K]) QueryWithin(p geometry.Vector2D, radius float64, out []Entry[K]) []Entry[K] {
	if !(radius > 0) || g.count == 0 {
		return out
	}
	radiusSq := radius * radius

	minCell := g.keyOf(geometry.Vector2D{X: p.X - radius, Y: p.Y - radius})
	maxCell := g.keyOf(geometry.Vector2D{X: p.X + radius, Y: p.Y + radius})

	for gx := minCell.x; gx <= maxCell.x; gx++ {
		for gy := minCell.y; gy <= maxCell.y; gy++ {
			for _, e := range g.cells[cellKey{x: gx, y: gy}] {
				if e.Pos.DistanceSquaredTo(p) < radiusSq {
					out = append(out, e)
				}
			}
		}
	}
	return out
}

// keyOf uses floor so that cell -1 holds [-cellSize, 0) rather than sharing cell 0.
func (g *Grid[K]) keyOf(p geometry.Vector2D) cellKey {
	return cellKey{
		x: int(math.Floor(p.X / g.cellSize)),
		y: int(math.Floor(p.Y / g.cellSize)),
	}
}
