package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox toggles a boolean on each click.
type Checkbox struct {
	Label string
	Value bool
	X, Y  float64
	Size  float64
	held  bool // mouse still down since the last toggle
}

// NewCheckbox creates a checkbox with its box at (x, y).
func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{
		Label: label,
		Value: value,
		X:     x,
		Y:     y,
		Size:  16,
	}
}

func (c *Checkbox) Update() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		c.held = false
		return
	}
	if !c.held && cursorInside(c.X, c.Y, c.Size, c.Size) {
		c.Value = !c.Value
	}
	c.held = true
}

func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen, float32(c.X), float32(c.Y), float32(c.Size), float32(c.Size), 2, borderColor, true)
	if c.Value {
		vector.FillRect(screen, float32(c.X+2), float32(c.Y+2), float32(c.Size-4), float32(c.Size-4), fillColor, true)
	}
	ebitenutil.DebugPrintAt(screen, c.Label, int(c.X+c.Size+8), int(c.Y))
}

func (c *Checkbox) Height() float64 { return c.Size + 8 }

func (c *Checkbox) MoveTo(x, y float64) {
	c.X, c.Y = x, y
}
