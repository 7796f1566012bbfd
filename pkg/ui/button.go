package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button calls OnClick once per press.
type Button struct {
	Label   string
	X, Y    float64
	W, H    float64
	OnClick func()
	held    bool // mouse still down since the last click

	BGColor    color.RGBA
	HoverColor color.RGBA
}

// NewButton creates a button at (x, y).
func NewButton(x, y, w, h float64, label string, onClick func()) *Button {
	return &Button{
		Label:      label,
		X:          x,
		Y:          y,
		W:          w,
		H:          h,
		OnClick:    onClick,
		BGColor:    color.RGBA{R: 80, G: 120, B: 180, A: 255},
		HoverColor: color.RGBA{R: 100, G: 150, B: 220, A: 255},
	}
}

func (b *Button) Update() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		b.held = false
		return
	}
	if !b.held && cursorInside(b.X, b.Y, b.W, b.H) && b.OnClick != nil {
		b.OnClick()
	}
	b.held = true
}

func (b *Button) Draw(screen *ebiten.Image) {
	bg := b.BGColor
	if cursorInside(b.X, b.Y, b.W, b.H) {
		bg = b.HoverColor
	}
	vector.FillRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), bg, true)
	vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 2, borderColor, true)

	// debug font glyphs are 6x16
	tx := b.X + (b.W-float64(len(b.Label)*6))/2
	ty := b.Y + (b.H-16)/2
	ebitenutil.DebugPrintAt(screen, b.Label, int(tx), int(ty))
}

func (b *Button) Height() float64 { return b.H + 8 }

func (b *Button) MoveTo(x, y float64) {
	b.X, b.Y = x, y
}
