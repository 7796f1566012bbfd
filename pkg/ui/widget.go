package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	borderColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	trackColor  = color.RGBA{R: 80, G: 80, B: 80, A: 255}
	fillColor   = color.RGBA{R: 100, G: 200, B: 100, A: 255}
)

// Widget is anything the panel can stack vertically.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	Height() float64 // vertical space taken in the panel, label included
	MoveTo(x, y float64)
}

// inside reports whether the point (px, py) lies in the rectangle.
func inside(px, py int, x, y, w, h float64) bool {
	fx, fy := float64(px), float64(py)
	return fx >= x && fx <= x+w && fy >= y && fy <= y+h
}

func cursorInside(x, y, w, h float64) bool {
	mx, my := ebiten.CursorPosition()
	return inside(mx, my, x, y, w, h)
}
