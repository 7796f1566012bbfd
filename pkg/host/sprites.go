package host

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Pre-rendered sprite for fast batched drawing. It faces up at rest.
var boidSprite *ebiten.Image

func init() {
	// Legend:
	// . = Transparent
	// C = Cyan (beak)
	// W = White (highlight)
	// B = Blue (body)
	// D = Dark blue (wings)
	// Y = Yellow (tail)
	design := []string{
		"....C....",
		"...CWC...",
		"...BBB...",
		"..DBBBD..",
		".DD.B.DD.",
		"DD..B..DD",
		"....Y....",
		"...Y.Y...",
	}
	palette := map[rune]color.RGBA{
		'C': {R: 0, G: 255, B: 255, A: 255},
		'W': {R: 255, G: 255, B: 255, A: 255},
		'B': {R: 0, G: 100, B: 255, A: 255},
		'D': {R: 0, G: 0, B: 150, A: 255},
		'Y': {R: 255, G: 200, B: 0, A: 255},
	}
	boidSprite = generateSprite(design, palette)
}

// generateSprite converts an ASCII grid into an Ebiten image.
func generateSprite(design []string, palette map[rune]color.RGBA) *ebiten.Image {
	w := 0
	for _, row := range design {
		w = max(w, len(row))
	}
	img := ebiten.NewImage(w, len(design))
	for y, row := range design {
		for x, char := range row {
			if col, ok := palette[char]; ok {
				img.Set(x, y, col)
			}
		}
	}
	return img
}
