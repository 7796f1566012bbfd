package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	margin        = 10.0
)

// Panel stacks widgets under section headers and scrolls them with the mouse wheel.
type Panel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	Scroll        float64

	BGColor      color.RGBA
	BorderColor  color.RGBA
	SectionColor color.RGBA

	rows []row
}

// a row is either a section header or a widget
type row struct {
	section string
	widget  Widget
}

// NewPanel creates an empty panel.
func NewPanel(title string, x, y, width, height float64) *Panel {
	return &Panel{
		Title:        title,
		X:            x,
		Y:            y,
		Width:        width,
		Height:       height,
		BGColor:      color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor:  color.RGBA{R: 100, G: 100, B: 110, A: 255},
		SectionColor: color.RGBA{R: 60, G: 60, B: 70, A: 255},
	}
}

// AddSection starts a new titled group; following widgets belong to it.
func (p *Panel) AddSection(title string) {
	p.rows = append(p.rows, row{section: title})
}

func (p *Panel) add(w Widget) {
	p.rows = append(p.rows, row{widget: w})
	p.layout()
}

// AddSlider appends a slider spanning the panel width.
func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(0, 0, p.Width-2*margin, label, min, max, value)
	p.add(s)
	return s
}

// AddCheckbox appends a checkbox.
func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(0, 0, label, value)
	p.add(c)
	return c
}

// AddButton appends a button spanning the panel width.
func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(0, 0, p.Width-2*margin, 22, label, onClick)
	p.add(b)
	return b
}

// Contains reports whether a screen point falls on the panel, so clicks there are not
// mistaken for clicks on the world behind it.
func (p *Panel) Contains(x, y int) bool {
	return inside(x, y, p.X, p.Y, p.Width, p.Height)
}

// layout places every widget at its scrolled position.
func (p *Panel) layout() {
	y := p.Y + titleHeight - p.Scroll
	for _, r := range p.rows {
		if r.widget == nil {
			y += sectionHeight
			continue
		}
		r.widget.MoveTo(p.X+margin, y)
		y += r.widget.Height()
	}
}

func (p *Panel) contentHeight() float64 {
	h := titleHeight
	for _, r := range p.rows {
		if r.widget == nil {
			h += sectionHeight
		} else {
			h += r.widget.Height()
		}
	}
	return h
}

func (p *Panel) visible(y, h float64) bool {
	return y+h > p.Y+titleHeight && y < p.Y+p.Height
}

// Update scrolls the panel and forwards input to the visible widgets.
func (p *Panel) Update() {
	mx, my := ebiten.CursorPosition()
	if _, dy := ebiten.Wheel(); dy != 0 && p.Contains(mx, my) {
		maxScroll := max(0, p.contentHeight()-p.Height+2*margin)
		p.Scroll = max(0, min(maxScroll, p.Scroll-dy*20))
		p.layout()
	}

	y := p.Y + titleHeight - p.Scroll
	for _, r := range p.rows {
		if r.widget == nil {
			y += sectionHeight
			continue
		}
		if p.visible(y, r.widget.Height()) {
			r.widget.Update()
		}
		y += r.widget.Height()
	}
}

// Draw renders the panel background, the section headers and the visible widgets.
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+margin), int(p.Y+5))

	y := p.Y + titleHeight - p.Scroll
	for _, r := range p.rows {
		if r.widget == nil {
			if p.visible(y, sectionHeight) {
				vector.FillRect(screen, float32(p.X+5), float32(y), float32(p.Width-10), 20, p.SectionColor, true)
				ebitenutil.DebugPrintAt(screen, r.section, int(p.X+margin), int(y+2))
			}
			y += sectionHeight
			continue
		}
		if p.visible(y, r.widget.Height()) {
			r.widget.Draw(screen)
		}
		y += r.widget.Height()
	}
}
