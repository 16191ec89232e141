//go:build ebiten

package ui

import (
	"image/color"

	"ecosim/internal/core"
	"ecosim/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type fieldProvider interface {
	LightField() []float32
	WaterField() []float32
}

// Overlay draws the light and standing-water fields over the grid. Keys 1
// and 2 toggle them.
type Overlay struct {
	sim       core.Sim
	scale     int
	showLight bool
	showWater bool
	painter   *render.GridPainter
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	size := sim.Size()
	return &Overlay{sim: sim, scale: scale, painter: render.NewGridPainter(size.W, size.H)}
}

// Update handles the toggle keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showLight = !o.showLight
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showWater = !o.showWater
	}
}

// Draw renders the enabled fields onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	provider, ok := o.sim.(fieldProvider)
	if !ok {
		return
	}
	if o.showLight {
		o.painter.BlitMask(screen, provider.LightField(), color.RGBA{R: 255, G: 220, B: 90}, o.scale)
	}
	if o.showWater {
		o.painter.BlitMask(screen, provider.WaterField(), color.RGBA{R: 64, G: 164, B: 223}, o.scale)
	}
}
