package ecosystem

import (
	"errors"
	"fmt"

	"ecosim/internal/core"
)

// ErrOutOfBounds is returned when a coordinate lies outside the grid.
var ErrOutOfBounds = errors.New("coordinates out of bounds")

// Tile is one grid cell. Occupant is a non-owning reference; the population
// owns the plant itself.
type Tile struct {
	Moisture   float64
	WaterDepth float64
	Light      float64
	Occupant   PlantID
}

// TileGrid owns a fixed-size row-major array of tiles.
type TileGrid struct {
	core.Grid
	tiles    []Tile
	scratch  []float64
	maxLight float64
	maxDepth float64
}

// NewTileGrid allocates a w*h grid whose light and water depth saturate at the
// given maxima.
func NewTileGrid(w, h int, maxLight, maxDepth float64) *TileGrid {
	g := core.NewGrid(w, h)
	return &TileGrid{
		Grid:     g,
		tiles:    make([]Tile, g.Len()),
		scratch:  make([]float64, g.Len()),
		maxLight: maxLight,
		maxDepth: maxDepth,
	}
}

// Get returns the tile at (x, y).
func (g *TileGrid) Get(x, y int) (*Tile, error) {
	if !g.InBounds(x, y) {
		return nil, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, g.W, g.H)
	}
	return &g.tiles[g.Index(x, y)], nil
}

// at is Get for internal callers whose coordinates come from the grid itself.
// A miss is a broken invariant, not a recoverable condition.
func (g *TileGrid) at(x, y int) *Tile {
	t, err := g.Get(x, y)
	if err != nil {
		panic(err)
	}
	return t
}

// Tiles exposes the backing slice in row-major order.
func (g *TileGrid) Tiles() []Tile { return g.tiles }

// MaxLight reports the light saturation level.
func (g *TileGrid) MaxLight() float64 { return g.maxLight }

// MaxWaterDepth reports the standing water saturation level.
func (g *TileGrid) MaxWaterDepth() float64 { return g.maxDepth }

// SetMoisture stores v clamped into [0, 1].
func (g *TileGrid) SetMoisture(x, y int, v float64) {
	g.at(x, y).Moisture = clamp(v, 0, 1)
}

// SetWaterDepth stores v clamped into [0, MaxWaterDepth].
func (g *TileGrid) SetWaterDepth(x, y int, v float64) {
	g.at(x, y).WaterDepth = clamp(v, 0, g.maxDepth)
}

// SetLight stores v clamped into [0, MaxLight].
func (g *TileGrid) SetLight(x, y int, v float64) {
	g.at(x, y).Light = clamp(v, 0, g.maxLight)
}

// Occupant returns the plant on (x, y), or zero.
func (g *TileGrid) Occupant(x, y int) PlantID {
	return g.at(x, y).Occupant
}

func (g *TileGrid) occupy(x, y int, id PlantID) {
	t := g.at(x, y)
	if t.Occupant != 0 && t.Occupant != id {
		panic(fmt.Sprintf("tile (%d,%d) already holds plant %d", x, y, t.Occupant))
	}
	t.Occupant = id
}

func (g *TileGrid) vacate(x, y int, id PlantID) {
	t := g.at(x, y)
	if t.Occupant == id {
		t.Occupant = 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
