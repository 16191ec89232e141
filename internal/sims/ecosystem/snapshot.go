package ecosystem

// MoistureClass buckets continuous soil moisture for display.
type MoistureClass uint8

const (
	MoistureDry MoistureClass = iota
	MoistureMoist
	MoistureWet
)

// SizeClass is the visual size of a tile's occupant.
type SizeClass uint8

const (
	SizeNone SizeClass = iota
	SizeSmall
	SizeMedium
	SizeLarge
)

// Display thresholds.
const (
	DryBelow     = 0.2
	MoistBelow   = 0.6
	FloodedDepth = 0.05
)

// ClassifyMoisture maps soil moisture onto dry/moist/wet.
func ClassifyMoisture(m float64) MoistureClass {
	switch {
	case m < DryBelow:
		return MoistureDry
	case m < MoistBelow:
		return MoistureMoist
	default:
		return MoistureWet
	}
}

// TileView is the read-only projection of one tile.
type TileView struct {
	Moisture MoistureClass
	Size     SizeClass
	Flooded  bool
}

// Snapshot is a detached copy of the state a renderer needs.
type Snapshot struct {
	Day    int
	Hour   int
	Width  int
	Height int

	CO2              float64
	O2               float64
	AtmosphericWater float64
	Plants           int

	Tiles []TileView
}

// At returns the view of tile (x, y). Callers index within Width/Height.
func (s Snapshot) At(x, y int) TileView {
	return s.Tiles[y*s.Width+x]
}

// Snapshot projects the current state.
func (s *Simulation) Snapshot() Snapshot {
	tiles := s.grid.Tiles()
	views := make([]TileView, len(tiles))
	for i, t := range tiles {
		views[i] = TileView{
			Moisture: ClassifyMoisture(t.Moisture),
			Flooded:  t.WaterDepth >= FloodedDepth,
		}
		if t.Occupant != 0 {
			p, _ := s.plants.Get(t.Occupant)
			views[i].Size = p.Size()
		}
	}
	return Snapshot{
		Day:              s.env.Day,
		Hour:             s.env.Hour,
		Width:            s.grid.W,
		Height:           s.grid.H,
		CO2:              s.env.CO2,
		O2:               s.env.O2,
		AtmosphericWater: s.env.AtmosphericWater,
		Plants:           s.plants.Count(),
		Tiles:            views,
	}
}
