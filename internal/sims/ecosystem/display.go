package ecosystem

import "image/color"

const (
	displayMoistureMask = 0x03
	displayFloodedBit   = 0x04
	displaySizeShift    = 3
	displaySizeMask     = 0x18
)

var ecosystemPalette = buildEcosystemPalette()

// Palette exposes the color palette used for rendering display values.
func (s *Simulation) Palette() []color.RGBA {
	return ecosystemPalette
}

func buildEcosystemPalette() []color.RGBA {
	palette := make([]color.RGBA, 32)
	for i := range palette {
		moisture := MoistureClass(i & displayMoistureMask)
		flooded := i&displayFloodedBit != 0
		size := SizeClass((i & displaySizeMask) >> displaySizeShift)
		palette[i] = toRGBA(paletteColorFor(moisture, flooded, size))
	}
	return palette
}

func toRGBA(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func paletteColorFor(moisture MoistureClass, flooded bool, size SizeClass) color.NRGBA {
	base := soilColor(moisture)
	if flooded {
		base = blendColors(base, color.NRGBA{R: 50, G: 110, B: 200, A: 255}, 0.7)
	}
	if size != SizeNone {
		return blendColors(base, plantColor(size), 0.8)
	}
	return base
}

func soilColor(m MoistureClass) color.NRGBA {
	switch m {
	case MoistureWet:
		return color.NRGBA{R: 60, G: 42, B: 28, A: 255}
	case MoistureMoist:
		return color.NRGBA{R: 96, G: 72, B: 44, A: 255}
	default:
		return color.NRGBA{R: 170, G: 140, B: 96, A: 255}
	}
}

func plantColor(size SizeClass) color.NRGBA {
	switch size {
	case SizeSmall:
		return color.NRGBA{R: 120, G: 200, B: 100, A: 255}
	case SizeMedium:
		return color.NRGBA{R: 60, G: 150, B: 70, A: 255}
	case SizeLarge:
		return color.NRGBA{R: 30, G: 100, B: 50, A: 255}
	default:
		return color.NRGBA{A: 255}
	}
}

func blendColors(base, overlay color.NRGBA, overlayWeight float64) color.NRGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	inv := 1 - overlayWeight
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*inv + float64(b)*overlayWeight + 0.5)
	}
	return color.NRGBA{
		R: mix(base.R, overlay.R),
		G: mix(base.G, overlay.G),
		B: mix(base.B, overlay.B),
		A: mix(base.A, overlay.A),
	}
}

func encodeDisplayValue(v TileView) uint8 {
	value := uint8(v.Moisture) & displayMoistureMask
	if v.Flooded {
		value |= displayFloodedBit
	}
	value |= (uint8(v.Size) << displaySizeShift) & displaySizeMask
	return value
}

func decodeDisplayValue(value uint8) TileView {
	return TileView{
		Moisture: MoistureClass(value & displayMoistureMask),
		Flooded:  value&displayFloodedBit != 0,
		Size:     SizeClass((value & displaySizeMask) >> displaySizeShift),
	}
}

func (s *Simulation) rebuildDisplay() {
	snap := s.Snapshot()
	if len(s.display) != len(snap.Tiles) {
		s.display = make([]uint8, len(snap.Tiles))
	}
	for i, v := range snap.Tiles {
		s.display[i] = encodeDisplayValue(v)
	}
}

// LightField exposes per-tile light normalised to [0, 1] for overlays.
func (s *Simulation) LightField() []float32 {
	tiles := s.grid.Tiles()
	out := make([]float32, len(tiles))
	for i, t := range tiles {
		out[i] = float32(t.Light / s.grid.MaxLight())
	}
	return out
}

// WaterField exposes per-tile standing water normalised to [0, 1] for overlays.
func (s *Simulation) WaterField() []float32 {
	tiles := s.grid.Tiles()
	out := make([]float32, len(tiles))
	for i, t := range tiles {
		out[i] = float32(t.WaterDepth / s.grid.MaxWaterDepth())
	}
	return out
}
