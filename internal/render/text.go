package render

import (
	"fmt"
	"strings"

	"ecosim/internal/sims/ecosystem"
)

// ClearScreen homes the cursor and clears an ANSI terminal.
const ClearScreen = "\033[H\033[J"

// Glyph returns the character drawn for one tile. Plants hide the soil and
// water beneath them.
func Glyph(v ecosystem.TileView) rune {
	switch v.Size {
	case ecosystem.SizeSmall:
		return ','
	case ecosystem.SizeMedium:
		return '*'
	case ecosystem.SizeLarge:
		return '♣'
	}
	if v.Flooded {
		return '~'
	}
	switch v.Moisture {
	case ecosystem.MoistureDry:
		return '.'
	case ecosystem.MoistureMoist:
		return ':'
	default:
		return '='
	}
}

// Text draws the status header followed by the grid, one row per line.
func Text(snap ecosystem.Snapshot) string {
	var b strings.Builder
	b.Grow(128 + snap.Height*(snap.Width*3+1))
	fmt.Fprintf(&b, "Day: %d | Hour: %d | Plants: %d\n", snap.Day, snap.Hour, snap.Plants)
	fmt.Fprintf(&b, "CO2: %.1f | O2: %.1f | Atm. Water: %.1f\n\n", snap.CO2, snap.O2, snap.AtmosphericWater)
	for y := 0; y < snap.Height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < snap.Width; x++ {
			b.WriteRune(Glyph(snap.At(x, y)))
		}
	}
	return b.String()
}
