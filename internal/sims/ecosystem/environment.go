package ecosystem

import (
	"math"

	"ecosim/internal/core"
)

// Environment is the per-run aggregate state: the clock and the atmosphere.
type Environment struct {
	Day  int
	Hour int
	Tick int

	CO2              float64
	O2               float64
	AtmosphericWater float64
}

// CycleReport summarises one environment advance.
type CycleReport struct {
	Evaporated float64
	Rained     float64
	RainTiles  int

	Photosynthesis float64
	Respiration    float64
}

func newEnvironment(p *Params) Environment {
	return Environment{
		CO2: clamp(p.InitialCO2, p.GasMin, p.GasMax),
		O2:  clamp(p.InitialO2, p.GasMin, p.GasMax),
	}
}

func (e *Environment) advanceClock(hoursPerDay int) {
	e.Tick++
	e.Hour = (e.Hour + 1) % hoursPerDay
	if e.Hour == 0 {
		e.Day++
	}
}

// LightAt returns the unshaded light level for hour of a day with hoursPerDay
// hours: zero through the night half and a sine arc peaking at solar noon.
func LightAt(hour, hoursPerDay int, maxLight float64) float64 {
	if hoursPerDay <= 0 {
		return 0
	}
	frac := float64(hour%hoursPerDay) / float64(hoursPerDay)
	v := math.Sin(2 * math.Pi * (frac - 0.25))
	if v <= 1e-12 {
		return 0
	}
	return v * maxLight
}

// advance runs one hour of physics in the fixed order
// light, evaporation/absorption, rain, gas exchange.
func (e *Environment) advance(g *TileGrid, plants []*Plant, rng *core.RNG, p *Params, hoursPerDay int) CycleReport {
	var rep CycleReport
	e.updateLight(g, plants, p, hoursPerDay)
	rep.Evaporated = e.updateWater(g, p)
	rep.Rained, rep.RainTiles = e.rollRain(g, rng, p)
	rep.Photosynthesis, rep.Respiration = e.exchangeGas(g, plants, p)
	return rep
}

func (e *Environment) updateLight(g *TileGrid, plants []*Plant, p *Params, hoursPerDay int) {
	base := LightAt(e.Hour, hoursPerDay, p.MaxLight)
	tiles := g.Tiles()
	for i := range tiles {
		tiles[i].Light = clamp(base, 0, g.MaxLight())
	}
	if base == 0 || p.CanopyShade <= 0 {
		return
	}
	keep := 1 - p.CanopyShade
	for _, pl := range plants {
		if pl.Stage != StageLarge {
			continue
		}
		t := g.at(pl.X, pl.Y)
		t.Light = clamp(t.Light*keep, 0, g.MaxLight())
		for _, n := range g.Neighbors(pl.X, pl.Y) {
			t := g.at(n.X, n.Y)
			t.Light = clamp(t.Light*keep, 0, g.MaxLight())
		}
	}
}

// temperatureFactor is the evaporation multiplier of the temperature proxy.
func temperatureFactor(light float64, p *Params) float64 {
	temp := p.BaseTemperature + p.TemperatureSwing*light
	f := temp / p.ReferenceTemperature
	if f < 0 {
		return 0
	}
	return f
}

func (e *Environment) updateWater(g *TileGrid, p *Params) float64 {
	evaporated := 0.0
	tiles := g.Tiles()
	for i := range tiles {
		t := &tiles[i]
		factor := temperatureFactor(t.Light, p)

		if t.WaterDepth > 0 {
			loss := math.Min(t.WaterDepth, p.EvaporationRate*t.Light*factor)
			t.WaterDepth = clamp(t.WaterDepth-loss, 0, g.MaxWaterDepth())
			evaporated += loss
		}
		if t.Moisture > 0 {
			loss := math.Min(t.Moisture, p.SoilEvaporationRate*t.Light*factor)
			t.Moisture = clamp(t.Moisture-loss, 0, 1)
			evaporated += loss
		}
		if t.WaterDepth > 0 && t.Moisture < 1 {
			absorbed := math.Min(t.WaterDepth, math.Min(p.AbsorptionRate, 1-t.Moisture))
			t.WaterDepth = clamp(t.WaterDepth-absorbed, 0, g.MaxWaterDepth())
			t.Moisture = clamp(t.Moisture+absorbed, 0, 1)
		}
	}
	seep(g, p.SeepageRate)
	e.AtmosphericWater += evaporated
	return evaporated
}

// seep moves soil moisture toward drier neighbours. Each pair exchanges
// rate/8 of its difference; deltas are summed before any tile changes so
// the result is independent of tile order.
func seep(g *TileGrid, rate float64) {
	if rate <= 0 {
		return
	}
	tiles := g.Tiles()
	delta := g.scratch
	clear(delta)
	share := rate / 8
	for i := range tiles {
		x, y := g.Coords(i)
		for _, n := range g.Neighbors(x, y) {
			j := g.Index(n.X, n.Y)
			if j <= i {
				continue
			}
			move := share * (tiles[i].Moisture - tiles[j].Moisture)
			delta[i] -= move
			delta[j] += move
		}
	}
	for i := range tiles {
		tiles[i].Moisture = clamp(tiles[i].Moisture+delta[i], 0, 1)
	}
}

// rollRain drains part of the atmospheric pool onto a random subset of tiles.
// Only water that fits under the depth cap leaves the pool.
func (e *Environment) rollRain(g *TileGrid, rng *core.RNG, p *Params) (float64, int) {
	if e.AtmosphericWater <= p.RainThreshold || !rng.Chance(p.RainChance) {
		return 0, 0
	}
	tiles := g.Tiles()
	selected := make([]int, 0, len(tiles))
	for i := range tiles {
		if rng.Chance(p.RainCoverage) {
			selected = append(selected, i)
		}
	}
	if len(selected) == 0 {
		return 0, 0
	}
	amount := math.Min(e.AtmosphericWater, p.RainMaxAmount) * (0.5 + 0.5*rng.Float64())
	share := amount / float64(len(selected))
	rained := 0.0
	for _, i := range selected {
		t := &tiles[i]
		add := math.Min(share, g.MaxWaterDepth()-t.WaterDepth)
		if add <= 0 {
			continue
		}
		t.WaterDepth += add
		rained += add
	}
	e.AtmosphericWater = math.Max(0, e.AtmosphericWater-rained)
	return rained, len(selected)
}

func (e *Environment) exchangeGas(g *TileGrid, plants []*Plant, p *Params) (float64, float64) {
	photo, resp := 0.0, 0.0
	for _, pl := range plants {
		if !pl.Stage.Alive() {
			continue
		}
		rules := p.Stages.For(pl.Stage)
		photo += p.PhotosynthesisRate * rules.Photosynthesis * g.at(pl.X, pl.Y).Light
		resp += p.RespirationRate * rules.Respiration
	}
	net := photo - resp - p.AmbientCO2Drift
	e.O2 = clamp(e.O2+net, p.GasMin, p.GasMax)
	e.CO2 = clamp(e.CO2-net, p.GasMin, p.GasMax)
	return photo, resp
}

// transpire returns water taken up by plants to the atmospheric pool.
func (e *Environment) transpire(amount float64) {
	if amount > 0 {
		e.AtmosphericWater += amount
	}
}
