package ecosystem

import (
	"fmt"
	"math"

	"ecosim/internal/core"
)

// PopulationReport summarises one population advance.
type PopulationReport struct {
	Births     int
	Deaths     int
	Promotions int
	Transpired float64
}

// Population owns every living plant and keeps tile occupancy in sync.
type Population struct {
	grid   *TileGrid
	params *Params
	rng    *core.RNG

	plants []*Plant
	byID   map[PlantID]*Plant
	nextID PlantID

	// uptake is the per-tile moisture demand collected during the growth
	// pass and applied before reproduction.
	uptake []float64
}

func newPopulation(g *TileGrid, p *Params, rng *core.RNG) *Population {
	return &Population{
		grid:   g,
		params: p,
		rng:    rng,
		byID:   make(map[PlantID]*Plant),
		nextID: 1,
		uptake: make([]float64, g.Len()),
	}
}

// Count returns the number of living plants.
func (pop *Population) Count() int { return len(pop.plants) }

// Get looks up a living plant.
func (pop *Population) Get(id PlantID) (*Plant, bool) {
	p, ok := pop.byID[id]
	return p, ok
}

// Each visits living plants in creation order.
func (pop *Population) Each(fn func(*Plant)) {
	for _, p := range pop.plants {
		fn(p)
	}
}

// Plant places a new seed on (x, y).
func (pop *Population) Plant(x, y int) (*Plant, error) {
	t, err := pop.grid.Get(x, y)
	if err != nil {
		return nil, err
	}
	if t.Occupant != 0 {
		return nil, fmt.Errorf("tile (%d,%d) is occupied by plant %d", x, y, t.Occupant)
	}
	p := pop.spawn(x, y, 0)
	pop.plants = append(pop.plants, p)
	return p, nil
}

func (pop *Population) spawn(x, y int, parent PlantID) *Plant {
	p := &Plant{ID: pop.nextID, Parent: parent, X: x, Y: y, Stage: StageSeed}
	pop.nextID++
	pop.grid.occupy(x, y, p.ID)
	pop.byID[p.ID] = p
	return p
}

// seed scatters n plants on random free tiles, giving each up to ten tries.
func (pop *Population) seed(n int) int {
	placed := 0
	for i := 0; i < n; i++ {
		for try := 0; try < 10; try++ {
			x := pop.rng.IntN(pop.grid.W)
			y := pop.rng.IntN(pop.grid.H)
			if pop.grid.Occupant(x, y) != 0 {
				continue
			}
			pop.plants = append(pop.plants, pop.spawn(x, y, 0))
			placed++
			break
		}
	}
	return placed
}

// Advance runs the growth/death pass, applies deferred uptake and then
// spawns offspring. Offspring do not grow until the next tick.
func (pop *Population) Advance(env *Environment) PopulationReport {
	var rep PopulationReport
	for i := range pop.uptake {
		pop.uptake[i] = 0
	}

	co2Factor := math.Min(1, env.CO2/pop.params.CO2Saturation)
	survivors := pop.plants[:0]
	var dead []*Plant
	for _, p := range pop.plants {
		promoted := pop.grow(p, co2Factor)
		rep.Promotions += promoted
		if !p.Stage.Alive() {
			dead = append(dead, p)
			continue
		}
		survivors = append(survivors, p)
	}
	for i := len(survivors); i < len(pop.plants); i++ {
		pop.plants[i] = nil
	}
	pop.plants = survivors
	for _, p := range dead {
		pop.grid.vacate(p.X, p.Y, p.ID)
		delete(pop.byID, p.ID)
	}
	rep.Deaths = len(dead)

	rep.Transpired = pop.applyUptake()
	rep.Births = pop.reproduce()
	return rep
}

// grow advances a single plant by one tick and returns the number of stages
// it moved up.
func (pop *Population) grow(p *Plant, co2Factor float64) int {
	params := pop.params
	t := pop.grid.at(p.X, p.Y)

	p.Age++
	if p.Cooldown > 0 {
		p.Cooldown--
	}

	if t.Moisture >= params.MoistureFloor && t.Light >= params.LightFloor {
		p.Deficit = 0
	} else {
		p.Deficit++
	}

	gain := params.GrowthRate*t.Light*t.Moisture*co2Factor - params.MaintenanceCost
	p.Growth = math.Max(0, p.Growth+gain)

	promoted := 0
	for p.Stage < StageLarge && p.Growth >= params.Stages[p.Stage].Threshold {
		p.Stage++
		promoted++
	}

	// A plant dying this tick still drew water during it.
	pop.uptake[pop.grid.Index(p.X, p.Y)] += params.Stages[p.Stage].Uptake

	if p.Deficit >= params.MaxDeficit || p.Age > params.MaxLifespan {
		p.Stage = StageDead
	}
	return promoted
}

func (pop *Population) applyUptake() float64 {
	total := 0.0
	tiles := pop.grid.Tiles()
	for i, want := range pop.uptake {
		if want <= 0 {
			continue
		}
		taken := math.Min(want, tiles[i].Moisture)
		tiles[i].Moisture = clamp(tiles[i].Moisture-taken, 0, 1)
		total += taken
	}
	return total
}

func (pop *Population) reproduce() int {
	var born []*Plant
	for _, p := range pop.plants {
		if !p.Stage.CanReproduce() || p.Cooldown > 0 {
			continue
		}
		if !pop.rng.Chance(pop.params.Stages[p.Stage].ReproductionChance) {
			continue
		}
		target, ok := pop.spawnSite(p)
		if !ok {
			continue
		}
		born = append(born, pop.spawn(target.X, target.Y, p.ID))
		p.Cooldown = pop.params.ReproductionCooldown
	}
	pop.plants = append(pop.plants, born...)
	return len(born)
}

// spawnSite returns the first free neighbour, in neighbour order, wet enough
// to take a seed. Tiles claimed earlier in the same pass count as occupied.
func (pop *Population) spawnSite(p *Plant) (core.Point, bool) {
	for _, n := range pop.grid.Neighbors(p.X, p.Y) {
		t := pop.grid.at(n.X, n.Y)
		if t.Occupant != 0 {
			continue
		}
		if t.Moisture < pop.params.SpawnMinMoisture {
			continue
		}
		return n, true
	}
	return core.Point{}, false
}

func (pop *Population) reset() {
	for _, p := range pop.plants {
		pop.grid.vacate(p.X, p.Y, p.ID)
	}
	pop.plants = nil
	pop.byID = make(map[PlantID]*Plant)
	pop.nextID = 1
}
