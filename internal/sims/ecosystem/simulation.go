package ecosystem

import (
	"context"
	"math"

	"ecosim/internal/core"
)

// Observer receives a snapshot at every day boundary.
type Observer interface {
	Observe(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

// Observe calls f(s).
func (f ObserverFunc) Observe(s Snapshot) { f(s) }

// Option customises a Simulation.
type Option func(*Simulation)

// WithObserver registers the day-boundary observer.
func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.observer = o }
}

// WithLogger routes simulation logs to l.
func WithLogger(l Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTickHook registers fn to run after every tick.
func WithTickHook(fn func(*Simulation)) Option {
	return func(s *Simulation) { s.tickHook = fn }
}

// Stats accumulates run-wide counters.
type Stats struct {
	Births     int
	Deaths     int
	Promotions int
	Rainfalls  int
	PeakPlants int
	// ExtinctDay is the day the population first reached zero, or -1.
	ExtinctDay int
}

// Simulation owns the grid, environment and population of one run and
// drives them one hour at a time.
type Simulation struct {
	cfg  Config
	seed int64

	grid   *TileGrid
	env    Environment
	plants *Population
	rng    *core.RNG

	observer Observer
	tickHook func(*Simulation)
	log      Logger

	display []uint8
	extinct bool
	stats   Stats
}

// New validates cfg and returns a seeded simulation ready to run.
func New(cfg Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg: cfg,
		log: NoOpLogger{},
		rng: core.NewRNG(cfg.Seed),
	}
	s.grid = NewTileGrid(cfg.Width, cfg.Height, cfg.Params.MaxLight, cfg.Params.MaxWaterDepth)
	s.plants = newPopulation(s.grid, &s.cfg.Params, s.rng)
	s.display = make([]uint8, s.grid.Len())
	for _, opt := range opts {
		opt(s)
	}
	s.Reset(0)
	return s, nil
}

// Name returns the simulation identifier.
func (s *Simulation) Name() string { return "ecosystem" }

// Size reports the grid dimensions.
func (s *Simulation) Size() core.Size { return core.Size{W: s.grid.W, H: s.grid.H} }

// Cells exposes the encoded display buffer.
func (s *Simulation) Cells() []uint8 {
	s.rebuildDisplay()
	return s.display
}

// Config returns the active configuration.
func (s *Simulation) Config() Config { return s.cfg }

// Grid exposes the tile grid.
func (s *Simulation) Grid() *TileGrid { return s.grid }

// Population exposes the plant population.
func (s *Simulation) Population() *Population { return s.plants }

// Environment returns a copy of the clock and atmosphere.
func (s *Simulation) Environment() Environment { return s.env }

// Day returns the current simulated day.
func (s *Simulation) Day() int { return s.env.Day }

// Hour returns the current hour of the day.
func (s *Simulation) Hour() int { return s.env.Hour }

// Tick returns the number of hours simulated since the last reset.
func (s *Simulation) Tick() int { return s.env.Tick }

// Stats returns the run counters.
func (s *Simulation) Stats() Stats { return s.stats }

// Extinct reports whether the population is currently empty after having
// been reported extinct.
func (s *Simulation) Extinct() bool { return s.extinct }

// Reset rebuilds the initial world. A zero seed reuses the configured seed.
func (s *Simulation) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = s.cfg.Seed
	}
	s.seed = effective
	s.rng.Reseed(effective)
	p := &s.cfg.Params

	s.plants.reset()
	tiles := s.grid.Tiles()
	for i := range tiles {
		tiles[i] = Tile{Moisture: clamp(p.InitialMoisture, 0, 1)}
	}
	s.fillLake()
	s.env = newEnvironment(p)
	s.env.updateLight(s.grid, nil, p, s.cfg.HoursPerDay)
	s.extinct = false
	s.stats = Stats{ExtinctDay: -1}

	placed := s.plants.seed(p.InitialPlants)
	s.stats.PeakPlants = placed
	s.log.Debugf("reset %dx%d seed=%d plants=%d", s.grid.W, s.grid.H, effective, placed)
}

// fillLake floods a disc in the middle of the grid.
func (s *Simulation) fillLake() {
	div := s.cfg.Params.LakeRadiusDivisor
	if div <= 0 {
		return
	}
	radius := float64(min(s.grid.W, s.grid.H) / div)
	cx, cy := s.grid.W/2, s.grid.H/2
	for y := 0; y < s.grid.H; y++ {
		for x := 0; x < s.grid.W; x++ {
			if math.Hypot(float64(x-cx), float64(y-cy)) >= radius {
				continue
			}
			t := s.grid.at(x, y)
			t.WaterDepth = s.grid.MaxWaterDepth()
			t.Moisture = 1
		}
	}
}

// PlantAt places a seed on (x, y).
func (s *Simulation) PlantAt(x, y int) (*Plant, error) {
	p, err := s.plants.Plant(x, y)
	if err != nil {
		return nil, err
	}
	s.extinct = false
	if n := s.plants.Count(); n > s.stats.PeakPlants {
		s.stats.PeakPlants = n
	}
	return p, nil
}

// Step advances one simulated hour: clock, environment, plants, and at a
// day boundary the observer.
func (s *Simulation) Step() {
	hoursPerDay := s.cfg.HoursPerDay
	s.env.advanceClock(hoursPerDay)

	cyc := s.env.advance(s.grid, s.plants.plants, s.rng, &s.cfg.Params, hoursPerDay)
	if cyc.Rained > 0 {
		s.stats.Rainfalls++
		s.log.Debugf("day %d hour %d: rain %.3f over %d tiles", s.env.Day, s.env.Hour, cyc.Rained, cyc.RainTiles)
	}

	rep := s.plants.Advance(&s.env)
	s.env.transpire(rep.Transpired)
	s.stats.Births += rep.Births
	s.stats.Deaths += rep.Deaths
	s.stats.Promotions += rep.Promotions

	count := s.plants.Count()
	if count > s.stats.PeakPlants {
		s.stats.PeakPlants = count
	}
	if count == 0 && !s.extinct {
		s.extinct = true
		if s.stats.ExtinctDay < 0 {
			s.stats.ExtinctDay = s.env.Day
		}
		s.log.Infof("population extinct on day %d hour %d", s.env.Day, s.env.Hour)
	}

	if s.env.Hour == 0 {
		if s.observer != nil {
			s.observer.Observe(s.Snapshot())
		}
		s.log.Debugf("day %d: plants=%d co2=%.1f o2=%.1f atm=%.2f", s.env.Day, count, s.env.CO2, s.env.O2, s.env.AtmosphericWater)
	}
	if s.tickHook != nil {
		s.tickHook(s)
	}
}

// Run advances days*HoursPerDay ticks. It stops early when ctx is done, or
// on extinction when StopOnExtinction is set.
func (s *Simulation) Run(ctx context.Context, days int) error {
	if days <= 0 {
		return invalid("days must be positive, got %d", days)
	}
	ticks := days * s.cfg.HoursPerDay
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Step()
		if s.extinct && s.cfg.StopOnExtinction {
			s.log.Infof("stopping run after extinction")
			return nil
		}
	}
	return nil
}
