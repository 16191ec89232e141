package ecosystem

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrInvalidConfig is returned when a configuration cannot start a run.
var ErrInvalidConfig = errors.New("invalid configuration")

// StageRules holds the per-stage biology. Threshold is the accumulated growth
// needed to leave the stage; it is ignored for the final stage.
type StageRules struct {
	Threshold          float64 `yaml:"threshold"`
	Uptake             float64 `yaml:"uptake"`
	Photosynthesis     float64 `yaml:"photosynthesis"`
	Respiration        float64 `yaml:"respiration"`
	ReproductionChance float64 `yaml:"reproduction_chance"`
}

// StageTable indexes StageRules by living Stage.
type StageTable [stageCount]StageRules

// For returns the rules of stage s. Dead plants get zero rules.
func (t StageTable) For(s Stage) StageRules {
	if !s.Alive() {
		return StageRules{}
	}
	return t[s]
}

// Params holds tunable rates, thresholds and probabilities for the ecosystem.
type Params struct {
	// Light
	MaxLight    float64 `yaml:"max_light"`
	CanopyShade float64 `yaml:"canopy_shade"`

	// Water
	InitialMoisture      float64 `yaml:"initial_moisture"`
	MaxWaterDepth        float64 `yaml:"max_water_depth"`
	LakeRadiusDivisor    int     `yaml:"lake_radius_divisor"`
	EvaporationRate      float64 `yaml:"evaporation_rate"`
	SoilEvaporationRate  float64 `yaml:"soil_evaporation_rate"`
	AbsorptionRate       float64 `yaml:"absorption_rate"`
	SeepageRate          float64 `yaml:"seepage_rate"`
	BaseTemperature      float64 `yaml:"base_temperature"`
	TemperatureSwing     float64 `yaml:"temperature_swing"`
	ReferenceTemperature float64 `yaml:"reference_temperature"`
	RainThreshold        float64 `yaml:"rain_threshold"`
	RainChance           float64 `yaml:"rain_chance"`
	RainMaxAmount        float64 `yaml:"rain_max_amount"`
	RainCoverage         float64 `yaml:"rain_coverage"`

	// Gas
	InitialCO2         float64 `yaml:"initial_co2"`
	InitialO2          float64 `yaml:"initial_o2"`
	GasMin             float64 `yaml:"gas_min"`
	GasMax             float64 `yaml:"gas_max"`
	PhotosynthesisRate float64 `yaml:"photosynthesis_rate"`
	RespirationRate    float64 `yaml:"respiration_rate"`
	AmbientCO2Drift    float64 `yaml:"ambient_co2_drift"`

	// Plants
	InitialPlants        int        `yaml:"initial_plants"`
	GrowthRate           float64    `yaml:"growth_rate"`
	MaintenanceCost      float64    `yaml:"maintenance_cost"`
	CO2Saturation        float64    `yaml:"co2_saturation"`
	MoistureFloor        float64    `yaml:"moisture_floor"`
	LightFloor           float64    `yaml:"light_floor"`
	MaxDeficit           int        `yaml:"max_deficit"`
	MaxLifespan          int        `yaml:"max_lifespan"`
	SpawnMinMoisture     float64    `yaml:"spawn_min_moisture"`
	ReproductionCooldown int        `yaml:"reproduction_cooldown"`
	Stages               StageTable `yaml:"stages"`
}

// Config controls the simulation dimensions, run length and seed.
type Config struct {
	Width       int
	Height      int
	Days        int
	HoursPerDay int

	Seed int64

	// StopOnExtinction ends Run early once no plant is left.
	StopOnExtinction bool

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:       40,
		Height:      20,
		Days:        30,
		HoursPerDay: 24,
		Seed:        1337,
		Params:      DefaultParams(),
	}
}

// DefaultParams returns the standard tunables.
func DefaultParams() Params {
	return Params{
		MaxLight:    1,
		CanopyShade: 0.3,

		InitialMoisture:      0.7,
		MaxWaterDepth:        1,
		LakeRadiusDivisor:    8,
		EvaporationRate:      0.03,
		SoilEvaporationRate:  0.002,
		AbsorptionRate:       0.02,
		SeepageRate:          0.05,
		BaseTemperature:      15,
		TemperatureSwing:     10,
		ReferenceTemperature: 20,
		RainThreshold:        2,
		RainChance:           0.1,
		RainMaxAmount:        5,
		RainCoverage:         0.3,

		InitialCO2:         100,
		InitialO2:          100,
		GasMin:             50,
		GasMax:             200,
		PhotosynthesisRate: 0.02,
		RespirationRate:    0.005,
		AmbientCO2Drift:    0.1,

		InitialPlants:        20,
		GrowthRate:           0.5,
		MaintenanceCost:      0.005,
		CO2Saturation:        60,
		MoistureFloor:        0.1,
		LightFloor:           0.05,
		MaxDeficit:           48,
		MaxLifespan:          2400,
		SpawnMinMoisture:     0.2,
		ReproductionCooldown: 48,
		Stages: StageTable{
			StageSeed:   {Threshold: 1, Uptake: 0.001, Photosynthesis: 0.25, Respiration: 0.25},
			StageSmall:  {Threshold: 3, Uptake: 0.002, Photosynthesis: 0.5, Respiration: 0.5},
			StageMedium: {Threshold: 6, Uptake: 0.004, Photosynthesis: 1, Respiration: 1, ReproductionChance: 0.02},
			StageLarge:  {Uptake: 0.006, Photosynthesis: 1.5, Respiration: 1.5, ReproductionChance: 0.05},
		},
	}
}

// Validate reports the first configuration problem that would prevent a run.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return invalid("grid dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Days <= 0 {
		return invalid("days must be positive, got %d", c.Days)
	}
	if c.HoursPerDay < 2 {
		return invalid("hours per day must be at least 2, got %d", c.HoursPerDay)
	}
	return c.Params.Validate()
}

// Validate checks ranges and orderings of the tunables.
func (p Params) Validate() error {
	for _, pf := range paramFields {
		if pf.float == nil {
			continue
		}
		if v := *pf.float(&p); math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid("%s must be finite, got %g", pf.key, v)
		}
	}
	if p.MaxLight <= 0 {
		return invalid("max_light must be positive, got %g", p.MaxLight)
	}
	if p.MaxWaterDepth <= 0 {
		return invalid("max_water_depth must be positive, got %g", p.MaxWaterDepth)
	}
	if p.ReferenceTemperature <= 0 {
		return invalid("reference_temperature must be positive, got %g", p.ReferenceTemperature)
	}
	if p.CO2Saturation <= 0 {
		return invalid("co2_saturation must be positive, got %g", p.CO2Saturation)
	}
	if p.GasMin < 0 || p.GasMax < p.GasMin {
		return invalid("gas bounds must satisfy 0 <= min <= max, got [%g, %g]", p.GasMin, p.GasMax)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"canopy_shade", p.CanopyShade},
		{"initial_moisture", p.InitialMoisture},
		{"rain_chance", p.RainChance},
		{"rain_coverage", p.RainCoverage},
		{"moisture_floor", p.MoistureFloor},
		{"seepage_rate", p.SeepageRate},
		{"spawn_min_moisture", p.SpawnMinMoisture},
	} {
		if f.value < 0 || f.value > 1 {
			return invalid("%s must be within [0, 1], got %g", f.name, f.value)
		}
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"evaporation_rate", p.EvaporationRate},
		{"soil_evaporation_rate", p.SoilEvaporationRate},
		{"absorption_rate", p.AbsorptionRate},
		{"rain_threshold", p.RainThreshold},
		{"rain_max_amount", p.RainMaxAmount},
		{"photosynthesis_rate", p.PhotosynthesisRate},
		{"respiration_rate", p.RespirationRate},
		{"growth_rate", p.GrowthRate},
		{"maintenance_cost", p.MaintenanceCost},
		{"light_floor", p.LightFloor},
	} {
		if f.value < 0 {
			return invalid("%s must not be negative, got %g", f.name, f.value)
		}
	}
	if p.InitialPlants < 0 || p.LakeRadiusDivisor < 0 || p.ReproductionCooldown < 0 {
		return invalid("counts must not be negative")
	}
	if p.MaxDeficit <= 0 {
		return invalid("max_deficit must be positive, got %d", p.MaxDeficit)
	}
	if p.MaxLifespan <= 0 {
		return invalid("max_lifespan must be positive, got %d", p.MaxLifespan)
	}
	prev := 0.0
	for s := StageSeed; s < StageLarge; s++ {
		th := p.Stages[s].Threshold
		if th <= prev {
			return invalid("%s threshold must exceed %g, got %g", s, prev, th)
		}
		prev = th
	}
	for s := StageSeed; s <= StageLarge; s++ {
		r := p.Stages[s]
		if r.Uptake < 0 || r.Photosynthesis < 0 || r.Respiration < 0 {
			return invalid("%s rates must not be negative", s)
		}
		if r.ReproductionChance < 0 || r.ReproductionChance > 1 {
			return invalid("%s reproduction chance must be within [0, 1], got %g", s, r.ReproductionChance)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unknown keys and unparsable values are ignored; Validate catches values that
// parse but make no sense.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	ApplyMap(&c, cfg)
	return c
}

// ApplyMap overlays string overrides onto an existing config.
func ApplyMap(c *Config, cfg map[string]string) {
	if cfg == nil {
		return
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["days"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Days = parsed
		}
	}
	if v, ok := cfg["hours_per_day"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.HoursPerDay = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["stop_on_extinction"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.StopOnExtinction = parsed
		}
	}
	for key, v := range cfg {
		pf, ok := paramIndex[key]
		if !ok {
			continue
		}
		switch {
		case pf.float != nil:
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				*pf.float(&c.Params) = parsed
			}
		case pf.int != nil:
			if parsed, err := strconv.Atoi(v); err == nil {
				*pf.int(&c.Params) = parsed
			}
		}
	}
}
