package ecosystem

import (
	"strconv"

	"ecosim/internal/core"
)

// paramField binds a flag-style key to a field of Params.
type paramField struct {
	key   string
	label string
	group string
	float func(*Params) *float64
	int   func(*Params) *int
}

var paramFields = buildParamFields()

var paramIndex = func() map[string]paramField {
	idx := make(map[string]paramField, len(paramFields))
	for _, s := range paramFields {
		idx[s.key] = s
	}
	return idx
}()

func floatField(group, key, label string, field func(*Params) *float64) paramField {
	return paramField{key: key, label: label, group: group, float: field}
}

func intField(group, key, label string, field func(*Params) *int) paramField {
	return paramField{key: key, label: label, group: group, int: field}
}

func buildParamFields() []paramField {
	fields := []paramField{
		floatField("Light", "max_light", "Max light", func(p *Params) *float64 { return &p.MaxLight }),
		floatField("Light", "canopy_shade", "Canopy shade", func(p *Params) *float64 { return &p.CanopyShade }),

		floatField("Water", "initial_moisture", "Initial moisture", func(p *Params) *float64 { return &p.InitialMoisture }),
		floatField("Water", "max_water_depth", "Max water depth", func(p *Params) *float64 { return &p.MaxWaterDepth }),
		intField("Water", "lake_radius_divisor", "Lake radius divisor", func(p *Params) *int { return &p.LakeRadiusDivisor }),
		floatField("Water", "evaporation_rate", "Evaporation rate", func(p *Params) *float64 { return &p.EvaporationRate }),
		floatField("Water", "soil_evaporation_rate", "Soil evaporation rate", func(p *Params) *float64 { return &p.SoilEvaporationRate }),
		floatField("Water", "absorption_rate", "Absorption rate", func(p *Params) *float64 { return &p.AbsorptionRate }),
		floatField("Water", "seepage_rate", "Seepage rate", func(p *Params) *float64 { return &p.SeepageRate }),
		floatField("Water", "base_temperature", "Base temperature", func(p *Params) *float64 { return &p.BaseTemperature }),
		floatField("Water", "temperature_swing", "Temperature swing", func(p *Params) *float64 { return &p.TemperatureSwing }),
		floatField("Water", "reference_temperature", "Reference temperature", func(p *Params) *float64 { return &p.ReferenceTemperature }),

		floatField("Rain", "rain_threshold", "Rain threshold", func(p *Params) *float64 { return &p.RainThreshold }),
		floatField("Rain", "rain_chance", "Rain chance", func(p *Params) *float64 { return &p.RainChance }),
		floatField("Rain", "rain_max_amount", "Rain max amount", func(p *Params) *float64 { return &p.RainMaxAmount }),
		floatField("Rain", "rain_coverage", "Rain coverage", func(p *Params) *float64 { return &p.RainCoverage }),

		floatField("Gas", "initial_co2", "Initial CO2", func(p *Params) *float64 { return &p.InitialCO2 }),
		floatField("Gas", "initial_o2", "Initial O2", func(p *Params) *float64 { return &p.InitialO2 }),
		floatField("Gas", "gas_min", "Gas min", func(p *Params) *float64 { return &p.GasMin }),
		floatField("Gas", "gas_max", "Gas max", func(p *Params) *float64 { return &p.GasMax }),
		floatField("Gas", "photosynthesis_rate", "Photosynthesis rate", func(p *Params) *float64 { return &p.PhotosynthesisRate }),
		floatField("Gas", "respiration_rate", "Respiration rate", func(p *Params) *float64 { return &p.RespirationRate }),
		floatField("Gas", "ambient_co2_drift", "Ambient CO2 drift", func(p *Params) *float64 { return &p.AmbientCO2Drift }),

		intField("Plants", "initial_plants", "Initial plants", func(p *Params) *int { return &p.InitialPlants }),
		floatField("Plants", "growth_rate", "Growth rate", func(p *Params) *float64 { return &p.GrowthRate }),
		floatField("Plants", "maintenance_cost", "Maintenance cost", func(p *Params) *float64 { return &p.MaintenanceCost }),
		floatField("Plants", "co2_saturation", "CO2 saturation", func(p *Params) *float64 { return &p.CO2Saturation }),
		floatField("Plants", "moisture_floor", "Moisture floor", func(p *Params) *float64 { return &p.MoistureFloor }),
		floatField("Plants", "light_floor", "Light floor", func(p *Params) *float64 { return &p.LightFloor }),
		intField("Plants", "max_deficit", "Max deficit", func(p *Params) *int { return &p.MaxDeficit }),
		intField("Plants", "max_lifespan", "Max lifespan", func(p *Params) *int { return &p.MaxLifespan }),
		floatField("Plants", "spawn_min_moisture", "Spawn min moisture", func(p *Params) *float64 { return &p.SpawnMinMoisture }),
		intField("Plants", "reproduction_cooldown", "Reproduction cooldown", func(p *Params) *int { return &p.ReproductionCooldown }),
	}
	for s := StageSeed; s <= StageLarge; s++ {
		stage := s
		name := stage.String()
		group := "Stage: " + name
		if stage < StageLarge {
			fields = append(fields, floatField(group, name+"_threshold", "Threshold", func(p *Params) *float64 { return &p.Stages[stage].Threshold }))
		}
		fields = append(fields,
			floatField(group, name+"_uptake", "Uptake", func(p *Params) *float64 { return &p.Stages[stage].Uptake }),
			floatField(group, name+"_photosynthesis", "Photosynthesis", func(p *Params) *float64 { return &p.Stages[stage].Photosynthesis }),
			floatField(group, name+"_respiration", "Respiration", func(p *Params) *float64 { return &p.Stages[stage].Respiration }),
			floatField(group, name+"_reproduction_chance", "Reproduction chance", func(p *Params) *float64 { return &p.Stages[stage].ReproductionChance }),
		)
	}
	return fields
}

// Parameters reports the active configuration grouped for display.
func (s *Simulation) Parameters() core.ParameterSnapshot {
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", s.cfg.Width),
				intParam("h", "Height", s.cfg.Height),
				intParam("days", "Days", s.cfg.Days),
				intParam("hours_per_day", "Hours per day", s.cfg.HoursPerDay),
				int64Param("seed", "Seed", s.seed),
				{Key: "stop_on_extinction", Label: "Stop on extinction", Type: core.ParamTypeBool, Value: strconv.FormatBool(s.cfg.StopOnExtinction)},
			},
		},
	}
	byGroup := map[string]int{}
	for i, p := range s.cfg.Params.Fields() {
		group := paramFields[i].group
		idx, ok := byGroup[group]
		if !ok {
			groups = append(groups, core.ParameterGroup{Name: group})
			idx = len(groups) - 1
			byGroup[group] = idx
		}
		groups[idx].Params = append(groups[idx].Params, p)
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

// Fields lists every tunable with its current value, in panel order.
func (p Params) Fields() []core.Parameter {
	out := make([]core.Parameter, 0, len(paramFields))
	for _, pf := range paramFields {
		if pf.float != nil {
			out = append(out, floatParam(pf.key, pf.label, *pf.float(&p)))
			continue
		}
		out = append(out, intParam(pf.key, pf.label, *pf.int(&p)))
	}
	return out
}
