package ecosystem

import (
	"errors"
	"math"
	"testing"
)

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := map[string]func(*Config){
		"zero width":          func(c *Config) { c.Width = 0 },
		"negative height":     func(c *Config) { c.Height = -1 },
		"zero days":           func(c *Config) { c.Days = 0 },
		"zero hours per day":  func(c *Config) { c.HoursPerDay = 0 },
		"single hour day":     func(c *Config) { c.HoursPerDay = 1 },
		"NaN moisture":        func(c *Config) { c.Params.InitialMoisture = math.NaN() },
		"infinite max light":  func(c *Config) { c.Params.MaxLight = math.Inf(1) },
		"NaN stage uptake":    func(c *Config) { c.Params.Stages[StageSmall].Uptake = math.NaN() },
		"infinite drift":      func(c *Config) { c.Params.AmbientCO2Drift = math.Inf(-1) },
		"thresholds flat":     func(c *Config) { c.Params.Stages[StageSmall].Threshold = c.Params.Stages[StageSeed].Threshold },
		"rain chance above 1": func(c *Config) { c.Params.RainChance = 2 },
		"zero max deficit":    func(c *Config) { c.Params.MaxDeficit = 0 },
		"inverted gas bounds": func(c *Config) { c.Params.GasMin, c.Params.GasMax = 10, 5 },
		"negative uptake":     func(c *Config) { c.Params.Stages[StageLarge].Uptake = -1 },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
		if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: New should refuse the config, got %v", name, err)
		}
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must be valid: %v", err)
	}
}

func TestFromMapNaNFailsValidation(t *testing.T) {
	c := FromMap(map[string]string{"initial_moisture": "NaN"})
	if !math.IsNaN(c.Params.InitialMoisture) {
		t.Fatalf("initial moisture = %g, want NaN from the override", c.Params.InitialMoisture)
	}
	if _, err := New(c); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("New should refuse a NaN moisture, got %v", err)
	}
}

func TestFromMapOverrides(t *testing.T) {
	c := FromMap(map[string]string{
		"w":                          "12",
		"h":                          "9",
		"seed":                       "5",
		"days":                       "3",
		"canopy_shade":               "0.4",
		"max_deficit":                "10",
		"medium_reproduction_chance": "0.3",
		"growth_rate":                "abc",
		"bogus":                      "1",
	})
	if c.Width != 12 || c.Height != 9 || c.Seed != 5 || c.Days != 3 {
		t.Fatalf("world overrides not applied: %+v", c)
	}
	if c.Params.CanopyShade != 0.4 {
		t.Fatalf("canopy shade = %g, want 0.4", c.Params.CanopyShade)
	}
	if c.Params.MaxDeficit != 10 {
		t.Fatalf("max deficit = %d, want 10", c.Params.MaxDeficit)
	}
	if c.Params.Stages[StageMedium].ReproductionChance != 0.3 {
		t.Fatalf("medium reproduction chance = %g, want 0.3", c.Params.Stages[StageMedium].ReproductionChance)
	}
	if c.Params.GrowthRate != DefaultParams().GrowthRate {
		t.Fatal("unparsable value must leave the default in place")
	}
}

func TestParseParamsOverlaysYAML(t *testing.T) {
	data := []byte(`
canopy_shade: 0.25
rain_chance: 0.2
stages:
  medium:
    reproduction_chance: 0.07
`)
	p, err := ParseParams(data, DefaultParams())
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	def := DefaultParams()
	if p.CanopyShade != 0.25 || p.RainChance != 0.2 {
		t.Fatalf("top-level overrides not applied: shade=%g rain=%g", p.CanopyShade, p.RainChance)
	}
	if p.Stages[StageMedium].ReproductionChance != 0.07 {
		t.Fatalf("stage override not applied: %+v", p.Stages[StageMedium])
	}
	if p.Stages[StageMedium].Threshold != def.Stages[StageMedium].Threshold {
		t.Fatal("fields missing from a stage block must keep their base value")
	}
	if p.GrowthRate != def.GrowthRate {
		t.Fatal("fields missing from the file must keep their base value")
	}

	empty, err := ParseParams(nil, def)
	if err != nil {
		t.Fatalf("empty document should be accepted: %v", err)
	}
	if empty.RainChance != def.RainChance {
		t.Fatal("empty document must return the base params")
	}
}

func TestParseParamsRejectsBadYAML(t *testing.T) {
	cases := map[string]string{
		"unknown key":   "bogus: 1\n",
		"unknown stage": "stages:\n  dead:\n    uptake: 1\n",
		"out of range":  "rain_chance: 3\n",
		"wrong type":    "max_deficit: lots\n",
		"stage typo":    "stages:\n  medium:\n    reproducton_chance: 0.5\n",
		"NaN value":     "max_light: .nan\n",
	}
	for name, doc := range cases {
		if _, err := ParseParams([]byte(doc), DefaultParams()); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestParametersSnapshotReflectsConfig(t *testing.T) {
	cfg := quietConfig(6, 4)
	cfg.Seed = 77
	s := mustNew(t, cfg)
	snap := s.Parameters()

	if p, ok := snap.Lookup("canopy_shade"); !ok || p.Value != "0.3" {
		t.Fatalf("canopy_shade = %+v (found %v)", p, ok)
	}
	if p, ok := snap.Lookup("large_reproduction_chance"); !ok || p.Value != "0.05" {
		t.Fatalf("large_reproduction_chance = %+v (found %v)", p, ok)
	}
	if p, ok := snap.Lookup("seed"); !ok || p.Value != "77" {
		t.Fatalf("seed = %+v (found %v)", p, ok)
	}
	if _, ok := snap.Lookup("large_threshold"); ok {
		t.Fatal("the final stage has no threshold to expose")
	}
	for _, pf := range paramFields {
		if _, ok := snap.Lookup(pf.key); !ok {
			t.Fatalf("parameter %q missing from snapshot", pf.key)
		}
	}
}

func TestStageTableForDead(t *testing.T) {
	rules := DefaultParams().Stages.For(StageDead)
	if rules != (StageRules{}) {
		t.Fatalf("dead plants should have zero rules, got %+v", rules)
	}
	if got := DefaultParams().Stages.For(StageLarge).Uptake; math.Abs(got-0.006) > 1e-12 {
		t.Fatalf("large uptake = %g", got)
	}
	if s, ok := ParseStage("medium"); !ok || s != StageMedium {
		t.Fatalf("ParseStage(medium) = %v, %v", s, ok)
	}
}
