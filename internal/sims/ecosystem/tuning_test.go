package ecosystem

import (
	"errors"
	"testing"
)

func TestBetterRanksOutcomes(t *testing.T) {
	alive := ScenarioResult{ExtinctDay: -1, FinalPlants: 5, PeakPlants: 10}
	cases := []struct {
		name string
		a, b ScenarioResult
		want bool
	}{
		{"survivor beats extinct", alive, ScenarioResult{ExtinctDay: 9, PeakPlants: 90}, true},
		{"extinct loses to survivor", ScenarioResult{ExtinctDay: 9}, alive, false},
		{"later extinction wins", ScenarioResult{ExtinctDay: 8}, ScenarioResult{ExtinctDay: 3}, true},
		{"more final plants wins", ScenarioResult{ExtinctDay: -1, FinalPlants: 6}, alive, true},
		{"peak breaks ties", ScenarioResult{ExtinctDay: -1, FinalPlants: 5, PeakPlants: 11}, alive, true},
		{"equal is not better", alive, alive, false},
	}
	for _, tc := range cases {
		if got := tc.a.Better(tc.b); got != tc.want {
			t.Fatalf("%s: Better = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 12, 8
	a, err := Evaluate(cfg, 3)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	b, err := Evaluate(cfg, 3)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if a != b {
		t.Fatalf("evaluations differ: %+v vs %+v", a, b)
	}
	if a.DaysRun != 3 {
		t.Fatalf("days run = %d, want 3", a.DaysRun)
	}
	if a.PeakPlants < a.FinalPlants {
		t.Fatalf("peak %d below final %d", a.PeakPlants, a.FinalPlants)
	}
}

func TestParameterSweepNeverRegresses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 10, 8
	axes := []SweepAxis{
		{Key: "growth_rate", Values: []float64{0.2, 0.8}},
		{Key: "max_deficit", Values: []float64{24, 72}},
	}
	best, res, records, err := ParameterSweep(cfg, axes, 3, 2, 3)
	if err != nil {
		t.Fatalf("ParameterSweep: %v", err)
	}
	if len(records) == 0 || records[0].Parameter != "baseline" {
		t.Fatal("trace should start with the baseline")
	}
	if records[0].Result.Better(res) {
		t.Fatal("sweep result is worse than its baseline")
	}
	if err := best.Validate(); err != nil {
		t.Fatalf("sweep produced invalid params: %v", err)
	}
	check := cfg
	check.Params = best
	again, err := Evaluate(check, 3)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if again != res {
		t.Fatalf("re-evaluating best params gave %+v, want %+v", again, res)
	}
	for _, rec := range records[1:] {
		if rec.Parameter != "growth_rate" && rec.Parameter != "max_deficit" {
			t.Fatalf("unexpected record for %q", rec.Parameter)
		}
	}
}

func TestParameterSweepRejectsUnknownKey(t *testing.T) {
	_, _, _, err := ParameterSweep(DefaultConfig(), []SweepAxis{{Key: "nope", Values: []float64{1}}}, 1, 1, 1)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSeedSweepRanksAndMatchesEvaluate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 10, 6
	seeds := []int64{1, 2, 3, 4, 5}
	results := SeedSweep(cfg, 2, seeds, 3)
	if len(results) != len(seeds) {
		t.Fatalf("expected %d results, got %d", len(seeds), len(results))
	}
	seen := map[int64]bool{}
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("seed %d: %v", r.Seed, r.Err)
		}
		seen[r.Seed] = true
		if i > 0 && r.Result.Better(results[i-1].Result) {
			t.Fatalf("results not ranked at %d", i)
		}
		single := cfg
		single.Seed = r.Seed
		want, err := Evaluate(single, 2)
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if want != r.Result {
			t.Fatalf("seed %d: pooled result %+v differs from direct %+v", r.Seed, r.Result, want)
		}
	}
	if len(seen) != len(seeds) {
		t.Fatalf("seeds lost in the pool: %v", seen)
	}
}

func TestSurvivalRate(t *testing.T) {
	results := []SeedResult{
		{Result: ScenarioResult{ExtinctDay: -1}},
		{Result: ScenarioResult{ExtinctDay: 4}},
		{Result: ScenarioResult{ExtinctDay: -1}},
		{Err: ErrInvalidConfig},
	}
	if got := SurvivalRate(results); got != 2.0/3.0 {
		t.Fatalf("survival rate = %f", got)
	}
	if SurvivalRate(nil) != 0 {
		t.Fatal("empty input should report zero")
	}
}
