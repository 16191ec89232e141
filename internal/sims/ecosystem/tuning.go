package ecosystem

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// ScenarioResult captures telemetry from one deterministic run.
type ScenarioResult struct {
	// FinalPlants is the population left after the last tick.
	FinalPlants int
	// PeakPlants is the largest population seen at any tick.
	PeakPlants int
	// ExtinctDay is the day the population first hit zero, or -1.
	ExtinctDay int
	Births     int
	Deaths     int
	Rainfalls  int
	FinalCO2   float64
	FinalO2    float64
	DaysRun    int
}

// SweepRecord documents one improvement found while exploring parameters.
type SweepRecord struct {
	Pass      int
	Parameter string
	Value     string
	Result    ScenarioResult
	Params    Params
}

// SweepAxis lists the candidate values tried for one parameter key.
type SweepAxis struct {
	Key    string
	Values []float64
}

// DefaultSweepAxes covers the knobs that most affect survival.
func DefaultSweepAxes() []SweepAxis {
	return []SweepAxis{
		{Key: "growth_rate", Values: []float64{0.3, 0.4, 0.5, 0.6, 0.8}},
		{Key: "rain_chance", Values: []float64{0.05, 0.1, 0.2, 0.3}},
		{Key: "rain_coverage", Values: []float64{0.1, 0.2, 0.3, 0.5}},
		{Key: "canopy_shade", Values: []float64{0.1, 0.2, 0.3, 0.5}},
		{Key: "spawn_min_moisture", Values: []float64{0.1, 0.2, 0.3}},
		{Key: "medium_reproduction_chance", Values: []float64{0.01, 0.02, 0.05}},
		{Key: "large_reproduction_chance", Values: []float64{0.02, 0.05, 0.1}},
	}
}

// Evaluate runs cfg for days and reports the outcome.
func Evaluate(cfg Config, days int) (ScenarioResult, error) {
	sim, err := New(cfg)
	if err != nil {
		return ScenarioResult{}, err
	}
	if err := sim.Run(context.Background(), days); err != nil {
		return ScenarioResult{}, err
	}
	st := sim.Stats()
	env := sim.Environment()
	return ScenarioResult{
		FinalPlants: sim.Population().Count(),
		PeakPlants:  st.PeakPlants,
		ExtinctDay:  st.ExtinctDay,
		Births:      st.Births,
		Deaths:      st.Deaths,
		Rainfalls:   st.Rainfalls,
		FinalCO2:    env.CO2,
		FinalO2:     env.O2,
		DaysRun:     env.Day,
	}, nil
}

// Better reports whether a is a healthier outcome than b: surviving beats
// dying, later extinction beats earlier, then larger final and peak
// populations win.
func (a ScenarioResult) Better(b ScenarioResult) bool {
	aAlive, bAlive := a.ExtinctDay < 0, b.ExtinctDay < 0
	if aAlive != bAlive {
		return aAlive
	}
	if !aAlive && a.ExtinctDay != b.ExtinctDay {
		return a.ExtinctDay > b.ExtinctDay
	}
	if a.FinalPlants != b.FinalPlants {
		return a.FinalPlants > b.FinalPlants
	}
	return a.PeakPlants > b.PeakPlants
}

// ParameterSweep performs a coarse coordinate-descent search over axes and
// returns the best parameters found, their result and an improvement trace.
// Candidates of one axis are evaluated concurrently, each on its own
// Simulation.
func ParameterSweep(base Config, axes []SweepAxis, days, passes, workers int) (Params, ScenarioResult, []SweepRecord, error) {
	if passes <= 0 {
		passes = 1
	}
	if workers <= 0 {
		workers = 1
	}

	current := base.Params
	baseline, err := Evaluate(base, days)
	if err != nil {
		return Params{}, ScenarioResult{}, nil, err
	}
	records := []SweepRecord{{Parameter: "baseline", Result: baseline, Params: current}}

	for pass := 1; pass <= passes; pass++ {
		improved := false
		for _, axis := range axes {
			pf, ok := paramIndex[axis.Key]
			if !ok {
				return Params{}, ScenarioResult{}, nil, fmt.Errorf("%w: unknown sweep key %q", ErrInvalidConfig, axis.Key)
			}
			best, res, changed := evaluateAxis(base, current, baseline, pf, axis.Values, days, workers)
			if !changed {
				continue
			}
			current, baseline = best, res
			improved = true
			records = append(records, SweepRecord{
				Pass:      pass,
				Parameter: axis.Key,
				Value:     readParam(pf, best),
				Result:    res,
				Params:    best,
			})
		}
		if !improved {
			break
		}
	}
	return current, baseline, records, nil
}

func evaluateAxis(base Config, params Params, baseline ScenarioResult, pf paramField, values []float64, days, workers int) (Params, ScenarioResult, bool) {
	type candidate struct {
		params Params
		result ScenarioResult
		valid  bool
	}
	candidates := make([]candidate, len(values))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				p := params
				writeParam(pf, &p, values[i])
				cfg := base
				cfg.Params = p
				res, err := Evaluate(cfg, days)
				candidates[i] = candidate{params: p, result: res, valid: err == nil}
			}
		}()
	}
	for i := range values {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	bestParams, bestResult, changed := params, baseline, false
	for _, c := range candidates {
		if c.valid && c.result.Better(bestResult) {
			bestParams, bestResult, changed = c.params, c.result, true
		}
	}
	return bestParams, bestResult, changed
}

func writeParam(pf paramField, p *Params, v float64) {
	switch {
	case pf.float != nil:
		*pf.float(p) = v
	case pf.int != nil:
		*pf.int(p) = int(v)
	}
}

func readParam(pf paramField, p Params) string {
	if pf.float != nil {
		return strconv.FormatFloat(*pf.float(&p), 'f', -1, 64)
	}
	return strconv.Itoa(*pf.int(&p))
}

// SeedResult pairs a seed with the outcome it produced.
type SeedResult struct {
	Seed   int64
	Result ScenarioResult
	Err    error
}

// SeedSweep evaluates cfg once per seed on a pool of workers and returns the
// outcomes ranked best first. Ties keep seed order.
func SeedSweep(cfg Config, days int, seeds []int64, workers int) []SeedResult {
	if workers <= 0 {
		workers = 1
	}
	jobs := make(chan int64)
	results := make(chan SeedResult)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range jobs {
				run := cfg
				run.Seed = seed
				res, err := Evaluate(run, days)
				results <- SeedResult{Seed: seed, Result: res, Err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	go func() {
		for _, seed := range seeds {
			jobs <- seed
		}
		close(jobs)
	}()

	all := make([]SeedResult, 0, len(seeds))
	for res := range results {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if (a.Err == nil) != (b.Err == nil) {
			return a.Err == nil
		}
		if a.Result.Better(b.Result) {
			return true
		}
		if b.Result.Better(a.Result) {
			return false
		}
		return a.Seed < b.Seed
	})
	return all
}

// SurvivalRate reports the fraction of successful runs that never went
// extinct.
func SurvivalRate(results []SeedResult) float64 {
	ok, alive := 0, 0
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		ok++
		if r.Result.ExtinctDay < 0 {
			alive++
		}
	}
	if ok == 0 {
		return 0
	}
	return float64(alive) / float64(ok)
}
