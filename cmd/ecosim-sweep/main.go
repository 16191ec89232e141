// Command ecosim-sweep searches the parameter space for settings under which
// the plant population survives longest.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"ecosim/internal/logging"
	"ecosim/internal/sims/ecosystem"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func main() {
	days := flag.Int("days", 30, "days to simulate per candidate")
	passes := flag.Int("passes", 3, "coordinate-descent passes to execute")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel candidate evaluations")
	width := flag.Int("width", 40, "grid width for tuning runs")
	height := flag.Int("height", 20, "grid height for tuning runs")
	seed := flag.Int64("seed", 1337, "seed used for deterministic simulations")
	paramsFile := flag.String("params", "", "YAML parameter file to start from")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	manualOnly := flag.Bool("manual", false, "skip sweeping and only evaluate provided overrides")
	seedCount := flag.Int("seeds", 0, "also check the final parameters against this many seeds")
	var overrides kvList
	flag.Var(&overrides, "set", "parameter override in key=value form (repeatable)")
	flag.Parse()

	logger := logging.New(os.Stderr, *logLevel)

	cfg := ecosystem.DefaultConfig()
	cfg.Width = *width
	cfg.Height = *height
	cfg.Seed = *seed
	if *paramsFile != "" {
		params, err := ecosystem.LoadParams(*paramsFile, cfg.Params)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		cfg.Params = params
	}

	kv := map[string]string{}
	for _, o := range overrides {
		parts := strings.SplitN(o, "=", 2)
		if len(parts) != 2 {
			logger.Warnf("ignoring malformed override %q", o)
			continue
		}
		kv[parts[0]] = parts[1]
	}
	ecosystem.ApplyMap(&cfg, kv)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("%v", err)
	}

	baseline, err := ecosystem.Evaluate(cfg, *days)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	fmt.Printf("Baseline: %s\n", describe(baseline))

	if *manualOnly {
		fmt.Println("Manual evaluation requested; skipping sweep.")
		printParams(cfg.Params)
		checkSeeds(cfg, *days, *seedCount, *workers)
		return
	}

	logger.Infof("sweeping %d axes over %d passes with %d workers", len(ecosystem.DefaultSweepAxes()), *passes, *workers)
	params, result, trace, err := ecosystem.ParameterSweep(cfg, ecosystem.DefaultSweepAxes(), *days, *passes, *workers)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	fmt.Printf("\nBest found: %s\n", describe(result))
	printParams(params)

	if len(trace) > 1 {
		fmt.Println("\nImprovements:")
		for _, rec := range trace[1:] {
			fmt.Printf("  pass %d: %s=%s -> %s\n", rec.Pass, rec.Parameter, rec.Value, describe(rec.Result))
		}
	}

	cfg.Params = params
	checkSeeds(cfg, *days, *seedCount, *workers)
}

func checkSeeds(cfg ecosystem.Config, days, count, workers int) {
	if count <= 0 {
		return
	}
	seeds := make([]int64, count)
	for i := range seeds {
		seeds[i] = cfg.Seed + int64(i)
	}
	start := time.Now()
	results := ecosystem.SeedSweep(cfg, days, seeds, workers)
	fmt.Printf("\nSeed check: %d seeds, survival %.0f%% (elapsed %s)\n",
		count, 100*ecosystem.SurvivalRate(results), time.Since(start).Round(time.Millisecond))
	for i, r := range results {
		if i >= 3 && i < len(results)-3 {
			continue
		}
		if r.Err != nil {
			fmt.Printf("%3d) seed %d: %v\n", i+1, r.Seed, r.Err)
			continue
		}
		fmt.Printf("%3d) seed %d: %s\n", i+1, r.Seed, describe(r.Result))
	}
}

func describe(r ecosystem.ScenarioResult) string {
	fate := "survived"
	if r.ExtinctDay >= 0 {
		fate = fmt.Sprintf("extinct on day %d", r.ExtinctDay)
	}
	return fmt.Sprintf("%s, final plants %d, peak %d, births %d, deaths %d, rainfalls %d, CO2 %.1f, O2 %.1f",
		fate, r.FinalPlants, r.PeakPlants, r.Births, r.Deaths, r.Rainfalls, r.FinalCO2, r.FinalO2)
}

func printParams(params ecosystem.Params) {
	fmt.Println("Parameters:")
	for _, p := range params.Fields() {
		fmt.Printf("  %s=%s\n", p.Key, p.Value)
	}
}
