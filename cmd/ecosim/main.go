// Command ecosim runs the ecosystem in a terminal, redrawing the grid after
// every simulated hour and logging a summary at each day boundary.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecosim/internal/app"
	"ecosim/internal/logging"
	"ecosim/internal/render"
	"ecosim/internal/sims/ecosystem"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := logging.New(os.Stderr, cfg.LogLevel)
	if err := cfg.ResolveEnv(os.LookupEnv); err != nil {
		logger.Errorf("invalid environment: %v", err)
		return 1
	}
	logger = logging.New(os.Stderr, cfg.LogLevel)

	simCfg, err := cfg.Simulation()
	if err != nil {
		logger.Errorf("%v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := bufio.NewWriter(os.Stdout)
	draw := func(s *ecosystem.Simulation) {
		fmt.Fprint(out, render.ClearScreen)
		fmt.Fprintln(out, render.Text(s.Snapshot()))
		out.Flush()
	}
	interval := cfg.Interval()

	fmt.Printf("Initializing ecosystem simulation (%dx%d)...\n", simCfg.Width, simCfg.Height)
	sim, err := ecosystem.New(simCfg,
		ecosystem.WithLogger(logger),
		ecosystem.WithObserver(ecosystem.ObserverFunc(func(s ecosystem.Snapshot) {
			logger.Infof("%s", daySummary(s))
		})),
		ecosystem.WithTickHook(func(s *ecosystem.Simulation) {
			draw(s)
			sleep(ctx, interval)
		}),
	)
	if err != nil {
		logger.Errorf("%v", err)
		return 1
	}
	logger.Infof("starting simulation for %d days (seed %d)", simCfg.Days, simCfg.Seed)
	draw(sim)

	err = sim.Run(ctx, simCfg.Days)
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Println("\nSimulation terminated by user.")
	case err != nil:
		logger.Errorf("run failed: %v", err)
		return 1
	default:
		fmt.Println("\nSimulation complete!")
	}
	return 0
}

func daySummary(s ecosystem.Snapshot) string {
	return fmt.Sprintf("day %d: %d plants, CO2 %.1f, O2 %.1f", s.Day, s.Plants, s.CO2, s.O2)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
