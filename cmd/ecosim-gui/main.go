//go:build ebiten

package main

import (
	"errors"
	"flag"
	"os"

	"ecosim/internal/app"
	"ecosim/internal/logging"
	"ecosim/internal/sims/ecosystem"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	cfg.BindViewer(flag.CommandLine)
	flag.Parse()

	logger := logging.New(os.Stderr, cfg.LogLevel)
	if err := cfg.ResolveEnv(os.LookupEnv); err != nil {
		logger.Fatalf("invalid environment: %v", err)
	}
	logger = logging.New(os.Stderr, cfg.LogLevel)

	simCfg, err := cfg.Simulation()
	if err != nil {
		logger.Fatalf("%v", err)
	}
	sim, err := ecosystem.New(simCfg, ecosystem.WithLogger(logger))
	if err != nil {
		logger.Fatalf("%v", err)
	}

	game := app.New(sim, cfg.Scale, simCfg.Seed, cfg.Interval())
	ebiten.SetWindowTitle("ecosim: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(game.WindowSize())

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatalf("%v", err)
	}
}
