package app

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"ecosim/internal/core"
	"ecosim/internal/sims/ecosystem"
)

// Environment variables consulted after flag parsing.
const (
	EnvSeed     = "ECOSIM_SEED"
	EnvParams   = "ECOSIM_PARAMS"
	EnvLogLevel = "ECOSIM_LOG_LEVEL"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Width  int
	Height int
	Days   int
	// Speed is the wall-clock seconds spent on each simulated hour.
	Speed float64

	Seed       int64
	ParamsFile string
	LogLevel   string

	// Viewer-only settings.
	Scale int
	TPS   int
}

// NewConfig returns a Config populated with the default world.
func NewConfig() *Config {
	def := ecosystem.DefaultConfig()
	return &Config{
		Width:    def.Width,
		Height:   def.Height,
		Days:     def.Days,
		Speed:    0.2,
		Seed:     def.Seed,
		LogLevel: "info",
		Scale:    16,
		TPS:      60,
	}
}

// Bind attaches the world flags to fs under their short and long names.
func (c *Config) Bind(fs *flag.FlagSet) {
	for _, name := range []string{"w", "width"} {
		fs.IntVar(&c.Width, name, c.Width, "width of the world grid")
	}
	for _, name := range []string{"t", "height"} {
		fs.IntVar(&c.Height, name, c.Height, "height of the world grid")
	}
	for _, name := range []string{"d", "days"} {
		fs.IntVar(&c.Days, name, c.Days, "number of days to simulate")
	}
	for _, name := range []string{"s", "speed"} {
		fs.Float64Var(&c.Speed, name, c.Speed, "seconds per simulated hour")
	}
}

// BindViewer attaches the window flags used by the GUI build.
func (c *Config) BindViewer(fs *flag.FlagSet) {
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "frames per second")
}

// envResolver binds one environment variable to a config field.
type envResolver struct {
	name   string
	setter func(*Config, string) error
}

var envResolvers = []envResolver{
	{
		name: EnvSeed,
		setter: func(c *Config, v string) error {
			seed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", EnvSeed, err)
			}
			c.Seed = seed
			return nil
		},
	},
	{
		name:   EnvParams,
		setter: func(c *Config, v string) error { c.ParamsFile = v; return nil },
	},
	{
		name:   EnvLogLevel,
		setter: func(c *Config, v string) error { c.LogLevel = v; return nil },
	},
}

// ResolveEnv applies every set environment variable found through lookup.
// Pass os.LookupEnv in production.
func (c *Config) ResolveEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, r := range envResolvers {
		v, ok := lookup(r.name)
		if !ok || v == "" {
			continue
		}
		if err := r.setter(c, v); err != nil {
			return err
		}
	}
	return nil
}

// Interval converts Speed into the pacing interval between ticks.
func (c *Config) Interval() time.Duration {
	return core.IntervalFromSeconds(c.Speed)
}

// Simulation builds and validates the ecosystem configuration, overlaying the
// YAML parameter file when one is set.
func (c *Config) Simulation() (ecosystem.Config, error) {
	cfg := ecosystem.DefaultConfig()
	cfg.Width = c.Width
	cfg.Height = c.Height
	cfg.Days = c.Days
	cfg.Seed = c.Seed
	if c.ParamsFile != "" {
		params, err := ecosystem.LoadParams(c.ParamsFile, cfg.Params)
		if err != nil {
			return ecosystem.Config{}, err
		}
		cfg.Params = params
	}
	if c.Speed < 0 {
		return ecosystem.Config{}, fmt.Errorf("%w: speed must not be negative, got %g", ecosystem.ErrInvalidConfig, c.Speed)
	}
	if err := cfg.Validate(); err != nil {
		return ecosystem.Config{}, err
	}
	return cfg, nil
}
