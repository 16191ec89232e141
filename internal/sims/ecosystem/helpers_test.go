package ecosystem

import "testing"

// quietConfig returns a w*h world without a lake, seepage or random initial
// plants.
func quietConfig(w, h int) Config {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.Params.InitialPlants = 0
	cfg.Params.LakeRadiusDivisor = 0
	cfg.Params.SeepageRate = 0
	return cfg
}

func mustNew(t *testing.T, cfg Config, opts ...Option) *Simulation {
	t.Helper()
	s, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func mustPlant(t *testing.T, s *Simulation, x, y int) *Plant {
	t.Helper()
	p, err := s.PlantAt(x, y)
	if err != nil {
		t.Fatalf("PlantAt(%d,%d): %v", x, y, err)
	}
	return p
}
