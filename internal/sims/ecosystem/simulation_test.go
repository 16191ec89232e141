package ecosystem

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func dryConfig() Config {
	cfg := quietConfig(3, 3)
	cfg.Params.InitialMoisture = 0
	cfg.Params.RainChance = 0
	return cfg
}

func TestDryScenarioDiesAtMaxDeficit(t *testing.T) {
	cfg := dryConfig()
	s := mustNew(t, cfg)
	p := mustPlant(t, s, 1, 1)

	for i := 0; i < cfg.Params.MaxDeficit-1; i++ {
		s.Step()
	}
	if _, ok := s.Population().Get(p.ID); !ok {
		t.Fatalf("plant died early at tick %d", s.Tick())
	}
	if p.Deficit != cfg.Params.MaxDeficit-1 {
		t.Fatalf("deficit = %d, want %d", p.Deficit, cfg.Params.MaxDeficit-1)
	}
	s.Step()
	if s.Population().Count() != 0 {
		t.Fatalf("plant should die on tick %d", cfg.Params.MaxDeficit)
	}
	if s.Grid().Occupant(1, 1) != 0 {
		t.Fatal("dead plant still occupies its tile")
	}
	if !s.Extinct() || s.Stats().Deaths != 1 {
		t.Fatalf("expected extinction with one death, stats=%+v", s.Stats())
	}
}

func TestLoneSeedGrowsAndSpreadsLocally(t *testing.T) {
	cfg := quietConfig(10, 10)
	cfg.Params.InitialMoisture = 0.5
	cfg.Seed = 42

	positions := map[PlantID][2]int{}
	var origin PlantID
	smallDay := -1
	var failure string
	s := mustNew(t, cfg, WithTickHook(func(s *Simulation) {
		s.Population().Each(func(p *Plant) {
			if _, seen := positions[p.ID]; !seen {
				positions[p.ID] = [2]int{p.X, p.Y}
				if p.Parent == 0 || failure != "" {
					return
				}
				at, ok := positions[p.Parent]
				if !ok {
					failure = "offspring of unknown parent"
					return
				}
				dx, dy := at[0]-p.X, at[1]-p.Y
				if max(abs(dx), abs(dy)) != 1 {
					failure = "offspring not adjacent to parent"
				}
			}
			if p.ID == origin && p.Stage >= StageSmall && smallDay < 0 {
				smallDay = s.Day()
			}
		})
	}))
	origin = mustPlant(t, s, 5, 5).ID
	positions[origin] = [2]int{5, 5}

	if err := s.Run(context.Background(), 5); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if smallDay < 0 || smallDay > 5 {
		t.Fatalf("origin should reach small by day 5, got day %d", smallDay)
	}
	if failure != "" {
		t.Fatal(failure)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func collectSnapshots(t *testing.T, cfg Config, days int) []Snapshot {
	t.Helper()
	var snaps []Snapshot
	s := mustNew(t, cfg, WithObserver(ObserverFunc(func(snap Snapshot) {
		snaps = append(snaps, snap)
	})))
	if err := s.Run(context.Background(), days); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return snaps
}

func snapshotsEqual(a, b Snapshot) bool {
	return a.Day == b.Day && a.Hour == b.Hour &&
		a.Width == b.Width && a.Height == b.Height &&
		a.CO2 == b.CO2 && a.O2 == b.O2 &&
		a.AtmosphericWater == b.AtmosphericWater &&
		a.Plants == b.Plants && slices.Equal(a.Tiles, b.Tiles)
}

func TestObserverFiresAtDayBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 12, 8
	snaps := collectSnapshots(t, cfg, 4)
	if len(snaps) != 4 {
		t.Fatalf("expected 4 snapshots, got %d", len(snaps))
	}
	for i, snap := range snaps {
		if snap.Day != i+1 || snap.Hour != 0 {
			t.Fatalf("snapshot %d at day %d hour %d", i, snap.Day, snap.Hour)
		}
		if len(snap.Tiles) != 12*8 {
			t.Fatalf("snapshot %d has %d tiles", i, len(snap.Tiles))
		}
	}
}

func TestSnapshotsDeterministicForSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 16, 10
	cfg.Seed = 2024

	a := collectSnapshots(t, cfg, 6)
	b := collectSnapshots(t, cfg, 6)
	if len(a) != len(b) {
		t.Fatalf("snapshot counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !snapshotsEqual(a[i], b[i]) {
			t.Fatalf("snapshot %d differs between equal seeds", i)
		}
	}

	cfg.Seed = 2025
	c := collectSnapshots(t, cfg, 6)
	same := true
	for i := range a {
		if !snapshotsEqual(a[i], c[i]) {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical runs")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s := mustNew(t, quietConfig(2, 2))
	snap := s.Snapshot()
	mustPlant(t, s, 0, 0)
	if snap.At(0, 0).Size != SizeNone {
		t.Fatal("snapshot must not observe later changes")
	}
	if s.Snapshot().At(0, 0).Size != SizeSmall {
		t.Fatal("a seed should render as a small plant")
	}
}

func TestResetReplaysInitialWorld(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 12, 12
	s := mustNew(t, cfg)
	initial := s.Snapshot()
	for i := 0; i < 3*cfg.HoursPerDay; i++ {
		s.Step()
	}
	s.Reset(0)
	if s.Tick() != 0 || s.Day() != 0 || s.Hour() != 0 {
		t.Fatalf("clock not reset: tick=%d day=%d hour=%d", s.Tick(), s.Day(), s.Hour())
	}
	if !snapshotsEqual(initial, s.Snapshot()) {
		t.Fatal("Reset(0) should rebuild the configured world")
	}

	s.Reset(99)
	other := cfg
	other.Seed = 99
	if !snapshotsEqual(mustNew(t, other).Snapshot(), s.Snapshot()) {
		t.Fatal("Reset(seed) should match a fresh simulation with that seed")
	}
	if got, ok := s.Parameters().Lookup("seed"); !ok || got.Value != "99" {
		t.Fatalf("parameter snapshot should report the active seed, got %+v", got)
	}
}

func TestRunHonoursContext(t *testing.T) {
	s := mustNew(t, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if s.Tick() != 0 {
		t.Fatalf("no tick should run on a cancelled context, ran %d", s.Tick())
	}

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	s = mustNew(t, DefaultConfig(), WithTickHook(func(s *Simulation) {
		if s.Tick() == 5 {
			cancel()
		}
	}))
	if err := s.Run(ctx, 2); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if s.Tick() != 5 {
		t.Fatalf("run should stop between ticks, stopped at %d", s.Tick())
	}
}

func TestRunRejectsNonPositiveDays(t *testing.T) {
	s := mustNew(t, DefaultConfig())
	if err := s.Run(context.Background(), 0); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestExtinctionStopsRunOnlyWhenConfigured(t *testing.T) {
	cfg := dryConfig()
	s := mustNew(t, cfg)
	mustPlant(t, s, 1, 1)
	if err := s.Run(context.Background(), 4); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Tick() != 4*cfg.HoursPerDay {
		t.Fatalf("run should continue past extinction, tick=%d", s.Tick())
	}
	if s.Stats().ExtinctDay != 2 {
		t.Fatalf("extinct day = %d, want 2", s.Stats().ExtinctDay)
	}

	cfg.StopOnExtinction = true
	s = mustNew(t, cfg)
	mustPlant(t, s, 1, 1)
	if err := s.Run(context.Background(), 4); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Tick() != cfg.Params.MaxDeficit {
		t.Fatalf("run should stop at extinction, tick=%d", s.Tick())
	}
}

func TestCellsEncodeSnapshot(t *testing.T) {
	cfg := quietConfig(4, 3)
	s := mustNew(t, cfg)
	s.Grid().SetWaterDepth(2, 1, 1)
	s.Grid().SetMoisture(3, 2, 0.1)
	p := mustPlant(t, s, 0, 0)
	p.Stage = StageLarge

	cells := s.Cells()
	if len(cells) != 12 {
		t.Fatalf("cells length = %d", len(cells))
	}
	snap := s.Snapshot()
	for i, v := range cells {
		if decodeDisplayValue(v) != snap.Tiles[i] {
			t.Fatalf("cell %d decodes to %+v, want %+v", i, decodeDisplayValue(v), snap.Tiles[i])
		}
	}
	if got := decodeDisplayValue(cells[0]); got.Size != SizeLarge || got.Moisture != MoistureWet {
		t.Fatalf("unexpected planted cell %+v", got)
	}
	if !decodeDisplayValue(cells[s.Grid().Index(2, 1)]).Flooded {
		t.Fatal("standing water should set the flooded bit")
	}

	palette := s.Palette()
	if len(palette) != 32 {
		t.Fatalf("palette has %d entries", len(palette))
	}
	for _, v := range cells {
		if int(v) >= len(palette) {
			t.Fatalf("cell value %d outside palette", v)
		}
	}
	dry := encodeDisplayValue(TileView{Moisture: MoistureDry})
	wet := encodeDisplayValue(TileView{Moisture: MoistureWet})
	if palette[dry] == palette[wet] {
		t.Fatal("dry and wet soil should be distinguishable")
	}
}

func TestSizeForStage(t *testing.T) {
	want := map[Stage]SizeClass{
		StageSeed:   SizeSmall,
		StageSmall:  SizeSmall,
		StageMedium: SizeMedium,
		StageLarge:  SizeLarge,
		StageDead:   SizeNone,
	}
	for stage, size := range want {
		if got := (&Plant{Stage: stage}).Size(); got != size {
			t.Fatalf("%s: size %d, want %d", stage, got, size)
		}
	}
	var none *Plant
	if none.Size() != SizeNone {
		t.Fatal("nil plant should have no size")
	}
}

func TestNameAndSize(t *testing.T) {
	s := mustNew(t, quietConfig(7, 5))
	if s.Name() != "ecosystem" {
		t.Fatalf("name = %q", s.Name())
	}
	if sz := s.Size(); sz.W != 7 || sz.H != 5 {
		t.Fatalf("size = %+v", sz)
	}
}
