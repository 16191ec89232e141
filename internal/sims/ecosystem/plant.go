package ecosystem

// Stage enumerates the plant life-phases. Living stages only move forward;
// StageDead is terminal and reachable from any of them.
type Stage uint8

const (
	StageSeed Stage = iota
	StageSmall
	StageMedium
	StageLarge
	StageDead
)

const stageCount = int(StageLarge) + 1

var stageNames = [...]string{"seed", "small", "medium", "large", "dead"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Alive reports whether s is a living stage.
func (s Stage) Alive() bool { return s <= StageLarge }

// CanReproduce reports whether plants of stage s may spawn seeds.
func (s Stage) CanReproduce() bool { return s == StageMedium || s == StageLarge }

// ParseStage maps a stage name back to its Stage.
func ParseStage(name string) (Stage, bool) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), true
		}
	}
	return 0, false
}

// PlantID identifies a plant for the lifetime of a run. Zero means none.
type PlantID uint64

// Plant is a single organism bound to one tile.
type Plant struct {
	ID     PlantID
	Parent PlantID
	X, Y   int

	Stage    Stage
	Age      int
	Growth   float64
	Deficit  int
	Cooldown int
}

// Size maps the growth stage onto the visual size class.
func (p *Plant) Size() SizeClass {
	if p == nil {
		return SizeNone
	}
	return sizeForStage(p.Stage)
}

func sizeForStage(s Stage) SizeClass {
	switch s {
	case StageSeed, StageSmall:
		return SizeSmall
	case StageMedium:
		return SizeMedium
	case StageLarge:
		return SizeLarge
	default:
		return SizeNone
	}
}
