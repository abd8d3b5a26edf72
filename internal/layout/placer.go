// Package layout finds resting positions for table boxes so that no two
// boxes overlap.
package layout

const (
	DefaultSeparation = 220 // 200 unit box + 20 unit margin
	DefaultStep       = 10
	DefaultMaxSteps   = 100000
)

type Point struct {
	X, Y int
}

// Slot is one occupied position. Callers pass slots in insertion order so
// that resolution is reproducible.
type Slot struct {
	ID       string
	Position Point
}

// Placer runs a diagonal linear probe: while the candidate is within
// Separation of some occupied slot on both axes, it moves by (Step, Step)
// and rescans from the first slot.
type Placer struct {
	Separation int
	Step       int
	MaxSteps   int
}

func NewPlacer() Placer {
	return Placer{
		Separation: DefaultSeparation,
		Step:       DefaultStep,
		MaxSteps:   DefaultMaxSteps,
	}
}

// Resolve returns the first non-conflicting point reachable from desired.
// excludeID is skipped during the scan so that an item being moved does not
// collide with its own previous slot. The bool is false when MaxSteps
// displacements were not enough; the returned point is then meaningless.
func (p Placer) Resolve(desired Point, occupied []Slot, excludeID string) (Point, bool) {
	p = p.withDefaults()
	candidate := desired
	for steps := 0; ; steps++ {
		if !p.conflicts(candidate, occupied, excludeID) {
			return candidate, true
		}
		if steps >= p.MaxSteps {
			return candidate, false
		}
		candidate.X += p.Step
		candidate.Y += p.Step
	}
}

// Overlaps reports whether two anchors are closer than Separation on both axes.
func (p Placer) Overlaps(a, b Point) bool {
	p = p.withDefaults()
	return abs(a.X-b.X) < p.Separation && abs(a.Y-b.Y) < p.Separation
}

func (p Placer) conflicts(candidate Point, occupied []Slot, excludeID string) bool {
	for _, slot := range occupied {
		if excludeID != "" && slot.ID == excludeID {
			continue
		}
		if p.Overlaps(candidate, slot.Position) {
			return true
		}
	}
	return false
}

func (p Placer) withDefaults() Placer {
	if p.Separation <= 0 {
		p.Separation = DefaultSeparation
	}
	if p.Step <= 0 {
		p.Step = DefaultStep
	}
	if p.MaxSteps <= 0 {
		p.MaxSteps = DefaultMaxSteps
	}
	return p
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
