package board

// Terrain decides which units may stand on a square.
// AccessibleTo must be pure: searches call it concurrently with moves.
type Terrain interface {
	Name() string
	Symbol() rune
	AccessibleTo(u Unit) bool
}

type ground struct{}

func (ground) Name() string { return "ground" }
func (ground) Symbol() rune { return ' ' }
func (ground) AccessibleTo(Unit) bool { return true }

type wall struct{}

func (wall) Name() string { return "wall" }
func (wall) Symbol() rune { return '#' }
func (wall) AccessibleTo(Unit) bool { return false }

var (
	// Ground is passable for every unit
	Ground Terrain = ground{}
	// Wall is impassable for every unit
	Wall Terrain = wall{}
)
