package board

import "fmt"

// Kind tags the category of a unit
type Kind uint8

const (
	KindUnit Kind = iota
	KindPlayer
	KindGhost
	KindBlinky
	KindPinky
	KindInky
	KindClyde
	KindWanderer
	KindPellet
)

// lineages declares every kind's is-a chain, most specific first.
// Collision dispatch walks these chains in order.
var lineages = [...][]Kind{
	KindUnit:     {KindUnit},
	KindPlayer:   {KindPlayer, KindUnit},
	KindGhost:    {KindGhost, KindUnit},
	KindBlinky:   {KindBlinky, KindGhost, KindUnit},
	KindPinky:    {KindPinky, KindGhost, KindUnit},
	KindInky:     {KindInky, KindGhost, KindUnit},
	KindClyde:    {KindClyde, KindGhost, KindUnit},
	KindWanderer: {KindWanderer, KindGhost, KindUnit},
	KindPellet:   {KindPellet, KindUnit},
}

var kindNames = [...]string{
	KindUnit:     "unit",
	KindPlayer:   "player",
	KindGhost:    "ghost",
	KindBlinky:   "blinky",
	KindPinky:    "pinky",
	KindInky:     "inky",
	KindClyde:    "clyde",
	KindWanderer: "wanderer",
	KindPellet:   "pellet",
}

// Kinds returns every declared kind
func Kinds() []Kind {
	kinds := make([]Kind, len(lineages))
	for i := range lineages {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Valid reports whether k is a declared kind
func (k Kind) Valid() bool {
	return int(k) < len(lineages)
}

// Lineage returns the is-a chain of k, starting with k itself.
// The returned slice is shared and must not be modified.
func (k Kind) Lineage() []Kind {
	if !k.Valid() {
		return nil
	}
	return lineages[k]
}

// Is reports whether k is other or descends from it
func (k Kind) Is(other Kind) bool {
	for _, ancestor := range k.Lineage() {
		if ancestor == other {
			return true
		}
	}
	return false
}

// IsGhost reports whether k is any ghost variant
func (k Kind) IsGhost() bool {
	return k.Is(KindGhost)
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind returns the kind with the given name
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", name)
}
