package board

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	// ErrNoSquare is returned when a unit is placed on a nil square
	ErrNoSquare = errors.New("no target square")
	// ErrInaccessible is returned when the target square rejects the unit
	ErrInaccessible = errors.New("square not accessible")
	// ErrInvariant marks a broken unit/square pairing. It is raised by panic.
	ErrInvariant = errors.New("occupancy invariant violated")
)

// Unit is anything that can stand on a square: players, ghosts and pellets.
// Implementations embed *Base.
type Unit interface {
	ID() uuid.UUID
	Kind() Kind
	Square() *Square
	HasSquare() bool
	Direction() Direction
	SetDirection(d Direction)

	base() *Base
}

// Base carries the state every unit shares
type Base struct {
	id        uuid.UUID
	kind      Kind
	square    atomic.Pointer[Square]
	direction atomic.Int32
}

// NewBase creates unplaced unit state of the given kind, facing east
func NewBase(kind Kind) *Base {
	b := &Base{id: uuid.New(), kind: kind}
	b.direction.Store(int32(East))
	return b
}

// ID returns the unique id of the unit
func (b *Base) ID() uuid.UUID { return b.id }

// Kind returns the kind of the unit
func (b *Base) Kind() Kind { return b.kind }

// Square returns the square the unit stands on, or nil
func (b *Base) Square() *Square { return b.square.Load() }

// HasSquare reports whether the unit is placed
func (b *Base) HasSquare() bool { return b.square.Load() != nil }

// Direction returns the facing of the unit
func (b *Base) Direction() Direction { return Direction(b.direction.Load()) }

// SetDirection turns the unit to face d
func (b *Base) SetDirection(d Direction) { b.direction.Store(int32(d)) }

func (b *Base) base() *Base { return b }

func (b *Base) String() string {
	if sq := b.Square(); sq != nil {
		return fmt.Sprintf("%s@%d,%d", b.kind, sq.x, sq.y)
	}
	return b.kind.String()
}

// Occupy moves u onto target. The unit leaves its previous square first.
// Nothing changes when target is nil or refuses the unit. Occupying the
// square the unit already holds is a no-op.
func Occupy(u Unit, target *Square) error {
	if target == nil {
		return ErrNoSquare
	}
	if !target.IsAccessibleTo(u) {
		return fmt.Errorf("%w: %s cannot enter %s", ErrInaccessible, u.Kind(), target)
	}

	b := u.base()
	prev := b.square.Load()
	if prev == target {
		if target.count(u) != 1 {
			panic(fmt.Errorf("%w: %s recorded on %s but not listed", ErrInvariant, u.Kind(), target))
		}
		return nil
	}
	if prev != nil {
		prev.remove(u)
	}
	b.square.Store(target)
	target.put(u)
	return nil
}

// Leave removes u from its square. No-op for unplaced units.
func Leave(u Unit) {
	b := u.base()
	sq := b.square.Load()
	if sq == nil {
		return
	}
	sq.remove(u)
	b.square.Store(nil)
}

// CheckInvariant verifies that a placed unit is listed exactly once on its
// square and that the square admits it.
func CheckInvariant(u Unit) error {
	sq := u.Square()
	if sq == nil {
		return nil
	}
	if n := sq.count(u); n != 1 {
		return fmt.Errorf("%w: %s listed %d times on %s", ErrInvariant, u.Kind(), n, sq)
	}
	if !sq.IsAccessibleTo(u) {
		return fmt.Errorf("%w: %s stands on inaccessible %s", ErrInvariant, u.Kind(), sq)
	}
	return nil
}
