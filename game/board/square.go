package board

import (
	"fmt"
	"sync"
)

// Square is a single cell of the board
type Square struct {
	x, y    int
	terrain Terrain

	mu        sync.RWMutex
	occupants []Unit

	// set once by NewBoard
	neighbours [len(Directions)]*Square
}

// NewSquare creates an unlinked square with the given terrain.
// Coordinates and neighbours are assigned when the square joins a board.
func NewSquare(terrain Terrain) *Square {
	if terrain == nil {
		terrain = Ground
	}
	return &Square{terrain: terrain}
}

// X returns the column of the square
func (s *Square) X() int { return s.x }

// Y returns the row of the square
func (s *Square) Y() int { return s.y }

// Terrain returns the terrain of the square
func (s *Square) Terrain() Terrain { return s.terrain }

// Neighbour returns the adjacent square in direction d
func (s *Square) Neighbour(d Direction) *Square {
	return s.neighbours[d]
}

// IsAccessibleTo reports whether u may enter the square
func (s *Square) IsAccessibleTo(u Unit) bool {
	return s.terrain.AccessibleTo(u)
}

// Occupants returns a snapshot of the units on the square in entry order
func (s *Square) Occupants() []Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Unit, len(s.occupants))
	copy(out, s.occupants)
	return out
}

// OccupantCount returns the number of units on the square
func (s *Square) OccupantCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.occupants)
}

func (s *Square) String() string {
	return fmt.Sprintf("%s(%d,%d)", s.terrain.Name(), s.x, s.y)
}

func (s *Square) count(u Unit) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, o := range s.occupants {
		if o.base() == u.base() {
			n++
		}
	}
	return n
}

func (s *Square) put(u Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.occupants {
		if o.base() == u.base() {
			panic(fmt.Errorf("%w: %s already on %s", ErrInvariant, u.Kind(), s))
		}
	}
	s.occupants = append(s.occupants, u)
}

func (s *Square) remove(u Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.occupants {
		if o.base() == u.base() {
			s.occupants = append(s.occupants[:i], s.occupants[i+1:]...)
			return
		}
	}
	panic(fmt.Errorf("%w: %s not on %s", ErrInvariant, u.Kind(), s))
}
