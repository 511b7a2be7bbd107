// Package navigation implements breadth-first searches over the board graph.
//
// Searches expand neighbours in board.Directions order with a FIFO queue, so
// among equal-length paths the same one is always returned. They only read
// the board and are safe to run while other goroutines move units.
package navigation

import (
	"github.com/wricardo/ghostmaze/game/board"
	"github.com/zyedidia/generic/mapset"
)

type node struct {
	square    *board.Square
	direction board.Direction
	parent    *node
}

func (n *node) path() []board.Direction {
	var steps []board.Direction
	for cur := n; cur.parent != nil; cur = cur.parent {
		steps = append(steps, cur.direction)
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}

// ShortestPath returns the directions leading from one square to another.
// When traveller is non-nil only squares accessible to it are expanded,
// otherwise terrain is ignored. The path is empty when from == to, and ok
// is false when to cannot be reached.
func ShortestPath(from, to *board.Square, traveller board.Unit) (path []board.Direction, ok bool) {
	if from == nil || to == nil {
		return nil, false
	}
	if from == to {
		return []board.Direction{}, true
	}

	visited := mapset.New[*board.Square]()
	visited.Put(from)
	queue := []*node{{square: from}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, d := range board.Directions {
			next := current.square.Neighbour(d)
			if visited.Has(next) {
				continue
			}
			if traveller != nil && !next.IsAccessibleTo(traveller) {
				continue
			}
			step := &node{square: next, direction: d, parent: current}
			if next == to {
				return step.path(), true
			}
			visited.Put(next)
			queue = append(queue, step)
		}
	}
	return nil, false
}

// FindNearest returns the closest unit of the given kind, searching
// outward from the square regardless of terrain. Returns nil if no such
// unit is reachable.
func FindNearest(kind board.Kind, from *board.Square) board.Unit {
	if from == nil {
		return nil
	}

	visited := mapset.New[*board.Square]()
	visited.Put(from)
	queue := []*board.Square{from}

	for len(queue) > 0 {
		sq := queue[0]
		queue = queue[1:]

		if u := FindUnit(kind, sq); u != nil {
			return u
		}
		for _, d := range board.Directions {
			next := sq.Neighbour(d)
			if visited.Has(next) {
				continue
			}
			visited.Put(next)
			queue = append(queue, next)
		}
	}
	return nil
}

// FindUnit returns the first occupant of the square of the given kind
func FindUnit(kind board.Kind, sq *board.Square) board.Unit {
	for _, u := range sq.Occupants() {
		if u.Kind().Is(kind) {
			return u
		}
	}
	return nil
}

// FindUnitInBoard scans the board row by row for a unit of the given kind
func FindUnitInBoard(kind board.Kind, b *board.Board) board.Unit {
	for _, sq := range b.Squares() {
		if u := FindUnit(kind, sq); u != nil {
			return u
		}
	}
	return nil
}

// SquaresAheadOf returns the square n steps ahead of the unit along its
// facing. The walk wraps at the edges and passes through walls. Returns nil
// for an unplaced unit.
func SquaresAheadOf(u board.Unit, n int) *board.Square {
	sq := u.Square()
	if sq == nil {
		return nil
	}
	d := u.Direction()
	for i := 0; i < n; i++ {
		sq = sq.Neighbour(d)
	}
	return sq
}

// FollowPath walks path from start, taking each step stride times
func FollowPath(start *board.Square, path []board.Direction, stride int) *board.Square {
	sq := start
	for _, d := range path {
		for i := 0; i < stride; i++ {
			sq = sq.Neighbour(d)
		}
	}
	return sq
}

// Distance returns the length of the shortest path, or -1 if unreachable
func Distance(from, to *board.Square, traveller board.Unit) int {
	path, ok := ShortestPath(from, to, traveller)
	if !ok {
		return -1
	}
	return len(path)
}

// PathToNearest is FindNearest for a traveller: it only expands squares
// accessible to it and also returns the path to the unit found. A unit on
// the starting square is ignored.
func PathToNearest(kind board.Kind, from *board.Square, traveller board.Unit) (board.Unit, []board.Direction) {
	if from == nil {
		return nil, nil
	}

	visited := mapset.New[*board.Square]()
	visited.Put(from)
	queue := []*node{{square: from}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, d := range board.Directions {
			next := current.square.Neighbour(d)
			if visited.Has(next) {
				continue
			}
			if traveller != nil && !next.IsAccessibleTo(traveller) {
				continue
			}
			visited.Put(next)
			step := &node{square: next, direction: d, parent: current}
			if u := FindUnit(kind, next); u != nil {
				return u, step.path()
			}
			queue = append(queue, step)
		}
	}
	return nil, nil
}

// Reachable returns every square the traveller can reach from the given
// square, including that square, in breadth-first order.
func Reachable(from *board.Square, traveller board.Unit) []*board.Square {
	if from == nil {
		return nil
	}

	visited := mapset.New[*board.Square]()
	visited.Put(from)
	out := []*board.Square{from}

	for i := 0; i < len(out); i++ {
		for _, d := range board.Directions {
			next := out[i].Neighbour(d)
			if visited.Has(next) {
				continue
			}
			if traveller != nil && !next.IsAccessibleTo(traveller) {
				continue
			}
			visited.Put(next)
			out = append(out, next)
		}
	}
	return out
}
