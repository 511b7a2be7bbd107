package npc

import (
	"github.com/wricardo/ghostmaze/game/board"
	"github.com/wricardo/ghostmaze/game/navigation"
)

const (
	// FlankAhead is how far ahead of the player a flanking ghost aims
	FlankAhead = 4
	// AmbushAhead is how far ahead of the player an ambushing ghost projects
	AmbushAhead = 2
	// ShyThreshold is the path length at or below which a shy ghost flees
	ShyThreshold = 8
)

func firstStep(path []board.Direction, ok bool) (board.Direction, bool) {
	if !ok || len(path) == 0 {
		return 0, false
	}
	return path[0], true
}

// Chase heads straight for the nearest player
type Chase struct{}

// NextMove implements Policy
func (Chase) NextMove(g *Ghost) (board.Direction, bool) {
	player := navigation.FindNearest(board.KindPlayer, g.Square())
	if player == nil {
		return 0, false
	}
	return firstStep(navigation.ShortestPath(g.Square(), player.Square(), g))
}

// Flank aims a fixed number of squares ahead of the nearest player
type Flank struct {
	Ahead int
}

// NextMove implements Policy
func (f Flank) NextMove(g *Ghost) (board.Direction, bool) {
	player := navigation.FindNearest(board.KindPlayer, g.Square())
	if player == nil {
		return 0, false
	}
	target := navigation.SquaresAheadOf(player, f.Ahead)
	return firstStep(navigation.ShortestPath(g.Square(), target, g))
}

// Ambush projects a point ahead of the nearest player, then aims at the
// far side of that point as seen from the nearest partner ghost: the
// partner's path to the point is replayed from the point with every step
// doubled. The projection and the partner leg ignore terrain, so the target
// may lie behind walls.
type Ambush struct {
	Ahead   int
	Partner board.Kind
}

// NextMove implements Policy
func (a Ambush) NextMove(g *Ghost) (board.Direction, bool) {
	partner := navigation.FindNearest(a.Partner, g.Square())
	player := navigation.FindNearest(board.KindPlayer, g.Square())
	if partner == nil || player == nil {
		return 0, false
	}

	projected := navigation.SquaresAheadOf(player, a.Ahead)
	firstHalf, ok := navigation.ShortestPath(partner.Square(), projected, nil)
	if !ok {
		return 0, false
	}
	target := navigation.FollowPath(projected, firstHalf, 2)
	return firstStep(navigation.ShortestPath(g.Square(), target, g))
}

// Shy approaches the nearest player until it gets within Threshold steps,
// then turns away.
type Shy struct {
	Threshold int
}

// NextMove implements Policy
func (s Shy) NextMove(g *Ghost) (board.Direction, bool) {
	player := navigation.FindNearest(board.KindPlayer, g.Square())
	if player == nil {
		return 0, false
	}
	path, ok := navigation.ShortestPath(g.Square(), player.Square(), g)
	d, ok := firstStep(path, ok)
	if !ok {
		return 0, false
	}
	if len(path) <= s.Threshold {
		return d.Opposite(), true
	}
	return d, true
}

// Wander never has a preference, leaving every move to chance
type Wander struct{}

// NextMove implements Policy
func (Wander) NextMove(*Ghost) (board.Direction, bool) {
	return 0, false
}

// PolicyFor returns the standard policy of a ghost kind
func PolicyFor(kind board.Kind) Policy {
	switch kind {
	case board.KindBlinky:
		return Chase{}
	case board.KindPinky:
		return Flank{Ahead: FlankAhead}
	case board.KindInky:
		return Ambush{Ahead: AmbushAhead, Partner: board.KindBlinky}
	case board.KindClyde:
		return Shy{Threshold: ShyThreshold}
	default:
		return Wander{}
	}
}
