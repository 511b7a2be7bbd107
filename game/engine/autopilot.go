package engine

import (
	"github.com/wricardo/ghostmaze/game/board"
	"github.com/wricardo/ghostmaze/game/level"
	"github.com/wricardo/ghostmaze/game/navigation"
)

// Autopilot picks the next move for p: the first step of a shortest path to
// the nearest reachable pellet. When that step lands on or next to a ghost,
// another step that does not is preferred. ok is false when p cannot move.
func Autopilot(lvl *level.Level, p *level.Player) (d board.Direction, ok bool) {
	lvl.Inspect(func(*board.Board) {
		d, ok = planMove(p)
	})
	return d, ok
}

func planMove(p *level.Player) (board.Direction, bool) {
	from := p.Square()
	if from == nil {
		return 0, false
	}

	_, path := navigation.PathToNearest(board.KindPellet, from, p)
	if len(path) > 0 && !threatened(from.Neighbour(path[0])) {
		return path[0], true
	}

	for _, d := range board.Directions {
		next := from.Neighbour(d)
		if next.IsAccessibleTo(p) && !threatened(next) {
			return d, true
		}
	}
	if len(path) > 0 {
		return path[0], true
	}
	return 0, false
}

// threatened reports whether a ghost is on the square or one step away
func threatened(sq *board.Square) bool {
	if navigation.FindUnit(board.KindGhost, sq) != nil {
		return true
	}
	for _, d := range board.Directions {
		if navigation.FindUnit(board.KindGhost, sq.Neighbour(d)) != nil {
			return true
		}
	}
	return false
}

// AutoMove lets the autopilot move the engine's player. It returns the
// direction taken and whether the player changed square.
func (e *GameEngine) AutoMove() (string, bool) {
	lvl, player := e.current()
	d, ok := Autopilot(lvl, player)
	if !ok {
		return "", false
	}
	return d.String(), e.MovePlayer(player, d)
}
