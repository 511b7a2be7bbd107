package engine

import (
	"strings"

	"github.com/wricardo/ghostmaze/game/board"
	"github.com/wricardo/ghostmaze/game/level"
)

var ghostSymbols = map[board.Kind]rune{
	board.KindBlinky:   level.CharBlinky,
	board.KindPinky:    level.CharPinky,
	board.KindInky:     level.CharInky,
	board.KindClyde:    level.CharClyde,
	board.KindWanderer: level.CharWanderer,
}

// SymbolFor returns the character drawn for a square: a player, then a
// ghost, then a pellet, then the terrain.
func SymbolFor(sq *board.Square) rune {
	var ghost, pellet rune
	for _, u := range sq.Occupants() {
		switch {
		case u.Kind().Is(board.KindPlayer):
			if p, ok := u.(*level.Player); ok && !p.IsAlive() {
				return SymbolDeadPlayer
			}
			return SymbolPlayer
		case u.Kind().IsGhost():
			if ghost == 0 {
				ghost = ghostSymbols[u.Kind()]
				if ghost == 0 {
					ghost = level.CharGhost
				}
			}
		case u.Kind().Is(board.KindPellet):
			pellet = SymbolPellet
		}
	}
	if ghost != 0 {
		return ghost
	}
	if pellet != 0 {
		return pellet
	}
	return sq.Terrain().Symbol()
}

// renderGrid draws the board row by row and counts the pellets on it
func renderGrid(b *board.Board) ([]string, int) {
	rows := make([]string, b.Height())
	pellets := 0
	for y := 0; y < b.Height(); y++ {
		var sb strings.Builder
		for x := 0; x < b.Width(); x++ {
			sq := b.SquareAt(x, y)
			sb.WriteRune(SymbolFor(sq))
			for _, u := range sq.Occupants() {
				if u.Kind().Is(board.KindPellet) {
					pellets++
				}
			}
		}
		rows[y] = sb.String()
	}
	return rows, pellets
}

func positionOf(u board.Unit) Position {
	sq := u.Square()
	if sq == nil {
		return Position{X: -1, Y: -1}
	}
	return Position{X: sq.X(), Y: sq.Y()}
}

func ghostStates(lvl *level.Level) []UnitState {
	ghosts := lvl.Ghosts()
	states := make([]UnitState, 0, len(ghosts))
	for _, g := range ghosts {
		states = append(states, UnitState{
			ID:        g.ID().String(),
			Kind:      g.Kind().String(),
			Position:  positionOf(g),
			Direction: g.Direction().String(),
		})
	}
	return states
}

// surroundingOffsets lists the 8 neighbours in reading order
var surroundingOffsets = [][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// squareOffset walks dx, dy from sq, wrapping at the edges
func squareOffset(sq *board.Square, dx, dy int) *board.Square {
	for ; dx < 0; dx++ {
		sq = sq.Neighbour(board.West)
	}
	for ; dx > 0; dx-- {
		sq = sq.Neighbour(board.East)
	}
	for ; dy < 0; dy++ {
		sq = sq.Neighbour(board.North)
	}
	for ; dy > 0; dy-- {
		sq = sq.Neighbour(board.South)
	}
	return sq
}

// localView describes the 8 squares around the unit
func localView(u board.Unit) []SurroundingCell {
	center := u.Square()
	if center == nil {
		return nil
	}
	view := make([]SurroundingCell, 0, len(surroundingOffsets))
	for _, off := range surroundingOffsets {
		sq := squareOffset(center, off[0], off[1])
		cell := SurroundingCell{X: sq.X(), Y: sq.Y(), Terrain: sq.Terrain().Name()}
		for _, occupant := range sq.Occupants() {
			cell.Occupants = append(cell.Occupants, occupant.Kind().String())
		}
		view = append(view, cell)
	}
	return view
}

// localView3x3 draws the 3x3 neighbourhood of the unit
func localView3x3(u board.Unit) []string {
	center := u.Square()
	if center == nil {
		return nil
	}
	rows := make([]string, 0, 3)
	for dy := -1; dy <= 1; dy++ {
		var sb strings.Builder
		for dx := -1; dx <= 1; dx++ {
			sb.WriteRune(SymbolFor(squareOffset(center, dx, dy)))
		}
		rows = append(rows, sb.String())
	}
	return rows
}
