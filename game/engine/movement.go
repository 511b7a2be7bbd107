package engine

import (
	"fmt"
	"time"

	"github.com/wricardo/ghostmaze/game/board"
	"github.com/wricardo/ghostmaze/game/level"
	"github.com/wricardo/ghostmaze/observability"
)

// Move moves the engine's player one square. Accepts the spellings of
// board.ParseDirection.
func (e *GameEngine) Move(direction string) bool {
	d, err := board.ParseDirection(direction)
	if err != nil {
		e.setMessage(fmt.Sprintf("Invalid direction %q. Use up, down, left or right.", direction))
		return false
	}
	return e.MovePlayer(e.Player(), d)
}

// MovePlayer moves p one square in direction d and records the attempt.
// It returns whether p changed square.
func (e *GameEngine) MovePlayer(p *level.Player, d board.Direction) bool {
	lvl, _ := e.current()

	if !e.IsInProgress() {
		switch {
		case e.IsGameOver():
			// keep the victory or defeat message
		case e.config.Messages.NotStarted != "":
			e.setMessage(e.config.Messages.NotStarted)
		default:
			e.setMessage(DefaultMessages().NotStarted)
		}
		e.addMoveToHistory(d.String(), positionOf(p), positionOf(p), p.Score(), false)
		return false
	}

	from := positionOf(p)
	before := p.Score()
	moved := lvl.Move(p, d)
	after := p.Score()
	observability.RecordMove(board.KindPlayer.String(), moved)

	// a deciding move has already set the outcome message
	if !e.IsGameOver() {
		switch {
		case moved && after > before && e.config.Messages.PelletEaten != "":
			e.setMessage(fmt.Sprintf(e.config.Messages.PelletEaten, after))
		case moved:
			e.setMessage(fmt.Sprintf("Moved %s. Score: %d", d, after))
		case e.config.Messages.Blocked != "":
			e.setMessage(e.config.Messages.Blocked)
		default:
			e.setMessage(DefaultMessages().Blocked)
		}
	}

	e.addMoveToHistory(d.String(), from, positionOf(p), after, moved)
	e.notify(EventMove)
	return moved
}

// CanMove checks whether the player could step in the given direction
func (e *GameEngine) CanMove(direction string) bool {
	d, err := board.ParseDirection(direction)
	if err != nil {
		return false
	}
	lvl, player := e.current()
	can := false
	lvl.Inspect(func(*board.Board) {
		can = canStep(player, d)
	})
	return can
}

// GetPossibleMoves returns the directions the player can currently take.
// It is empty once the game is over.
func (e *GameEngine) GetPossibleMoves() []string {
	if e.IsGameOver() {
		return []string{}
	}
	lvl, player := e.current()
	moves := []string{}
	lvl.Inspect(func(*board.Board) {
		for _, d := range board.Directions {
			if canStep(player, d) {
				moves = append(moves, d.String())
			}
		}
	})
	return moves
}

func canStep(u board.Unit, d board.Direction) bool {
	sq := u.Square()
	return sq != nil && sq.Neighbour(d).IsAccessibleTo(u)
}

// addMoveToHistory appends a move to both the cumulative and the current history
func (e *GameEngine) addMoveToHistory(action string, from, to Position, score int, success bool) {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()

	entry := MoveHistoryEntry{
		Action:       action,
		FromPosition: from,
		ToPosition:   to,
		Score:        score,
		Timestamp:    time.Now().Unix(),
		Success:      success,
		MoveNumber:   len(e.moveHistory) + 1,
	}
	e.moveHistory = append(e.moveHistory, entry)
	e.currentMoves = append(e.currentMoves, entry)
}
