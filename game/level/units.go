package level

import (
	"fmt"
	"sync/atomic"

	"github.com/wricardo/ghostmaze/game/board"
)

// PelletValue is the score of a standard pellet
const PelletValue = 10

// Player is the unit controlled by a user
type Player struct {
	*board.Base
	name  string
	alive atomic.Bool
	score atomic.Int64
}

// NewPlayer creates a living, unplaced player with no points
func NewPlayer(name string) *Player {
	p := &Player{Base: board.NewBase(board.KindPlayer), name: name}
	p.alive.Store(true)
	return p
}

// Name returns the player's display name
func (p *Player) Name() string { return p.name }

// IsAlive reports whether the player is still in the game
func (p *Player) IsAlive() bool { return p.alive.Load() }

// SetAlive marks the player alive or dead
func (p *Player) SetAlive(alive bool) { p.alive.Store(alive) }

// Score returns the points collected so far
func (p *Player) Score() int { return int(p.score.Load()) }

// AddPoints adds to the player's score
func (p *Player) AddPoints(points int) { p.score.Add(int64(points)) }

// Pellet is a collectable worth a fixed number of points
type Pellet struct {
	*board.Base
	value int
}

// NewPellet creates an unplaced pellet. value must be positive.
func NewPellet(value int) (*Pellet, error) {
	if value <= 0 {
		return nil, fmt.Errorf("%w: pellet value must be positive, got %d", ErrMapConfig, value)
	}
	return &Pellet{Base: board.NewBase(board.KindPellet), value: value}, nil
}

// Value returns the points the pellet is worth
func (p *Pellet) Value() int { return p.value }
