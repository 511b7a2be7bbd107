// Package npc implements the ghosts and their movement policies.
//
// A ghost asks its Policy for a preferred direction. When the policy has no
// preference the ghost picks uniformly among the neighbouring squares it may
// enter, and stays put when there are none. Policies only read the board;
// the level applies their result inside its move critical section.
package npc

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/wricardo/ghostmaze/game/board"
)

// Policy chooses a ghost's preferred next direction
type Policy interface {
	NextMove(g *Ghost) (board.Direction, bool)
}

// PolicyFunc adapts a function to the Policy interface
type PolicyFunc func(g *Ghost) (board.Direction, bool)

// NextMove calls f(g)
func (f PolicyFunc) NextMove(g *Ghost) (board.Direction, bool) {
	return f(g)
}

// Timing controls how often a ghost moves
type Timing struct {
	// MoveInterval is the base delay between two moves
	MoveInterval time.Duration `json:"move_interval"`
	// Variation bounds the random jitter added to every delay
	Variation time.Duration `json:"variation"`
}

// Ghost is an autonomous unit driven by a Policy
type Ghost struct {
	*board.Base
	policy Policy
	timing Timing
}

// NewGhost creates an unplaced ghost. kind must be a ghost kind.
func NewGhost(kind board.Kind, policy Policy, timing Timing) (*Ghost, error) {
	if !kind.IsGhost() {
		return nil, fmt.Errorf("%s is not a ghost kind", kind)
	}
	if timing.MoveInterval <= 0 {
		return nil, fmt.Errorf("%s: move interval must be positive", kind)
	}
	if timing.Variation < 0 {
		return nil, fmt.Errorf("%s: interval variation must not be negative", kind)
	}
	if policy == nil {
		policy = Wander{}
	}
	return &Ghost{
		Base:   board.NewBase(kind),
		policy: policy,
		timing: timing,
	}, nil
}

// Timing returns the ghost's movement timing
func (g *Ghost) Timing() Timing {
	return g.timing
}

// Interval returns the delay before the ghost's next move: the base
// interval plus a uniform jitter in [0, Variation).
func (g *Ghost) Interval() time.Duration {
	if g.timing.Variation <= 0 {
		return g.timing.MoveInterval
	}
	return g.timing.MoveInterval + rand.N(g.timing.Variation)
}

// NextAIMove returns the policy's preferred direction, if any
func (g *Ghost) NextAIMove() (board.Direction, bool) {
	if !g.HasSquare() {
		return 0, false
	}
	return g.policy.NextMove(g)
}

// NextMove returns the preferred direction or a random accessible one.
// ok is false when the ghost is boxed in or unplaced.
func (g *Ghost) NextMove() (board.Direction, bool) {
	if d, ok := g.NextAIMove(); ok {
		return d, true
	}
	return g.RandomMove()
}

// RandomMove picks uniformly among the directions the ghost may move in
func (g *Ghost) RandomMove() (board.Direction, bool) {
	sq := g.Square()
	if sq == nil {
		return 0, false
	}
	var options []board.Direction
	for _, d := range board.Directions {
		if sq.Neighbour(d).IsAccessibleTo(g) {
			options = append(options, d)
		}
	}
	if len(options) == 0 {
		return 0, false
	}
	return options[rand.IntN(len(options))], true
}
