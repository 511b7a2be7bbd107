package level

import (
	"github.com/wricardo/ghostmaze/game/board"
	"github.com/wricardo/ghostmaze/game/collision"
	"github.com/wricardo/ghostmaze/game/npc"
)

// PlayerVersusGhost kills the player
func PlayerVersusGhost(p *Player, _ *npc.Ghost) {
	p.SetAlive(false)
}

// PlayerVersusPellet takes the pellet off the board and credits its value
func PlayerVersusPellet(p *Player, pellet *Pellet) {
	board.Leave(pellet)
	p.AddPoints(pellet.Value())
}

// DefaultInteractions returns an interaction map with the built-in rules
// registered symmetrically.
func DefaultInteractions() *collision.InteractionMap {
	m := collision.NewInteractionMap()
	m.OnCollision(board.KindPlayer, board.KindGhost, collision.Typed(PlayerVersusGhost))
	m.OnCollision(board.KindPlayer, board.KindPellet, collision.Typed(PlayerVersusPellet))
	return m
}

// PlayerCollisions applies the built-in rules with a single match over the
// concrete types of both units.
type PlayerCollisions struct{}

// Collide implements collision.Resolver
func (PlayerCollisions) Collide(collider, collidee board.Unit) {
	switch mover := collider.(type) {
	case *Player:
		switch other := collidee.(type) {
		case *npc.Ghost:
			PlayerVersusGhost(mover, other)
		case *Pellet:
			PlayerVersusPellet(mover, other)
		}
	case *npc.Ghost:
		if other, ok := collidee.(*Player); ok {
			PlayerVersusGhost(other, mover)
		}
	case *Pellet:
		if other, ok := collidee.(*Player); ok {
			PlayerVersusPellet(other, mover)
		}
	}
}

// CollisionMode selects the resolver a level uses
type CollisionMode string

const (
	// CollisionsInteractionMap resolves through DefaultInteractions
	CollisionsInteractionMap CollisionMode = "interaction_map"
	// CollisionsSwitch resolves through PlayerCollisions
	CollisionsSwitch CollisionMode = "switch"
)

// Resolver returns a fresh resolver for the mode. Unknown modes fall back
// to the interaction map.
func (m CollisionMode) Resolver() collision.Resolver {
	if m == CollisionsSwitch {
		return PlayerCollisions{}
	}
	return DefaultInteractions()
}
