package level

import (
	"sync"

	"github.com/wricardo/ghostmaze/game/board"
	"github.com/wricardo/ghostmaze/game/collision"
	"github.com/wricardo/ghostmaze/game/npc"
)

// ghostCycle is the order in which CreateGhost hands out ghost kinds
var ghostCycle = []board.Kind{board.KindBlinky, board.KindInky, board.KindPinky, board.KindClyde}

// Factory creates levels and the units that populate them
type Factory struct {
	ghosts      *npc.Factory
	pelletValue int
	collisions  CollisionMode
	wrap        func(collision.Resolver) collision.Resolver
	opts        []Option

	mu        sync.Mutex
	nextGhost int
}

// NewFactory creates a level factory. A nil ghost factory uses default
// timings, a non-positive pellet value uses PelletValue.
func NewFactory(ghosts *npc.Factory, pelletValue int, collisions CollisionMode, opts ...Option) *Factory {
	if ghosts == nil {
		ghosts = npc.NewFactory(nil)
	}
	if pelletValue <= 0 {
		pelletValue = PelletValue
	}
	if collisions == "" {
		collisions = CollisionsInteractionMap
	}
	return &Factory{
		ghosts:      ghosts,
		pelletValue: pelletValue,
		collisions:  collisions,
		opts:        opts,
	}
}

// WrapCollisions makes every level created from now on resolve collisions
// through wrap(mode resolver). It returns f.
func (f *Factory) WrapCollisions(wrap func(collision.Resolver) collision.Resolver) *Factory {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wrap = wrap
	return f
}

// CreateLevel builds a stopped level
func (f *Factory) CreateLevel(b *board.Board, ghosts []*npc.Ghost, startSquares []*board.Square) (*Level, error) {
	f.mu.Lock()
	wrap := f.wrap
	f.mu.Unlock()

	resolver := f.collisions.Resolver()
	if wrap != nil {
		resolver = wrap(resolver)
	}
	return New(b, ghosts, startSquares, resolver, f.opts...)
}

// CreateGhost returns the next ghost of the Blinky, Inky, Pinky, Clyde cycle
func (f *Factory) CreateGhost() (*npc.Ghost, error) {
	f.mu.Lock()
	kind := ghostCycle[f.nextGhost]
	f.nextGhost = (f.nextGhost + 1) % len(ghostCycle)
	f.mu.Unlock()
	return f.ghosts.Create(kind)
}

// CreateGhostOfKind returns a ghost of the given kind
func (f *Factory) CreateGhostOfKind(kind board.Kind) (*npc.Ghost, error) {
	return f.ghosts.Create(kind)
}

// CreatePellet returns a pellet worth the factory's pellet value
func (f *Factory) CreatePellet() (*Pellet, error) {
	return NewPellet(f.pelletValue)
}

// CreatePlayer returns a new player
func (f *Factory) CreatePlayer(name string) *Player {
	return NewPlayer(name)
}
