// Package collision dispatches interactions between units that meet on a
// square.
//
// Handlers are registered per ordered pair of kinds. Lookup walks the
// collider's lineage and, for each step, the collidee's lineage, most
// specific first, so a handler registered for (Player, Ghost) also fires for
// a player meeting Blinky unless a (Player, Blinky) handler exists. Pairs
// without a handler do nothing.
package collision

import (
	"sync"

	"github.com/wricardo/ghostmaze/game/board"
)

// Handler reacts to collider moving onto a square held by collidee
type Handler func(collider, collidee board.Unit)

// Resolver resolves a single collision
type Resolver interface {
	Collide(collider, collidee board.Unit)
}

// ResolverFunc adapts a function to the Resolver interface
type ResolverFunc func(collider, collidee board.Unit)

// Collide calls f(collider, collidee)
func (f ResolverFunc) Collide(collider, collidee board.Unit) {
	f(collider, collidee)
}

// InteractionMap is a Resolver backed by a kind-pair handler table
type InteractionMap struct {
	mu       sync.RWMutex
	handlers map[board.Kind]map[board.Kind]Handler
}

// NewInteractionMap creates an empty interaction map
func NewInteractionMap() *InteractionMap {
	return &InteractionMap{
		handlers: make(map[board.Kind]map[board.Kind]Handler),
	}
}

// OnCollision registers h for (collider, collidee) and the mirrored pair.
// The mirrored handler swaps its arguments before calling h.
func (m *InteractionMap) OnCollision(collider, collidee board.Kind, h Handler) {
	m.OnCollisionWith(collider, collidee, true, h)
}

// OnCollisionWith registers h for (collider, collidee), and for the mirrored
// pair when symmetric is set. A later registration replaces an earlier one.
func (m *InteractionMap) OnCollisionWith(collider, collidee board.Kind, symmetric bool, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.add(collider, collidee, h)
	if symmetric {
		m.add(collidee, collider, func(a, b board.Unit) { h(b, a) })
	}
}

func (m *InteractionMap) add(collider, collidee board.Kind, h Handler) {
	inner, ok := m.handlers[collider]
	if !ok {
		inner = make(map[board.Kind]Handler)
		m.handlers[collider] = inner
	}
	inner[collidee] = h
}

// Lookup returns the most specific handler for the kind pair
func (m *InteractionMap) Lookup(collider, collidee board.Kind) (Handler, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range collider.Lineage() {
		inner, ok := m.handlers[c]
		if !ok {
			continue
		}
		for _, d := range collidee.Lineage() {
			if h, ok := inner[d]; ok {
				return h, true
			}
		}
	}
	return nil, false
}

// Collide runs the matching handler, if any
func (m *InteractionMap) Collide(collider, collidee board.Unit) {
	if h, ok := m.Lookup(collider.Kind(), collidee.Kind()); ok {
		h(collider, collidee)
	}
}

// Typed wraps a handler over concrete unit types. Units of other types
// are ignored.
func Typed[C1, C2 board.Unit](fn func(collider C1, collidee C2)) Handler {
	return func(collider, collidee board.Unit) {
		c1, ok := collider.(C1)
		if !ok {
			return
		}
		c2, ok := collidee.(C2)
		if !ok {
			return
		}
		fn(c1, c2)
	}
}
