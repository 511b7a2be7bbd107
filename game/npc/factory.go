package npc

import (
	"fmt"
	"maps"
	"time"

	"github.com/wricardo/ghostmaze/game/board"
)

// DefaultTimings holds the standard movement timing of each ghost kind
var DefaultTimings = map[board.Kind]Timing{
	board.KindBlinky:   {MoveInterval: 250 * time.Millisecond, Variation: 50 * time.Millisecond},
	board.KindPinky:    {MoveInterval: 200 * time.Millisecond, Variation: 50 * time.Millisecond},
	board.KindInky:     {MoveInterval: 250 * time.Millisecond, Variation: 50 * time.Millisecond},
	board.KindClyde:    {MoveInterval: 250 * time.Millisecond, Variation: 50 * time.Millisecond},
	board.KindWanderer: {MoveInterval: 175 * time.Millisecond},
}

// Factory creates ghosts with their standard policy and configured timing
type Factory struct {
	timings map[board.Kind]Timing
}

// NewFactory creates a ghost factory. Timings in overrides replace the
// defaults for their kind.
func NewFactory(overrides map[board.Kind]Timing) *Factory {
	timings := maps.Clone(DefaultTimings)
	maps.Copy(timings, overrides)
	return &Factory{timings: timings}
}

// Timing returns the timing used for kind
func (f *Factory) Timing(kind board.Kind) Timing {
	return f.timings[kind]
}

// Create builds an unplaced ghost of the given kind
func (f *Factory) Create(kind board.Kind) (*Ghost, error) {
	timing, ok := f.timings[kind]
	if !ok {
		return nil, fmt.Errorf("no timing configured for %s", kind)
	}
	return NewGhost(kind, PolicyFor(kind), timing)
}
