package level

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wricardo/ghostmaze/game/board"
	"github.com/wricardo/ghostmaze/game/npc"
)

// timings gives every ghost kind the same interval and no jitter
func timings(interval time.Duration) map[board.Kind]npc.Timing {
	out := make(map[board.Kind]npc.Timing)
	for kind := range npc.DefaultTimings {
		out[kind] = npc.Timing{MoveInterval: interval}
	}
	return out
}

// idleFactory builds ghosts that never fire during a test
func idleFactory() *Factory {
	return NewFactory(npc.NewFactory(timings(time.Hour)), PelletValue, CollisionsInteractionMap)
}

func parse(t *testing.T, f *Factory, rows ...string) *Level {
	t.Helper()
	lvl, err := NewMapParser(f).ParseRows(rows)
	require.NoError(t, err)
	return lvl
}

func withPlayer(t *testing.T, lvl *Level) *Player {
	t.Helper()
	p := NewPlayer("test")
	require.NoError(t, lvl.RegisterPlayer(p))
	return p
}

type observer struct {
	won   atomic.Int32
	lost  atomic.Int32
	moves atomic.Int64

	mu        sync.Mutex
	onOutcome func()
}

func (o *observer) LevelWon() {
	o.won.Add(1)
	o.fire()
}

func (o *observer) LevelLost() {
	o.lost.Add(1)
	o.fire()
}

func (o *observer) UnitMoved(board.Unit, board.Direction) {
	o.moves.Add(1)
}

func (o *observer) fire() {
	o.mu.Lock()
	fn := o.onOutcome
	o.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func countKind(b *board.Board, kind board.Kind) int {
	n := 0
	for _, u := range b.Units() {
		if u.Kind().Is(kind) {
			n++
		}
	}
	return n
}
