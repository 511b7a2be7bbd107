package level

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wricardo/ghostmaze/game/board"
	"github.com/wricardo/ghostmaze/game/npc"
)

// moveRequest is a ghost's decision, applied by the dispatcher
type moveRequest struct {
	ghost     *npc.Ghost
	direction board.Direction
}

// task is the scheduling handle of one ghost during a run
type task struct {
	ghost *npc.Ghost
	ticks atomic.Int64
}

// run holds the goroutines of one Running period. All of them share ctx;
// cancelling it ends the run.
type run struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	moves  chan moveRequest
}

func newRun() *run {
	ctx, cancel := context.WithCancel(context.Background())
	return &run{
		ctx:    ctx,
		cancel: cancel,
		moves:  make(chan moveRequest),
	}
}

func (r *run) wait() {
	r.wg.Wait()
}

// spawn starts the recurring movement task of g. The first firing comes
// after half an interval so ghosts do not move in lockstep.
func (r *run) spawn(g *npc.Ghost) *task {
	t := &task{ghost: g}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		timer := time.NewTimer(g.Interval() / 2)
		defer timer.Stop()

		for {
			select {
			case <-r.ctx.Done():
				return
			case <-timer.C:
			}

			if d, ok := g.NextMove(); ok {
				select {
				case r.moves <- moveRequest{ghost: g, direction: d}:
				case <-r.ctx.Done():
					return
				}
			}
			t.ticks.Add(1)

			if r.ctx.Err() != nil {
				return
			}
			timer.Reset(g.Interval())
		}
	}()
	return t
}

// startDispatcher applies ghost moves in arrival order until the run ends
func (r *run) startDispatcher(l *Level) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-r.ctx.Done():
				return
			case req := <-r.moves:
				l.Move(req.ghost, req.direction)
			}
		}
	}()
}
