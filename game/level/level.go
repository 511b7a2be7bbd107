package level

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/wricardo/ghostmaze/game/board"
	"github.com/wricardo/ghostmaze/game/collision"
	"github.com/wricardo/ghostmaze/game/npc"
)

var (
	// ErrMapConfig marks a malformed or inconsistent map
	ErrMapConfig = errors.New("invalid map configuration")
	// ErrNoStartSquare is returned when a level has nowhere to put players
	ErrNoStartSquare = errors.New("no start squares")
)

// Observer is told when a level is won or lost. Callbacks run on the
// goroutine that made the deciding move, after the move lock is released.
// They must not call Move.
type Observer interface {
	LevelWon()
	LevelLost()
}

// MoveObserver is optionally implemented by observers that want to hear
// about every successful move.
type MoveObserver interface {
	UnitMoved(u board.Unit, d board.Direction)
}

type outcome int

const (
	outcomeNone outcome = iota
	outcomeWon
	outcomeLost
)

// Option configures a Level
type Option func(*Level)

// WithLogger sets the logger used for lifecycle events
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Level) {
		l.logger = logger
	}
}

// WithCollisions replaces the collision resolver given to New
func WithCollisions(r collision.Resolver) Option {
	return func(l *Level) {
		if r != nil {
			l.collisions = r
		}
	}
}

// Level owns a board, its players and ghosts, and drives the ghosts while
// running. Moves are serialized by one lock; start and stop by another.
type Level struct {
	board      *board.Board
	collisions collision.Resolver
	logger     zerolog.Logger

	// moveMu serializes every mutation of occupant lists
	moveMu sync.Mutex

	playersMu    sync.RWMutex
	players      []*Player
	startSquares []*board.Square
	startIndex   int

	// lifeMu serializes Start and Stop; it guards roster handles and run
	lifeMu  sync.Mutex
	ghosts  []*npc.Ghost
	roster  map[*npc.Ghost]*task
	run     *run
	current atomic.Pointer[run]
	running atomic.Bool

	observersMu sync.RWMutex
	observers   []Observer
}

// New creates a stopped level. Ghosts are expected to be placed already.
// At least one start square is required.
func New(b *board.Board, ghosts []*npc.Ghost, startSquares []*board.Square, collisions collision.Resolver, opts ...Option) (*Level, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: no board", ErrMapConfig)
	}
	if len(startSquares) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrMapConfig, ErrNoStartSquare)
	}
	for _, sq := range startSquares {
		if sq == nil {
			return nil, fmt.Errorf("%w: nil start square", ErrMapConfig)
		}
	}
	if collisions == nil {
		collisions = DefaultInteractions()
	}

	l := &Level{
		board:        b,
		collisions:   collisions,
		logger:       zerolog.Nop(),
		startSquares: slices.Clone(startSquares),
		ghosts:       slices.Clone(ghosts),
		roster:       make(map[*npc.Ghost]*task, len(ghosts)),
	}
	for _, g := range ghosts {
		l.roster[g] = nil
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Board returns the level's board
func (l *Level) Board() *board.Board { return l.board }

// Ghosts returns the ghost roster in creation order
func (l *Level) Ghosts() []*npc.Ghost { return slices.Clone(l.ghosts) }

// Players returns the registered players in registration order
func (l *Level) Players() []*Player {
	l.playersMu.RLock()
	defer l.playersMu.RUnlock()
	return slices.Clone(l.players)
}

// AddObserver registers o for win/loss notifications. Adding the same
// observer twice has no effect.
func (l *Level) AddObserver(o Observer) {
	l.observersMu.Lock()
	defer l.observersMu.Unlock()
	if !slices.Contains(l.observers, o) {
		l.observers = append(l.observers, o)
	}
}

// RemoveObserver unregisters o
func (l *Level) RemoveObserver(o Observer) {
	l.observersMu.Lock()
	defer l.observersMu.Unlock()
	l.observers = slices.DeleteFunc(l.observers, func(x Observer) bool { return x == o })
}

// RegisterPlayer places p on the next start square, cycling through the
// start squares. Registering a player twice has no effect.
func (l *Level) RegisterPlayer(p *Player) error {
	l.moveMu.Lock()
	defer l.moveMu.Unlock()
	l.playersMu.Lock()
	defer l.playersMu.Unlock()

	if slices.Contains(l.players, p) {
		return nil
	}
	sq := l.startSquares[l.startIndex]
	if err := board.Occupy(p, sq); err != nil {
		return fmt.Errorf("%w: start square %s: %w", ErrMapConfig, sq, err)
	}
	l.players = append(l.players, p)
	l.startIndex = (l.startIndex + 1) % len(l.startSquares)
	return nil
}

// IsInProgress reports whether the level is running
func (l *Level) IsInProgress() bool {
	return l.running.Load()
}

// Scheduled reports whether g currently has a movement task. A level
// halted by a win or loss schedules nothing, even before Stop is called.
func (l *Level) Scheduled(g *npc.Ghost) bool {
	l.lifeMu.Lock()
	defer l.lifeMu.Unlock()
	return l.running.Load() && l.roster[g] != nil
}

// GhostTicks returns how many times g's task has fired in the current run
func (l *Level) GhostTicks(g *npc.Ghost) int64 {
	l.lifeMu.Lock()
	defer l.lifeMu.Unlock()
	if t := l.roster[g]; t != nil {
		return t.ticks.Load()
	}
	return 0
}

// Start puts the level in motion. It does nothing when the level is
// already running, when no player is alive, or when no pellets remain.
// Start must not be called from an Observer callback.
func (l *Level) Start() {
	l.lifeMu.Lock()
	defer l.lifeMu.Unlock()

	if l.running.Load() {
		return
	}
	if !l.IsAnyPlayerAlive() || l.RemainingPellets() == 0 {
		l.logger.Debug().Msg("level start ignored: nothing to play for")
		return
	}
	// a run halted by a win or loss may still be winding down
	if l.run != nil {
		l.run.wait()
		l.run = nil
	}

	r := newRun()
	l.run = r
	l.current.Store(r)
	l.running.Store(true)
	for _, g := range l.ghosts {
		l.roster[g] = r.spawn(g)
	}
	r.startDispatcher(l)

	l.logger.Info().Int("ghosts", len(l.ghosts)).Msg("level started")
}

// Stop halts the level. Ghost tasks are cancelled and, if the level was
// running, Stop waits for them and for any move in flight. Stopping a
// stopped level does nothing.
func (l *Level) Stop() {
	l.lifeMu.Lock()
	defer l.lifeMu.Unlock()

	r := l.run
	if r == nil {
		return
	}
	wasRunning := l.running.Swap(false)
	r.cancel()
	for g := range l.roster {
		l.roster[g] = nil
	}
	if !wasRunning {
		// halted by a win or loss, possibly from inside the dispatcher;
		// Start waits for the leftovers
		return
	}

	r.wait()
	l.run = nil
	l.drainMoves()
	l.logger.Info().Msg("level stopped")
}

// drainMoves waits for a move that passed the running check before Stop
// cleared the flag.
func (l *Level) drainMoves() {
	l.moveMu.Lock()
	defer l.moveMu.Unlock()
}

// Move moves u one square in direction d and resolves collisions with the
// units already there. Returns whether u changed square. Nothing happens
// unless the level is running and u is on the board.
func (l *Level) Move(u board.Unit, d board.Direction) bool {
	if !d.Valid() || !u.HasSquare() || !l.running.Load() {
		return false
	}
	moved, result := l.move(u, d)
	if moved {
		l.notifyMove(u, d)
	}
	l.notifyOutcome(result)
	return moved
}

func (l *Level) move(u board.Unit, d board.Direction) (bool, outcome) {
	l.moveMu.Lock()
	defer l.moveMu.Unlock()

	if !l.running.Load() {
		return false, outcomeNone
	}
	from := u.Square()
	if from == nil {
		return false, outcomeNone
	}

	u.SetDirection(d)
	target := from.Neighbour(d)
	moved := false
	if target.IsAccessibleTo(u) {
		occupants := target.Occupants()
		if err := board.Occupy(u, target); err == nil {
			moved = true
			for _, other := range occupants {
				l.collisions.Collide(u, other)
			}
		}
	}
	return moved, l.evaluate()
}

// evaluate checks for a win or loss and halts the level on either.
// Callers hold moveMu.
func (l *Level) evaluate() outcome {
	result := outcomeNone
	switch {
	case !l.IsAnyPlayerAlive():
		result = outcomeLost
	case l.RemainingPellets() == 0:
		result = outcomeWon
	default:
		return outcomeNone
	}
	// only the move that flips the flag reports the outcome
	if !l.running.CompareAndSwap(true, false) {
		return outcomeNone
	}
	if r := l.current.Load(); r != nil {
		r.cancel()
	}
	return result
}

func (l *Level) snapshotObservers() []Observer {
	l.observersMu.RLock()
	defer l.observersMu.RUnlock()
	return slices.Clone(l.observers)
}

func (l *Level) notifyMove(u board.Unit, d board.Direction) {
	for _, o := range l.snapshotObservers() {
		if mo, ok := o.(MoveObserver); ok {
			mo.UnitMoved(u, d)
		}
	}
}

func (l *Level) notifyOutcome(result outcome) {
	switch result {
	case outcomeWon:
		l.logger.Info().Str("outcome", "won").Msg("level finished")
		for _, o := range l.snapshotObservers() {
			o.LevelWon()
		}
	case outcomeLost:
		l.logger.Info().Str("outcome", "lost").Msg("level finished")
		for _, o := range l.snapshotObservers() {
			o.LevelLost()
		}
	}
}

// IsAnyPlayerAlive reports whether at least one registered player lives
func (l *Level) IsAnyPlayerAlive() bool {
	l.playersMu.RLock()
	defer l.playersMu.RUnlock()
	for _, p := range l.players {
		if p.IsAlive() {
			return true
		}
	}
	return false
}

// RemainingPellets counts the pellets still on the board
func (l *Level) RemainingPellets() int {
	n := 0
	for _, sq := range l.board.Squares() {
		for _, u := range sq.Occupants() {
			if u.Kind().Is(board.KindPellet) {
				n++
			}
		}
	}
	return n
}

// Inspect runs fn while holding the move lock, so the board cannot change
// underneath it. fn must not call Move or RegisterPlayer.
func (l *Level) Inspect(fn func(b *board.Board)) {
	l.moveMu.Lock()
	defer l.moveMu.Unlock()
	fn(l.board)
}
