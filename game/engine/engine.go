package engine

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/ghostmaze/game/board"
	"github.com/wricardo/ghostmaze/game/collision"
	"github.com/wricardo/ghostmaze/game/level"
	"github.com/wricardo/ghostmaze/observability"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Lifecycle
	Start() bool
	Stop()
	IsInProgress() bool
	Reset() (*GameState, error)

	// Game state
	GetState() *GameState
	IsGameOver() bool
	IsVictory() bool
	GetScore() int
	GetPlayerPosition() Position
	GetRemainingPellets() int

	// Movement operations
	Move(direction string) bool
	CanMove(direction string) bool
	GetPossibleMoves() []string
	AutoMove() (string, bool)

	// Configuration
	GetConfig() *MapConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Local view
	GetLocalView() []SurroundingCell
}

// EventType names what changed in a game
type EventType string

const (
	EventStarted   EventType = "started"
	EventStopped   EventType = "stopped"
	EventMove      EventType = "move"
	EventGhostMove EventType = "ghost_move"
	EventVictory   EventType = "victory"
	EventDefeat    EventType = "defeat"
	EventReset     EventType = "reset"
)

// Listener is told about every change to a game. It runs on the goroutine
// that made the change, including ghost scheduler goroutines, so it must
// return quickly and must not move units.
type Listener func(event EventType)

const (
	outcomeNone int32 = iota
	outcomeWon
	outcomeLost
)

// Option configures a GameEngine
type Option func(*GameEngine)

// WithLogger sets the logger for the engine and its levels
func WithLogger(logger zerolog.Logger) Option {
	return func(e *GameEngine) {
		e.logger = logger
	}
}

// WithPlayerName names the engine's player
func WithPlayerName(name string) Option {
	return func(e *GameEngine) {
		if name != "" {
			e.playerName = name
		}
	}
}

// WithListener registers a listener at construction time
func WithListener(l Listener) Option {
	return func(e *GameEngine) {
		e.listener = l
	}
}

// GameEngine implements the Engine interface. It wraps a level built from a
// MapConfig with a single player and tracks progress, messages and history.
type GameEngine struct {
	config     *MapConfig
	logger     zerolog.Logger
	playerName string

	// progressMu serializes Start, Stop and Reset
	progressMu sync.Mutex
	inProgress atomic.Bool
	outcome    atomic.Int32

	levelMu      sync.RWMutex
	level        *level.Level
	player       *level.Player
	totalPellets int

	historyMu    sync.Mutex
	message      string
	moveHistory  []MoveHistoryEntry
	currentMoves []MoveHistoryEntry

	listenerMu sync.RWMutex
	listener   Listener
}

// NewEngine creates a stopped game engine from the provided configuration
func NewEngine(config *MapConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateMapConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config:     config,
		logger:     log.Logger,
		playerName: "player",
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With().Str("config", config.Name).Logger()

	if err := e.load(); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineWithDefaults creates a game engine on the built-in maze
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	e, err := NewEngine(DefaultMapConfig(), opts...)
	if err != nil {
		panic(fmt.Sprintf("default map config is invalid: %v", err))
	}
	return e
}

// load builds a fresh level and player from the config and makes them current
func (e *GameEngine) load() error {
	parser := newMapParser(e.config, countingResolver, []level.Option{
		level.WithLogger(e.logger),
	})
	lvl, err := parser.ParseRows(e.config.Layout)
	if err != nil {
		return fmt.Errorf("build level: %w", err)
	}

	player := level.NewPlayer(e.playerName)
	if err := lvl.RegisterPlayer(player); err != nil {
		return fmt.Errorf("register player: %w", err)
	}
	lvl.AddObserver(&watcher{engine: e, level: lvl})

	e.levelMu.Lock()
	e.level = lvl
	e.player = player
	e.totalPellets = lvl.RemainingPellets()
	e.levelMu.Unlock()

	e.outcome.Store(outcomeNone)
	e.setMessage(e.config.Messages.Welcome)
	return nil
}

// countingResolver records every collision before resolving it
func countingResolver(inner collision.Resolver) collision.Resolver {
	return collision.ResolverFunc(func(collider, collidee board.Unit) {
		observability.RecordCollision(collider.Kind().String(), collidee.Kind().String())
		inner.Collide(collider, collidee)
	})
}

func (e *GameEngine) current() (*level.Level, *level.Player) {
	e.levelMu.RLock()
	defer e.levelMu.RUnlock()
	return e.level, e.player
}

// Level returns the level currently played
func (e *GameEngine) Level() *level.Level {
	lvl, _ := e.current()
	return lvl
}

// Player returns the engine's player
func (e *GameEngine) Player() *level.Player {
	_, p := e.current()
	return p
}

// SetListener replaces the change listener. A nil listener disables it.
func (e *GameEngine) SetListener(l Listener) {
	e.listenerMu.Lock()
	defer e.listenerMu.Unlock()
	e.listener = l
}

func (e *GameEngine) notify(event EventType) {
	e.listenerMu.RLock()
	l := e.listener
	e.listenerMu.RUnlock()
	if l != nil {
		l(event)
	}
}

// Start starts the game. It returns whether the game is in progress
// afterwards; a finished game, a dead player or an empty maze cannot start.
func (e *GameEngine) Start() bool {
	e.progressMu.Lock()
	defer e.progressMu.Unlock()

	if e.inProgress.Load() {
		return true
	}
	lvl, _ := e.current()
	if e.outcome.Load() != outcomeNone || !lvl.IsAnyPlayerAlive() || lvl.RemainingPellets() == 0 {
		return false
	}

	e.inProgress.Store(true)
	lvl.Start()
	e.logger.Info().Msg("game started")
	e.notify(EventStarted)
	return true
}

// Stop stops the game and its ghosts. Stopping a stopped game does nothing.
func (e *GameEngine) Stop() {
	e.progressMu.Lock()
	defer e.progressMu.Unlock()
	e.stop()
}

func (e *GameEngine) stop() {
	lvl, _ := e.current()
	// a finished level may still hold halted ghost handles
	lvl.Stop()
	if !e.inProgress.Swap(false) {
		return
	}
	e.logger.Info().Msg("game stopped")
	e.notify(EventStopped)
}

// IsInProgress reports whether the game is running
func (e *GameEngine) IsInProgress() bool {
	return e.inProgress.Load()
}

// finish records the outcome of lvl. Outcomes of a level that has since
// been replaced by Reset are ignored.
func (e *GameEngine) finish(lvl *level.Level, result int32) {
	current, player := e.current()
	if current != lvl {
		return
	}
	if !e.outcome.CompareAndSwap(outcomeNone, result) {
		return
	}
	e.inProgress.Store(false)

	score := player.Score()
	event := EventVictory
	if result == outcomeWon {
		e.setMessage(fmt.Sprintf(e.config.Messages.Victory, score))
		observability.RecordOutcome("won")
	} else {
		event = EventDefeat
		e.setMessage(fmt.Sprintf(e.config.Messages.Defeat, score))
		observability.RecordOutcome("lost")
	}
	e.logger.Info().Str("outcome", string(event)).Int("score", score).Msg("game finished")
	e.notify(event)
}

// watcher observes one level on behalf of the engine
type watcher struct {
	engine *GameEngine
	level  *level.Level
}

func (w *watcher) LevelWon()  { w.engine.finish(w.level, outcomeWon) }
func (w *watcher) LevelLost() { w.engine.finish(w.level, outcomeLost) }

func (w *watcher) UnitMoved(u board.Unit, _ board.Direction) {
	if !u.Kind().IsGhost() {
		return
	}
	observability.RecordMove(u.Kind().String(), true)
	w.engine.notify(EventGhostMove)
}

// Reset stops the game and rebuilds the maze from the config. The move
// history is kept; the current moves are cleared.
func (e *GameEngine) Reset() (*GameState, error) {
	e.progressMu.Lock()
	e.stop()
	err := e.load()
	if err == nil {
		e.historyMu.Lock()
		e.currentMoves = nil
		e.historyMu.Unlock()
	}
	e.progressMu.Unlock()
	if err != nil {
		return nil, err
	}

	e.logger.Info().Msg("game reset")
	e.notify(EventReset)
	return e.GetState(), nil
}

// GetState returns a consistent snapshot of the game
func (e *GameEngine) GetState() *GameState {
	lvl, player := e.current()

	e.levelMu.RLock()
	total := e.totalPellets
	e.levelMu.RUnlock()

	state := &GameState{
		ConfigName:   e.config.Name,
		TotalPellets: total,
		InProgress:   e.IsInProgress(),
	}
	lvl.Inspect(func(b *board.Board) {
		state.Width, state.Height = b.Width(), b.Height()
		state.Grid, state.RemainingPellets = renderGrid(b)
		state.Ghosts = ghostStates(lvl)
		state.PlayerPos = positionOf(player)
		state.PlayerDirection = player.Direction().String()
		state.PlayerAlive = player.IsAlive()
		state.Score = player.Score()
		state.LocalView = localView(player)
		state.LocalView3x3 = localView3x3(player)
	})

	result := e.outcome.Load()
	state.GameOver = result != outcomeNone
	state.Victory = result == outcomeWon

	e.historyMu.Lock()
	state.Message = e.message
	state.MoveHistory = append([]MoveHistoryEntry(nil), e.moveHistory...)
	state.TotalMoves = len(e.moveHistory)
	state.CurrentMoves = append([]MoveHistoryEntry(nil), e.currentMoves...)
	state.CurrentMovesCount = len(e.currentMoves)
	e.historyMu.Unlock()

	return state
}

// IsGameOver returns whether the game was won or lost
func (e *GameEngine) IsGameOver() bool {
	return e.outcome.Load() != outcomeNone
}

// IsVictory returns whether every pellet was eaten
func (e *GameEngine) IsVictory() bool {
	return e.outcome.Load() == outcomeWon
}

// GetScore returns the player's score
func (e *GameEngine) GetScore() int {
	return e.Player().Score()
}

// GetPlayerPosition returns the player's coordinates
func (e *GameEngine) GetPlayerPosition() Position {
	return positionOf(e.Player())
}

// GetRemainingPellets returns the number of pellets left in the maze
func (e *GameEngine) GetRemainingPellets() int {
	return e.Level().RemainingPellets()
}

// GetConfig returns the maze configuration
func (e *GameEngine) GetConfig() *MapConfig {
	return e.config
}

// GetMoveHistory returns the cumulative move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	return append([]MoveHistoryEntry(nil), e.moveHistory...)
}

// GetLastMove returns the most recent move, or nil if no moves have been made
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	if len(e.moveHistory) == 0 {
		return nil
	}
	last := e.moveHistory[len(e.moveHistory)-1]
	return &last
}

// GetLocalView returns the squares surrounding the player
func (e *GameEngine) GetLocalView() []SurroundingCell {
	lvl, player := e.current()
	var view []SurroundingCell
	lvl.Inspect(func(*board.Board) {
		view = localView(player)
	})
	return view
}

// Message returns the latest message shown to the player
func (e *GameEngine) Message() string {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	return e.message
}

func (e *GameEngine) setMessage(msg string) {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	e.message = msg
}
