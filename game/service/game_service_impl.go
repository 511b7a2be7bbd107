package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/ghostmaze/game/board"
	"github.com/wricardo/ghostmaze/game/engine"
)

// Option configures the game service
type Option func(*gameServiceImpl)

// WithStateObserver registers an observer for every session's game changes
func WithStateObserver(observer StateObserver) Option {
	return func(s *gameServiceImpl) {
		s.observer = observer
	}
}

// WithLogger sets the service logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *gameServiceImpl) {
		s.logger = logger
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	observer StateObserver
	logger   zerolog.Logger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// watch forwards the engine's changes to the state observer
func (s *gameServiceImpl) watch(sess *Session) {
	if s.observer == nil {
		return
	}
	id, eng := sess.ID, sess.Engine
	eng.SetListener(func(event engine.EventType) {
		s.observer(id, event, eng.GetState())
	})
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// session looks a session up and marks it as accessed
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %q: %w", sessionID, err)
	}
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session", sessionID).Msg("failed to update last access")
	}
	return sess, nil
}

// CreateSession creates a new game session. The game is created stopped.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.MapConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.watch(sess)

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}
	s.logger.Info().Str("session", sess.ID).Str("config", configID).Msg("session created")
	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}
	return result, nil
}

// DeleteSession stops the session's game and removes it
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %q: %w", sessionID, err)
	}
	return nil
}

// StartGame starts the session's ghosts. Starting a running game is a no-op.
func (s *gameServiceImpl) StartGame(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Engine.Start() {
		return sess.Engine.GetState(), ErrGameOver
	}
	return sess.Engine.GetState(), nil
}

// StopGame stops the session's ghosts without resetting the maze
func (s *gameServiceImpl) StopGame(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Engine.Stop()
	return sess.Engine.GetState(), nil
}

// Reset rebuilds a session's maze. The game is left stopped.
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	state, err := sess.Engine.Reset()
	if err != nil {
		return nil, fmt.Errorf("reset session %s: %w", sessionID, err)
	}
	return state, nil
}

// ensureStarted starts a game that has neither started nor finished
func ensureStarted(eng *engine.GameEngine, events []GameEvent) []GameEvent {
	if eng.IsInProgress() || eng.IsGameOver() {
		return events
	}
	if eng.Start() {
		events = append(events, GameEvent{
			Type:      "started",
			Message:   "Game started, the ghosts are moving",
			Timestamp: time.Now(),
			Position:  eng.GetPlayerPosition(),
		})
	}
	return events
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      "reset",
		Message:   "Game reset to initial state",
		Timestamp: time.Now(),
	}
}

// Move executes a single move for a session. A game that has not been
// started yet is started first.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	d, err := board.ParseDirection(direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	events := []GameEvent{}
	if reset {
		if _, err := sess.Engine.Reset(); err != nil {
			return nil, fmt.Errorf("reset session %s: %w", sessionID, err)
		}
		events = append(events, resetEvent())
	}
	events = ensureStarted(sess.Engine, events)

	step, ok := s.step(sess.Engine, 1, d)
	state := sess.Engine.GetState()
	events = append(events, stepEvents(step, state)...)

	result := &MoveResult{
		Success:   ok,
		GameState: state,
		Message:   state.Message,
		Events:    events,
	}
	if ok {
		result.Step = &step
	} else {
		result.AttemptedTo = attemptedSquare(state, step.From, d)
	}
	return result, nil
}

// step moves the player once and describes what happened
func (s *gameServiceImpl) step(eng *engine.GameEngine, idx int, d board.Direction) (StepInfo, bool) {
	from := eng.GetPlayerPosition()
	before := eng.GetScore()
	wasOver := eng.IsGameOver()
	ok := eng.MovePlayer(eng.Player(), d)
	after := eng.GetScore()

	info := StepInfo{
		Idx:        idx,
		Dir:        d.String(),
		From:       from,
		To:         eng.GetPlayerPosition(),
		ScoreAfter: after,
		Success:    ok,
		Pellet:     after > before,
	}
	if !wasOver && eng.IsGameOver() {
		info.Victory = eng.IsVictory()
		info.Defeat = !info.Victory
	}
	return info, ok
}

// stepEvents turns a step into the events a client cares about
func stepEvents(step StepInfo, state *engine.GameState) []GameEvent {
	now := time.Now()
	var events []GameEvent
	if step.Success {
		events = append(events, GameEvent{
			Type:      "move",
			Message:   fmt.Sprintf("Moved %s to (%d,%d)", step.Dir, step.To.X, step.To.Y),
			Timestamp: now,
			Position:  step.To,
		})
	} else if !step.Defeat {
		events = append(events, GameEvent{
			Type:      "blocked",
			Message:   state.Message,
			Timestamp: now,
			Position:  step.From,
		})
	}
	if step.Pellet {
		events = append(events, GameEvent{
			Type:      "pellet",
			Message:   fmt.Sprintf("Pellet eaten! Score: %d", step.ScoreAfter),
			Timestamp: now,
			Position:  step.To,
		})
	}
	switch {
	case step.Victory:
		events = append(events, GameEvent{Type: "victory", Message: state.Message, Timestamp: now, Position: step.To})
	case step.Defeat:
		events = append(events, GameEvent{Type: "defeat", Message: state.Message, Timestamp: now, Position: step.To})
	}
	return events
}

// attemptedSquare describes the square a move from pos towards d targets.
// Coordinates wrap around the maze edges.
func attemptedSquare(state *engine.GameState, pos engine.Position, d board.Direction) *AttemptInfo {
	if state == nil || state.Width == 0 || state.Height == 0 || pos.X < 0 {
		return nil
	}
	dx, dy := d.Delta()
	x := ((pos.X+dx)%state.Width + state.Width) % state.Width
	y := ((pos.Y+dy)%state.Height + state.Height) % state.Height
	tile := []rune(state.Grid[y])[x]
	return &AttemptInfo{
		X:        x,
		Y:        y,
		TileChar: string(tile),
		Passable: tile != engine.SymbolWall,
	}
}

// BulkMove executes multiple moves in sequence. It stops at the first
// blocked move or when the game ends.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	dirs := make([]board.Direction, 0, len(moves))
	for i, m := range moves {
		d, err := board.ParseDirection(m)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w: %q", i+1, ErrInvalidDirection, m)
		}
		dirs = append(dirs, d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}
	if reset {
		if _, err := sess.Engine.Reset(); err != nil {
			return nil, fmt.Errorf("reset session %s: %w", sessionID, err)
		}
		result.Events = append(result.Events, resetEvent())
	}

	// Limit moves to prevent abuse
	if len(dirs) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		dirs = dirs[:engine.MaxBulkMoves]
	}

	s.run(ctx, sess.Engine, result, len(dirs), func(i int) (board.Direction, bool) {
		return dirs[i], true
	})
	return result, nil
}

// Autopilot lets the built-in autopilot play up to steps moves
func (s *gameServiceImpl) Autopilot(ctx context.Context, sessionID string, steps int) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if steps <= 0 {
		steps = 1
	}

	result := &BulkMoveResult{
		RequestedMoves: steps,
		Events:         make([]GameEvent, 0),
		Success:        true,
	}
	if steps > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		steps = engine.MaxBulkMoves
	}

	eng := sess.Engine
	s.run(ctx, eng, result, steps, func(int) (board.Direction, bool) {
		return engine.Autopilot(eng.Level(), eng.Player())
	})
	return result, nil
}

// run drives up to n moves picked by next and fills in result
func (s *gameServiceImpl) run(ctx context.Context, eng *engine.GameEngine, result *BulkMoveResult, n int, next func(i int) (board.Direction, bool)) {
	start := eng.GetState()
	result.StartPos = start.PlayerPos
	if n > 0 {
		result.Events = ensureStarted(eng, result.Events)
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			result.StoppedReason = fmt.Sprintf("cancelled: %v", err)
			result.StopReasonCode = "cancelled"
			result.StoppedOnMove = i + 1
			break
		}
		if eng.IsGameOver() {
			result.StoppedReason = "game over"
			result.StopReasonCode = "game_over"
			result.StoppedOnMove = i + 1
			break
		}
		if !eng.IsInProgress() {
			result.Success = false
			result.StoppedReason = "game is not running"
			result.StopReasonCode = "not_started"
			result.StoppedOnMove = i + 1
			break
		}

		d, ok := next(i)
		if !ok {
			result.StoppedReason = "no move available"
			result.StopReasonCode = "no_move"
			result.StoppedOnMove = i + 1
			break
		}

		step, moved := s.step(eng, i+1, d)
		state := eng.GetState()
		result.Events = append(result.Events, stepEvents(step, state)...)
		if moved {
			result.MovesExecuted++
			result.Steps = append(result.Steps, step)
			if step.Pellet {
				result.PelletsEaten++
			}
			continue
		}

		result.StoppedOnMove = i + 1
		if step.Defeat {
			// walking into a ghost ends the game without moving
			result.StoppedReason = fmt.Sprintf("move %d ran into a ghost", i+1)
			break
		}
		result.Success = false
		result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, d)
		result.StopReasonCode = "blocked"
		result.AttemptedTo = attemptedSquare(state, step.From, d)
		break
	}

	end := eng.GetState()
	result.GameState = end
	result.EndPos = end.PlayerPos
	result.ScoreDelta = end.Score - start.Score
	result.GameOver = end.GameOver
	result.Message = end.Message
	if end.GameOver {
		code := "defeat"
		if end.Victory {
			code = "victory"
		}
		result.GameOverCode = code
		if result.StopReasonCode == "" || result.StopReasonCode == "game_over" {
			result.StopReasonCode = code
		}
	}
	result.PossibleMoves = eng.GetPossibleMoves()
	result.LocalView3x3 = end.LocalView3x3
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %q: %w", sessionID, err)
	}
	return paginate(sess.Engine.GetMoveHistory(), opts), nil
}

// paginate slices history into one page
func paginate(history []engine.MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}
	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// ListConfigs returns available maze configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific maze configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.MapConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a maze configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.MapConfig) error {
	return s.configs.SaveConfig(configName, config)
}
