package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/ghostmaze/game/engine"
)

var (
	// ErrInvalidDirection is returned for moves that name no direction
	ErrInvalidDirection = errors.New("invalid direction")
	// ErrGameOver is returned when a finished game is asked to start
	ErrGameOver        = errors.New("game is over, reset it first")
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Lifecycle
	StartGame(ctx context.Context, sessionID string) (*engine.GameState, error)
	StopGame(ctx context.Context, sessionID string) (*engine.GameState, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Autopilot(ctx context.Context, sessionID string, steps int) (*BulkMoveResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.MapConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.MapConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.MapConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles maze configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.MapConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.MapConfig
	SaveConfig(name string, config *engine.MapConfig) error
}

// StateObserver is told about every change to a session's game, including
// ghost moves. It is called from game goroutines and must not block.
type StateObserver func(sessionID string, event engine.EventType, state *engine.GameState)

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.MapConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
