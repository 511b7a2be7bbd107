package engine

const (
	// Validation constants
	MinGridSize         = 3
	MaxGridSize         = 60
	MaxBulkMoves        = 50
	MinMoveInterval     = 10
	WebSocketBufferSize = 256
)

// Symbols used when rendering the grid
const (
	SymbolWall       = '#'
	SymbolGround     = ' '
	SymbolPellet     = '.'
	SymbolPlayer     = 'P'
	SymbolDeadPlayer = 'X'
)

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GhostTiming overrides how often a ghost variant moves
type GhostTiming struct {
	MoveIntervalMs      int `json:"move_interval_ms" jsonschema:"minimum=10"`
	IntervalVariationMs int `json:"interval_variation_ms" jsonschema:"minimum=0"`
}

// Messages shown to the player. Victory and Defeat take the final score.
type Messages struct {
	Welcome     string `json:"welcome"`
	Victory     string `json:"victory"`
	Defeat      string `json:"defeat"`
	NotStarted  string `json:"not_started,omitempty"`
	Blocked     string `json:"blocked,omitempty"`
	PelletEaten string `json:"pellet_eaten,omitempty"`
}

// MapConfig represents a maze configuration loaded from JSON
type MapConfig struct {
	Name        string                 `json:"name" jsonschema:"required"`
	Description string                 `json:"description" jsonschema:"required"`
	Layout      []string               `json:"layout" jsonschema:"required,minItems=3"`
	PelletValue int                    `json:"pellet_value,omitempty" jsonschema:"minimum=0"`
	Collisions  string                 `json:"collisions,omitempty" jsonschema:"enum=interaction_map,enum=switch"`
	Ghosts      map[string]GhostTiming `json:"ghosts,omitempty"`
	Messages    Messages               `json:"messages"`
}

// SurroundingCell represents a square next to the player
type SurroundingCell struct {
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Terrain   string   `json:"terrain"`
	Occupants []string `json:"occupants,omitempty"`
}

// UnitState is a snapshot of one unit on the board
type UnitState struct {
	ID        string   `json:"id"`
	Kind      string   `json:"kind"`
	Position  Position `json:"position"`
	Direction string   `json:"direction"`
	Alive     *bool    `json:"alive,omitempty"` // players only
}

// GameState represents a consistent snapshot of a game
type GameState struct {
	Grid             []string           `json:"grid"`
	Width            int                `json:"width"`
	Height           int                `json:"height"`
	PlayerPos        Position           `json:"player_pos"`
	PlayerDirection  string             `json:"player_direction"`
	PlayerAlive      bool               `json:"player_alive"`
	Score            int                `json:"score"`
	RemainingPellets int                `json:"remaining_pellets"`
	TotalPellets     int                `json:"total_pellets"`
	Ghosts           []UnitState        `json:"ghosts"`
	Message          string             `json:"message"`
	InProgress       bool               `json:"in_progress"`
	GameOver         bool               `json:"game_over"`
	Victory          bool               `json:"victory"`
	ConfigName       string             `json:"config_name"`
	MoveHistory      []MoveHistoryEntry `json:"move_history"`
	TotalMoves       int                `json:"total_moves"`
	LocalView        []SurroundingCell  `json:"local_view,omitempty"` // 8 surrounding squares

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	LocalView3x3 []string `json:"local_view_3x3,omitempty"`
}

// MoveHistoryEntry represents a single player move in the game history
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	Score        int      `json:"score"`
	Timestamp    int64    `json:"timestamp"`
	Success      bool     `json:"success"`
	MoveNumber   int      `json:"move_number"`
}
