package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wricardo/ghostmaze/game/board"
	"github.com/wricardo/ghostmaze/game/collision"
	"github.com/wricardo/ghostmaze/game/level"
	"github.com/wricardo/ghostmaze/game/navigation"
	"github.com/wricardo/ghostmaze/game/npc"
)

// DefaultLayout is the maze used when no configuration is given
var DefaultLayout = []string{
	"###################",
	"#........#........#",
	"#.##.###.#.###.##.#",
	"#.................#",
	"#.##.#.#####.#.##.#",
	"#....#...#...#....#",
	"####.### # ###.####",
	"    .#  B K  #.    ",
	"####.# ##### #.####",
	"#........P........#",
	"#.##.###.#.###.##.#",
	"#..#.....I.....#..#",
	"##.#.#.#####.#.#.##",
	"#....#...#...#...C#",
	"###################",
}

// DefaultMapConfig returns the built-in maze configuration
func DefaultMapConfig() *MapConfig {
	config := &MapConfig{
		Name:        "Classic Maze",
		Description: "The built-in maze with all four ghosts",
		Layout:      append([]string(nil), DefaultLayout...),
		PelletValue: level.PelletValue,
		Collisions:  string(level.CollisionsInteractionMap),
	}
	config.Messages = DefaultMessages()
	return config
}

// DefaultMessages returns the messages used when a config leaves them out
func DefaultMessages() Messages {
	return Messages{
		Welcome:     "Welcome to the maze! Eat every pellet and stay away from the ghosts.",
		Victory:     "Victory! Every pellet eaten. Final score: %d",
		Defeat:      "Caught by a ghost! Final score: %d",
		NotStarted:  "The game is not running. Start it first.",
		Blocked:     "Can't move there!",
		PelletEaten: "Pellet eaten! Score: %d",
	}
}

// ValidateMapConfig performs comprehensive validation of a maze configuration
func ValidateMapConfig(config *MapConfig) error {
	if config == nil {
		return invalid("config is nil")
	}
	if config.Name == "" {
		return invalid("name is required")
	}
	if config.Description == "" {
		return invalid("description is required")
	}

	if err := level.CheckRows(config.Layout); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	height, width := len(config.Layout), len([]rune(config.Layout[0]))
	if height < MinGridSize || height > MaxGridSize {
		return invalid("layout height must be between %d and %d, got %d", MinGridSize, MaxGridSize, height)
	}
	if width < MinGridSize || width > MaxGridSize {
		return invalid("layout width must be between %d and %d, got %d", MinGridSize, MaxGridSize, width)
	}

	starts, pellets := 0, 0
	for y, row := range config.Layout {
		for x, c := range []rune(row) {
			switch c {
			case level.CharStart:
				starts++
			case level.CharPellet:
				pellets++
			case level.CharGround, level.CharWall, level.CharGhost, level.CharBlinky,
				level.CharInky, level.CharPinky, level.CharClyde, level.CharWanderer:
			default:
				return invalid("invalid character %q at (%d, %d)", c, x, y)
			}
		}
	}
	if starts == 0 {
		return invalid("layout must contain at least one start square (%c)", level.CharStart)
	}
	if pellets == 0 {
		return invalid("layout must contain at least one pellet (%c)", level.CharPellet)
	}

	if config.PelletValue < 0 {
		return invalid("pellet_value must not be negative, got %d", config.PelletValue)
	}
	switch level.CollisionMode(config.Collisions) {
	case "", level.CollisionsInteractionMap, level.CollisionsSwitch:
	default:
		return invalid("collisions must be %q or %q, got %q",
			level.CollisionsInteractionMap, level.CollisionsSwitch, config.Collisions)
	}

	for name, timing := range config.Ghosts {
		kind, err := board.ParseKind(name)
		if err != nil || !kind.IsGhost() {
			return invalid("ghosts: %q is not a ghost kind", name)
		}
		if timing.MoveIntervalMs < MinMoveInterval {
			return invalid("ghosts.%s: move_interval_ms must be at least %d", name, MinMoveInterval)
		}
		if timing.IntervalVariationMs < 0 {
			return invalid("ghosts.%s: interval_variation_ms must not be negative", name)
		}
	}

	if config.Messages.Welcome == "" {
		return invalid("messages.welcome is required")
	}
	if !strings.Contains(config.Messages.Victory, "%d") {
		return invalid("messages.victory must contain %%d for the score")
	}
	if !strings.Contains(config.Messages.Defeat, "%d") {
		return invalid("messages.defeat must contain %%d for the score")
	}
	if m := config.Messages.PelletEaten; m != "" && !strings.Contains(m, "%d") {
		return invalid("messages.pellet_eaten must contain %%d for the score")
	}

	return checkWinnable(config)
}

// checkWinnable makes sure every pellet can be reached from a start square
func checkWinnable(config *MapConfig) error {
	lvl, err := newMapParser(config, nil, nil).ParseRows(config.Layout)
	if err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	b := lvl.Board()
	player := level.NewPlayer("validator")
	reachable := make(map[*board.Square]bool)
	for y, row := range config.Layout {
		for x, c := range []rune(row) {
			if c != level.CharStart {
				continue
			}
			for _, sq := range navigation.Reachable(b.SquareAt(x, y), player) {
				reachable[sq] = true
			}
		}
	}

	for _, sq := range b.Squares() {
		if navigation.FindUnit(board.KindPellet, sq) != nil && !reachable[sq] {
			return invalid("pellet at (%d, %d) is unreachable from every start square", sq.X(), sq.Y())
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("config validation: %s: %w", fmt.Sprintf(format, args...), level.ErrMapConfig)
}

// GhostTimings converts the config's ghost overrides into npc timings.
// A "ghost" entry applies to every variant without its own entry.
func (c *MapConfig) GhostTimings() map[board.Kind]npc.Timing {
	out := make(map[board.Kind]npc.Timing)
	toTiming := func(t GhostTiming) npc.Timing {
		return npc.Timing{
			MoveInterval: time.Duration(t.MoveIntervalMs) * time.Millisecond,
			Variation:    time.Duration(t.IntervalVariationMs) * time.Millisecond,
		}
	}

	if shared, ok := c.Ghosts[board.KindGhost.String()]; ok {
		for kind := range npc.DefaultTimings {
			out[kind] = toTiming(shared)
		}
	}
	for name, t := range c.Ghosts {
		kind, err := board.ParseKind(name)
		if err != nil || !kind.IsGhost() || kind == board.KindGhost {
			continue
		}
		out[kind] = toTiming(t)
	}
	return out
}

// GhostNames lists the ghost letters present in the layout, sorted
func (c *MapConfig) GhostNames() []string {
	seen := make(map[string]bool)
	for _, row := range c.Layout {
		for _, ch := range row {
			switch ch {
			case level.CharGhost, level.CharBlinky, level.CharInky, level.CharPinky, level.CharClyde, level.CharWanderer:
				seen[string(ch)] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newMapParser(config *MapConfig, wrap func(collision.Resolver) collision.Resolver, opts []level.Option) *level.MapParser {
	factory := level.NewFactory(
		npc.NewFactory(config.GhostTimings()),
		config.PelletValue,
		level.CollisionMode(config.Collisions),
		opts...,
	)
	if wrap != nil {
		factory.WrapCollisions(wrap)
	}
	return level.NewMapParser(factory)
}

// LoadMapConfig loads a maze configuration from a JSON file
func LoadMapConfig(filename string) (*MapConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config MapConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateMapConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a maze configuration by name from the configs directory
func LoadConfigByName(configName string) (*MapConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configDir := "configs"
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		configDir = dir
	}
	configPath := filepath.Join(configDir, configName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	config, err := LoadMapConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}
	return config, nil
}
