package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/ghostmaze/game/board"
	"github.com/wricardo/ghostmaze/game/level"
	"github.com/wricardo/ghostmaze/game/npc"
)

const testConfigJSON = `{
	"name": "Test Config",
	"description": "Test description",
	"layout": [
		"#####",
		"#P.G#",
		"#####"
	],
	"pellet_value": 25,
	"collisions": "switch",
	"ghosts": {
		"blinky": {"move_interval_ms": 300, "interval_variation_ms": 20}
	},
	"messages": {
		"welcome": "Welcome!",
		"victory": "Victory! Score: %d",
		"defeat": "Caught! Score: %d"
	}
}`

func createValidConfig() *MapConfig {
	return createTestConfig()
}

func TestValidateMapConfig_ValidConfig(t *testing.T) {
	if err := ValidateMapConfig(createValidConfig()); err != nil {
		t.Errorf("Valid config should pass validation: %v", err)
	}
	if err := ValidateMapConfig(DefaultMapConfig()); err != nil {
		t.Errorf("Default config should pass validation: %v", err)
	}
}

func TestValidateMapConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *MapConfig)
		wantErr string
	}{
		{"missing name", func(c *MapConfig) { c.Name = "" }, "name is required"},
		{"missing description", func(c *MapConfig) { c.Description = "" }, "description is required"},
		{"empty layout", func(c *MapConfig) { c.Layout = nil }, "map is empty"},
		{"ragged layout", func(c *MapConfig) { c.Layout[2] = "# #" }, "row 2 has width 3"},
		{"too short", func(c *MapConfig) { c.Layout = []string{"#P.#", "####"} }, "layout height"},
		{"too narrow", func(c *MapConfig) { c.Layout = []string{"P.", "  ", "  "} }, "layout width"},
		{"invalid character", func(c *MapConfig) { c.Layout[3] = "#  xB #" }, "invalid character 'x' at (3, 3)"},
		{"no start", func(c *MapConfig) { c.Layout[1] = "# ..  #" }, "start square"},
		{"no pellet", func(c *MapConfig) { c.Layout[1] = "#P    #" }, "at least one pellet"},
		{"negative pellet value", func(c *MapConfig) { c.PelletValue = -1 }, "pellet_value"},
		{"unknown collisions", func(c *MapConfig) { c.Collisions = "magic" }, "collisions must be"},
		{"unknown ghost", func(c *MapConfig) { c.Ghosts = map[string]GhostTiming{"pellet": {MoveIntervalMs: 100}} }, `"pellet" is not a ghost kind`},
		{"interval too short", func(c *MapConfig) { c.Ghosts = map[string]GhostTiming{"inky": {MoveIntervalMs: 1}} }, "move_interval_ms"},
		{"negative variation", func(c *MapConfig) {
			c.Ghosts = map[string]GhostTiming{"inky": {MoveIntervalMs: 100, IntervalVariationMs: -5}}
		}, "interval_variation_ms"},
		{"missing welcome", func(c *MapConfig) { c.Messages.Welcome = "" }, "messages.welcome"},
		{"victory without score", func(c *MapConfig) { c.Messages.Victory = "You win" }, "messages.victory"},
		{"defeat without score", func(c *MapConfig) { c.Messages.Defeat = "" }, "messages.defeat"},
		{"pellet message without score", func(c *MapConfig) { c.Messages.PelletEaten = "Yum" }, "messages.pellet_eaten"},
		{"unreachable pellet", func(c *MapConfig) {
			c.Layout = []string{
				"#####",
				"#P#.#",
				"#####",
			}
		}, "pellet at (3, 1) is unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := createValidConfig()
			tt.modify(config)
			err := ValidateMapConfig(config)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !errors.Is(err, level.ErrMapConfig) {
				t.Errorf("Expected ErrMapConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestValidateMapConfig_PelletReachableThroughWrap(t *testing.T) {
	config := createValidConfig()
	config.Layout = []string{
		"#####",
		" P# .",
		"#####",
	}
	if err := ValidateMapConfig(config); err != nil {
		t.Errorf("Pellet reachable across the edge should be valid: %v", err)
	}
}

func TestGhostTimings(t *testing.T) {
	config := createValidConfig()
	config.Ghosts = map[string]GhostTiming{
		"ghost": {MoveIntervalMs: 500},
		"pinky": {MoveIntervalMs: 100, IntervalVariationMs: 30},
	}

	timings := config.GhostTimings()
	if got := timings[board.KindBlinky]; got != (npc.Timing{MoveInterval: 500 * time.Millisecond}) {
		t.Errorf("Shared timing not applied to blinky: %+v", got)
	}
	want := npc.Timing{MoveInterval: 100 * time.Millisecond, Variation: 30 * time.Millisecond}
	if got := timings[board.KindPinky]; got != want {
		t.Errorf("Pinky timing = %+v, want %+v", got, want)
	}
	if _, ok := timings[board.KindGhost]; ok {
		t.Error("The shared entry should not produce a timing of its own")
	}

	if len((&MapConfig{}).GhostTimings()) != 0 {
		t.Error("A config without ghosts has no overrides")
	}
}

func TestGhostNames(t *testing.T) {
	config := createValidConfig()
	config.Layout = []string{"#GB.", "#PIC", "#WGB"}
	names := config.GhostNames()
	if strings.Join(names, "") != "BCGIW" {
		t.Errorf("Expected sorted ghost letters, got %v", names)
	}
}

func TestLoadMapConfig(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "test_config.json")
	if err := os.WriteFile(tempFile, []byte(testConfigJSON), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	config, err := LoadMapConfig(tempFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.Name != "Test Config" {
		t.Errorf("Expected config name 'Test Config', got '%s'", config.Name)
	}
	if config.PelletValue != 25 || config.Collisions != "switch" {
		t.Errorf("Unexpected pellet value or collisions: %d %s", config.PelletValue, config.Collisions)
	}
	if config.Ghosts["blinky"].MoveIntervalMs != 300 {
		t.Errorf("Expected blinky interval 300, got %+v", config.Ghosts)
	}

	if _, err := LoadMapConfig("nonexistent.json"); err == nil {
		t.Error("Expected error for non-existent file")
	}

	broken := filepath.Join(t.TempDir(), "broken.json")
	os.WriteFile(broken, []byte("{"), 0644)
	if _, err := LoadMapConfig(broken); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestLoadConfigByName(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("CONFIG_DIR", configDir)

	if err := os.WriteFile(filepath.Join(configDir, "test.json"), []byte(testConfigJSON), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	config, err := LoadConfigByName("test")
	if err != nil {
		t.Fatalf("Failed to load config by name: %v", err)
	}
	if config.Name != "Test Config" {
		t.Errorf("Expected config name 'Test Config', got '%s'", config.Name)
	}

	config2, err := LoadConfigByName("test.json")
	if err != nil {
		t.Fatalf("Failed to load config by name with extension: %v", err)
	}
	if config2.Name != "Test Config" {
		t.Errorf("Expected config name 'Test Config', got '%s'", config2.Name)
	}

	_, err = LoadConfigByName("nonexistent")
	if err == nil {
		t.Fatal("Expected error for non-existent config")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected 'not found' error, got: %v", err)
	}
}

func TestEngineUsesConfiguredRules(t *testing.T) {
	config := createTestConfig()
	config.PelletValue = 25
	config.Collisions = string(level.CollisionsSwitch)

	e := newTestEngine(t, config)
	e.Start()
	e.Move("right")
	if e.GetScore() != 25 {
		t.Errorf("Expected configured pellet value 25, got %d", e.GetScore())
	}
}
