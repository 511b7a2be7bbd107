package engine

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidationConstants(t *testing.T) {
	if MinGridSize >= MaxGridSize {
		t.Errorf("MinGridSize (%d) should be less than MaxGridSize (%d)", MinGridSize, MaxGridSize)
	}
	if MaxBulkMoves <= 0 {
		t.Errorf("MaxBulkMoves should be positive, got %d", MaxBulkMoves)
	}
	if WebSocketBufferSize <= 0 {
		t.Errorf("WebSocketBufferSize should be positive, got %d", WebSocketBufferSize)
	}
}

func TestGameStateJSONFieldNames(t *testing.T) {
	e := newTestEngine(t, createTestConfig())
	data, err := json.Marshal(e.GetState())
	if err != nil {
		t.Fatalf("Failed to marshal state: %v", err)
	}

	for _, field := range []string{
		`"grid":`, `"player_pos":{"x":1,"y":1}`, `"remaining_pellets":2`, `"ghosts":[`,
		`"in_progress":false`, `"game_over":false`, `"config_name":"Engine Test Config"`,
		`"current_moves_count":0`, `"local_view_3x3":`,
	} {
		if !strings.Contains(string(data), field) {
			t.Errorf("Expected %s in %s", field, data)
		}
	}
	if strings.Contains(string(data), `"alive"`) {
		t.Error("Ghost states should omit alive")
	}
}

func TestMapConfigJSONRoundTrip(t *testing.T) {
	var config MapConfig
	if err := json.Unmarshal([]byte(testConfigJSON), &config); err != nil {
		t.Fatalf("Failed to unmarshal config: %v", err)
	}

	data, err := json.Marshal(&config)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	if strings.Contains(string(data), `"not_started"`) {
		t.Error("Empty optional messages should be omitted")
	}

	var again MapConfig
	if err := json.Unmarshal(data, &again); err != nil {
		t.Fatalf("Failed to unmarshal config: %v", err)
	}
	if again.Messages != config.Messages || again.Ghosts["blinky"] != config.Ghosts["blinky"] {
		t.Errorf("Round trip changed the config: %+v", again)
	}
}
