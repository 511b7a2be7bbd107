package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/ghostmaze/game/engine"
	"github.com/wricardo/ghostmaze/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.MapConfig) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}
	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	session, exists := m.sessions[id]
	if !exists {
		return service.ErrSessionNotFound
	}
	session.Engine.Stop()
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

func (m *MockSessionManager) stopAll() {
	for _, session := range m.sessions {
		session.Engine.Stop()
	}
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.MapConfig
}

// testMapConfig is a small maze with two pellets east of the start and a
// ghost that never gets to move during a test
func testMapConfig() *engine.MapConfig {
	return &engine.MapConfig{
		Name:        "test",
		Description: "Test configuration",
		Layout: []string{
			"#######",
			"#P..  #",
			"# ### #",
			"#   B #",
			"#######",
		},
		PelletValue: 10,
		Ghosts: map[string]engine.GhostTiming{
			"ghost": {MoveIntervalMs: 3600000},
		},
		Messages: engine.Messages{
			Welcome:     "Welcome to test!",
			Victory:     "Victory! Score: %d",
			Defeat:      "Caught! Score: %d",
			Blocked:     "Can't move there!",
			PelletEaten: "Yum! Score: %d",
		},
	}
}

func NewMockConfigManager() *MockConfigManager {
	defaultConfig := testMapConfig()
	return &MockConfigManager{
		configs: map[string]*engine.MapConfig{
			"test":    defaultConfig,
			"default": defaultConfig,
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.MapConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", service.ErrConfigNotFound, name)
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    name + ".json",
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			Width:       len(config.Layout[0]),
			Height:      len(config.Layout),
			Ghosts:      config.GhostNames(),
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.MapConfig {
	return m.configs["default"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.MapConfig) error {
	if err := engine.ValidateMapConfig(config); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidConfig, err)
	}
	m.configs[name] = config
	return nil
}

func newTestService(t *testing.T, opts ...service.Option) (service.GameService, *MockSessionManager) {
	t.Helper()
	sessions := NewMockSessionManager()
	t.Cleanup(sessions.stopAll)
	return service.NewGameService(sessions, NewMockConfigManager(), opts...), sessions
}

func newTestSession(t *testing.T, svc service.GameService) string {
	t.Helper()
	info, err := svc.CreateSession(context.Background(), "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return info.ID
}

func eventTypes(events []service.GameEvent) []string {
	types := make([]string, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	return types
}

func hasEvent(events []service.GameEvent, eventType string) bool {
	for _, ev := range events {
		if ev.Type == eventType {
			return true
		}
	}
	return false
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name       string
		configName string
		wantErr    error
	}{
		{name: "create with default config", configName: ""},
		{name: "create with specific config", configName: "test"},
		{name: "create with invalid config", configName: "nonexistent", wantErr: service.ErrConfigNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.configName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateSession() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession() unexpected error: %v", err)
			}
			if session.GameState == nil || session.GameState.InProgress {
				t.Errorf("new session should hold a stopped game, got %+v", session.GameState)
			}
			if session.GameConfig.Name != "test" {
				t.Errorf("GameConfig.Name = %q, want test", session.GameConfig.Name)
			}
		})
	}
}

func TestGameService_GetListDeleteSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newTestSession(t, svc)

	info, err := svc.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if info.ConfigName != "test" && info.ConfigName != "default" {
		t.Errorf("ConfigName = %q, want a config id", info.ConfigName)
	}

	list, err := svc.ListSessions(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListSessions() = %d sessions, err %v; want 1", len(list), err)
	}

	if err := svc.DeleteSession(ctx, id); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := svc.GetSession(ctx, id); err == nil {
		t.Error("GetSession() after delete should fail")
	}
	if err := svc.DeleteSession(ctx, id); err == nil {
		t.Error("deleting twice should fail")
	}
}

func TestGameService_Move(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newTestSession(t, svc)

	tests := []struct {
		name       string
		sessionID  string
		direction  string
		wantDirErr bool
	}{
		{name: "invalid session", sessionID: "nonexistent", direction: "up"},
		{name: "invalid direction", sessionID: id, direction: "diagonal", wantDirErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Move(ctx, tt.sessionID, tt.direction, false)
			if err == nil {
				t.Fatal("Move() expected an error")
			}
			if errors.Is(err, service.ErrInvalidDirection) != tt.wantDirErr {
				t.Errorf("Move() error = %v, wantDirErr %v", err, tt.wantDirErr)
			}
		})
	}

	// The first move starts the game
	res, err := svc.Move(ctx, id, "right", false)
	if err != nil {
		t.Fatalf("Move right failed: %v", err)
	}
	if !res.Success || res.Step == nil {
		t.Fatalf("expected a successful step, got success=%v step=%v", res.Success, res.Step)
	}
	if !res.GameState.InProgress {
		t.Error("the first move should start the game")
	}
	for _, want := range []string{"started", "move", "pellet"} {
		if !hasEvent(res.Events, want) {
			t.Errorf("events %v missing %q", eventTypes(res.Events), want)
		}
	}
	if res.Step.From != (engine.Position{X: 1, Y: 1}) || res.Step.To != (engine.Position{X: 2, Y: 1}) {
		t.Errorf("step = %+v, want (1,1) -> (2,1)", res.Step)
	}
	if res.Step.ScoreAfter != 10 || !res.Step.Pellet {
		t.Errorf("step = %+v, want a pellet worth 10", res.Step)
	}
	if res.Message != "Yum! Score: 10" {
		t.Errorf("Message = %q", res.Message)
	}

	// North of (2,1) is the border wall
	blocked, err := svc.Move(ctx, id, "up", false)
	if err != nil {
		t.Fatalf("Move up failed with error: %v", err)
	}
	if blocked.Success {
		t.Fatal("moving into a wall should fail")
	}
	want := service.AttemptInfo{X: 2, Y: 0, TileChar: "#", Passable: false}
	if blocked.AttemptedTo == nil || *blocked.AttemptedTo != want {
		t.Errorf("AttemptedTo = %+v, want %+v", blocked.AttemptedTo, want)
	}
	if !hasEvent(blocked.Events, "blocked") {
		t.Errorf("events %v missing blocked", eventTypes(blocked.Events))
	}

	// Reset puts the player back and leaves the game stopped until the move
	res, err = svc.Move(ctx, id, "down", true)
	if err != nil {
		t.Fatalf("Move with reset failed: %v", err)
	}
	if !hasEvent(res.Events, "reset") || !hasEvent(res.Events, "started") {
		t.Errorf("events %v should include reset and started", eventTypes(res.Events))
	}
	if res.GameState.PlayerPos != (engine.Position{X: 1, Y: 2}) || res.GameState.Score != 0 {
		t.Errorf("after reset and down: pos %+v score %d", res.GameState.PlayerPos, res.GameState.Score)
	}
}

func TestGameService_MoveToVictory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newTestSession(t, svc)

	if _, err := svc.Move(ctx, id, "right", false); err != nil {
		t.Fatal(err)
	}
	res, err := svc.Move(ctx, id, "right", false)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Step.Victory || !hasEvent(res.Events, "victory") {
		t.Errorf("expected victory, step %+v events %v", res.Step, eventTypes(res.Events))
	}
	if !res.GameState.GameOver || !res.GameState.Victory || res.GameState.InProgress {
		t.Errorf("unexpected final state %+v", res.GameState)
	}
	if res.Message != "Victory! Score: 20" {
		t.Errorf("Message = %q", res.Message)
	}

	// A finished game neither restarts on move nor on StartGame
	after, err := svc.Move(ctx, id, "left", false)
	if err != nil {
		t.Fatal(err)
	}
	if after.Success || hasEvent(after.Events, "started") {
		t.Errorf("moving after victory: success=%v events %v", after.Success, eventTypes(after.Events))
	}
	if _, err := svc.StartGame(ctx, id); !errors.Is(err, service.ErrGameOver) {
		t.Errorf("StartGame() error = %v, want ErrGameOver", err)
	}

	state, err := svc.Reset(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if state.GameOver || state.RemainingPellets != 2 {
		t.Errorf("reset state = %+v", state)
	}
	if _, err := svc.StartGame(ctx, id); err != nil {
		t.Errorf("StartGame() after reset error = %v", err)
	}
}

func TestGameService_StartStop(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newTestSession(t, svc)

	state, err := svc.StartGame(ctx, id)
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if !state.InProgress {
		t.Error("StartGame() should leave the game running")
	}
	// starting twice is harmless
	if _, err := svc.StartGame(ctx, id); err != nil {
		t.Errorf("second StartGame() error = %v", err)
	}

	state, err = svc.StopGame(ctx, id)
	if err != nil {
		t.Fatalf("StopGame() error = %v", err)
	}
	if state.InProgress || state.GameOver {
		t.Errorf("stopped state = %+v", state)
	}

	if _, err := svc.StartGame(ctx, "nonexistent"); err == nil {
		t.Error("StartGame() on a missing session should fail")
	}
	if _, err := svc.StopGame(ctx, "nonexistent"); err == nil {
		t.Error("StopGame() on a missing session should fail")
	}
}

func TestGameService_BulkMove(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newTestSession(t, svc)

	tests := []struct {
		name          string
		moves         []string
		wantExecuted  int
		wantCode      string
		wantStoppedOn int
		wantSuccess   bool
	}{
		{
			name:          "blocked by a wall",
			moves:         []string{"right", "up", "right"},
			wantExecuted:  1,
			wantCode:      "blocked",
			wantStoppedOn: 2,
		},
		{
			name:          "eat every pellet",
			moves:         []string{"right", "right", "right"},
			wantExecuted:  2,
			wantCode:      "victory",
			wantStoppedOn: 3,
			wantSuccess:   true,
		},
		{
			name:        "empty moves",
			moves:       []string{},
			wantSuccess: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.BulkMove(ctx, id, tt.moves, true)
			if err != nil {
				t.Fatalf("BulkMove() error = %v", err)
			}
			if res.RequestedMoves != len(tt.moves) {
				t.Errorf("RequestedMoves = %d, want %d", res.RequestedMoves, len(tt.moves))
			}
			if res.MovesExecuted != tt.wantExecuted || len(res.Steps) != tt.wantExecuted {
				t.Errorf("MovesExecuted = %d, steps %d, want %d", res.MovesExecuted, len(res.Steps), tt.wantExecuted)
			}
			if res.StopReasonCode != tt.wantCode {
				t.Errorf("StopReasonCode = %q, want %q", res.StopReasonCode, tt.wantCode)
			}
			if res.StoppedOnMove != tt.wantStoppedOn {
				t.Errorf("StoppedOnMove = %d, want %d", res.StoppedOnMove, tt.wantStoppedOn)
			}
			if res.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", res.Success, tt.wantSuccess)
			}
			if res.StartPos != (engine.Position{X: 1, Y: 1}) {
				t.Errorf("StartPos = %+v", res.StartPos)
			}
		})
	}

	res, err := svc.BulkMove(ctx, id, []string{"right", "up"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.ScoreDelta != 10 || res.PelletsEaten != 1 {
		t.Errorf("ScoreDelta = %d, PelletsEaten = %d", res.ScoreDelta, res.PelletsEaten)
	}
	if res.AttemptedTo == nil || res.AttemptedTo.TileChar != "#" || res.AttemptedTo.Passable {
		t.Errorf("AttemptedTo = %+v", res.AttemptedTo)
	}
	if len(res.LocalView3x3) != 3 || len(res.PossibleMoves) == 0 {
		t.Errorf("decision aids missing: view %v moves %v", res.LocalView3x3, res.PossibleMoves)
	}

	if _, err := svc.BulkMove(ctx, id, []string{"up", "sideways"}, false); !errors.Is(err, service.ErrInvalidDirection) {
		t.Errorf("BulkMove() with a bad direction error = %v", err)
	}
	if _, err := svc.BulkMove(ctx, "nonexistent", []string{"up"}, false); err == nil {
		t.Error("BulkMove() on a missing session should fail")
	}
}

func TestGameService_BulkMoveFollowsRequestOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newTestSession(t, svc)

	res, err := svc.BulkMove(ctx, id, []string{"right", "left", "right"}, true)
	if err != nil {
		t.Fatalf("BulkMove() error = %v", err)
	}
	want := []string{"east", "west", "east"}
	if len(res.Steps) != len(want) {
		t.Fatalf("steps = %+v, want %d", res.Steps, len(want))
	}
	for i, step := range res.Steps {
		if step.Dir != want[i] {
			t.Errorf("step %d dir = %s, want %s", i, step.Dir, want[i])
		}
	}
	if res.Steps[1].To != (engine.Position{X: 1, Y: 1}) {
		t.Errorf("second step should return to the start, got %+v", res.Steps[1].To)
	}
	if res.ScoreDelta != 10 {
		t.Errorf("ScoreDelta = %d, want 10", res.ScoreDelta)
	}
}

func TestGameService_BulkMoveTruncates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newTestSession(t, svc)

	moves := make([]string, 0, engine.MaxBulkMoves+10)
	for len(moves) < engine.MaxBulkMoves+10 {
		moves = append(moves, "down", "up")
	}
	res, err := svc.BulkMove(ctx, id, moves, false)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Truncated || res.Limit != engine.MaxBulkMoves {
		t.Errorf("Truncated = %v, Limit = %d", res.Truncated, res.Limit)
	}
	if res.MovesExecuted != engine.MaxBulkMoves {
		t.Errorf("MovesExecuted = %d, want %d", res.MovesExecuted, engine.MaxBulkMoves)
	}
}

func TestGameService_BulkMoveCancelled(t *testing.T) {
	svc, _ := newTestService(t)
	id := newTestSession(t, svc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := svc.BulkMove(ctx, id, []string{"down", "up"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.StopReasonCode != "cancelled" || res.MovesExecuted != 0 {
		t.Errorf("StopReasonCode = %q, MovesExecuted = %d", res.StopReasonCode, res.MovesExecuted)
	}
}

func TestGameService_Autopilot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newTestSession(t, svc)

	res, err := svc.Autopilot(ctx, id, 10)
	if err != nil {
		t.Fatalf("Autopilot() error = %v", err)
	}
	if res.GameOverCode != "victory" || !res.GameState.Victory {
		t.Fatalf("autopilot should clear the maze, got code %q state %+v", res.GameOverCode, res.GameState)
	}
	if res.MovesExecuted != 2 || res.PelletsEaten != 2 || res.ScoreDelta != 20 {
		t.Errorf("MovesExecuted = %d, PelletsEaten = %d, ScoreDelta = %d", res.MovesExecuted, res.PelletsEaten, res.ScoreDelta)
	}
	if len(res.PossibleMoves) != 0 {
		t.Errorf("PossibleMoves after victory = %v, want none", res.PossibleMoves)
	}

	if _, err := svc.Autopilot(ctx, "nonexistent", 1); err == nil {
		t.Error("Autopilot() on a missing session should fail")
	}
}

func TestGameService_GetMoveHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newTestSession(t, svc)

	// 25 moves, none of which eat a pellet
	moves := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		if i%2 == 0 {
			moves = append(moves, "down")
		} else {
			moves = append(moves, "up")
		}
	}
	if _, err := svc.BulkMove(ctx, id, moves, false); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name          string
		opts          service.HistoryOptions
		wantCount     int
		wantPage      int
		wantPages     int
		wantFirstMove int
		wantHasNext   bool
	}{
		{name: "defaults", opts: service.HistoryOptions{}, wantCount: 20, wantPage: 1, wantPages: 2, wantFirstMove: 25, wantHasNext: true},
		{name: "second page desc", opts: service.HistoryOptions{Page: 2}, wantCount: 5, wantPage: 2, wantPages: 2, wantFirstMove: 5},
		{name: "ascending", opts: service.HistoryOptions{Page: 1, Limit: 10, Order: "asc"}, wantCount: 10, wantPage: 1, wantPages: 3, wantFirstMove: 1, wantHasNext: true},
		{name: "past the end", opts: service.HistoryOptions{Page: 5, Limit: 10, Order: "asc"}, wantCount: 0, wantPage: 5, wantPages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetMoveHistory(ctx, id, tt.opts)
			if err != nil {
				t.Fatalf("GetMoveHistory() error = %v", err)
			}
			if resp.TotalMoves != 25 {
				t.Errorf("TotalMoves = %d, want 25", resp.TotalMoves)
			}
			if len(resp.Moves) != tt.wantCount {
				t.Fatalf("len(Moves) = %d, want %d", len(resp.Moves), tt.wantCount)
			}
			if resp.Page != tt.wantPage || resp.TotalPages != tt.wantPages || resp.HasNext != tt.wantHasNext {
				t.Errorf("page %d/%d hasNext %v", resp.Page, resp.TotalPages, resp.HasNext)
			}
			if tt.wantCount > 0 && resp.Moves[0].MoveNumber != tt.wantFirstMove {
				t.Errorf("first move number = %d, want %d", resp.Moves[0].MoveNumber, tt.wantFirstMove)
			}
		})
	}
}

func TestGameService_StateObserver(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	var events []engine.EventType
	var last *engine.GameState
	observer := func(sessionID string, event engine.EventType, state *engine.GameState) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event)
		last = state
	}
	svc, _ := newTestService(t, service.WithStateObserver(observer))
	id := newTestSession(t, svc)

	if _, err := svc.Move(ctx, id, "right", false); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) < 2 || events[0] != engine.EventStarted || events[len(events)-1] != engine.EventMove {
		t.Fatalf("observed events = %v, want started then move", events)
	}
	if last == nil || last.Score != 10 {
		t.Errorf("last observed state = %+v, want score 10", last)
	}
}

func TestGameService_Configs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	configs, err := svc.ListConfigs(ctx)
	if err != nil || len(configs) != 2 {
		t.Fatalf("ListConfigs() = %d configs, err %v", len(configs), err)
	}

	config, err := svc.LoadConfig(ctx, "test")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.Name != "test" {
		t.Errorf("Name = %q", config.Name)
	}

	bad := testMapConfig()
	bad.Layout = []string{"###", "#P#", "###"}
	if err := svc.SaveConfig(ctx, "bad", bad); !errors.Is(err, service.ErrInvalidConfig) {
		t.Errorf("SaveConfig() error = %v, want ErrInvalidConfig", err)
	}
	if err := svc.SaveConfig(ctx, "copy", testMapConfig()); err != nil {
		t.Errorf("SaveConfig() error = %v", err)
	}
}
