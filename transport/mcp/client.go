package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/ghostmaze/game/engine"
	"github.com/wricardo/ghostmaze/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Ghost Maze",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Ghost Maze - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Eat every pellet (.) in the maze without being caught by a ghost. The maze
wraps around at its edges.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions: manage games
- start_game / stop_game / reset_game: control a game (ghosts only move while it runs)
- game_state: current grid, score and ghost positions
- move / bulk_move: move the player (up/down/left/right), requires intent
- autopilot: let the built-in pilot take a few steps
- move_history: view past moves
- list_configs: available mazes
- describe_cell: what is on a given square
- game_instructions: the full rules

NOTE: The 'intent' parameter on move/bulk_move serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionOnlySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"session_id": map[string]any{
				"type":        "string",
				"description": "Session ID",
			},
		},
		Required: []string{"session_id"},
	}
}

func emptySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{Type: "object", Properties: map[string]any{}}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional maze selection. The game starts stopped.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"config_id": map[string]any{
					"type":        "string",
					"description": "Maze to use, see list_configs (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: emptySchema(),
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionOnlySchema(),
	}, c.handleGetSession)

	// Game lifecycle
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start the game so the ghosts begin to move",
		InputSchema: sessionOnlySchema(),
	}, c.handleStart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "stop_game",
		Description: "Pause the game; ghosts stop moving",
		InputSchema: sessionOnlySchema(),
	}, c.handleStop)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to its initial maze",
		InputSchema: sessionOnlySchema(),
	}, c.handleReset)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: sessionOnlySchema(),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one square. Starts the game if it is not running.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": map[string]any{
					"type":        "string",
					"description": "Session ID",
				},
				"direction": map[string]any{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"intent": map[string]any{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]any{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in sequence, stopping at the first blocked move or when the game ends", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": map[string]any{
					"type":        "string",
					"description": "Session ID",
				},
				"moves": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Array of moves",
				},
				"intent": map[string]any{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]any{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "autopilot",
		Description: "Let the built-in pilot move toward the nearest pellet while avoiding ghosts",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": map[string]any{
					"type":        "string",
					"description": "Session ID",
				},
				"steps": map[string]any{
					"type":        "integer",
					"description": fmt.Sprintf("Number of steps (1-%d)", engine.MaxBulkMoves),
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleAutopilot)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": map[string]any{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]any{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available mazes",
		InputSchema: emptySchema(),
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: emptySchema(),
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe what is on a square of the grid. Coordinates wrap around the maze edges.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": map[string]any{
					"type":        "string",
					"description": "Session ID",
				},
				"x": map[string]any{
					"type":        "integer",
					"description": "X coordinate (column, 0-based)",
				},
				"y": map[string]any{
					"type":        "integer",
					"description": "Y coordinate (row, 0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Handler serves the tools over streamable HTTP
func (c *Client) Handler() http.Handler {
	return server.NewStreamableHTTPServer(c.mcpServer)
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]any {
	args, _ := request.Params.Arguments.(map[string]any)
	if args == nil {
		return map[string]any{}
	}
	return args
}

func sessionPath(args map[string]any, suffix string) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nThe game is stopped; start it with start_game or just move.\n\n%s",
		session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "stopped"
		if st := s.GameState; st != nil {
			status = gameStatus(st)
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s, %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"), status)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) stateCall(ctx context.Context, request mcp.CallToolRequest, method, suffix, header string) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), suffix)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, method, path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if header == "" {
		return mcp.NewToolResultText(formatGameState(&state)), nil
	}
	return mcp.NewToolResultText(header + "\n\n" + formatGameState(&state)), nil
}

func (c *Client) handleStart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateCall(ctx, request, "POST", "/start", "Game started. Ghosts are moving.")
}

func (c *Client) handleStop(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateCall(ctx, request, "POST", "/stop", "Game stopped.")
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateCall(ctx, request, "GET", "/state", "")
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/reset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction, _ := args["direction"].(string)
	reset, _ := args["reset"].(bool)
	// intent is for the caller's benefit only

	body := map[string]any{
		"direction": direction,
		"reset":     reset,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/bulk-move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	movesRaw, _ := args["moves"].([]any)
	reset, _ := args["reset"].(bool)

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	body := map[string]any{
		"moves": moves,
		"reset": reset,
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBulkMoveResult(&result)), nil
}

func (c *Client) handleAutopilot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/autopilot")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	steps := 1
	if s, ok := args["steps"].(float64); ok && s > 0 {
		steps = int(s)
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", path, map[string]int{"steps": steps}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBulkMoveResult(&result)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	if page, ok := args["page"].(float64); ok {
		query.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		query.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Mazes:\n\n")
	for _, config := range configs {
		ghosts := "none"
		if len(config.Ghosts) > 0 {
			ghosts = strings.Join(config.Ghosts, ",")
		}
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Grid: %dx%d, Pellets: %d, Ghosts: %s\n\n",
			config.Name, config.ConfigID, config.Description, config.Width, config.Height, config.Pellets, ghosts)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Ghost Maze - Complete Instructions

GAME OBJECTIVE:
Eat every pellet in the maze. If a ghost reaches your square you lose.

GAME MECHANICS:
• Movement: one square per move (up, down, left, right)
• Walls (#) block you and the ghosts
• The maze wraps: leaving one edge brings you in on the opposite edge
• Each pellet adds to your score
• Ghosts move on their own timers while the game is running
• Stopping the game freezes the ghosts; moving starts it again

GRID LEGEND:
  P  you            X  you, caught
  .  pellet         #  wall
     (space) empty floor
  B  Blinky: chases you directly
  K  Pinky: aims a few squares ahead of you
  I  Inky: works with Blinky to cut you off
  C  Clyde: chases from afar, retreats up close
  W  a wandering ghost
  G  a ghost of the next variant

TIPS:
1. Check the ghost positions in game_state before a long bulk_move
2. bulk_move stops at the first blocked move or when the game ends
3. autopilot heads for the nearest pellet and avoids squares next to ghosts
4. Use describe_cell to look at a specific square
5. reset_game brings back every pellet and ghost`

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	xf, okX := args["x"].(float64)
	yf, okY := args["y"].(float64)
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if state.Width == 0 || state.Height == 0 {
		return mcp.NewToolResultError("game has no grid"), nil
	}

	x := wrap(int(xf), state.Width)
	y := wrap(int(yf), state.Height)
	char := cellChar(&state, x, y)

	var b strings.Builder
	fmt.Fprintf(&b, "Cell at position (%d, %d):\n", x, y)
	if x != int(xf) || y != int(yf) {
		fmt.Fprintf(&b, "(wrapped from (%d, %d))\n", int(xf), int(yf))
	}
	fmt.Fprintf(&b, "- Character: %q\n- Meaning: %s\n", char, describeChar(char))
	for _, g := range state.Ghosts {
		if g.Position.X == x && g.Position.Y == y {
			fmt.Fprintf(&b, "- Ghost: %s heading %s\n", g.Kind, g.Direction)
		}
	}
	if state.PlayerPos.X == x && state.PlayerPos.Y == y {
		b.WriteString("- You are here\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func wrap(v, n int) int {
	return ((v % n) + n) % n
}

func cellChar(state *engine.GameState, x, y int) rune {
	if y < 0 || y >= len(state.Grid) {
		return '?'
	}
	row := []rune(state.Grid[y])
	if x < 0 || x >= len(row) {
		return '?'
	}
	return row[x]
}

func describeChar(c rune) string {
	switch c {
	case engine.SymbolWall:
		return "wall (impassable)"
	case engine.SymbolGround:
		return "empty floor"
	case engine.SymbolPellet:
		return "pellet"
	case engine.SymbolPlayer:
		return "player"
	case engine.SymbolDeadPlayer:
		return "player (caught)"
	case 'B':
		return "Blinky"
	case 'K':
		return "Pinky"
	case 'I':
		return "Inky"
	case 'C':
		return "Clyde"
	case 'W', 'G':
		return "ghost"
	default:
		return "unknown"
	}
}

// Formatting helpers

func gameStatus(state *engine.GameState) string {
	switch {
	case state.Victory:
		return "won"
	case state.GameOver:
		return "lost"
	case state.InProgress:
		return "running"
	default:
		return "stopped"
	}
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.CreatedAt.Format(time.RFC3339), formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s | Position: (%d,%d) | Score: %d | Pellets left: %d/%d | Moves: %d\n\n",
		gameStatus(state), state.PlayerPos.X, state.PlayerPos.Y, state.Score,
		state.RemainingPellets, state.TotalPellets, state.CurrentMovesCount)

	b.WriteString("Grid:\n")
	for _, row := range state.Grid {
		b.WriteString(row)
		b.WriteString("\n")
	}

	if len(state.Ghosts) > 0 {
		b.WriteString("\nGhosts:\n")
		for _, g := range state.Ghosts {
			fmt.Fprintf(&b, "- %s at (%d,%d) heading %s\n", g.Kind, g.Position.X, g.Position.Y, g.Direction)
		}
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		b.WriteString("✗ Move failed\n")
	}

	if st := result.Step; st != nil {
		fmt.Fprintf(&b, "Step: %s (%d,%d)→(%d,%d) score=%d\n", st.Dir, st.From.X, st.From.Y, st.To.X, st.To.Y, st.ScoreAfter)
	}
	if a := result.AttemptedTo; a != nil {
		passable := "passable"
		if !a.Passable {
			passable = "impassable"
		}
		fmt.Fprintf(&b, "Blocked: attempted (%d,%d) tile=%s (%s)\n", a.X, a.Y, a.TileChar, passable)
	}
	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(result *service.BulkMoveResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Executed %d/%d moves", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, " (truncated to %d)", result.Limit)
	}
	b.WriteString("\n")
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped: %s [%s]\n", result.StoppedReason, result.StopReasonCode)
	}
	fmt.Fprintf(&b, "Path: (%d,%d)→(%d,%d) | Score +%d | Pellets eaten: %d\n",
		result.StartPos.X, result.StartPos.Y, result.EndPos.X, result.EndPos.Y, result.ScoreDelta, result.PelletsEaten)

	for _, st := range result.Steps {
		mark := "✓"
		if !st.Success {
			mark = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s (%d,%d)→(%d,%d)\n", st.Idx, mark, st.Dir, st.From.X, st.From.Y, st.To.X, st.To.Y)
	}
	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(result.PossibleMoves, ", "))
	}
	if len(result.LocalView3x3) > 0 {
		b.WriteString("Around you:\n")
		for _, row := range result.LocalView3x3 {
			b.WriteString("  " + row + "\n")
		}
	}
	if result.GameOver {
		fmt.Fprintf(&b, "Game over: %s\n", result.GameOverCode)
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d), total %d moves\n\n", history.Page, history.TotalPages, history.TotalMoves)
	for _, move := range history.Moves {
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s (%d,%d)→(%d,%d) [Score: %d]\n", move.MoveNumber, move.Action, status,
			move.FromPosition.X, move.FromPosition.Y, move.ToPosition.X, move.ToPosition.Y, move.Score)
	}
	return b.String()
}
