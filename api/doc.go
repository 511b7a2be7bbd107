// Package api provides the HTTP REST API for the ghost maze server.
//
// The api package implements:
//   - Session management endpoints
//   - Game lifecycle (start, stop, reset) and moves
//   - Configuration listing, retrieval and upload
//   - WebSocket upgrade handling and websocket commands
//   - Health and Prometheus metrics endpoints
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Sessions for the multi-session view
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session and stop its ghosts
//
// Game Lifecycle:
//   - POST /api/sessions/{id}/start
//   - POST /api/sessions/{id}/stop
//   - POST /api/sessions/{id}/reset
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/move - {"direction": "up", "reset": false}
//   - POST /api/sessions/{id}/bulk-move - {"moves": ["up", "left"]}
//   - POST /api/sessions/{id}/autopilot - {"steps": 10}
//   - GET /api/sessions/{id}/history - Move history (?page=1&limit=20&order=desc)
//
// Configuration:
//   - GET /api/configs - List available mazes
//   - POST /api/configs - Save a maze
//   - GET /api/configs/schema - JSON schema of a maze file
//   - GET /api/configs/{name} - Get one maze
//
// Other:
//   - GET /health, GET /metrics, GET /ws?session={id}, /mcp (when mounted)
//
// Usage:
//
//	hub := websocket.NewHub(websocket.WithCommandHandler(api.CommandHandler(svc)))
//	go hub.Run(ctx)
//	server := api.NewServer(svc, hub, api.WithLogger(logger))
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON. Unknown sessions and mazes map to 404,
// bad directions and invalid mazes to 400, and starting a finished game to 409:
//
//	{"error": "session \"ab12\": session not found"}
//
// Move responses carry the step taken (or the attempted square when
// blocked) and events; bulk moves and autopilot report why they stopped
// (blocked, game_over, victory, defeat, cancelled, no_move) together
// with the possible moves and a 3x3 view around the player.
package api
