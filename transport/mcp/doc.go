// Package mcp provides a Model Context Protocol server for the ghost maze.
//
// The server is a thin client of the REST API: every tool call becomes an
// HTTP request against the api package's routes and the JSON response is
// rendered as text for the agent.
//
// MCP Tools:
//   - create_session, get_session, list_sessions
//   - start_game, stop_game, reset_game
//   - game_state, move, bulk_move, autopilot, move_history
//   - list_configs, describe_cell, game_instructions
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: client.Handler() serves streamable HTTP, mounted at /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server := api.NewServer(svc, hub, api.WithMCPHandler(client.Handler()))
package mcp
