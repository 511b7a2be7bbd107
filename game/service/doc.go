// Package service provides the business logic layer for the ghost maze game.
//
// The service package implements:
//   - Multi-session game management
//   - Game lifecycle (start, stop, reset)
//   - Move processing, bulk moves and the autopilot
//   - Move history pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages maze configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and
// the game engine. Each session owns its own engine, so ghosts of different
// sessions move independently. A StateObserver registered with
// WithStateObserver receives a snapshot after every change, including ghost
// moves made while nobody is calling the service.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithStateObserver(hub.BroadcastState))
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// The first move starts the ghosts
//	result, err := gameService.Move(ctx, info.ID, "left", false)
package service
