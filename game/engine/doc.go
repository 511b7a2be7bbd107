// Package engine wraps a maze level into a playable single-player game.
//
// The engine package implements:
//   - Map configuration loading and validation
//   - Game lifecycle on top of a level (start, stop, reset)
//   - Player movement with messages and move history
//   - Consistent state snapshots for the API and transports
//   - An autopilot that heads for the nearest pellet
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is a snapshot of a game, while
// MapConfig defines the maze layout, ghost timings and messages loaded
// from JSON files.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.Start()
//	defer gameEngine.Stop()
//
//	// Move the player
//	success := gameEngine.Move("up")
//	state := gameEngine.GetState()
//
// Game Rules:
//
// The player walks a wrapping maze eating pellets while ghosts hunt it,
// each with its own strategy. The game is won when the last pellet is
// eaten and lost when a ghost and the player share a square. Ghosts only
// move while the game is in progress.
package engine
