// Package config provides configuration management for the ghost maze server.
//
// The config package handles:
//   - Loading maze configurations from JSON files
//   - Caching, listing and saving maze configurations
//   - Default configuration selection
//   - The JSON schema of a maze configuration
//   - Server settings read from TOML
//
// Configuration Format:
//
// Maze configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - The layout, one string per row (' ' ground, '#' wall, '.' pellet,
//     'P' start, 'G' next ghost, 'B' 'K' 'I' 'C' 'W' specific ghosts)
//   - The pellet value and collision mode
//   - Optional per-ghost move intervals
//   - Messages for welcome, victory, defeat and blocked moves
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	mazeConfig, err := manager.LoadConfig("classic")
//
//	// Server settings, defaults when the file is missing
//	settings, err := config.LoadSettings(config.DefaultSettingsFile, true)
package config
