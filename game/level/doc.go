// Package level orchestrates a single maze: its board, players, ghosts,
// collisions and win/loss detection.
//
// A Level is either stopped or running. Start requires a living player and
// at least one pellet; while running, every ghost has its own timed task
// that decides a direction and hands it to a dispatcher goroutine, which
// applies it through Move. Player moves call Move directly. All moves are
// serialized by the level's move lock, so reading the destination, placing
// the mover, resolving collisions and checking for a win or loss happen as
// one step. Start and Stop are serialized by a separate lock.
//
// Usage:
//
//	parser := level.NewMapParser(level.NewFactory(nil, level.PelletValue, level.CollisionsInteractionMap))
//	lvl, err := parser.ParseRows([]string{
//		"#######",
//		"#P..G.#",
//		"#######",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	player := level.NewPlayer("pac")
//	if err := lvl.RegisterPlayer(player); err != nil {
//		log.Fatal(err)
//	}
//	lvl.AddObserver(myObserver)
//	lvl.Start()
//	lvl.Move(player, board.East)
//	lvl.Stop()
//
// Outcomes:
//
// The level is lost when no registered player is alive and won when no
// pellet remains. Either outcome stops the ghosts and is reported once to
// every Observer, after the move lock has been released.
package level
