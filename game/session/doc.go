// Package session keeps the live ghost maze games of a server process.
//
// A Manager maps short ids to sessions. Each session owns one
// engine.GameEngine built from the maze config it was created with, and
// nothing else: there is no store behind the map, so every game ends with
// the process.
//
// Ids are four lowercase hex characters drawn from crypto/rand, short
// enough to type into a tool call. Create accepts a caller-chosen id and
// fails if it is taken; GetOrCreate reuses it instead.
//
// Removing a session stops its engine, so no ghost goroutine outlives the
// session that ran it. Delete does this for one id, CleanupExpiredSessions
// for every session idle longer than maxAge since its last
// UpdateLastAccessed. StopAll halts every engine at shutdown without
// emptying the map. Ids are matched case-insensitively.
//
// RunCleanup runs the expiry sweep on a ticker and returns when ctx is
// done, which makes it a natural errgroup member:
//
//	g.Go(func() error { return manager.RunCleanup(ctx, time.Hour, 5*time.Minute) })
//
// The manager reports the number of live sessions to the active sessions
// gauge of the observability package.
package session
