// Package board provides the grid graph and entity model of the maze.
//
// A Board is an immutable rectangular lattice of squares. Every square is
// linked to its four neighbours at construction time with toroidal
// wraparound, so Square.Neighbour is total: walking off the east edge lands
// on the west edge of the same row.
//
// Core Types:
//
// Square holds a terrain and the ordered list of units standing on it.
// Terrain decides which units may enter a square (Ground admits everyone,
// Wall nobody). Unit is the contract shared by players, ghosts and pellets;
// concrete units embed *Base, which carries identity, kind, facing and the
// current square. Kind is a tagged enumeration with an explicit lineage per
// kind, used by collision dispatch and navigation queries.
//
// Usage:
//
//	grid := [][]*board.Square{
//		{board.NewSquare(board.Wall), board.NewSquare(board.Ground)},
//		{board.NewSquare(board.Ground), board.NewSquare(board.Ground)},
//	}
//	b, err := board.NewBoard(grid)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	unit := board.NewBase(board.KindPellet)
//	if err := board.Occupy(unit, b.SquareAt(1, 1)); err != nil {
//		log.Fatal(err)
//	}
//
// Placement:
//
// Occupy and Leave are the only way a unit changes square. They keep the
// pairing between a unit's recorded square and that square's occupant list.
// A broken pairing is a programming error and panics with ErrInvariant.
package board
