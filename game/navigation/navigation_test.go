package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/ghostmaze/game/board"
)

func buildBoard(t *testing.T, rows ...string) *board.Board {
	t.Helper()
	grid := make([][]*board.Square, len(rows))
	for y, row := range rows {
		for _, c := range row {
			terrain := board.Ground
			if c == '#' {
				terrain = board.Wall
			}
			grid[y] = append(grid[y], board.NewSquare(terrain))
		}
	}
	b, err := board.NewBoard(grid)
	require.NoError(t, err)
	return b
}

func place(t *testing.T, b *board.Board, kind board.Kind, x, y int) *board.Base {
	t.Helper()
	u := board.NewBase(kind)
	require.NoError(t, board.Occupy(u, b.SquareAt(x, y)))
	return u
}

func walk(start *board.Square, path []board.Direction) *board.Square {
	return FollowPath(start, path, 1)
}

func TestShortestPathToSelfIsEmpty(t *testing.T) {
	b := buildBoard(t, "   ", " # ")
	traveller := board.NewBase(board.KindPlayer)
	for _, sq := range b.Squares() {
		path, ok := ShortestPath(sq, sq, traveller)
		assert.True(t, ok)
		assert.NotNil(t, path)
		assert.Empty(t, path)
	}
}

func TestShortestPathAroundWall(t *testing.T) {
	b := buildBoard(t,
		"#####",
		"# # #",
		"#   #",
		"#####",
	)
	traveller := board.NewBase(board.KindPlayer)
	from, to := b.SquareAt(1, 1), b.SquareAt(3, 1)

	path, ok := ShortestPath(from, to, traveller)
	require.True(t, ok)
	assert.Equal(t, []board.Direction{board.South, board.East, board.East, board.North}, path)
	assert.Same(t, to, walk(from, path))
}

func TestShortestPathIgnoresTerrainWithoutTraveller(t *testing.T) {
	b := buildBoard(t,
		"#####",
		"# # #",
		"#   #",
		"#####",
	)
	path, ok := ShortestPath(b.SquareAt(1, 1), b.SquareAt(3, 1), nil)
	require.True(t, ok)
	assert.Equal(t, []board.Direction{board.East, board.East}, path)
}

func TestShortestPathUsesWraparound(t *testing.T) {
	b := buildBoard(t, "      ")
	path, ok := ShortestPath(b.SquareAt(0, 0), b.SquareAt(5, 0), board.NewBase(board.KindGhost))
	require.True(t, ok)
	assert.Equal(t, []board.Direction{board.West}, path)
}

func TestShortestPathTieBreakFollowsDirectionOrder(t *testing.T) {
	b := buildBoard(t,
		"     ",
		"     ",
		"     ",
		"     ",
		"     ",
	)
	path, ok := ShortestPath(b.SquareAt(1, 1), b.SquareAt(2, 2), nil)
	require.True(t, ok)
	// south is expanded before east
	assert.Equal(t, []board.Direction{board.South, board.East}, path)
}

func TestShortestPathUnreachable(t *testing.T) {
	b := buildBoard(t,
		"#####",
		"# # #",
		"#####",
	)
	traveller := board.NewBase(board.KindPlayer)
	path, ok := ShortestPath(b.SquareAt(1, 1), b.SquareAt(3, 1), traveller)
	assert.False(t, ok)
	assert.Nil(t, path)

	_, ok = ShortestPath(nil, b.SquareAt(1, 1), traveller)
	assert.False(t, ok)
}

func TestShortestPathNeverCrossesInaccessibleSquares(t *testing.T) {
	b := buildBoard(t,
		"   #    ",
		" # # ## ",
		" #   #  ",
		" ####  #",
		"    #   ",
	)
	traveller := board.NewBase(board.KindGhost)
	squares := b.Squares()

	for _, from := range squares {
		if !from.IsAccessibleTo(traveller) {
			continue
		}
		for _, to := range squares {
			path, ok := ShortestPath(from, to, traveller)
			if !to.IsAccessibleTo(traveller) {
				assert.False(t, ok, "%s -> %s", from, to)
				continue
			}
			if !ok {
				continue
			}
			sq := from
			for _, d := range path {
				sq = sq.Neighbour(d)
				require.True(t, sq.IsAccessibleTo(traveller), "%s -> %s crosses %s", from, to, sq)
			}
			assert.Same(t, to, sq)
		}
	}
}

func TestFindNearest(t *testing.T) {
	b := buildBoard(t,
		"#########",
		"#       #",
		"#########",
	)
	far := place(t, b, board.KindPlayer, 7, 1)
	near := place(t, b, board.KindPlayer, 3, 1)
	pellet := place(t, b, board.KindPellet, 2, 1)

	assert.Same(t, near, FindNearest(board.KindPlayer, b.SquareAt(1, 1)))
	assert.Same(t, far, FindNearest(board.KindPlayer, b.SquareAt(7, 1)))
	assert.Same(t, pellet, FindNearest(board.KindPellet, b.SquareAt(7, 1)))
	assert.Nil(t, FindNearest(board.KindGhost, b.SquareAt(1, 1)))
	assert.Nil(t, FindNearest(board.KindPlayer, nil))
}

func TestFindNearestMatchesLineage(t *testing.T) {
	b := buildBoard(t, "     ")
	clyde := place(t, b, board.KindClyde, 4, 0)

	assert.Same(t, clyde, FindNearest(board.KindGhost, b.SquareAt(1, 0)))
	assert.Nil(t, FindNearest(board.KindBlinky, b.SquareAt(1, 0)))
}

func TestFindUnitInBoard(t *testing.T) {
	b := buildBoard(t, "   ", "   ")
	assert.Nil(t, FindUnitInBoard(board.KindInky, b))
	inky := place(t, b, board.KindInky, 2, 1)
	assert.Same(t, inky, FindUnitInBoard(board.KindInky, b))
	assert.Same(t, inky, FindUnit(board.KindGhost, b.SquareAt(2, 1)))
}

func TestSquaresAheadOf(t *testing.T) {
	b := buildBoard(t, "  #   ")
	u := place(t, b, board.KindPlayer, 1, 0)

	assert.Same(t, b.SquareAt(1, 0), SquaresAheadOf(u, 0))
	assert.Same(t, b.SquareAt(3, 0), SquaresAheadOf(u, 2), "look-ahead crosses walls")
	assert.Same(t, b.SquareAt(1, 0), SquaresAheadOf(u, 6), "look-ahead wraps")

	u.SetDirection(board.West)
	assert.Same(t, b.SquareAt(5, 0), SquaresAheadOf(u, 2))

	assert.Nil(t, SquaresAheadOf(board.NewBase(board.KindPlayer), 2))
}

func TestFollowPathAndDistance(t *testing.T) {
	b := buildBoard(t, "     ", "     ", "     ")
	start := b.SquareAt(0, 0)
	end := FollowPath(start, []board.Direction{board.East, board.South, board.South}, 2)
	assert.Same(t, b.SquareAt(2, 1), end, "four rows down wraps to the middle row")

	assert.Equal(t, 0, Distance(start, start, nil))
	assert.Equal(t, 2, Distance(start, b.SquareAt(1, 1), nil))
}

func TestPathToNearest(t *testing.T) {
	b := buildBoard(t,
		"#######",
		"#   # #",
		"# # # #",
		"#######",
	)
	traveller := board.NewBase(board.KindPlayer)
	// closer as the crow flies, but behind a wall
	place(t, b, board.KindPellet, 5, 1)
	far := place(t, b, board.KindPellet, 3, 2)

	u, path := PathToNearest(board.KindPellet, b.SquareAt(1, 1), traveller)
	require.NotNil(t, u)
	assert.Equal(t, far.ID(), u.ID())
	assert.Same(t, b.SquareAt(3, 2), walk(b.SquareAt(1, 1), path))
	assert.Len(t, path, 3)

	u, path = PathToNearest(board.KindGhost, b.SquareAt(1, 1), traveller)
	assert.Nil(t, u)
	assert.Nil(t, path)
}

func TestPathToNearestSkipsStartingSquare(t *testing.T) {
	b := buildBoard(t, "    ")
	place(t, b, board.KindPellet, 0, 0)
	other := place(t, b, board.KindPellet, 2, 0)

	u, path := PathToNearest(board.KindPellet, b.SquareAt(0, 0), nil)
	require.NotNil(t, u)
	assert.Equal(t, other.ID(), u.ID())
	assert.Len(t, path, 2)
}

func TestReachable(t *testing.T) {
	b := buildBoard(t,
		"#####",
		"#  ##",
		"#####",
		"## ##",
	)
	traveller := board.NewBase(board.KindPlayer)

	squares := Reachable(b.SquareAt(1, 1), traveller)
	assert.Equal(t, []*board.Square{b.SquareAt(1, 1), b.SquareAt(2, 1)}, squares)

	assert.Len(t, Reachable(b.SquareAt(1, 1), nil), 20)
	assert.Nil(t, Reachable(nil, traveller))
}
