package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedGrid is returned when a grid cannot form a board
var ErrMalformedGrid = errors.New("malformed grid")

// Board is a rectangular, toroidally linked grid of squares
type Board struct {
	grid   [][]*Square
	width  int
	height int
}

// NewBoard builds a board from rows of squares, grid[y][x]. The grid must be
// non-empty and rectangular with no nil squares. Every square is linked to
// its four neighbours, wrapping around the edges.
func NewBoard(grid [][]*Square) (*Board, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrMalformedGrid)
	}
	height := len(grid)
	width := len(grid[0])

	rows := make([][]*Square, height)
	for y, row := range grid {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d squares, expected %d", ErrMalformedGrid, y, len(row), width)
		}
		for x, sq := range row {
			if sq == nil {
				return nil, fmt.Errorf("%w: missing square at (%d,%d)", ErrMalformedGrid, x, y)
			}
		}
		rows[y] = append([]*Square(nil), row...)
	}

	b := &Board{grid: rows, width: width, height: height}
	for y, row := range rows {
		for x, sq := range row {
			sq.x, sq.y = x, y
			for _, d := range Directions {
				dx, dy := d.Delta()
				nx := (width + x + dx) % width
				ny := (height + y + dy) % height
				sq.neighbours[d] = rows[ny][nx]
			}
		}
	}
	return b, nil
}

// Width returns the number of columns
func (b *Board) Width() int { return b.width }

// Height returns the number of rows
func (b *Board) Height() int { return b.height }

// WithinBorders reports whether (x, y) lies on the board
func (b *Board) WithinBorders(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// SquareAt returns the square at (x, y), or nil when out of bounds
func (b *Board) SquareAt(x, y int) *Square {
	if !b.WithinBorders(x, y) {
		return nil
	}
	return b.grid[y][x]
}

// Squares returns every square in row-major order
func (b *Board) Squares() []*Square {
	out := make([]*Square, 0, b.width*b.height)
	for _, row := range b.grid {
		out = append(out, row...)
	}
	return out
}

// Units returns every unit on the board in row-major, entry order
func (b *Board) Units() []Unit {
	var units []Unit
	for _, row := range b.grid {
		for _, sq := range row {
			units = append(units, sq.Occupants()...)
		}
	}
	return units
}

// String renders terrain symbols, one line per row
func (b *Board) String() string {
	var sb strings.Builder
	for y, row := range b.grid {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, sq := range row {
			sb.WriteRune(sq.terrain.Symbol())
		}
	}
	return sb.String()
}
