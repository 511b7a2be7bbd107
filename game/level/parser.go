package level

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wricardo/ghostmaze/game/board"
	"github.com/wricardo/ghostmaze/game/npc"
)

// Map characters understood by MapParser
const (
	CharGround   = ' '
	CharWall     = '#'
	CharPellet   = '.'
	CharStart    = 'P'
	CharGhost    = 'G'
	CharBlinky   = 'B'
	CharInky     = 'I'
	CharPinky    = 'K'
	CharClyde    = 'C'
	CharWanderer = 'W'
)

var explicitGhosts = map[rune]board.Kind{
	CharBlinky:   board.KindBlinky,
	CharInky:     board.KindInky,
	CharPinky:    board.KindPinky,
	CharClyde:    board.KindClyde,
	CharWanderer: board.KindWanderer,
}

// MapParser turns a character grid into a populated level.
// 'G' takes the next ghost of the factory's cycle; the other ghost letters
// pick a specific kind. Ghosts, pellets and start squares sit on ground.
type MapParser struct {
	factory *Factory
}

// NewMapParser creates a parser that builds units with factory
func NewMapParser(factory *Factory) *MapParser {
	if factory == nil {
		factory = NewFactory(nil, PelletValue, CollisionsInteractionMap)
	}
	return &MapParser{factory: factory}
}

// ParseRows builds a level from rows of equal width
func (p *MapParser) ParseRows(rows []string) (*Level, error) {
	if err := CheckRows(rows); err != nil {
		return nil, err
	}

	var (
		grid   = make([][]*board.Square, len(rows))
		ghosts []*npc.Ghost
		starts []*board.Square
	)
	for y, row := range rows {
		for x, c := range []rune(row) {
			sq, err := p.addSquare(c, &ghosts, &starts)
			if err != nil {
				return nil, fmt.Errorf("%w: (%d,%d): %w", ErrMapConfig, x, y, err)
			}
			grid[y] = append(grid[y], sq)
		}
	}

	b, err := board.NewBoard(grid)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMapConfig, err)
	}
	return p.factory.CreateLevel(b, ghosts, starts)
}

func (p *MapParser) addSquare(c rune, ghosts *[]*npc.Ghost, starts *[]*board.Square) (*board.Square, error) {
	switch c {
	case CharGround:
		return board.NewSquare(board.Ground), nil
	case CharWall:
		return board.NewSquare(board.Wall), nil
	case CharPellet:
		sq := board.NewSquare(board.Ground)
		pellet, err := p.factory.CreatePellet()
		if err != nil {
			return nil, err
		}
		return sq, board.Occupy(pellet, sq)
	case CharStart:
		sq := board.NewSquare(board.Ground)
		*starts = append(*starts, sq)
		return sq, nil
	}

	var (
		ghost *npc.Ghost
		err   error
	)
	if c == CharGhost {
		ghost, err = p.factory.CreateGhost()
	} else if kind, ok := explicitGhosts[c]; ok {
		ghost, err = p.factory.CreateGhostOfKind(kind)
	} else {
		return nil, fmt.Errorf("unknown map character %q", c)
	}
	if err != nil {
		return nil, err
	}
	sq := board.NewSquare(board.Ground)
	if err := board.Occupy(ghost, sq); err != nil {
		return nil, err
	}
	*ghosts = append(*ghosts, ghost)
	return sq, nil
}

// Parse reads a map, one row per line. Trailing blank lines are ignored.
func (p *MapParser) Parse(r io.Reader) (*Level, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, err
	}
	return p.ParseRows(rows)
}

// ParseFile reads a map from a file
func (p *MapParser) ParseFile(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map %s: %w", path, err)
	}
	defer f.Close()
	return p.Parse(f)
}

// ReadRows splits a map into rows, dropping carriage returns and trailing
// blank lines.
func ReadRows(r io.Reader) ([]string, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		rows = append(rows, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}

// CheckRows verifies that rows form a non-empty rectangle
func CheckRows(rows []string) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: map is empty", ErrMapConfig)
	}
	width := len([]rune(rows[0]))
	if width == 0 {
		return fmt.Errorf("%w: first row is empty", ErrMapConfig)
	}
	for y, row := range rows {
		if n := len([]rune(row)); n != width {
			return fmt.Errorf("%w: row %d has width %d, expected %d", ErrMapConfig, y, n, width)
		}
	}
	return nil
}
