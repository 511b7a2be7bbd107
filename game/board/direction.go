package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDirection is returned for input that names no direction
var ErrUnknownDirection = errors.New("unknown direction")

// Direction is one of the four compass directions on the board
type Direction int

const (
	North Direction = iota
	South
	West
	East
)

// Directions lists every direction in enumeration order. Searches expand
// neighbours in this order, which makes equal-length paths deterministic.
var Directions = [...]Direction{North, South, West, East}

var directionDeltas = [...][2]int{
	North: {0, -1},
	South: {0, 1},
	West:  {-1, 0},
	East:  {1, 0},
}

var directionNames = [...]string{
	North: "north",
	South: "south",
	West:  "west",
	East:  "east",
}

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	return d >= North && d <= East
}

// Delta returns the coordinate offset of a single step in d
func (d Direction) Delta() (dx, dy int) {
	delta := directionDeltas[d]
	return delta[0], delta[1]
}

// Opposite returns the direction pointing the other way
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case West:
		return East
	default:
		return West
	}
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// MarshalText encodes the direction by name
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts any spelling understood by ParseDirection
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection converts user input to a Direction. Compass names,
// screen-relative names and their initials are accepted.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "up", "n", "u":
		return North, nil
	case "south", "down", "s", "d":
		return South, nil
	case "west", "left", "w", "l":
		return West, nil
	case "east", "right", "e", "r":
		return East, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}
