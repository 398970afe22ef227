package kernel

import (
	"fmt"

	"robodelivery/internal/pkg/errs"
)

// Direction is the way a robot faces on the floor.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var directionNames = map[Direction]string{
	North: "north",
	East:  "east",
	South: "south",
	West:  "west",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "unknown"
}

func (d Direction) Validate() error {
	if _, ok := directionNames[d]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("direction", fmt.Errorf("%d is not a valid direction", d))
	}
	return nil
}

// ParseDirection is the inverse of String.
func ParseDirection(s string) (Direction, error) {
	for d, name := range directionNames {
		if name == s {
			return d, nil
		}
	}
	return North, errs.NewValueIsInvalidErrorWithCause("direction", fmt.Errorf("%q is not a valid direction", s))
}

// DirectionBetween returns the facing of a robot that moved from one position
// to another. The dominant axis wins: a larger horizontal delta faces east or
// west, otherwise the robot faces south (y grows) or north. Ties go to the
// vertical axis. A zero move keeps the current facing.
func DirectionBetween(from, to Position, current Direction) Direction {
	dx := to.X - from.X
	dy := to.Y - from.Y
	switch {
	case dx == 0 && dy == 0:
		return current
	case absInt(dx) > absInt(dy):
		if dx > 0 {
			return East
		}
		return West
	default:
		if dy > 0 {
			return South
		}
		return North
	}
}
