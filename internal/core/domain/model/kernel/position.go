package kernel

import (
	"errors"
	"fmt"
	"math"

	"robodelivery/internal/pkg/errs"
)

// Position is a cell coordinate on the restaurant floor grid. X grows to the
// east (columns), Y grows to the south (rows). Whether a position lies inside
// a particular floor is decided by the grid, not here; a Position only
// guarantees non-negative coordinates.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewPosition validates and builds a Position.
func NewPosition(x, y int) (Position, error) {
	var xErr, yErr error
	if x < 0 {
		xErr = errs.NewValueIsOutOfRangeError("x", x, 0, math.MaxInt)
	}
	if y < 0 {
		yErr = errs.NewValueIsOutOfRangeError("y", y, 0, math.MaxInt)
	}
	if err := errors.Join(xErr, yErr); err != nil {
		return Position{}, err
	}
	return Position{X: x, Y: y}, nil
}

// Equal reports whether both coordinates match.
func (p Position) Equal(other Position) bool {
	return p == other
}

// Manhattan returns |dx|+|dy|, the number of orthogonal steps between two
// cells on an obstacle-free floor.
func (p Position) Manhattan(other Position) int {
	return absInt(p.X-other.X) + absInt(p.Y-other.Y)
}

// Euclidean returns the straight-line distance, used for odometry once a
// route has been reduced to waypoints that are no longer adjacent.
func (p Position) Euclidean(other Position) float64 {
	return math.Hypot(float64(p.X-other.X), float64(p.Y-other.Y))
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
