// Package route holds the Route value object: an ordered list of grid
// positions from origin to destination that a robot consumes step by step.
package route

import (
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/pkg/errs"
)

// ErrRouteIsEmpty is returned when building a route without points.
var ErrRouteIsEmpty = errs.NewValueIsRequiredError("route points")

// Route is an immutable, non-empty sequence of positions. The first point is
// the origin and the last is the destination. The zero value is an empty
// route, used to mean "no route attached".
type Route struct {
	points []kernel.Position
}

// NewRoute copies points into a Route.
func NewRoute(points []kernel.Position) (Route, error) {
	if len(points) == 0 {
		return Route{}, ErrRouteIsEmpty
	}
	return Route{points: append([]kernel.Position(nil), points...)}, nil
}

// Len returns the number of points, including the origin.
func (r Route) Len() int {
	return len(r.points)
}

// IsEmpty reports whether the route has no points.
func (r Route) IsEmpty() bool {
	return len(r.points) == 0
}

// Steps returns the number of moves needed to walk the route. A single-point
// route has zero steps.
func (r Route) Steps() int {
	if len(r.points) == 0 {
		return 0
	}
	return len(r.points) - 1
}

// At returns the point at index i. It panics on an out-of-range index, like
// slice indexing does.
func (r Route) At(i int) kernel.Position {
	return r.points[i]
}

func (r Route) Origin() kernel.Position {
	return r.points[0]
}

func (r Route) Destination() kernel.Position {
	return r.points[len(r.points)-1]
}

// Points returns a copy of the route's positions.
func (r Route) Points() []kernel.Position {
	return append([]kernel.Position(nil), r.points...)
}

// Equal reports whether both routes visit the same points in the same order.
func (r Route) Equal(other Route) bool {
	if len(r.points) != len(other.points) {
		return false
	}
	for i := range r.points {
		if r.points[i] != other.points[i] {
			return false
		}
	}
	return true
}

// Length returns the euclidean length of the polyline through all points.
func (r Route) Length() float64 {
	var total float64
	for i := 1; i < len(r.points); i++ {
		total += r.points[i-1].Euclidean(r.points[i])
	}
	return total
}
