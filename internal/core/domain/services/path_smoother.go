package services

import (
	"math"

	"robodelivery/internal/core/domain/model/grid"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/route"
	"robodelivery/internal/pkg/errs"
)

// PathSmoother drops route points that can be skipped by driving straight.
// It is safe for concurrent use.
type PathSmoother struct {
	grid *grid.Grid
}

func NewPathSmoother(g *grid.Grid) (*PathSmoother, error) {
	if g == nil {
		return nil, errs.NewValueIsRequiredError("grid")
	}
	return &PathSmoother{grid: g}, nil
}

// Smooth returns the subsequence of r that keeps the first and last point and,
// from each kept point, jumps to the farthest later point still in line of
// sight. Routes of two points or fewer are returned unchanged. Applying Smooth
// to its own output returns the same route.
func (s *PathSmoother) Smooth(r route.Route) route.Route {
	if r.Len() <= 2 {
		return r
	}

	points := r.Points()
	waypoints := []kernel.Position{points[0]}

	anchor := 0
	last := len(points) - 1
	for anchor < last {
		next := anchor + 1
		for i := last; i > anchor+1; i-- {
			if s.LineOfSight(points[anchor], points[i]) {
				next = i
				break
			}
		}
		waypoints = append(waypoints, points[next])
		anchor = next
	}

	smoothed, _ := route.NewRoute(waypoints)
	return smoothed
}

// LineOfSight reports whether the straight segment from a to b crosses only
// walkable cells. The segment is sampled max(|dx|,|dy|) times and every
// sample is rounded to the nearest cell.
func (s *PathSmoother) LineOfSight(a, b kernel.Position) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	steps := max(absInt(dx), absInt(dy))
	if steps == 0 {
		return s.grid.IsWalkable(a)
	}

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		cell := kernel.Position{
			X: int(math.Round(float64(a.X) + t*float64(dx))),
			Y: int(math.Round(float64(a.Y) + t*float64(dy))),
		}
		if !s.grid.IsWalkable(cell) {
			return false
		}
	}
	return true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
