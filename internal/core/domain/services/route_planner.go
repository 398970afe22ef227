package services

import (
	"robodelivery/internal/core/domain/model/grid"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/route"
)

// RoutePlanner searches a shortest path and smooths it into the waypoint
// route a robot follows.
type RoutePlanner struct {
	finder   *PathFinder
	smoother *PathSmoother
}

// NewRoutePlanner builds the finder and smoother for one floor grid.
func NewRoutePlanner(g *grid.Grid) (*RoutePlanner, error) {
	finder, err := NewPathFinder(g)
	if err != nil {
		return nil, err
	}
	smoother, err := NewPathSmoother(g)
	if err != nil {
		return nil, err
	}
	return &RoutePlanner{finder: finder, smoother: smoother}, nil
}

// Plan returns the smoothed route from -> to, or false if there is none.
func (p *RoutePlanner) Plan(from, to kernel.Position) (route.Route, bool) {
	raw, ok := p.finder.FindPath(from, to)
	if !ok {
		return route.Route{}, false
	}
	return p.smoother.Smooth(raw), true
}
