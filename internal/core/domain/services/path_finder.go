package services

import (
	"container/heap"

	"robodelivery/internal/core/domain/model/grid"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/route"
	"robodelivery/internal/pkg/errs"
)

// stepCost is the uniform cost of one orthogonal move.
const stepCost = 1

// pathNode is owned by a single search and dropped once the path is built.
type pathNode struct {
	pos    kernel.Position
	g      int
	h      int
	f      int
	parent *pathNode
	// seq is the insertion order, used to break f ties first-in first-out.
	seq   int
	index int
}

type openSet []*pathNode

func (s openSet) Len() int { return len(s) }
func (s openSet) Less(i, j int) bool {
	if s[i].f != s[j].f {
		return s[i].f < s[j].f
	}
	return s[i].seq < s[j].seq
}
func (s openSet) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
	s[i].index = i
	s[j].index = j
}
func (s *openSet) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*s)
	*s = append(*s, n)
}
func (s *openSet) Pop() any {
	old := *s
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	x.index = -1
	*s = old[:n-1]
	return x
}

// PathFinder runs A* searches over one grid. It holds no per-search state
// and is safe for concurrent use.
//
// Search rules:
//   - moves are orthogonal with a cost of 1
//   - the heuristic is the Manhattan distance, so returned paths are shortest
//   - open nodes with equal f are expanded in insertion order
//   - a node reached again through a cheaper g is updated in place
//   - closed nodes are never reopened
type PathFinder struct {
	grid *grid.Grid
}

// NewPathFinder builds a finder for g.
func NewPathFinder(g *grid.Grid) (*PathFinder, error) {
	if g == nil {
		return nil, errs.NewValueIsRequiredError("grid")
	}
	return &PathFinder{grid: g}, nil
}

// FindPath returns the cell-by-cell shortest route from start to goal, both
// included. The boolean is false when either end is out of bounds or blocked
// or when the goal can not be reached; this is a normal outcome, not an error.
func (f *PathFinder) FindPath(start, goal kernel.Position) (route.Route, bool) {
	if !f.grid.IsWalkable(start) || !f.grid.IsWalkable(goal) {
		return route.Route{}, false
	}

	var (
		open   openSet
		opened = make(map[kernel.Position]*pathNode)
		closed = make(map[kernel.Position]struct{})
		seq    int
	)

	push := func(n *pathNode) {
		n.seq = seq
		seq++
		heap.Push(&open, n)
		opened[n.pos] = n
	}

	h := start.Manhattan(goal)
	push(&pathNode{pos: start, h: h, f: h})

	for open.Len() > 0 {
		current := heap.Pop(&open).(*pathNode)
		delete(opened, current.pos)

		if current.pos == goal {
			return reconstruct(current), true
		}
		closed[current.pos] = struct{}{}

		for _, next := range f.grid.Neighbors(current.pos) {
			if _, done := closed[next]; done {
				continue
			}

			g := current.g + stepCost
			if n, ok := opened[next]; ok {
				if g < n.g {
					n.g = g
					n.f = g + n.h
					n.parent = current
					heap.Fix(&open, n.index)
				}
				continue
			}

			h := next.Manhattan(goal)
			push(&pathNode{pos: next, g: g, h: h, f: g + h, parent: current})
		}
	}

	return route.Route{}, false
}

func reconstruct(end *pathNode) route.Route {
	var points []kernel.Position
	for n := end; n != nil; n = n.parent {
		points = append(points, n.pos)
	}
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	r, _ := route.NewRoute(points)
	return r
}
