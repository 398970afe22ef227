// Package grid models the static walkability map of the restaurant floor.
package grid

import (
	"fmt"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/pkg/errs"
)

// Cell codes. Any code other than Walkable blocks movement.
const (
	Walkable = 0
	Obstacle = 1
)

// ErrGridIsEmpty is returned for a matrix without rows or columns.
var ErrGridIsEmpty = errs.NewValueIsInvalidError("grid must have at least one row and one column")

// Grid is an immutable rectangular matrix of cell codes indexed [y][x].
// It is safe for concurrent reads and is shared by every path search.
type Grid struct {
	cells  [][]int
	width  int
	height int
}

// NewGrid copies cells into a Grid. The matrix must be non-empty and
// rectangular; construction fails without building a partial grid otherwise.
func NewGrid(cells [][]int) (*Grid, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, ErrGridIsEmpty
	}

	width := len(cells[0])
	copied := make([][]int, len(cells))
	for y, row := range cells {
		if len(row) != width {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"grid is not rectangular",
				fmt.Errorf("row %d has %d cells, expected %d", y, len(row), width),
			)
		}
		copied[y] = append([]int(nil), row...)
	}

	return &Grid{
		cells:  copied,
		width:  width,
		height: len(cells),
	}, nil
}

func (g *Grid) Width() int {
	return g.width
}

func (g *Grid) Height() int {
	return g.height
}

// IsInBounds reports whether pos lies in [0,width) x [0,height).
func (g *Grid) IsInBounds(pos kernel.Position) bool {
	return pos.X >= 0 && pos.X < g.width && pos.Y >= 0 && pos.Y < g.height
}

// IsWalkable reports whether pos is in bounds and holds the Walkable code.
func (g *Grid) IsWalkable(pos kernel.Position) bool {
	return g.IsInBounds(pos) && g.cells[pos.Y][pos.X] == Walkable
}

// orthogonal lists neighbour offsets in a fixed order (north, east, south,
// west) so that searches expand cells deterministically.
var orthogonal = [4]kernel.Position{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

// Neighbors returns the walkable cells orthogonally adjacent to pos.
// Diagonal moves are not allowed.
func (g *Grid) Neighbors(pos kernel.Position) []kernel.Position {
	out := make([]kernel.Position, 0, len(orthogonal))
	for _, d := range orthogonal {
		next := kernel.Position{X: pos.X + d.X, Y: pos.Y + d.Y}
		if g.IsWalkable(next) {
			out = append(out, next)
		}
	}
	return out
}

// Cells returns a copy of the matrix, for persistence and display.
func (g *Grid) Cells() [][]int {
	out := make([][]int, g.height)
	for y, row := range g.cells {
		out[y] = append([]int(nil), row...)
	}
	return out
}
