// Package layout describes a restaurant floor: the walkability grid and the
// named locations robots travel between.
package layout

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"robodelivery/internal/core/domain/model/grid"
	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/order"
	"robodelivery/internal/pkg/errs"
)

var (
	ErrLayoutIDIsRequired = errs.NewValueIsRequiredError("layout id")
	ErrGridIsRequired     = errs.NewValueIsRequiredError("grid")
	// ErrAddressNotOnFloor is returned for destinations outside the restaurant.
	ErrAddressNotOnFloor = errs.NewValueIsInvalidError("address destinations are not on the floor")
)

// Layout is read-only after construction and shared by all planners.
type Layout struct {
	id               string
	grid             *grid.Grid
	depot            kernel.Position
	chargingStations []kernel.Position
	tables           map[string]kernel.Position
}

// NewLayout validates that every named location is a walkable cell of g.
func NewLayout(
	id string,
	g *grid.Grid,
	depot kernel.Position,
	chargingStations []kernel.Position,
	tables map[string]kernel.Position,
) (*Layout, error) {
	if id == "" {
		return nil, ErrLayoutIDIsRequired
	}
	if g == nil {
		return nil, ErrGridIsRequired
	}

	check := func(name string, p kernel.Position) error {
		if !g.IsWalkable(p) {
			return errs.NewValueIsInvalidErrorWithCause(
				name,
				fmt.Errorf("%s is not a walkable cell", p),
			)
		}
		return nil
	}

	var problems []error
	problems = append(problems, check("depot", depot))
	for i, s := range chargingStations {
		problems = append(problems, check(fmt.Sprintf("charging station %d", i), s))
	}
	for _, name := range slices.Sorted(maps.Keys(tables)) {
		if name == "" {
			problems = append(problems, errs.NewValueIsRequiredError("table id"))
			continue
		}
		problems = append(problems, check("table "+name, tables[name]))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Layout{
		id:               id,
		grid:             g,
		depot:            depot,
		chargingStations: slices.Clone(chargingStations),
		tables:           maps.Clone(tables),
	}, nil
}

func (l *Layout) ID() string {
	return l.id
}

func (l *Layout) Grid() *grid.Grid {
	return l.grid
}

// Depot is where robots load orders and park when idle.
func (l *Layout) Depot() kernel.Position {
	return l.depot
}

func (l *Layout) ChargingStations() []kernel.Position {
	return slices.Clone(l.chargingStations)
}

// Tables returns a copy of the table id to position map.
func (l *Layout) Tables() map[string]kernel.Position {
	return maps.Clone(l.tables)
}

// TablePosition looks up a table by id.
func (l *Layout) TablePosition(tableID string) (kernel.Position, error) {
	p, ok := l.tables[tableID]
	if !ok {
		return kernel.Position{}, errs.NewObjectNotFoundError("table", tableID)
	}
	return p, nil
}

// DestinationPosition resolves where on the floor an order has to go.
// Robots do not leave the floor, so address destinations are rejected.
func (l *Layout) DestinationPosition(dest order.Destination) (kernel.Position, error) {
	if !dest.IsTable() {
		return kernel.Position{}, ErrAddressNotOnFloor
	}
	return l.TablePosition(dest.TableID())
}
