// Package queries contains read operations for retrieving fleet state.
// Queries return flat read models for dashboards and operators and never
// change anything.
package queries

import (
	"errors"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/pkg/guard"
)

var ErrGetFleetQueryIsNotConstructed = errors.New(
	"GetFleetQuery must be created via NewGetFleetQuery constructor",
)

// GetFleetQuery retrieves a snapshot of every robot.
//
// Example:
//
//	query := NewGetFleetQuery()
//	robots, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve fleet: %w", err)
//	}
type GetFleetQuery struct {
	guard guard.ConstructorGuard
}

func NewGetFleetQuery() GetFleetQuery {
	return GetFleetQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetFleetQuery) Validate() error {
	return q.guard.Validate(ErrGetFleetQueryIsNotConstructed)
}

// GetFleetQueryResponse is the read model of one robot.
type GetFleetQueryResponse struct {
	ID         kernel.UUID
	Name       string
	Status     string
	Position   kernel.Position
	Facing     string
	Battery    int
	Active     bool
	OrderID    *kernel.UUID
	Progress   float64
	Deliveries int
	Distance   float64
}
