package queries

import (
	"context"

	"robodelivery/internal/core/domain/model/robot"
)

// FleetReader is the part of the robot repository the fleet query needs.
type FleetReader interface {
	GetAll(ctx context.Context) ([]*robot.Robot, error)
}

// GetFleetQueryHandler lists robots ordered by id.
type GetFleetQueryHandler struct {
	reader FleetReader
}

func NewGetFleetQueryHandler(reader FleetReader) GetFleetQueryHandler {
	return GetFleetQueryHandler{reader: reader}
}

func (h GetFleetQueryHandler) Handle(ctx context.Context, query GetFleetQuery) ([]GetFleetQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	robots, err := h.reader.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	fleet := make([]GetFleetQueryResponse, 0, len(robots))
	for _, r := range robots {
		fleet = append(fleet, GetFleetQueryResponse{
			ID:         r.ID(),
			Name:       r.Name(),
			Status:     r.Status().String(),
			Position:   r.Position(),
			Facing:     r.Facing().String(),
			Battery:    r.Battery(),
			Active:     r.IsActive(),
			OrderID:    r.OrderID(),
			Progress:   r.Progress(),
			Deliveries: r.Deliveries(),
			Distance:   r.Distance(),
		})
	}

	return fleet, nil
}
