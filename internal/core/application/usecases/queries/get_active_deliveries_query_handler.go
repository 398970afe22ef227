package queries

import (
	"context"

	"robodelivery/internal/core/domain/model/order"
)

// DeliveryReader is the part of the order repository the deliveries query needs.
type DeliveryReader interface {
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}

type GetActiveDeliveriesQueryHandler struct {
	reader DeliveryReader
}

func NewGetActiveDeliveriesQueryHandler(reader DeliveryReader) GetActiveDeliveriesQueryHandler {
	return GetActiveDeliveriesQueryHandler{reader: reader}
}

// Handle returns every order in RobotDelivering with its robot.
func (h GetActiveDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetActiveDeliveriesQuery,
) ([]GetActiveDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.reader.GetAllInStatus(ctx, order.RobotDelivering)
	if err != nil {
		return nil, err
	}

	deliveries := make([]GetActiveDeliveriesQueryResponse, 0, len(orders))
	for _, o := range orders {
		robotID := o.Robot()
		if robotID == nil {
			continue
		}
		dest := o.Destination()
		deliveries = append(deliveries, GetActiveDeliveriesQueryResponse{
			OrderID: o.ID(),
			RobotID: *robotID,
			TableID: dest.TableID(),
			Address: dest.Address(),
		})
	}

	return deliveries, nil
}
