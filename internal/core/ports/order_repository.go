package ports

import (
	"context"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/order"
)

// OrderRepository gives access to the robot-delivery view of orders.
type OrderRepository interface {
	// Add persists a new order. Orders are normally created by the
	// order-management service; Add serves seeding and tests.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the status, robot slot and delivery time of an order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id, or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllReadyUnassigned returns Ready orders with no robot, oldest first.
	GetAllReadyUnassigned(ctx context.Context, limit int) ([]*order.Order, error)

	// GetAllInStatus returns orders in the given status.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
