package commands

import (
	"errors"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/order"
	"robodelivery/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand registers the robot-delivery view of an order coming
// from order management, optionally already Ready.
//
// Example:
//
//	dest, _ := order.TableDestination("T4")
//	cmd, err := NewCreateOrderCommand(orderID, dest, true)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	destination order.Destination
	ready       bool

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(orderID kernel.UUID, destination order.Destination, ready bool) (CreateOrderCommand, error) {
	var destErr error
	if destination == (order.Destination{}) {
		destErr = order.ErrDestinationIsRequired
	}
	if err := errors.Join(orderID.Validate(), destErr); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		orderID:     orderID,
		destination: destination,
		ready:       ready,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) Destination() order.Destination {
	return c.destination
}

// Ready reports whether the order is created already waiting for a robot.
func (c CreateOrderCommand) Ready() bool {
	return c.ready
}
