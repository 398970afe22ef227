package commands

import (
	"errors"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/pkg/guard"
)

var ErrAssignRobotCommandIsNotConstructed = errors.New(
	"AssignRobotCommand must be created via NewAssignRobotCommand constructor",
)

// AssignRobotCommand asks the fleet to deliver a ready order with a robot.
// It is the entry point behind the "order ready for robot delivery" signal.
//
// Example:
//
//	cmd, err := NewAssignRobotCommand(orderID)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type AssignRobotCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignRobotCommand(orderID kernel.UUID) (AssignRobotCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AssignRobotCommand{}, err
	}
	return AssignRobotCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignRobotCommand) Validate() error {
	return c.guard.Validate(ErrAssignRobotCommandIsNotConstructed)
}

func (c AssignRobotCommand) OrderID() kernel.UUID {
	return c.orderID
}
