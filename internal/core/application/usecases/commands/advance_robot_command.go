package commands

import (
	"errors"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/pkg/guard"
)

var ErrAdvanceRobotCommandIsNotConstructed = errors.New(
	"AdvanceRobotCommand must be created via NewAdvanceRobotCommand constructor",
)

// AdvanceRobotCommand moves one robot one waypoint along its route (a tick).
// A command built for a task only acts while the robot still carries that
// order.
type AdvanceRobotCommand struct { //nolint:recvcheck //using for validation
	robotID kernel.UUID
	orderID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewAdvanceRobotCommand(robotID kernel.UUID) (AdvanceRobotCommand, error) {
	if err := robotID.Validate(); err != nil {
		return AdvanceRobotCommand{}, err
	}
	return AdvanceRobotCommand{
		robotID: robotID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// NewAdvanceRobotTaskCommand ties the tick to the delivery of orderID.
func NewAdvanceRobotTaskCommand(robotID, orderID kernel.UUID) (AdvanceRobotCommand, error) {
	cmd, err := NewAdvanceRobotCommand(robotID)
	if err != nil {
		return AdvanceRobotCommand{}, err
	}
	if err = orderID.Validate(); err != nil {
		return AdvanceRobotCommand{}, err
	}
	cmd.orderID = &orderID
	return cmd, nil
}

func (c AdvanceRobotCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceRobotCommandIsNotConstructed)
}

func (c AdvanceRobotCommand) RobotID() kernel.UUID {
	return c.robotID
}

// OrderID returns the task the tick belongs to, if any.
func (c AdvanceRobotCommand) OrderID() (kernel.UUID, bool) {
	if c.orderID == nil {
		return kernel.UUID{}, false
	}
	return *c.orderID, true
}
