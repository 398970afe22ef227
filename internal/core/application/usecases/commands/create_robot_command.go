package commands

import (
	"errors"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/pkg/errs"
	"robodelivery/internal/pkg/guard"
)

var (
	ErrCreateRobotCommandIsNotConstructed = errors.New(
		"CreateRobotCommand must be created via NewCreateRobotCommand constructor",
	)
	ErrNameIsRequired = errors.New("name is required")
)

// CreateRobotCommand provisions a new robot at the depot.
//
// Example:
//
//	cmd, err := NewCreateRobotCommand(kernel.NewUUID(), "R2", 100)
//	if err != nil {
//	    return fmt.Errorf("invalid robot data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create robot: %w", err)
//	}
type CreateRobotCommand struct { //nolint:recvcheck //using for validation
	robotID kernel.UUID
	name    string
	battery int

	guard guard.ConstructorGuard
}

func NewCreateRobotCommand(robotID kernel.UUID, name string, battery int) (CreateRobotCommand, error) {
	cmd := CreateRobotCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRobotID(robotID),
		cmd.setName(name),
		cmd.setBattery(battery),
	); err != nil {
		return CreateRobotCommand{}, err
	}

	return cmd, nil
}

func (c CreateRobotCommand) Validate() error {
	return c.guard.Validate(ErrCreateRobotCommandIsNotConstructed)
}

func (c CreateRobotCommand) RobotID() kernel.UUID {
	return c.robotID
}

func (c CreateRobotCommand) Name() string {
	return c.name
}

func (c CreateRobotCommand) Battery() int {
	return c.battery
}

func (c *CreateRobotCommand) setRobotID(robotID kernel.UUID) error {
	if err := robotID.Validate(); err != nil {
		return err
	}
	c.robotID = robotID
	return nil
}

func (c *CreateRobotCommand) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *CreateRobotCommand) setBattery(battery int) error {
	if battery < robot.MinBattery || battery > robot.MaxBattery {
		return errs.NewValueIsOutOfRangeError("battery", battery, robot.MinBattery, robot.MaxBattery)
	}
	c.battery = battery
	return nil
}
