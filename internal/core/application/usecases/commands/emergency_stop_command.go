package commands

import (
	"errors"

	"robodelivery/internal/pkg/guard"
)

var ErrEmergencyStopCommandIsNotConstructed = errors.New(
	"EmergencyStopCommand must be created via NewEmergencyStopCommand constructor",
)

// EmergencyStopCommand halts every robot that is on a task.
type EmergencyStopCommand struct {
	guard guard.ConstructorGuard
}

func NewEmergencyStopCommand() EmergencyStopCommand {
	return EmergencyStopCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c *EmergencyStopCommand) Validate() error {
	return c.guard.Validate(ErrEmergencyStopCommandIsNotConstructed)
}
