package commands

import (
	"errors"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/pkg/guard"
)

var ErrCompleteReturnCommandIsNotConstructed = errors.New(
	"CompleteReturnCommand must be created via NewCompleteReturnCommand constructor",
)

// CompleteReturnCommand parks a robot that finished its return route.
type CompleteReturnCommand struct { //nolint:recvcheck //using for validation
	robotID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCompleteReturnCommand(robotID kernel.UUID) (CompleteReturnCommand, error) {
	if err := robotID.Validate(); err != nil {
		return CompleteReturnCommand{}, err
	}
	return CompleteReturnCommand{
		robotID: robotID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteReturnCommand) Validate() error {
	return c.guard.Validate(ErrCompleteReturnCommandIsNotConstructed)
}

func (c CompleteReturnCommand) RobotID() kernel.UUID {
	return c.robotID
}
