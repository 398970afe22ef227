package commands

import (
	"errors"
	"fmt"

	"robodelivery/internal/core/domain/model/kernel"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/pkg/errs"
	"robodelivery/internal/pkg/guard"
)

var ErrSetServiceModeCommandIsNotConstructed = errors.New(
	"SetServiceModeCommand must be created via NewSetServiceModeCommand constructor",
)

// SetServiceModeCommand is an operator action on one robot: put it on the
// charger, into maintenance or back into service, and optionally take it
// out of (or return it to) the assignable pool.
type SetServiceModeCommand struct { //nolint:recvcheck //using for validation
	robotID kernel.UUID
	mode    robot.Status
	active  *bool

	guard guard.ConstructorGuard
}

// NewSetServiceModeCommand builds the command. A nil active leaves the
// robot's active flag unchanged.
func NewSetServiceModeCommand(robotID kernel.UUID, mode robot.Status, active *bool) (SetServiceModeCommand, error) {
	var modeErr error
	if !mode.IsServiceMode() {
		modeErr = errs.NewValueIsInvalidErrorWithCause(
			"mode",
			fmt.Errorf("%s is not a service mode", mode),
		)
	}
	if err := errors.Join(robotID.Validate(), modeErr); err != nil {
		return SetServiceModeCommand{}, err
	}

	cmd := SetServiceModeCommand{
		robotID: robotID,
		mode:    mode,
		guard:   guard.NewConstructorGuard(),
	}
	if active != nil {
		a := *active
		cmd.active = &a
	}
	return cmd, nil
}

func (c SetServiceModeCommand) Validate() error {
	return c.guard.Validate(ErrSetServiceModeCommandIsNotConstructed)
}

func (c SetServiceModeCommand) RobotID() kernel.UUID {
	return c.robotID
}

func (c SetServiceModeCommand) Mode() robot.Status {
	return c.mode
}

// Active returns the requested active flag and whether one was given.
func (c SetServiceModeCommand) Active() (bool, bool) {
	if c.active == nil {
		return false, false
	}
	return *c.active, true
}
