package commands

import (
	"context"
)

// SetServiceModeCommandHandler applies operator actions. Robots on a task
// are refused with robot.ErrRobotIsBusy; stop them first.
type SetServiceModeCommandHandler struct {
	uowFactory RobotUoWFactory
	locks      *RobotLocks
}

func NewSetServiceModeCommandHandler(uowFactory RobotUoWFactory, locks *RobotLocks) SetServiceModeCommandHandler {
	return SetServiceModeCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

func (h SetServiceModeCommandHandler) Handle(ctx context.Context, cmd SetServiceModeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	unlock := h.locks.Lock(cmd.RobotID())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	robotRepo := uow.RobotRepository()

	r, err := robotRepo.Get(ctx, cmd.RobotID())
	if err != nil {
		return err
	}

	if err = r.SetServiceMode(cmd.Mode()); err != nil {
		return err
	}
	if active, ok := cmd.Active(); ok {
		if active {
			r.Activate()
		} else if err = r.Deactivate(); err != nil {
			return err
		}
	}

	if err = robotRepo.Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
