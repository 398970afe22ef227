package commands

import (
	"context"

	"robodelivery/internal/core/domain/model/layout"
	"robodelivery/internal/core/domain/model/robot"
)

// CreateRobotCommandHandler provisions robots idle at the depot.
type CreateRobotCommandHandler struct {
	uowFactory RobotUoWFactory
	floor      *layout.Layout
}

func NewCreateRobotCommandHandler(uowFactory RobotUoWFactory, floor *layout.Layout) CreateRobotCommandHandler {
	return CreateRobotCommandHandler{
		uowFactory: uowFactory,
		floor:      floor,
	}
}

func (h CreateRobotCommandHandler) Handle(ctx context.Context, cmd CreateRobotCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	r, err := robot.NewRobot(cmd.RobotID(), cmd.Name(), cmd.Battery(), h.floor.Depot())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.RobotRepository().Add(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
