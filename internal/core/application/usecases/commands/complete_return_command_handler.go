package commands

import (
	"context"
	"time"

	"robodelivery/internal/core/domain/events"
	"robodelivery/internal/core/domain/model/layout"
	"robodelivery/internal/core/domain/model/robot"
)

type CompleteReturnResult struct {
	// Parked is false when the robot was not at the end of a return route.
	Parked bool
	Events []events.Event
}

// CompleteReturnCommandHandler puts a robot back at the depot as idle.
type CompleteReturnCommandHandler struct {
	uowFactory RobotUoWFactory
	locks      *RobotLocks
	floor      *layout.Layout
	now        func() time.Time
}

func NewCompleteReturnCommandHandler(
	uowFactory RobotUoWFactory,
	locks *RobotLocks,
	floor *layout.Layout,
	now func() time.Time,
) CompleteReturnCommandHandler {
	return CompleteReturnCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		floor:      floor,
		now:        now,
	}
}

func (h CompleteReturnCommandHandler) Handle(ctx context.Context, cmd CompleteReturnCommand) (CompleteReturnResult, error) {
	if err := cmd.Validate(); err != nil {
		return CompleteReturnResult{}, err
	}

	unlock := h.locks.Lock(cmd.RobotID())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CompleteReturnResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	robotRepo := uow.RobotRepository()

	r, err := robotRepo.Get(ctx, cmd.RobotID())
	if err != nil {
		return CompleteReturnResult{}, err
	}
	if r.Status() != robot.Returning || !r.RouteExhausted() {
		return CompleteReturnResult{}, nil
	}

	if err = r.CompleteReturn(h.floor.Depot()); err != nil {
		return CompleteReturnResult{}, err
	}

	if err = robotRepo.Update(ctx, r); err != nil {
		return CompleteReturnResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CompleteReturnResult{}, err
	}

	return CompleteReturnResult{
		Parked: true,
		Events: []events.Event{events.Idle(r.ID(), h.now())},
	}, nil
}
